package handler

import (
	"cleaning-app/notification-service/internal/models"
	"cleaning-app/notification-service/internal/services"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
)

type NotificationHandler struct {
	service *services.NotificationService
}

func NewNotificationHandler(service *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

func (h *NotificationHandler) Register(router *mux.Router) {
	api := router.PathPrefix("/api/notifications").Subrouter()
	api.HandleFunc("", h.GetNotifications).Methods(http.MethodGet)
	api.HandleFunc("/unread-count", h.UnreadCount).Methods(http.MethodGet)
	api.HandleFunc("/read-all", h.MarkAllAsRead).Methods(http.MethodPut)
	api.HandleFunc("/{id}/read", h.MarkAsRead).Methods(http.MethodPut)
	api.HandleFunc("/{id}", h.Delete).Methods(http.MethodDelete)

	router.HandleFunc("/api/recipients/{staff_id}", h.RegisterRecipient).Methods(http.MethodPut)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
}

// GetNotifications lists a staff member's feed, newest first
func (h *NotificationHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	notifs, err := h.service.GetNotifications(r.Context(), r.URL.Query().Get("staff_id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, notifs)
}

func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.UnreadCount(r.Context(), r.URL.Query().Get("staff_id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]int64{"unread": count})
}

func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	if err := h.service.MarkAsRead(r.Context(), mux.Vars(r)["id"], r.URL.Query().Get("staff_id")); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *NotificationHandler) MarkAllAsRead(w http.ResponseWriter, r *http.Request) {
	changed, err := h.service.MarkAllAsRead(r.Context(), r.URL.Query().Get("staff_id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]int64{"updated": changed})
}

func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), mux.Vars(r)["id"], r.URL.Query().Get("staff_id")); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *NotificationHandler) RegisterRecipient(w http.ResponseWriter, r *http.Request) {
	rec := new(models.Recipient)
	if err := json.NewDecoder(r.Body).Decode(rec); err != nil {
		respondWithError(w, http.StatusBadRequest, err)
		return
	}
	rec.StaffID = mux.Vars(r)["staff_id"]
	if err := h.service.RegisterRecipient(r.Context(), rec); err != nil {
		handleServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, rec)
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, code int, err error) {
	respondWithJSON(w, code, map[string]string{"error": err.Error()})
}

func handleServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, models.ErrNotFound) {
		respondWithError(w, http.StatusNotFound, err)
		return
	}
	if errors.Is(err, models.ErrValidation) {
		respondWithError(w, http.StatusBadRequest, err)
		return
	}
	respondWithError(w, http.StatusInternalServerError, err)
}
