package handler

import (
	"cleaning-app/order-service/internal/lifecycle"
	"cleaning-app/order-service/internal/models"
	"cleaning-app/order-service/internal/services"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	service   services.OrderService
	dashboard *services.DashboardService
	evidence  *services.EvidenceService
}

// NewOrderHandler wires the order endpoints. evidence may be nil when no
// object store is configured.
func NewOrderHandler(service services.OrderService, dashboard *services.DashboardService, evidence *services.EvidenceService) *OrderHandler {
	return &OrderHandler{service: service, dashboard: dashboard, evidence: evidence}
}

func (h *OrderHandler) Register(r gin.IRouter) {
	orders := r.Group("/orders")
	{
		orders.POST("", h.CreateOrder)
		orders.GET("", h.ListOrders)
		orders.GET("/:id", h.GetOrder)
		orders.POST("/:id/transition", h.Transition)
		orders.POST("/:id/payment", h.RecordPayment)
		orders.POST("/:id/messages", h.SendMessage)
		orders.POST("/:id/evidence", h.UploadEvidence)
		orders.GET("/:id/evidence", h.ListEvidence)
	}
	r.POST("/payments/confirm", h.ConfirmPayment)
	r.GET("/dashboard", h.Dashboard)
}

type orderResponse struct {
	models.Order
	AvailableEvents []lifecycle.Event `json:"available_events"`
}

func (h *OrderHandler) withEvents(o models.Order) orderResponse {
	return orderResponse{Order: o, AvailableEvents: h.service.AvailableEvents(o)}
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var order models.Order
	if err := c.ShouldBindJSON(&order); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if err := h.service.CreateOrder(c.Request.Context(), &order); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.withEvents(order))
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	orders, err := h.service.ListOrders(c.Request.Context(), c.Query("status"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.service.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.withEvents(*order))
}

type transitionRequest struct {
	Event   string `json:"event" binding:"required"`
	StaffID string `json:"staff_id"`
}

func (h *OrderHandler) Transition(c *gin.Context) {
	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	event, err := lifecycle.ParseEvent(req.Event)
	if err != nil {
		writeError(c, err)
		return
	}
	order, err := h.service.Transition(c.Request.Context(), c.Param("id"), event, req.StaffID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.withEvents(*order))
}

type paymentRequest struct {
	Method models.PaymentMethod `json:"method" binding:"required"`
}

func (h *OrderHandler) RecordPayment(c *gin.Context) {
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	result, err := h.service.RecordPayment(c.Request.Context(), c.Param("id"), req.Method)
	if errors.Is(err, models.ErrDeliveryFailed) && result != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "payment": result})
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type confirmRequest struct {
	OrderID   string `json:"order_id" binding:"required"`
	Reference string `json:"reference" binding:"required"`
}

func (h *OrderHandler) ConfirmPayment(c *gin.Context) {
	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	order, err := h.service.ConfirmPayment(c.Request.Context(), req.OrderID, req.Reference)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

type messageRequest struct {
	Kind services.MessageKind `json:"kind" binding:"required"`
}

func (h *OrderHandler) SendMessage(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if err := h.service.SendMessage(c.Request.Context(), c.Param("id"), req.Kind); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Message sent"})
}

func (h *OrderHandler) UploadEvidence(c *gin.Context) {
	if h.evidence == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Evidence storage is not configured"})
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}
	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open file"})
		return
	}
	defer src.Close()

	e, err := h.evidence.Upload(c.Request.Context(), services.EvidenceUpload{
		OrderID:     c.Param("id"),
		StaffID:     c.PostForm("staff_id"),
		Kind:        models.EvidenceKind(c.PostForm("kind")),
		FileName:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Size:        file.Size,
		Body:        src,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (h *OrderHandler) ListEvidence(c *gin.Context) {
	if h.evidence == nil {
		c.JSON(http.StatusOK, []models.Evidence{})
		return
	}
	items, err := h.evidence.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *OrderHandler) Dashboard(c *gin.Context) {
	d, err := h.dashboard.Dashboard(c.Request.Context(), c.Query("staff_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrInvalidState):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrDeliveryFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		log.Printf("[HTTP] %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
