package handler

import (
	"cleaning-app/notification-service/internal/repository"
	"cleaning-app/notification-service/internal/services"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
)

func TestNotificationRoutes(t *testing.T) {
	svc := services.NewNotificationService(repository.NewMemoryRepo(), repository.NewMemoryRecipientRepo(), nil, nil)
	n, err := svc.ProcessEvent(context.Background(), []byte(`{"type":"new-order","order_id":"o-1","staff_id":"staff-1"}`))
	if err != nil {
		t.Fatal(err)
	}

	router := mux.NewRouter()
	NewNotificationHandler(svc).Register(router)

	do := func(method, path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(method, path, nil))
		return w
	}

	w := do(http.MethodGet, "/api/notifications/unread-count?staff_id=staff-1")
	var count map[string]int64
	if err := json.Unmarshal(w.Body.Bytes(), &count); err != nil || count["unread"] != 1 {
		t.Fatalf("unread-count: %d %s", w.Code, w.Body.String())
	}

	if w := do(http.MethodPut, "/api/notifications/read-all?staff_id=staff-1"); w.Code != http.StatusOK {
		t.Errorf("read-all: %d", w.Code)
	}
	if w := do(http.MethodPut, "/api/notifications/"+n.ID+"/read?staff_id=staff-1"); w.Code != http.StatusNoContent {
		t.Errorf("read: %d", w.Code)
	}
	if w := do(http.MethodPut, "/api/notifications/missing/read?staff_id=staff-1"); w.Code != http.StatusNotFound {
		t.Errorf("read missing: %d", w.Code)
	}
	if w := do(http.MethodGet, "/api/notifications"); w.Code != http.StatusBadRequest {
		t.Errorf("list without staff_id: %d", w.Code)
	}
	if w := do(http.MethodPut, "/api/notifications/"+n.ID+"/read"); w.Code != http.StatusBadRequest {
		t.Errorf("read without staff_id: %d", w.Code)
	}
	if w := do(http.MethodDelete, "/api/notifications/"+n.ID+"?staff_id=staff-1"); w.Code != http.StatusNoContent {
		t.Errorf("delete: %d", w.Code)
	}

	w = do(http.MethodGet, "/api/notifications?staff_id=staff-1")
	var feed []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &feed); err != nil || len(feed) != 0 {
		t.Errorf("feed after delete: %s", w.Body.String())
	}
}

func TestBroadcastReadRoutesArePerStaff(t *testing.T) {
	svc := services.NewNotificationService(repository.NewMemoryRepo(), repository.NewMemoryRecipientRepo(), nil, nil)
	if _, err := svc.ProcessEvent(context.Background(), []byte(`{"type":"system","title":"Maintenance tonight"}`)); err != nil {
		t.Fatal(err)
	}
	router := mux.NewRouter()
	NewNotificationHandler(svc).Register(router)

	unread := func(staff string) int64 {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/notifications/unread-count?staff_id="+staff, nil))
		var body map[string]int64
		json.Unmarshal(w.Body.Bytes(), &body)
		return body["unread"]
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/notifications/read-all?staff_id=staff-1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("read-all: %d", w.Code)
	}
	if got := unread("staff-1"); got != 0 {
		t.Errorf("staff-1 unread = %d", got)
	}
	if got := unread("staff-2"); got != 1 {
		t.Errorf("staff-2 unread = %d, want 1", got)
	}
}
