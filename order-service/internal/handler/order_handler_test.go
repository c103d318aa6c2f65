package handler

import (
	"bytes"
	"cleaning-app/order-service/internal/config"
	"cleaning-app/order-service/internal/models"
	"cleaning-app/order-service/internal/repository"
	"cleaning-app/order-service/internal/services"
	"cleaning-app/order-service/internal/utils"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

type failingMessenger struct{}

func (failingMessenger) Send(context.Context, string, string) error {
	return errors.New("carrier rejected message")
}

var now = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

func seedOrder(id string, status models.OrderStatus) models.Order {
	o := models.Order{
		ID:            id,
		CustomerID:    "cust-1",
		CustomerPhone: "+989121234567",
		Address:       "7 Enghelab Sq",
		ServiceType:   "deep-cleaning",
		Status:        status,
		PaymentStatus: models.PaymentPending,
		Amount:        300000,
		CreatedAt:     now.Add(-time.Hour),
	}
	if status != models.StatusPending {
		staff := "staff-1"
		o.AssignedStaffID = &staff
	}
	return o
}

func setupRouter(messenger utils.Messenger, orders ...models.Order) *gin.Engine {
	gin.SetMode(gin.TestMode)

	orderRepo := repository.NewMemoryOrderRepository(orders...)
	staffRepo := repository.NewMemoryStaffRepository(models.Staff{ID: "staff-1", Name: "Ali", Settings: models.DefaultSettings()})
	clock := services.FixedClock{T: now}

	orderSvc := services.NewOrderService(services.OrderServiceDeps{
		Repo:      orderRepo,
		Messenger: messenger,
		Clock:     clock,
	}, config.LifecycleConfig{PaymentGatewayURL: "https://pay.example.com", MessageTimeout: time.Second})

	return NewRouter(
		NewOrderHandler(orderSvc, services.NewDashboardService(orderRepo, staffRepo, clock, time.UTC), nil),
		NewStaffHandler(services.NewStaffService(staffRepo)),
		NewReportHandler(services.NewReportService(repository.NewMemoryReportRepository(), orderRepo, nil, nil, clock)),
		utils.NewMetrics(prometheus.NewRegistry()),
		[]string{"http://localhost:3000"},
	)
}

func do(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTransitionEndpoint(t *testing.T) {
	r := setupRouter(utils.LogMessenger{}, seedOrder("1", models.StatusPending))

	w := do(r, http.MethodPost, "/api/orders/1/transition", gin.H{"event": "accept", "staff_id": "staff-1"})
	if w.Code != http.StatusOK {
		t.Fatalf("accept: %d %s", w.Code, w.Body.String())
	}
	var got orderResponse
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Status != models.StatusAccepted || !got.IsAssignedTo("staff-1") {
		t.Errorf("unexpected order %+v", got.Order)
	}
	if len(got.AvailableEvents) == 0 || got.AvailableEvents[0] != "start" {
		t.Errorf("available events = %v", got.AvailableEvents)
	}

	w = do(r, http.MethodPost, "/api/orders/1/transition", gin.H{"event": "accept", "staff_id": "staff-2"})
	if w.Code != http.StatusConflict {
		t.Errorf("second accept: %d", w.Code)
	}
	w = do(r, http.MethodPost, "/api/orders/missing/transition", gin.H{"event": "accept", "staff_id": "staff-1"})
	if w.Code != http.StatusNotFound {
		t.Errorf("missing order: %d", w.Code)
	}
	w = do(r, http.MethodPost, "/api/orders/1/transition", gin.H{"event": "teleport"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown event: %d", w.Code)
	}
}

func TestPaymentEndpoints(t *testing.T) {
	r := setupRouter(utils.LogMessenger{}, seedOrder("1", models.StatusCompleted), seedOrder("2", models.StatusCancelled))

	w := do(r, http.MethodPost, "/api/orders/1/payment", gin.H{"method": "online"})
	if w.Code != http.StatusOK {
		t.Fatalf("online payment: %d %s", w.Code, w.Body.String())
	}
	var res services.PaymentResult
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.Order.PaymentStatus != models.PaymentPending || res.Reference == "" {
		t.Fatalf("unexpected result %+v", res)
	}

	w = do(r, http.MethodPost, "/api/payments/confirm", gin.H{"order_id": "1", "reference": "bogus"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("bogus reference: %d", w.Code)
	}
	w = do(r, http.MethodPost, "/api/payments/confirm", gin.H{"order_id": "1", "reference": res.Reference})
	if w.Code != http.StatusOK {
		t.Errorf("confirm: %d %s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodPost, "/api/orders/2/payment", gin.H{"method": "cash"})
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("cancelled order payment: %d", w.Code)
	}
}

func TestPaymentDeliveryFailureReturnsOrder(t *testing.T) {
	r := setupRouter(failingMessenger{}, seedOrder("1", models.StatusCompleted))

	w := do(r, http.MethodPost, "/api/orders/1/payment", gin.H{"method": "online"})
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
	var body struct {
		Payment services.PaymentResult `json:"payment"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Payment.Order == nil || body.Payment.Order.PaymentReference == "" {
		t.Errorf("committed order missing from response: %s", w.Body.String())
	}
}

func TestDashboardAndStaffEndpoints(t *testing.T) {
	r := setupRouter(utils.LogMessenger{}, seedOrder("1", models.StatusPending), seedOrder("2", models.StatusInProgress))

	w := do(r, http.MethodGet, "/api/dashboard?staff_id=staff-1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("dashboard: %d", w.Code)
	}
	var d models.Dashboard
	if err := json.Unmarshal(w.Body.Bytes(), &d); err != nil {
		t.Fatal(err)
	}
	if d.Views.PendingCount != 1 || d.Views.InProgressCount != 1 || d.Staff == nil {
		t.Errorf("unexpected dashboard %+v", d)
	}

	w = do(r, http.MethodPut, "/api/staff/staff-1/online", gin.H{"online": true})
	if w.Code != http.StatusOK {
		t.Errorf("online: %d %s", w.Code, w.Body.String())
	}
	w = do(r, http.MethodPut, "/api/staff/staff-1", gin.H{"name": "Ali", "phone": "+98912000000", "email": "not-an-email"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid profile: %d", w.Code)
	}
	w = do(r, http.MethodGet, "/api/staff/ghost/settings", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown staff: %d", w.Code)
	}
	w = do(r, http.MethodGet, "/api/orders?status=pending", nil)
	if w.Code != http.StatusOK {
		t.Errorf("list: %d", w.Code)
	}
	w = do(r, http.MethodPost, "/api/orders/1/evidence", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("evidence without store: %d", w.Code)
	}
}
