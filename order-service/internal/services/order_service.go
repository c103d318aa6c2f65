package services

import (
	"cleaning-app/order-service/internal/config"
	"cleaning-app/order-service/internal/lifecycle"
	"cleaning-app/order-service/internal/models"
	"cleaning-app/order-service/internal/repository"
	"cleaning-app/order-service/internal/utils"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

type MessageKind string

const (
	MessageOnTheWay     MessageKind = "on-the-way"
	MessageWorkFinished MessageKind = "work-finished"
)

var cannedMessages = map[MessageKind]string{
	MessageOnTheWay:     "Your cleaner is on the way.",
	MessageWorkFinished: "The cleaning work has been completed. Thank you!",
}

const publishTimeout = 3 * time.Second

type OrderService interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	ListOrders(ctx context.Context, status string) ([]models.Order, error)
	AvailableEvents(order models.Order) []lifecycle.Event
	Transition(ctx context.Context, id string, event lifecycle.Event, actingStaffID string) (*models.Order, error)
	RecordPayment(ctx context.Context, id string, method models.PaymentMethod) (*PaymentResult, error)
	ConfirmPayment(ctx context.Context, id, reference string) (*models.Order, error)
	SendMessage(ctx context.Context, id string, kind MessageKind) error
}

// PaymentResult is returned even when link delivery failed; the order in it
// is what was committed.
type PaymentResult struct {
	Order       *models.Order `json:"order"`
	Reference   string        `json:"reference,omitempty"`
	PaymentLink string        `json:"payment_link,omitempty"`
}

type OrderServiceDeps struct {
	Repo      repository.OrderRepository
	Machine   *lifecycle.Machine
	Messenger utils.Messenger
	Publisher utils.EventPublisher
	Clock     Clock
	Metrics   *utils.Metrics
}

type orderService struct {
	repo      repository.OrderRepository
	machine   *lifecycle.Machine
	messenger utils.Messenger
	publisher utils.EventPublisher
	clock     Clock
	metrics   *utils.Metrics
	cfg       config.LifecycleConfig
}

func NewOrderService(deps OrderServiceDeps, cfg config.LifecycleConfig) OrderService {
	s := &orderService{
		repo:      deps.Repo,
		machine:   deps.Machine,
		messenger: deps.Messenger,
		publisher: deps.Publisher,
		clock:     deps.Clock,
		metrics:   deps.Metrics,
		cfg:       cfg,
	}
	if s.machine == nil {
		s.machine = lifecycle.New()
	}
	if s.messenger == nil {
		s.messenger = utils.LogMessenger{}
	}
	if s.publisher == nil {
		s.publisher = utils.NopPublisher{}
	}
	if s.clock == nil {
		s.clock = SystemClock{}
	}
	if s.cfg.MessageTimeout <= 0 {
		s.cfg.MessageTimeout = 5 * time.Second
	}
	return s
}

// CreateOrder ingests an order from the customer-facing system. Whatever
// lifecycle fields the caller sent, the order starts pending and unpaid.
func (s *orderService) CreateOrder(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	order.Status = models.StatusPending
	order.AssignedStaffID = nil
	order.CompletedAt = nil
	order.PaymentStatus = models.PaymentPending
	order.PaymentReference = ""
	order.Version = 0
	if order.CreatedAt.IsZero() {
		order.CreatedAt = s.clock.Now()
	}
	if err := order.Validate(); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, order); err != nil {
		return err
	}

	log.Printf("[ORDER] Created order %s (%s)", order.ID, order.ServiceType)
	s.publish(ctx, utils.OrderEvent{
		Type:      "new-order",
		EventType: "created",
		OrderID:   order.ID,
		Status:    string(order.Status),
		Title:     "New order",
		Message:   fmt.Sprintf("New %s order at %s", order.ServiceType, order.Address),
	})
	return nil
}

func (s *orderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *orderService) ListOrders(ctx context.Context, status string) ([]models.Order, error) {
	if status != "" && status != "all" {
		if _, ok := StatusCounts(nil)[models.OrderStatus(status)]; !ok {
			return nil, fmt.Errorf("%w: unknown status %q", models.ErrValidation, status)
		}
	}
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return FilterByStatus(orders, status), nil
}

func (s *orderService) AvailableEvents(order models.Order) []lifecycle.Event {
	return s.machine.Events(order.Status)
}

// Transition applies event to the order. The save is guarded on the
// status and version that were read, so of two concurrent writers to the
// same order only one succeeds; the other gets ErrInvalidTransition.
func (s *orderService) Transition(ctx context.Context, id string, event lifecycle.Event, actingStaffID string) (*models.Order, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.metrics.ObserveTransition(string(event), "not_found")
		return nil, err
	}

	next, err := s.machine.Apply(*current, event, actingStaffID, s.clock.Now())
	if err != nil {
		s.metrics.ObserveTransition(string(event), "rejected")
		return nil, err
	}

	if err := s.repo.Save(ctx, &next, current.Status); err != nil {
		if errors.Is(err, models.ErrInvalidTransition) {
			s.metrics.ObserveTransition(string(event), "conflict")
		}
		return nil, err
	}
	s.metrics.ObserveTransition(string(event), "ok")

	log.Printf("[ORDER] Order %s: %s -> %s (event=%s staff=%s)", id, current.Status, next.Status, event, actingStaffID)

	staffID := actingStaffID
	if next.AssignedStaffID != nil {
		staffID = *next.AssignedStaffID
	}
	s.publish(ctx, utils.OrderEvent{
		Type:      "order-update",
		EventType: string(event),
		OrderID:   id,
		StaffID:   staffID,
		Status:    string(next.Status),
		Title:     "Order updated",
		Message:   fmt.Sprintf("Order %s is now %s", id, next.Status),
	})
	return &next, nil
}

// RecordPayment records how the customer pays. Cash is settled on the
// spot. Online generates a reference, stores it and texts the customer a
// payment link; the order stays unpaid until ConfirmPayment.
func (s *orderService) RecordPayment(ctx context.Context, id string, method models.PaymentMethod) (*PaymentResult, error) {
	if method != models.PaymentCash && method != models.PaymentOnline {
		return nil, fmt.Errorf("%w: payment method must be cash or online", models.ErrValidation)
	}

	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status == models.StatusCancelled {
		s.metrics.ObservePayment(string(method), "rejected")
		return nil, fmt.Errorf("%w: order %s is cancelled", models.ErrInvalidState, id)
	}
	if order.PaymentStatus == models.PaymentPaid {
		s.metrics.ObservePayment(string(method), "rejected")
		return nil, fmt.Errorf("%w: order %s is already paid", models.ErrInvalidState, id)
	}

	next := order.Clone()
	next.PaymentMethod = method
	result := &PaymentResult{Order: &next}

	switch method {
	case models.PaymentCash:
		next.PaymentStatus = models.PaymentPaid
		next.PaymentReference = ""
	case models.PaymentOnline:
		result.Reference = utils.NewPaymentReference(next.ID, next.Amount)
		result.PaymentLink = utils.PaymentLink(s.cfg.PaymentGatewayURL, next.ID, next.Amount, result.Reference)
		next.PaymentReference = result.Reference
	}

	// a concurrent transition or payment makes this save fail
	if err := s.repo.Save(ctx, &next, order.Status); err != nil {
		s.metrics.ObservePayment(string(method), "conflict")
		return nil, err
	}
	s.metrics.ObservePayment(string(method), "ok")
	log.Printf("[PAYMENT] Recorded %s payment for order %s", method, id)

	if method == models.PaymentCash {
		s.publish(ctx, paymentEvent(next, "cash payment received"))
		return result, nil
	}

	text := fmt.Sprintf("Payment link: %s", result.PaymentLink)
	if err := s.deliver(ctx, next.CustomerPhone, text); err != nil {
		return result, err
	}
	return result, nil
}

// ConfirmPayment is called by the payment gateway once an online payment
// settles. Confirming an already paid order is a no-op.
func (s *orderService) ConfirmPayment(ctx context.Context, id, reference string) (*models.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if reference == "" || reference != order.PaymentReference {
		return nil, fmt.Errorf("%w: payment reference does not match order %s", models.ErrValidation, id)
	}
	if _, amount, err := utils.ParsePaymentReference(reference); err != nil || amount != order.Amount {
		return nil, fmt.Errorf("%w: payment reference does not match amount", models.ErrValidation)
	}
	if order.PaymentStatus == models.PaymentPaid {
		return order, nil
	}
	if order.Status == models.StatusCancelled {
		return nil, fmt.Errorf("%w: order %s is cancelled", models.ErrInvalidState, id)
	}

	next := order.Clone()
	next.PaymentStatus = models.PaymentPaid
	if err := s.repo.Save(ctx, &next, order.Status); err != nil {
		return nil, err
	}

	log.Printf("[PAYMENT] Online payment confirmed for order %s", id)
	s.publish(ctx, paymentEvent(next, "online payment confirmed"))
	return &next, nil
}

func (s *orderService) SendMessage(ctx context.Context, id string, kind MessageKind) error {
	text, ok := cannedMessages[kind]
	if !ok {
		return fmt.Errorf("%w: unknown message kind %q", models.ErrValidation, kind)
	}
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.deliver(ctx, order.CustomerPhone, text)
}

// deliver makes one attempt; failures are reported, never retried.
func (s *orderService) deliver(ctx context.Context, phone, text string) error {
	if err := utils.SendWithTimeout(ctx, s.messenger, s.cfg.MessageTimeout, phone, text); err != nil {
		s.metrics.ObserveDelivery("failed")
		log.Printf("[SMS] Delivery to %s failed: %v", phone, err)
		return fmt.Errorf("%w: %v", models.ErrDeliveryFailed, err)
	}
	s.metrics.ObserveDelivery("ok")
	return nil
}

func (s *orderService) publish(ctx context.Context, event utils.OrderEvent) {
	event.OccurredAt = s.clock.Now()
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Printf("[EVENTS] Failed to publish %s for order %s: %v", event.EventType, event.OrderID, err)
	}
}

func paymentEvent(o models.Order, message string) utils.OrderEvent {
	staffID := ""
	if o.AssignedStaffID != nil {
		staffID = *o.AssignedStaffID
	}
	return utils.OrderEvent{
		Type:      "payment",
		EventType: string(o.PaymentMethod),
		OrderID:   o.ID,
		StaffID:   staffID,
		Status:    string(o.PaymentStatus),
		Title:     "Payment",
		Message:   fmt.Sprintf("Order %s: %s (%d)", o.ID, message, o.Amount),
	}
}
