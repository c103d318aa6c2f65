package services

import (
	"cleaning-app/notification-service/internal/models"
	"cleaning-app/notification-service/internal/repository"
	"cleaning-app/pkg/validator"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	OrderEventsChannel = "order_events"
	deliveryTimeout    = 10 * time.Second
)

type Pusher interface {
	SendPushNotification(ctx context.Context, token, title, body string, data map[string]string) error
}

type Mailer interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

type NotificationService struct {
	repo       repository.NotificationRepository
	recipients repository.RecipientRepository
	push       Pusher
	mail       Mailer
	now        func() time.Time
}

// NewNotificationService builds the feed service. push and mail may be nil,
// which turns off that delivery channel.
func NewNotificationService(repo repository.NotificationRepository, recipients repository.RecipientRepository, push Pusher, mail Mailer) *NotificationService {
	return &NotificationService{
		repo:       repo,
		recipients: recipients,
		push:       push,
		mail:       mail,
		now:        time.Now,
	}
}

// ProcessEvent turns an order event into a feed entry. Push and email
// delivery are attempted afterwards and never fail the event.
func (s *NotificationService) ProcessEvent(ctx context.Context, payload []byte) (*models.Notification, error) {
	var event models.OrderEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	createdAt := event.OccurredAt
	if createdAt.IsZero() {
		createdAt = s.now()
	}
	notification := &models.Notification{
		ID:        uuid.NewString(),
		StaffID:   event.StaffID,
		Type:      notificationType(event.Type),
		Title:     event.Title,
		Message:   event.Message,
		OrderID:   event.OrderID,
		CreatedAt: createdAt,
	}
	if notification.Title == "" {
		notification.Title = defaultTitle(notification.Type)
	}

	if err := s.repo.Create(ctx, notification); err != nil {
		return nil, fmt.Errorf("failed to save notification: %w", err)
	}
	log.Printf("[NOTIFY] Stored %s for staff=%q order=%s", notification.Type, notification.StaffID, notification.OrderID)

	s.deliver(ctx, notification)
	return notification, nil
}

func (s *NotificationService) deliver(ctx context.Context, n *models.Notification) {
	if n.StaffID == "" {
		return
	}
	rec, err := s.recipients.Get(ctx, n.StaffID)
	if errors.Is(err, models.ErrNotFound) {
		return
	}
	if err != nil {
		log.Printf("[NOTIFY] Failed to load recipient %s: %v", n.StaffID, err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, deliveryTimeout)
	defer cancel()

	if s.push != nil && rec.DeviceToken != "" {
		data := map[string]string{"type": string(n.Type), "order_id": n.OrderID}
		if err := s.push.SendPushNotification(ctx, rec.DeviceToken, n.Title, n.Message, data); err != nil {
			log.Printf("[PUSH] Failed for staff %s: %v", n.StaffID, err)
		}
	}
	if s.mail != nil && rec.Email != "" && n.Type == models.TypePayment {
		if err := s.mail.SendEmail(ctx, rec.Email, n.Title, n.Message); err != nil {
			log.Printf("[EMAIL] Failed for staff %s: %v", n.StaffID, err)
		}
	}
}

func notificationType(t string) models.NotificationType {
	switch models.NotificationType(t) {
	case models.TypeNewOrder, models.TypeOrderUpdate, models.TypePayment:
		return models.NotificationType(t)
	default:
		return models.TypeSystem
	}
}

func defaultTitle(t models.NotificationType) string {
	switch t {
	case models.TypeNewOrder:
		return "New order"
	case models.TypeOrderUpdate:
		return "Order updated"
	case models.TypePayment:
		return "Payment"
	default:
		return "System notification"
	}
}

func (s *NotificationService) GetNotifications(ctx context.Context, staffID string) ([]models.Notification, error) {
	if staffID == "" {
		return nil, fmt.Errorf("%w: staff_id is required", models.ErrValidation)
	}
	return s.repo.ListByStaff(ctx, staffID)
}

func (s *NotificationService) UnreadCount(ctx context.Context, staffID string) (int64, error) {
	if staffID == "" {
		return 0, fmt.Errorf("%w: staff_id is required", models.ErrValidation)
	}
	return s.repo.CountUnread(ctx, staffID)
}

// MarkAsRead marks one entry read for staffID. For a broadcast only that
// staff member's view changes.
func (s *NotificationService) MarkAsRead(ctx context.Context, id, staffID string) error {
	if staffID == "" {
		return fmt.Errorf("%w: staff_id is required", models.ErrValidation)
	}
	return s.repo.MarkAsRead(ctx, id, staffID)
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, staffID string) (int64, error) {
	if staffID == "" {
		return 0, fmt.Errorf("%w: staff_id is required", models.ErrValidation)
	}
	return s.repo.MarkAllAsRead(ctx, staffID)
}

// Delete removes an own entry, or hides a broadcast from staffID's feed.
func (s *NotificationService) Delete(ctx context.Context, id, staffID string) error {
	if staffID == "" {
		return fmt.Errorf("%w: staff_id is required", models.ErrValidation)
	}
	return s.repo.Delete(ctx, id, staffID)
}

func (s *NotificationService) RegisterRecipient(ctx context.Context, rec *models.Recipient) error {
	if rec.StaffID == "" {
		return fmt.Errorf("%w: staff_id is required", models.ErrValidation)
	}
	if errs := validator.Check(rec); errs != nil {
		return fmt.Errorf("%w: %s", models.ErrValidation, strings.Join(errs, " // "))
	}
	return s.recipients.Save(ctx, rec)
}

// StartRedisSubscriber consumes OrderEventsChannel until ctx is done.
func (s *NotificationService) StartRedisSubscriber(ctx context.Context, rdb *redis.Client) {
	pubsub := rdb.Subscribe(ctx, OrderEventsChannel)
	defer pubsub.Close()

	log.Printf("[REDIS] Subscribed to %s", OrderEventsChannel)

	ch := pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if _, err := s.ProcessEvent(ctx, []byte(msg.Payload)); err != nil {
				log.Printf("[REDIS] Error processing event: %v", err)
			}
		case <-ctx.Done():
			log.Println("[REDIS] Stopping subscriber...")
			return
		}
	}
}
