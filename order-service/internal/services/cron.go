package services

import (
	"cleaning-app/order-service/internal/models"
	"cleaning-app/order-service/internal/repository"
	"cleaning-app/order-service/internal/utils"
	"context"
	"fmt"
	"log"
	"time"
)

// CronJobService reminds staff about orders nobody has picked up.
type CronJobService struct {
	OrderRepo repository.OrderRepository
	Publisher utils.EventPublisher
	Clock     Clock
	Interval  time.Duration
	After     time.Duration

	reminded map[string]bool
}

const defaultReminderInterval = 5 * time.Minute

func NewCronJobService(repo repository.OrderRepository, publisher utils.EventPublisher, clock Clock, interval, after time.Duration) *CronJobService {
	if interval <= 0 {
		interval = defaultReminderInterval
	}
	return &CronJobService{
		OrderRepo: repo,
		Publisher: publisher,
		Clock:     clock,
		Interval:  interval,
		After:     after,
		reminded:  make(map[string]bool),
	}
}

func (s *CronJobService) Start(ctx context.Context) {
	go s.startReminderJob(ctx)
}

func (s *CronJobService) startReminderJob(ctx context.Context) {
	ticker := time.NewTicker(s.Interval)
	for {
		select {
		case <-ticker.C:
			s.sendPendingReminders(ctx)
		case <-ctx.Done():
			log.Println("[CRON] Stopping reminder job")
			ticker.Stop()
			return
		}
	}
}

// sendPendingReminders publishes one reminder per order that has been
// pending longer than After. It runs on a single goroutine.
func (s *CronJobService) sendPendingReminders(ctx context.Context) int {
	orders, err := s.OrderRepo.List(ctx)
	if err != nil {
		log.Println("[CRON] Failed to fetch orders:", err)
		return 0
	}

	now := s.Clock.Now()
	sent := 0
	for _, order := range orders {
		if order.Status != models.StatusPending {
			delete(s.reminded, order.ID)
			continue
		}
		if s.reminded[order.ID] || now.Sub(order.CreatedAt) < s.After {
			continue
		}
		err := s.Publisher.Publish(ctx, utils.OrderEvent{
			Type:       "system",
			EventType:  "pending-reminder",
			OrderID:    order.ID,
			Status:     string(order.Status),
			Title:      "Order waiting",
			Message:    fmt.Sprintf("Order %s at %s is still waiting for a cleaner", order.ID, order.Address),
			OccurredAt: now,
		})
		if err != nil {
			log.Println("[CRON] Failed to publish reminder:", err)
			continue
		}
		s.reminded[order.ID] = true
		sent++
	}
	return sent
}
