package repository

import (
	"cleaning-app/notification-service/internal/models"
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryRepo serves tests and runs without MONGO_URI.
type MemoryRepo struct {
	mu    sync.RWMutex
	items map[string]models.Notification
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{items: make(map[string]models.Notification)}
}

func (r *MemoryRepo) Create(_ context.Context, notif *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[notif.ID] = *notif
	return nil
}

func (r *MemoryRepo) ListByStaff(_ context.Context, staffID string) ([]models.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.Notification{}
	for _, n := range r.items {
		if n.VisibleTo(staffID) {
			out = append(out, n.ForStaff(staffID))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) CountUnread(ctx context.Context, staffID string) (int64, error) {
	items, _ := r.ListByStaff(ctx, staffID)
	var n int64
	for _, it := range items {
		if !it.IsRead {
			n++
		}
	}
	return n, nil
}

func (r *MemoryRepo) MarkAsRead(_ context.Context, id, staffID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.items[id]
	if !ok || !n.VisibleTo(staffID) {
		return fmt.Errorf("notification %s: %w", id, models.ErrNotFound)
	}
	r.items[id] = markRead(n, staffID)
	return nil
}

func (r *MemoryRepo) MarkAllAsRead(_ context.Context, staffID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var changed int64
	for id, n := range r.items {
		if n.VisibleTo(staffID) && !n.ForStaff(staffID).IsRead {
			r.items[id] = markRead(n, staffID)
			changed++
		}
	}
	return changed, nil
}

func (r *MemoryRepo) Delete(_ context.Context, id, staffID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.items[id]
	if !ok || !n.VisibleTo(staffID) {
		return fmt.Errorf("notification %s: %w", id, models.ErrNotFound)
	}
	if n.IsBroadcast() {
		n.DismissedBy = append(append([]string(nil), n.DismissedBy...), staffID)
		r.items[id] = n
		return nil
	}
	delete(r.items, id)
	return nil
}

func markRead(n models.Notification, staffID string) models.Notification {
	if !n.IsBroadcast() {
		n.IsRead = true
		return n
	}
	if !n.ForStaff(staffID).IsRead {
		n.ReadBy = append(append([]string(nil), n.ReadBy...), staffID)
	}
	return n
}

type MemoryRecipientRepo struct {
	mu    sync.RWMutex
	items map[string]models.Recipient
}

func NewMemoryRecipientRepo(seed ...models.Recipient) *MemoryRecipientRepo {
	r := &MemoryRecipientRepo{items: make(map[string]models.Recipient)}
	for _, rec := range seed {
		r.items[rec.StaffID] = rec
	}
	return r
}

func (r *MemoryRecipientRepo) Get(_ context.Context, staffID string) (*models.Recipient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.items[staffID]
	if !ok {
		return nil, fmt.Errorf("recipient %s: %w", staffID, models.ErrNotFound)
	}
	return &rec, nil
}

func (r *MemoryRecipientRepo) Save(_ context.Context, rec *models.Recipient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[rec.StaffID] = *rec
	return nil
}
