package repository

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"cleaning-app/order-service/internal/models"
)

func pendingOrder(id string) models.Order {
	return models.Order{
		ID:            id,
		Status:        models.StatusPending,
		PaymentStatus: models.PaymentPending,
		Amount:        500000,
		CreatedAt:     time.Date(2024, 4, 8, 10, 30, 0, 0, time.UTC),
	}
}

func TestMemoryOrderRepository_SaveCompareAndSwap(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryOrderRepository(pendingOrder("1"))

	o, err := repo.GetByID(ctx, "1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	o.Status = models.StatusAccepted
	if err := repo.Save(ctx, o, models.StatusPending); err != nil {
		t.Fatalf("first save: %v", err)
	}

	stale := pendingOrder("1")
	stale.Status = models.StatusCancelled
	if err := repo.Save(ctx, &stale, models.StatusPending); !errors.Is(err, models.ErrInvalidTransition) {
		t.Fatalf("stale save = %v, want ErrInvalidTransition", err)
	}

	got, _ := repo.GetByID(ctx, "1")
	if got.Status != models.StatusAccepted {
		t.Fatalf("status = %s, want accepted", got.Status)
	}
}

func TestMemoryOrderRepository_SaveUnknown(t *testing.T) {
	repo := NewMemoryOrderRepository()
	o := pendingOrder("missing")
	if err := repo.Save(context.Background(), &o, models.StatusPending); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestMemoryOrderRepository_ConcurrentSaveSingleWinner(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryOrderRepository(pendingOrder("1"))

	var wins, conflicts int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o := pendingOrder("1")
			o.Status = models.StatusAccepted
			err := repo.Save(ctx, &o, models.StatusPending)
			switch {
			case err == nil:
				atomic.AddInt32(&wins, 1)
			case errors.Is(err, models.ErrInvalidTransition):
				atomic.AddInt32(&conflicts, 1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if wins != 1 || conflicts != 15 {
		t.Fatalf("wins=%d conflicts=%d, want 1 and 15", wins, conflicts)
	}
}

func TestMemoryOrderRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	staff := "staff-1"
	o := pendingOrder("1")
	o.Status = models.StatusAccepted
	o.AssignedStaffID = &staff
	repo := NewMemoryOrderRepository(o)

	got, _ := repo.GetByID(ctx, "1")
	*got.AssignedStaffID = "someone-else"

	again, _ := repo.GetByID(ctx, "1")
	if *again.AssignedStaffID != "staff-1" {
		t.Fatalf("stored order aliased by caller")
	}
}

func TestMemoryOrderRepository_ListByStaffNewestFirst(t *testing.T) {
	ctx := context.Background()
	staff := "staff-1"
	older := pendingOrder("a")
	older.Status = models.StatusAccepted
	older.AssignedStaffID = &staff
	newer := pendingOrder("b")
	newer.Status = models.StatusAccepted
	newer.AssignedStaffID = &staff
	newer.CreatedAt = older.CreatedAt.Add(time.Hour)
	repo := NewMemoryOrderRepository(older, newer, pendingOrder("c"))

	got, _ := repo.ListByStaff(ctx, staff)
	if len(got) != 2 || got[0].ID != "b" || got[1].ID != "a" {
		t.Fatalf("ListByStaff = %+v", got)
	}
}

func TestMemoryOrderRepository_SaveRejectsStaleVersion(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryOrderRepository(pendingOrder("1"))

	first, _ := repo.GetByID(ctx, "1")
	second, _ := repo.GetByID(ctx, "1")

	first.PaymentStatus = models.PaymentPaid
	if err := repo.Save(ctx, first, models.StatusPending); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if first.Version != 1 {
		t.Fatalf("version after save = %d, want 1", first.Version)
	}

	// same status, older version
	second.Description = "overwrite"
	err := repo.Save(ctx, second, models.StatusPending)
	if !errors.Is(err, models.ErrInvalidTransition) {
		t.Fatalf("stale save err = %v, want ErrInvalidTransition", err)
	}

	stored, _ := repo.GetByID(ctx, "1")
	if stored.PaymentStatus != models.PaymentPaid || stored.Description == "overwrite" {
		t.Fatalf("stale save overwrote stored order: %+v", stored)
	}
}
