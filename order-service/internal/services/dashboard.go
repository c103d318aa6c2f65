package services

import (
	"cleaning-app/order-service/internal/models"
	"cleaning-app/order-service/internal/repository"
	"context"
	"errors"
	"time"
)

type DashboardService struct {
	orders repository.OrderRepository
	staff  repository.StaffRepository
	clock  Clock
	loc    *time.Location
}

func NewDashboardService(orders repository.OrderRepository, staff repository.StaffRepository, clock Clock, loc *time.Location) *DashboardService {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardService{orders: orders, staff: staff, clock: clock, loc: loc}
}

// Dashboard derives the views a staff member sees: unassigned pending
// orders plus everything assigned to them. With an empty staffID every
// order is included and no performance is computed.
func (s *DashboardService) Dashboard(ctx context.Context, staffID string) (*models.Dashboard, error) {
	all, err := s.orders.List(ctx)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()

	if staffID == "" {
		return &models.Dashboard{Views: DeriveViews(all, now, s.loc)}, nil
	}

	visible := make([]models.Order, 0, len(all))
	for _, o := range all {
		if o.Status == models.StatusPending || o.IsAssignedTo(staffID) {
			visible = append(visible, o)
		}
	}

	d := &models.Dashboard{Views: DeriveViews(visible, now, s.loc)}

	staff, err := s.staff.GetByID(ctx, staffID)
	if errors.Is(err, models.ErrNotFound) {
		return d, nil
	}
	if err != nil {
		return nil, err
	}
	perf := ComputePerformance(*staff, all, now, s.loc)
	d.Staff = staff
	d.Performance = &perf
	return d, nil
}
