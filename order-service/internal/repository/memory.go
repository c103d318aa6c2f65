package repository

import (
	"cleaning-app/order-service/internal/models"
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryOrderRepository keeps orders in process. It is used by tests and
// when the service runs without MONGO_URI.
type MemoryOrderRepository struct {
	mu     sync.RWMutex
	orders map[string]models.Order
}

func NewMemoryOrderRepository(seed ...models.Order) *MemoryOrderRepository {
	r := &MemoryOrderRepository{orders: make(map[string]models.Order, len(seed))}
	for _, o := range seed {
		r.orders[o.ID] = o.Clone()
	}
	return r
}

func (r *MemoryOrderRepository) Create(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[order.ID]; ok {
		return fmt.Errorf("%w: order %s already exists", models.ErrValidation, order.ID)
	}
	order.UpdatedAt = time.Now()
	r.orders[order.ID] = order.Clone()
	return nil
}

func (r *MemoryOrderRepository) GetByID(_ context.Context, id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", id, models.ErrNotFound)
	}
	c := o.Clone()
	return &c, nil
}

func (r *MemoryOrderRepository) List(_ context.Context) ([]models.Order, error) {
	return r.collect(func(models.Order) bool { return true }), nil
}

func (r *MemoryOrderRepository) ListByStaff(_ context.Context, staffID string) ([]models.Order, error) {
	return r.collect(func(o models.Order) bool { return o.IsAssignedTo(staffID) }), nil
}

func (r *MemoryOrderRepository) Save(_ context.Context, order *models.Order, expected models.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.orders[order.ID]
	if !ok {
		return fmt.Errorf("order %s: %w", order.ID, models.ErrNotFound)
	}
	if current.Status != expected {
		return fmt.Errorf("%w: order %s is no longer %s", models.ErrInvalidTransition, order.ID, expected)
	}
	if current.Version != order.Version {
		return fmt.Errorf("%w: order %s was modified concurrently", models.ErrInvalidTransition, order.ID)
	}
	order.Version++
	order.UpdatedAt = time.Now()
	r.orders[order.ID] = order.Clone()
	return nil
}

func (r *MemoryOrderRepository) collect(keep func(models.Order) bool) []models.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := []models.Order{}
	for _, o := range r.orders {
		if keep(o) {
			orders = append(orders, o.Clone())
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].ID < orders[j].ID
		}
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders
}

type MemoryStaffRepository struct {
	mu    sync.RWMutex
	staff map[string]models.Staff
}

func NewMemoryStaffRepository(seed ...models.Staff) *MemoryStaffRepository {
	r := &MemoryStaffRepository{staff: make(map[string]models.Staff, len(seed))}
	for _, s := range seed {
		r.staff[s.ID] = s
	}
	return r
}

func (r *MemoryStaffRepository) GetByID(_ context.Context, id string) (*models.Staff, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.staff[id]
	if !ok {
		return nil, fmt.Errorf("staff %s: %w", id, models.ErrNotFound)
	}
	return &s, nil
}

func (r *MemoryStaffRepository) Save(_ context.Context, staff *models.Staff) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	staff.UpdatedAt = time.Now()
	r.staff[staff.ID] = *staff
	return nil
}

type MemoryEvidenceRepository struct {
	mu    sync.Mutex
	items []models.Evidence
}

func NewMemoryEvidenceRepository() *MemoryEvidenceRepository {
	return &MemoryEvidenceRepository{}
}

func (r *MemoryEvidenceRepository) Save(_ context.Context, e *models.Evidence) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, *e)
	return nil
}

func (r *MemoryEvidenceRepository) FindByOrderID(_ context.Context, orderID string) ([]models.Evidence, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := []models.Evidence{}
	for _, e := range r.items {
		if e.OrderID == orderID {
			items = append(items, e)
		}
	}
	return items, nil
}

type MemoryReportRepository struct {
	mu      sync.RWMutex
	reports map[string]models.Report
}

func NewMemoryReportRepository() *MemoryReportRepository {
	return &MemoryReportRepository{reports: make(map[string]models.Report)}
}

func (r *MemoryReportRepository) Create(_ context.Context, report *models.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.reports[report.ID]; ok {
		return fmt.Errorf("%w: report %s already exists", models.ErrValidation, report.ID)
	}
	report.Status = models.ReportOpen
	report.UpdatedAt = report.CreatedAt
	r.reports[report.ID] = *report
	return nil
}

func (r *MemoryReportRepository) GetByID(_ context.Context, id string) (*models.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	report, ok := r.reports[id]
	if !ok {
		return nil, fmt.Errorf("report %s: %w", id, models.ErrNotFound)
	}
	return &report, nil
}

func (r *MemoryReportRepository) List(_ context.Context, staffID string) ([]models.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reports := []models.Report{}
	for _, report := range r.reports {
		if staffID == "" || report.StaffID == staffID {
			reports = append(reports, report)
		}
	}
	sort.Slice(reports, func(i, j int) bool {
		if reports[i].CreatedAt.Equal(reports[j].CreatedAt) {
			return reports[i].ID < reports[j].ID
		}
		return reports[i].CreatedAt.After(reports[j].CreatedAt)
	})
	return reports, nil
}

func (r *MemoryReportRepository) UpdateStatus(_ context.Context, id string, status models.ReportStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	report, ok := r.reports[id]
	if !ok {
		return fmt.Errorf("report %s: %w", id, models.ErrNotFound)
	}
	report.Status = status
	report.UpdatedAt = time.Now()
	r.reports[id] = report
	return nil
}
