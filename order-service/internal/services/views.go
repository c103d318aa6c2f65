package services

import (
	"cleaning-app/order-service/internal/models"
	"time"
)

// DeriveViews projects the dashboard buckets out of orders. It never
// mutates orders and the returned slices share no memory with it. Day
// comparisons use the calendar day of ref in loc.
func DeriveViews(orders []models.Order, ref time.Time, loc *time.Location) models.DashboardViews {
	v := models.DashboardViews{
		TodayOrders:      []models.Order{},
		PendingOrders:    []models.Order{},
		InProgressOrders: []models.Order{},
		CompletedToday:   []models.Order{},
		StatusCounts:     StatusCounts(orders),
	}

	for _, o := range orders {
		if sameDay(o.CreatedAt, ref, loc) {
			v.TodayOrders = append(v.TodayOrders, o.Clone())
		}
		switch o.Status {
		case models.StatusPending:
			v.PendingOrders = append(v.PendingOrders, o.Clone())
		case models.StatusAccepted, models.StatusInProgress:
			v.InProgressOrders = append(v.InProgressOrders, o.Clone())
		case models.StatusCompleted:
			if o.CompletedAt != nil && sameDay(*o.CompletedAt, ref, loc) {
				v.CompletedToday = append(v.CompletedToday, o.Clone())
			}
		}
	}

	v.TodayCount = len(v.TodayOrders)
	v.PendingCount = len(v.PendingOrders)
	v.InProgressCount = len(v.InProgressOrders)
	v.CompletedTodayCount = len(v.CompletedToday)
	v.TodayEarnings = SumAmount(v.CompletedToday)
	return v
}

func SumAmount(orders []models.Order) int64 {
	var sum int64
	for _, o := range orders {
		sum += o.Amount
	}
	return sum
}

// StatusCounts counts orders per status; every status is present.
func StatusCounts(orders []models.Order) map[models.OrderStatus]int {
	counts := map[models.OrderStatus]int{
		models.StatusPending:    0,
		models.StatusAccepted:   0,
		models.StatusInProgress: 0,
		models.StatusCompleted:  0,
		models.StatusCancelled:  0,
	}
	for _, o := range orders {
		counts[o.Status]++
	}
	return counts
}

// FilterByStatus keeps orders in status; "" and "all" keep everything.
func FilterByStatus(orders []models.Order, status string) []models.Order {
	out := []models.Order{}
	for _, o := range orders {
		if status == "" || status == "all" || string(o.Status) == status {
			out = append(out, o.Clone())
		}
	}
	return out
}

// ComputePerformance summarises the orders assigned to staff. The rating
// comes from the staff record; orders carry no ratings.
func ComputePerformance(staff models.Staff, orders []models.Order, ref time.Time, loc *time.Location) models.Performance {
	p := models.Performance{AverageRating: staff.Rating}
	for _, o := range orders {
		if !o.IsAssignedTo(staff.ID) {
			continue
		}
		p.TotalOrders++
		switch o.Status {
		case models.StatusCompleted:
			p.CompletedOrders++
			p.TotalEarnings += o.Amount
			if o.CompletedAt != nil && sameMonth(*o.CompletedAt, ref, loc) {
				p.ThisMonthEarnings += o.Amount
			}
		case models.StatusCancelled:
			p.CancelledOrders++
		}
		if sameMonth(o.CreatedAt, ref, loc) {
			p.ThisMonthOrders++
		}
	}
	return p
}

func sameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

func sameMonth(a, b time.Time, loc *time.Location) bool {
	ay, am, _ := a.In(loc).Date()
	by, bm, _ := b.In(loc).Date()
	return ay == by && am == bm
}
