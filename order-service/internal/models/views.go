package models

// DashboardViews is a projection of the order set; it is never stored.
type DashboardViews struct {
	TodayOrders      []Order `json:"today_orders"`
	PendingOrders    []Order `json:"pending_orders"`
	InProgressOrders []Order `json:"in_progress_orders"`
	CompletedToday   []Order `json:"completed_today"`

	TodayCount          int   `json:"today_count"`
	PendingCount        int   `json:"pending_count"`
	InProgressCount     int   `json:"in_progress_count"`
	CompletedTodayCount int   `json:"completed_today_count"`
	TodayEarnings       int64 `json:"today_earnings"`

	StatusCounts map[OrderStatus]int `json:"status_counts"`
}

type Performance struct {
	TotalOrders       int     `json:"total_orders"`
	CompletedOrders   int     `json:"completed_orders"`
	CancelledOrders   int     `json:"cancelled_orders"`
	TotalEarnings     int64   `json:"total_earnings"`
	AverageRating     float64 `json:"average_rating"`
	ThisMonthOrders   int     `json:"this_month_orders"`
	ThisMonthEarnings int64   `json:"this_month_earnings"`
}

type Dashboard struct {
	Views       DashboardViews `json:"views"`
	Performance *Performance   `json:"performance,omitempty"`
	Staff       *Staff         `json:"staff,omitempty"`
}
