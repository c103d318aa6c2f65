package models

import "time"

type NotificationType string

const (
	TypeNewOrder    NotificationType = "new-order"
	TypeOrderUpdate NotificationType = "order-update"
	TypePayment     NotificationType = "payment"
	TypeSystem      NotificationType = "system"
)

// Notification is one entry of a staff member's feed. An empty StaffID
// marks a broadcast entry that every staff member sees; its read and
// dismissed state is kept per staff member in ReadBy and DismissedBy,
// while IsRead on a stored broadcast stays false.
type Notification struct {
	ID          string           `bson:"_id" json:"id"`
	StaffID     string           `bson:"staff_id" json:"staff_id"`
	Type        NotificationType `bson:"type" json:"type"`
	Title       string           `bson:"title" json:"title"`
	Message     string           `bson:"message" json:"message"`
	IsRead      bool             `bson:"is_read" json:"is_read"`
	OrderID     string           `bson:"order_id,omitempty" json:"order_id,omitempty"`
	CreatedAt   time.Time        `bson:"created_at" json:"created_at"`
	ReadBy      []string         `bson:"read_by,omitempty" json:"-"`
	DismissedBy []string         `bson:"dismissed_by,omitempty" json:"-"`
}

func (n Notification) IsBroadcast() bool {
	return n.StaffID == ""
}

// VisibleTo reports whether the entry belongs in staffID's feed.
func (n Notification) VisibleTo(staffID string) bool {
	if n.IsBroadcast() {
		return !contains(n.DismissedBy, staffID)
	}
	return n.StaffID == staffID
}

// ForStaff returns the entry as staffID sees it.
func (n Notification) ForStaff(staffID string) Notification {
	if n.IsBroadcast() {
		n.IsRead = contains(n.ReadBy, staffID)
	}
	n.ReadBy, n.DismissedBy = nil, nil
	return n
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// Recipient holds where a staff member wants push and email delivered.
type Recipient struct {
	StaffID     string `bson:"_id" json:"staff_id"`
	DeviceToken string `bson:"device_token,omitempty" json:"device_token,omitempty"`
	Email       string `bson:"email,omitempty" json:"email,omitempty" validate:"omitempty,email"`
}

// OrderEvent is the JSON published by the order service on order_events.
type OrderEvent struct {
	Type       string    `json:"type"`
	EventType  string    `json:"event_type"`
	OrderID    string    `json:"order_id"`
	StaffID    string    `json:"staff_id,omitempty"`
	Status     string    `json:"status,omitempty"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}
