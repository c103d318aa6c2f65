package models

import (
	"fmt"
	"strings"
	"time"

	"cleaning-app/pkg/validator"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusAccepted   OrderStatus = "accepted"
	StatusInProgress OrderStatus = "in-progress"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
)

// IsTerminal reports whether no further transition can leave the status.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentOnline PaymentMethod = "online"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

type Location struct {
	Lat float64 `bson:"lat" json:"lat" validate:"gte=-90,lte=90"`
	Lng float64 `bson:"lng" json:"lng" validate:"gte=-180,lte=180"`
}

type Order struct {
	ID               string        `bson:"_id" json:"id" validate:"required"`
	CustomerID       string        `bson:"customer_id" json:"customer_id" validate:"required"`
	CustomerName     string        `bson:"customer_name" json:"customer_name"`
	CustomerPhone    string        `bson:"customer_phone" json:"customer_phone" validate:"required"`
	Address          string        `bson:"address" json:"address" validate:"required"`
	ServiceType      string        `bson:"service_type" json:"service_type" validate:"required"`
	Description      string        `bson:"description,omitempty" json:"description,omitempty"`
	RequestedTime    string        `bson:"requested_time" json:"requested_time"`
	AssignedStaffID  *string       `bson:"assigned_staff_id,omitempty" json:"assigned_staff_id,omitempty"`
	Status           OrderStatus   `bson:"status" json:"status" validate:"required,eq=pending|eq=accepted|eq=in-progress|eq=completed|eq=cancelled"`
	Location         Location      `bson:"location" json:"location"`
	PaymentMethod    PaymentMethod `bson:"payment_method,omitempty" json:"payment_method,omitempty" validate:"omitempty,eq=cash|eq=online"`
	PaymentStatus    PaymentStatus `bson:"payment_status" json:"payment_status" validate:"required,eq=pending|eq=paid"`
	PaymentReference string        `bson:"payment_reference,omitempty" json:"payment_reference,omitempty"`
	Amount           int64         `bson:"amount" json:"amount" validate:"required,gt=0"`
	CreatedAt        time.Time     `bson:"created_at" json:"created_at"`
	CompletedAt      *time.Time    `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	UpdatedAt        time.Time     `bson:"updated_at" json:"updated_at"`
	// Version is bumped by every save; a save must carry the version it read.
	Version int64 `bson:"version" json:"version"`
}

// Validate checks field formats and the lifecycle invariants.
func (o Order) Validate() error {
	if err := validator.GetValidator().Struct(o); err != nil {
		errs := validator.ParseErrors(err)
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(errs, " // "))
	}
	if (o.CompletedAt != nil) != (o.Status == StatusCompleted) {
		return fmt.Errorf("%w: completed_at must be set only for completed orders", ErrValidation)
	}
	if o.Status == StatusPending && o.AssignedStaffID != nil {
		return fmt.Errorf("%w: pending order cannot have an assigned staff", ErrValidation)
	}
	return nil
}

// Clone returns a deep copy so callers never share pointer fields.
func (o Order) Clone() Order {
	c := o
	if o.AssignedStaffID != nil {
		id := *o.AssignedStaffID
		c.AssignedStaffID = &id
	}
	if o.CompletedAt != nil {
		t := *o.CompletedAt
		c.CompletedAt = &t
	}
	return c
}

// IsAssignedTo reports whether staffID holds the order.
func (o Order) IsAssignedTo(staffID string) bool {
	return o.AssignedStaffID != nil && *o.AssignedStaffID == staffID
}
