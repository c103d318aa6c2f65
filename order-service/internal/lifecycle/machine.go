// Package lifecycle holds the order status state machine: which status an
// event leads to and which fields that edge touches. Persisting the result
// is left to the order service.
package lifecycle

import (
	"fmt"
	"time"

	"cleaning-app/order-service/internal/models"
)

type Event string

const (
	EventAccept Event = "accept"
	EventReject Event = "reject"
	EventStart  Event = "start"
	EventFinish Event = "finish"
	EventCancel Event = "cancel"
)

func ParseEvent(s string) (Event, error) {
	switch e := Event(s); e {
	case EventAccept, EventReject, EventStart, EventFinish, EventCancel:
		return e, nil
	}
	return "", fmt.Errorf("%w: unknown event %q", models.ErrValidation, s)
}

type edge struct {
	from  models.OrderStatus
	event Event
}

var transitions = map[edge]models.OrderStatus{
	{models.StatusPending, EventAccept}:    models.StatusAccepted,
	{models.StatusPending, EventReject}:    models.StatusCancelled,
	{models.StatusAccepted, EventStart}:    models.StatusInProgress,
	{models.StatusInProgress, EventFinish}: models.StatusCompleted,
}

type Machine struct {
	cancelOverride bool
}

type Option func(*Machine)

// WithCancelOverride enables the admin cancel from any non-terminal status.
func WithCancelOverride(enabled bool) Option {
	return func(m *Machine) { m.cancelOverride = enabled }
}

func New(opts ...Option) *Machine {
	m := &Machine{cancelOverride: true}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Next returns the status event leads to from the given status.
func (m *Machine) Next(from models.OrderStatus, event Event) (models.OrderStatus, error) {
	if to, ok := transitions[edge{from, event}]; ok {
		return to, nil
	}
	if event == EventCancel && m.cancelOverride && !from.IsTerminal() {
		return models.StatusCancelled, nil
	}
	return "", fmt.Errorf("%w: %s is not allowed from %s", models.ErrInvalidTransition, event, from)
}

// Events lists what can be done to an order in the given status, in the
// order the staff app shows them.
func (m *Machine) Events(from models.OrderStatus) []Event {
	var events []Event
	for _, e := range []Event{EventAccept, EventReject, EventStart, EventFinish} {
		if _, ok := transitions[edge{from, e}]; ok {
			events = append(events, e)
		}
	}
	if m.cancelOverride && !from.IsTerminal() {
		events = append(events, EventCancel)
	}
	return events
}

// Apply returns a copy of order moved by event. Only the status and the
// side-effect field of that edge change: assigned staff on accept,
// completion time on finish.
func (m *Machine) Apply(order models.Order, event Event, actingStaffID string, now time.Time) (models.Order, error) {
	to, err := m.Next(order.Status, event)
	if err != nil {
		return order, err
	}

	next := order.Clone()
	next.Status = to
	switch event {
	case EventAccept:
		if actingStaffID == "" {
			return order, fmt.Errorf("%w: staff_id is required to accept", models.ErrValidation)
		}
		staffID := actingStaffID
		next.AssignedStaffID = &staffID
	case EventFinish:
		completedAt := now
		next.CompletedAt = &completedAt
	}
	return next, nil
}
