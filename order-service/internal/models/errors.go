package models

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrInvalidState      = errors.New("invalid state")
	ErrDeliveryFailed    = errors.New("delivery failed")
	ErrValidation        = errors.New("validation error")
)
