package models

import (
	"cleaning-app/pkg/validator"
	"fmt"
	"strings"
	"time"
)

type ReportType string

const (
	ReportLate     ReportType = "late"
	ReportQuality  ReportType = "quality"
	ReportBehavior ReportType = "behavior"
	ReportSafety   ReportType = "safety"
	ReportOther    ReportType = "other"
)

type ReportStatus string

const (
	ReportOpen       ReportStatus = "open"
	ReportInProgress ReportStatus = "in_progress"
	ReportClosed     ReportStatus = "closed"
)

func (s ReportStatus) Valid() bool {
	switch s {
	case ReportOpen, ReportInProgress, ReportClosed:
		return true
	}
	return false
}

// Report is a violation report filed by a staff member, optionally about
// one order and with a photo or video attached.
type Report struct {
	ID          string       `bson:"_id" json:"id"`
	StaffID     string       `bson:"staff_id" json:"staff_id" validate:"required"`
	OrderID     string       `bson:"order_id,omitempty" json:"order_id,omitempty"`
	Type        ReportType   `bson:"type" json:"type" validate:"required,oneof=late quality behavior safety other"`
	Description string       `bson:"description" json:"description" validate:"required,max=2000"`
	EvidenceKey string       `bson:"evidence_key,omitempty" json:"evidence_key,omitempty"`
	EvidenceURL string       `bson:"evidence_url,omitempty" json:"evidence_url,omitempty"`
	Status      ReportStatus `bson:"status" json:"status"`
	CreatedAt   time.Time    `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time    `bson:"updated_at" json:"updated_at"`
}

func (r Report) Validate() error {
	if errs := validator.Check(r); errs != nil {
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(errs, " // "))
	}
	return nil
}
