package services

import (
	"cleaning-app/order-service/internal/models"
	"cleaning-app/order-service/internal/repository"
	"cleaning-app/order-service/internal/utils"
	"context"
	"fmt"
	"io"
	"log"
	"path"
	"strings"

	"github.com/google/uuid"
)

// ReportAttachment is the optional photo or video sent with a report.
type ReportAttachment struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type NewReport struct {
	StaffID     string
	OrderID     string
	Type        models.ReportType
	Description string
	Attachment  *ReportAttachment
}

type ReportService struct {
	reports   repository.ReportRepository
	orders    repository.OrderRepository
	store     utils.ObjectStore
	publisher utils.EventPublisher
	clock     Clock
}

// NewReportService wires violation reports. store may be nil, in which
// case reports without an attachment are still accepted.
func NewReportService(reports repository.ReportRepository, orders repository.OrderRepository, store utils.ObjectStore, publisher utils.EventPublisher, clock Clock) *ReportService {
	if publisher == nil {
		publisher = utils.NopPublisher{}
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &ReportService{reports: reports, orders: orders, store: store, publisher: publisher, clock: clock}
}

func (s *ReportService) Submit(ctx context.Context, in NewReport) (*models.Report, error) {
	report := &models.Report{
		ID:          uuid.NewString(),
		StaffID:     in.StaffID,
		OrderID:     in.OrderID,
		Type:        in.Type,
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   s.clock.Now(),
	}
	if err := report.Validate(); err != nil {
		return nil, err
	}
	if report.OrderID != "" {
		if _, err := s.orders.GetByID(ctx, report.OrderID); err != nil {
			return nil, err
		}
	}

	if a := in.Attachment; a != nil {
		ct := a.ContentType
		if !strings.HasPrefix(ct, "image/") && !strings.HasPrefix(ct, "video/") {
			return nil, fmt.Errorf("%w: evidence must be an image or a video", models.ErrValidation)
		}
		if s.store == nil {
			return nil, fmt.Errorf("%w: file storage is not configured", models.ErrInvalidState)
		}
		key := fmt.Sprintf("reports/%s/%s%s", report.StaffID, report.ID, path.Ext(a.FileName))
		url, err := s.store.Put(ctx, key, a.Body, a.Size, ct)
		if err != nil {
			return nil, fmt.Errorf("upload report evidence: %w", err)
		}
		report.EvidenceKey = key
		report.EvidenceURL = url
	}

	if err := s.reports.Create(ctx, report); err != nil {
		return nil, err
	}
	log.Printf("[REPORT] %s report %s filed by staff %s", report.Type, report.ID, report.StaffID)

	s.notify(ctx, report, "Report received", fmt.Sprintf("Your %s report was received and will be reviewed", report.Type))
	return report, nil
}

func (s *ReportService) Get(ctx context.Context, id string) (*models.Report, error) {
	return s.reports.GetByID(ctx, id)
}

func (s *ReportService) List(ctx context.Context, staffID string) ([]models.Report, error) {
	return s.reports.List(ctx, staffID)
}

// UpdateStatus moves a report through review and tells the reporter.
func (s *ReportService) UpdateStatus(ctx context.Context, id string, status models.ReportStatus) (*models.Report, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: status must be open, in_progress or closed", models.ErrValidation)
	}
	if err := s.reports.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	log.Printf("[REPORT] Report %s is now %s", id, status)
	s.notify(ctx, report, "Report updated", fmt.Sprintf("Your %s report is now %s", report.Type, status))
	return report, nil
}

func (s *ReportService) notify(ctx context.Context, r *models.Report, title, message string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	event := utils.OrderEvent{
		Type:       "system",
		EventType:  "violation-report",
		OrderID:    r.OrderID,
		StaffID:    r.StaffID,
		Status:     string(r.Status),
		Title:      title,
		Message:    message,
		OccurredAt: s.clock.Now(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Printf("[EVENTS] Failed to publish report %s: %v", r.ID, err)
	}
}
