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

type EvidenceUpload struct {
	OrderID     string
	StaffID     string
	Kind        models.EvidenceKind
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type EvidenceService struct {
	orders   repository.OrderRepository
	evidence repository.EvidenceRepository
	store    utils.ObjectStore
	clock    Clock
}

func NewEvidenceService(orders repository.OrderRepository, evidence repository.EvidenceRepository, store utils.ObjectStore, clock Clock) *EvidenceService {
	return &EvidenceService{orders: orders, evidence: evidence, store: store, clock: clock}
}

// Upload stores a before/after photo. Only the staff member holding the
// order may upload, and not once the order was cancelled.
func (s *EvidenceService) Upload(ctx context.Context, in EvidenceUpload) (*models.Evidence, error) {
	if in.Kind != models.EvidenceBefore && in.Kind != models.EvidenceAfter {
		return nil, fmt.Errorf("%w: kind must be before or after", models.ErrValidation)
	}
	if !strings.HasPrefix(in.ContentType, "image/") {
		return nil, fmt.Errorf("%w: evidence must be an image", models.ErrValidation)
	}

	order, err := s.orders.GetByID(ctx, in.OrderID)
	if err != nil {
		return nil, err
	}
	if !order.IsAssignedTo(in.StaffID) {
		return nil, fmt.Errorf("%w: order %s is not assigned to %s", models.ErrInvalidState, in.OrderID, in.StaffID)
	}
	if order.Status == models.StatusCancelled {
		return nil, fmt.Errorf("%w: order %s is cancelled", models.ErrInvalidState, in.OrderID)
	}

	id := uuid.NewString()
	key := fmt.Sprintf("orders/%s/%s/%s%s", in.OrderID, in.Kind, id, path.Ext(in.FileName))
	url, err := s.store.Put(ctx, key, in.Body, in.Size, in.ContentType)
	if err != nil {
		return nil, fmt.Errorf("upload evidence: %w", err)
	}

	e := &models.Evidence{
		ID:        id,
		OrderID:   in.OrderID,
		StaffID:   in.StaffID,
		Kind:      in.Kind,
		ObjectKey: key,
		URL:       url,
		CreatedAt: s.clock.Now(),
	}
	if err := s.evidence.Save(ctx, e); err != nil {
		return nil, err
	}
	log.Printf("[EVIDENCE] Stored %s photo %s for order %s", in.Kind, key, in.OrderID)
	return e, nil
}

func (s *EvidenceService) List(ctx context.Context, orderID string) ([]models.Evidence, error) {
	if _, err := s.orders.GetByID(ctx, orderID); err != nil {
		return nil, err
	}
	return s.evidence.FindByOrderID(ctx, orderID)
}
