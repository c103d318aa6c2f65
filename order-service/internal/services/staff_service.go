package services

import (
	"cleaning-app/order-service/internal/models"
	"cleaning-app/order-service/internal/repository"
	"context"
	"fmt"
	"log"
)

type StaffService interface {
	GetProfile(ctx context.Context, id string) (*models.Staff, error)
	UpdateProfile(ctx context.Context, id string, update models.ProfileUpdate) (*models.Staff, error)
	SetOnline(ctx context.Context, id string, online bool) (*models.Staff, error)
	UpdateLocation(ctx context.Context, id string, loc models.Location) (*models.Staff, error)
	GetSettings(ctx context.Context, id string) (*models.Settings, error)
	UpdateSettings(ctx context.Context, id string, settings models.Settings) (*models.Settings, error)
}

type staffService struct {
	repo repository.StaffRepository
}

func NewStaffService(repo repository.StaffRepository) StaffService {
	return &staffService{repo: repo}
}

func (s *staffService) GetProfile(ctx context.Context, id string) (*models.Staff, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *staffService) UpdateProfile(ctx context.Context, id string, update models.ProfileUpdate) (*models.Staff, error) {
	if err := update.Validate(); err != nil {
		return nil, err
	}
	return s.modify(ctx, id, func(st *models.Staff) {
		st.Name = update.Name
		st.Phone = update.Phone
		st.Email = update.Email
	})
}

func (s *staffService) SetOnline(ctx context.Context, id string, online bool) (*models.Staff, error) {
	staff, err := s.modify(ctx, id, func(st *models.Staff) { st.IsOnline = online })
	if err == nil {
		log.Printf("[STAFF] %s is now online=%t", id, online)
	}
	return staff, err
}

// UpdateLocation stores the coordinates as reported; nothing is computed from them.
func (s *staffService) UpdateLocation(ctx context.Context, id string, loc models.Location) (*models.Staff, error) {
	if loc.Lat < -90 || loc.Lat > 90 || loc.Lng < -180 || loc.Lng > 180 {
		return nil, fmt.Errorf("%w: coordinates out of range", models.ErrValidation)
	}
	return s.modify(ctx, id, func(st *models.Staff) { st.CurrentLocation = loc })
}

func (s *staffService) GetSettings(ctx context.Context, id string) (*models.Settings, error) {
	staff, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &staff.Settings, nil
}

func (s *staffService) UpdateSettings(ctx context.Context, id string, settings models.Settings) (*models.Settings, error) {
	staff, err := s.modify(ctx, id, func(st *models.Staff) { st.Settings = settings })
	if err != nil {
		return nil, err
	}
	return &staff.Settings, nil
}

func (s *staffService) modify(ctx context.Context, id string, apply func(*models.Staff)) (*models.Staff, error) {
	staff, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	apply(staff)
	if err := s.repo.Save(ctx, staff); err != nil {
		return nil, err
	}
	return staff, nil
}
