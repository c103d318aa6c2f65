package services

import (
	"bytes"
	"cleaning-app/order-service/internal/models"
	"cleaning-app/order-service/internal/repository"
	"cleaning-app/order-service/internal/utils"
	"context"
	"errors"
	"io"
	"testing"
	"time"
)

type memoryStore struct {
	objects map[string][]byte
}

func (s *memoryStore) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if s.objects == nil {
		s.objects = make(map[string][]byte)
	}
	s.objects[key] = data
	return "http://minio.local/order-evidence/" + key, nil
}

func TestDashboard_StaffView(t *testing.T) {
	me, other := "staff-1", "staff-2"
	mine := pendingOrder("mine")
	mine.Status = models.StatusAccepted
	mine.AssignedStaffID = &me
	theirs := pendingOrder("theirs")
	theirs.Status = models.StatusAccepted
	theirs.AssignedStaffID = &other
	open := pendingOrder("open")

	orders := repository.NewMemoryOrderRepository(mine, theirs, open)
	staff := repository.NewMemoryStaffRepository(models.Staff{ID: me, Name: "Ali", Rating: 4.5})
	svc := NewDashboardService(orders, staff, FixedClock{T: testNow}, time.UTC)

	d, err := svc.Dashboard(context.Background(), me)
	if err != nil {
		t.Fatal(err)
	}
	if d.Views.TodayCount != 2 || d.Views.InProgressCount != 1 || d.Views.PendingCount != 1 {
		t.Errorf("unexpected views %+v", d.Views)
	}
	if d.Performance == nil || d.Performance.TotalOrders != 1 || d.Staff == nil {
		t.Errorf("unexpected performance %+v", d.Performance)
	}

	all, err := svc.Dashboard(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if all.Views.TodayCount != 3 || all.Performance != nil {
		t.Errorf("unexpected global dashboard %+v", all)
	}
}

func TestStaffService(t *testing.T) {
	repo := repository.NewMemoryStaffRepository(models.Staff{ID: "s1", Name: "Ali", Settings: models.DefaultSettings()})
	svc := NewStaffService(repo)
	ctx := context.Background()

	if _, err := svc.UpdateProfile(ctx, "s1", models.ProfileUpdate{Name: "A", Phone: "1", Email: "nope"}); !errors.Is(err, models.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	st, err := svc.UpdateProfile(ctx, "s1", models.ProfileUpdate{Name: "Ali Rezaei", Phone: "+989120000000", Email: "ali@example.com"})
	if err != nil {
		t.Fatal(err)
	}
	if st.Email != "ali@example.com" {
		t.Errorf("email = %s", st.Email)
	}

	if st, err = svc.SetOnline(ctx, "s1", true); err != nil || !st.IsOnline {
		t.Errorf("set online: %+v %v", st, err)
	}
	if _, err := svc.UpdateLocation(ctx, "s1", models.Location{Lat: 200}); !errors.Is(err, models.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
	if st, err = svc.UpdateLocation(ctx, "s1", models.Location{Lat: 35.7, Lng: 51.4}); err != nil || st.CurrentLocation.Lat != 35.7 {
		t.Errorf("update location: %+v %v", st, err)
	}

	settings := models.DefaultSettings()
	settings.DarkMode = true
	if _, err := svc.UpdateSettings(ctx, "s1", settings); err != nil {
		t.Fatal(err)
	}
	got, err := svc.GetSettings(ctx, "s1")
	if err != nil || !got.DarkMode {
		t.Errorf("settings = %+v, %v", got, err)
	}

	if _, err := svc.GetProfile(ctx, "ghost"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestEvidenceService_Upload(t *testing.T) {
	staff := "staff-1"
	o := pendingOrder("1")
	o.Status = models.StatusInProgress
	o.AssignedStaffID = &staff

	store := &memoryStore{}
	svc := NewEvidenceService(repository.NewMemoryOrderRepository(o), repository.NewMemoryEvidenceRepository(), store, FixedClock{T: testNow})
	ctx := context.Background()

	upload := EvidenceUpload{
		OrderID:     "1",
		StaffID:     staff,
		Kind:        models.EvidenceBefore,
		FileName:    "kitchen.jpg",
		ContentType: "image/jpeg",
		Size:        4,
		Body:        bytes.NewReader([]byte("jpeg")),
	}
	e, err := svc.Upload(ctx, upload)
	if err != nil {
		t.Fatal(err)
	}
	if string(store.objects[e.ObjectKey]) != "jpeg" {
		t.Errorf("object not stored under %s", e.ObjectKey)
	}

	items, err := svc.List(ctx, "1")
	if err != nil || len(items) != 1 || items[0].ID != e.ID {
		t.Fatalf("list = %+v, %v", items, err)
	}

	upload.StaffID = "staff-2"
	if _, err := svc.Upload(ctx, upload); !errors.Is(err, models.ErrInvalidState) {
		t.Errorf("expected ErrInvalidState for unassigned staff, got %v", err)
	}
	upload.StaffID = staff
	upload.ContentType = "application/pdf"
	if _, err := svc.Upload(ctx, upload); !errors.Is(err, models.ErrValidation) {
		t.Errorf("expected ErrValidation for non-image, got %v", err)
	}
}

func TestCronJob_PendingReminders(t *testing.T) {
	stale := pendingOrder("stale")
	stale.CreatedAt = testNow.Add(-time.Hour)
	fresh := pendingOrder("fresh")
	fresh.CreatedAt = testNow.Add(-time.Minute)

	pub := &recordingPublisher{}
	job := NewCronJobService(repository.NewMemoryOrderRepository(stale, fresh), pub, FixedClock{T: testNow}, time.Minute, 15*time.Minute)

	if n := job.sendPendingReminders(context.Background()); n != 1 {
		t.Fatalf("sent %d reminders, want 1", n)
	}
	if pub.events[0].OrderID != "stale" || pub.events[0].Type != "system" {
		t.Errorf("unexpected event %+v", pub.events[0])
	}
	if n := job.sendPendingReminders(context.Background()); n != 0 {
		t.Errorf("reminder repeated: %d", n)
	}
}

func TestCronJob_NonPositiveIntervalFallsBackToDefault(t *testing.T) {
	job := NewCronJobService(repository.NewMemoryOrderRepository(), utils.NopPublisher{}, FixedClock{T: testNow}, 0, time.Minute)
	if job.Interval != defaultReminderInterval {
		t.Fatalf("Interval = %s, want %s", job.Interval, defaultReminderInterval)
	}

	ctx, cancel := context.WithCancel(context.Background())
	job.Start(ctx)
	cancel()
}
