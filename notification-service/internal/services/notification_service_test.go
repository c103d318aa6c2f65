package services

import (
	"cleaning-app/notification-service/internal/models"
	"cleaning-app/notification-service/internal/repository"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type fakePusher struct {
	tokens []string
	err    error
}

func (p *fakePusher) SendPushNotification(_ context.Context, token, _, _ string, _ map[string]string) error {
	p.tokens = append(p.tokens, token)
	return p.err
}

type fakeMailer struct {
	to []string
}

func (m *fakeMailer) SendEmail(_ context.Context, to, _, _ string) error {
	m.to = append(m.to, to)
	return nil
}

func newTestService() (*NotificationService, *fakePusher, *fakeMailer) {
	pusher := &fakePusher{}
	mailer := &fakeMailer{}
	recipients := repository.NewMemoryRecipientRepo(models.Recipient{StaffID: "staff-1", DeviceToken: "tok-1", Email: "ali@example.com"})
	return NewNotificationService(repository.NewMemoryRepo(), recipients, pusher, mailer), pusher, mailer
}

func TestProcessEvent_StoresAndDelivers(t *testing.T) {
	svc, pusher, mailer := newTestService()
	ctx := context.Background()

	n, err := svc.ProcessEvent(ctx, []byte(`{"type":"payment","event_type":"online","order_id":"o-1","staff_id":"staff-1","message":"paid"}`))
	if err != nil {
		t.Fatal(err)
	}
	if n.Type != models.TypePayment || n.Title != "Payment" || n.IsRead {
		t.Errorf("unexpected notification %+v", n)
	}
	if len(pusher.tokens) != 1 || pusher.tokens[0] != "tok-1" {
		t.Errorf("push tokens = %v", pusher.tokens)
	}
	if len(mailer.to) != 1 {
		t.Errorf("payment email not sent: %v", mailer.to)
	}

	if _, err := svc.ProcessEvent(ctx, []byte(`not json`)); err == nil {
		t.Error("expected error for malformed payload")
	}
}

func TestProcessEvent_DeliveryFailureStillStores(t *testing.T) {
	svc, pusher, _ := newTestService()
	pusher.err = errors.New("token expired")
	ctx := context.Background()

	if _, err := svc.ProcessEvent(ctx, []byte(`{"type":"order-update","order_id":"o-1","staff_id":"staff-1","title":"Order updated"}`)); err != nil {
		t.Fatal(err)
	}
	items, _ := svc.GetNotifications(ctx, "staff-1")
	if len(items) != 1 {
		t.Fatalf("feed = %+v", items)
	}
}

func TestFeedOperations(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	base := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	events := []string{
		`{"type":"new-order","order_id":"o-1","occurred_at":"` + base.Format(time.RFC3339) + `"}`,
		`{"type":"order-update","order_id":"o-2","staff_id":"staff-1","occurred_at":"` + base.Add(time.Minute).Format(time.RFC3339) + `"}`,
		`{"type":"order-update","order_id":"o-3","staff_id":"staff-2","occurred_at":"` + base.Add(2*time.Minute).Format(time.RFC3339) + `"}`,
	}
	for _, e := range events {
		if _, err := svc.ProcessEvent(ctx, []byte(e)); err != nil {
			t.Fatal(err)
		}
	}

	feed, err := svc.GetNotifications(ctx, "staff-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(feed) != 2 || feed[0].OrderID != "o-2" || feed[1].OrderID != "o-1" {
		t.Fatalf("feed not newest first or leaks other staff: %+v", feed)
	}

	if err := svc.MarkAsRead(ctx, feed[0].ID, "staff-1"); err != nil {
		t.Fatal(err)
	}
	if n, _ := svc.UnreadCount(ctx, "staff-1"); n != 1 {
		t.Errorf("unread = %d, want 1", n)
	}

	if _, err := svc.MarkAllAsRead(ctx, "staff-1"); err != nil {
		t.Fatal(err)
	}
	if n, _ := svc.UnreadCount(ctx, "staff-1"); n != 0 {
		t.Errorf("unread after mark all = %d", n)
	}
	// own o-3 plus the broadcast, which staff-1 reading does not touch
	if n, _ := svc.UnreadCount(ctx, "staff-2"); n != 2 {
		t.Errorf("staff-2 unread = %d, want 2", n)
	}

	if err := svc.Delete(ctx, feed[0].ID, "staff-1"); err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(ctx, feed[0].ID, "staff-1"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.GetNotifications(ctx, ""); !errors.Is(err, models.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestRegisterRecipient(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	err := svc.RegisterRecipient(ctx, &models.Recipient{StaffID: "staff-3", Email: "nope"})
	if !errors.Is(err, models.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
	if err != nil && !strings.Contains(err.Error(), "email must be a valid email") {
		t.Errorf("message = %q", err)
	}
	if err := svc.RegisterRecipient(ctx, &models.Recipient{StaffID: "staff-3", DeviceToken: "tok-3"}); err != nil {
		t.Fatal(err)
	}
}

func TestBroadcastReadStateIsPerStaff(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	b, err := svc.ProcessEvent(ctx, []byte(`{"type":"new-order","order_id":"o-1"}`))
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.MarkAsRead(ctx, b.ID, "staff-1"); err != nil {
		t.Fatal(err)
	}
	if n, _ := svc.UnreadCount(ctx, "staff-1"); n != 0 {
		t.Errorf("staff-1 unread = %d, want 0", n)
	}
	if n, _ := svc.UnreadCount(ctx, "staff-2"); n != 1 {
		t.Errorf("staff-2 unread = %d, want 1", n)
	}
	feed, _ := svc.GetNotifications(ctx, "staff-2")
	if len(feed) != 1 || feed[0].IsRead {
		t.Fatalf("staff-2 feed = %+v", feed)
	}

	if changed, _ := svc.MarkAllAsRead(ctx, "staff-3"); changed != 1 {
		t.Errorf("staff-3 mark all changed %d, want 1", changed)
	}
	if n, _ := svc.UnreadCount(ctx, "staff-2"); n != 1 {
		t.Errorf("staff-2 unread after staff-3 mark all = %d, want 1", n)
	}

	// deleting a broadcast only hides it for the caller
	if err := svc.Delete(ctx, b.ID, "staff-1"); err != nil {
		t.Fatal(err)
	}
	if feed, _ := svc.GetNotifications(ctx, "staff-1"); len(feed) != 0 {
		t.Errorf("staff-1 still sees dismissed broadcast: %+v", feed)
	}
	if feed, _ := svc.GetNotifications(ctx, "staff-2"); len(feed) != 1 {
		t.Errorf("staff-2 lost the broadcast: %+v", feed)
	}
	if err := svc.MarkAsRead(ctx, b.ID, "staff-1"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("read of dismissed broadcast: %v", err)
	}
}

func TestOwnEntryHiddenFromOtherStaff(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	n, err := svc.ProcessEvent(ctx, []byte(`{"type":"order-update","order_id":"o-1","staff_id":"staff-1"}`))
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.MarkAsRead(ctx, n.ID, "staff-2"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("staff-2 marked staff-1's entry: %v", err)
	}
	if err := svc.Delete(ctx, n.ID, "staff-2"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("staff-2 deleted staff-1's entry: %v", err)
	}
	if err := svc.MarkAsRead(ctx, n.ID, ""); !errors.Is(err, models.ErrValidation) {
		t.Errorf("missing staff_id: %v", err)
	}
}
