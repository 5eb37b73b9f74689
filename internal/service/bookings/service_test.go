package bookings

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"quedee/internal/domain"
	"quedee/internal/notify"
	"quedee/internal/store"
	"quedee/internal/store/memstore"
)

type fakeNotifier struct {
	msgs []notify.Message
}

func (f *fakeNotifier) Enqueue(msg notify.Message) {
	f.msgs = append(f.msgs, msg)
}

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *memstore.Store, *fakeNotifier) {
	t.Helper()
	rows := memstore.New()
	notifier := &fakeNotifier{}
	svc := NewService(rows, notifier, Options{
		SiteURL:    "https://booking.example.com",
		AdminEmail: "admin@example.com",
		Now:        func() time.Time { return testNow },
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return svc, rows, notifier
}

func validInput() CreateInput {
	return CreateInput{
		Name:        "Ann",
		Phone:       "0812345678",
		Email:       "a@b.com",
		ServiceName: "Cut",
		Date:        "2099-01-01",
		Time:        "10:00",
		Notes:       "",
		Price:       200,
		Duration:    30,
	}
}

func TestCreate_MissingFields(t *testing.T) {
	svc, _, _ := newTestService(t)

	cases := []struct {
		mutate func(*CreateInput)
		want   string
	}{
		{func(in *CreateInput) { in.Name = "" }, "name is required"},
		{func(in *CreateInput) { in.Phone = "" }, "phone is required"},
		{func(in *CreateInput) { in.Email = "" }, "email is required"},
		{func(in *CreateInput) { in.ServiceName = "" }, "serviceName is required"},
		{func(in *CreateInput) { in.Date = "" }, "date is required"},
		{func(in *CreateInput) { in.Time = "" }, "time is required"},
	}

	for _, tc := range cases {
		in := validInput()
		tc.mutate(&in)

		_, err := svc.Create(context.Background(), in)
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("error type = %T, want *ValidationError", err)
		}
		if vErr.Error() != tc.want {
			t.Fatalf("error = %q, want %q", vErr.Error(), tc.want)
		}
	}
}

func TestCreate_EmailFormat(t *testing.T) {
	svc, _, _ := newTestService(t)

	in := validInput()
	in.Email = "bad"
	if _, err := svc.Create(context.Background(), in); err == nil {
		t.Fatalf("expected error for email %q", in.Email)
	}

	in.Email = "a@b.co"
	if _, err := svc.Create(context.Background(), in); err != nil {
		t.Fatalf("Create error for email %q: %v", in.Email, err)
	}
}

func TestCreate_PhoneFormat(t *testing.T) {
	svc, _, _ := newTestService(t)

	for _, phone := range []string{"123", "abcdefghij", "08123456789"} {
		in := validInput()
		in.Phone = phone
		if _, err := svc.Create(context.Background(), in); err == nil {
			t.Fatalf("expected error for phone %q", phone)
		}
	}

	for _, phone := range []string{"081234567", "0812345678"} {
		in := validInput()
		in.Phone = phone
		if _, err := svc.Create(context.Background(), in); err != nil {
			t.Fatalf("Create error for phone %q: %v", phone, err)
		}
	}
}

func TestCreate_DateNotInPast(t *testing.T) {
	svc, _, _ := newTestService(t)

	in := validInput()
	in.Date = "2026-03-09" // yesterday relative to testNow
	_, err := svc.Create(context.Background(), in)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("error type = %T, want *ValidationError", err)
	}

	in.Date = "2026-03-10" // today
	if _, err := svc.Create(context.Background(), in); err != nil {
		t.Fatalf("Create error for today: %v", err)
	}

	in.Date = "2026-03-11"
	if _, err := svc.Create(context.Background(), in); err != nil {
		t.Fatalf("Create error for tomorrow: %v", err)
	}
}

func TestCreate_ValidationWritesNoRowAndSendsNothing(t *testing.T) {
	svc, rows, notifier := newTestService(t)

	in := validInput()
	in.Email = "bad"
	if _, err := svc.Create(context.Background(), in); err == nil {
		t.Fatalf("expected error")
	}

	got, err := rows.ScanRows(context.Background(), store.SheetBookings)
	if err != nil {
		t.Fatalf("ScanRows error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("rows = %d, want 0", len(got))
	}
	if len(notifier.msgs) != 0 {
		t.Fatalf("messages = %d, want 0", len(notifier.msgs))
	}
}

func TestCreate_AppendsRowAndNotifies(t *testing.T) {
	svc, rows, notifier := newTestService(t)

	tok, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if len(tok) != 32 {
		t.Fatalf("token length = %d, want 32", len(tok))
	}

	got, err := rows.ScanRows(context.Background(), store.SheetBookings)
	if err != nil {
		t.Fatalf("ScanRows error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("rows = %d, want 1", len(got))
	}
	if got[0][domain.BookingColToken] != tok {
		t.Fatalf("token cell = %q, want %q", got[0][domain.BookingColToken], tok)
	}

	if len(notifier.msgs) != 2 {
		t.Fatalf("messages = %d, want customer confirmation + admin alert", len(notifier.msgs))
	}
	customer, admin := notifier.msgs[0], notifier.msgs[1]
	if customer.To != "a@b.com" {
		t.Fatalf("customer message to = %q", customer.To)
	}
	wantLink := "https://booking.example.com?cancel=" + tok
	if !strings.Contains(customer.Body, wantLink) {
		t.Fatalf("customer body missing cancel link %q", wantLink)
	}
	if admin.To != "admin@example.com" {
		t.Fatalf("admin message to = %q", admin.To)
	}
}

func TestFindByToken_RoundTrip(t *testing.T) {
	svc, _, _ := newTestService(t)

	in := validInput()
	tok, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	b, err := svc.FindByToken(context.Background(), tok)
	if err != nil {
		t.Fatalf("FindByToken error: %v", err)
	}
	if b.Name != in.Name || b.ServiceName != in.ServiceName || b.Date != in.Date || b.Time != in.Time {
		t.Fatalf("booking = %+v, want fields from input", b)
	}
	if b.Price != in.Price || b.Duration != in.Duration {
		t.Fatalf("price/duration = %v/%v, want %v/%v", b.Price, b.Duration, in.Price, in.Duration)
	}
}

func TestFindByToken_EmptyToken(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.FindByToken(context.Background(), "")
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("error type = %T, want *ValidationError", err)
	}
	if vErr.Error() != "Token required" {
		t.Fatalf("error = %q, want %q", vErr.Error(), "Token required")
	}
}

func TestFindByToken_Unknown(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.FindByToken(context.Background(), "nosuchtoken")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("error = %v, want %v", err, store.ErrNotFound)
	}
}

func TestCancelByToken_ConsumesToken(t *testing.T) {
	svc, rows, notifier := newTestService(t)

	tok, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	notifier.msgs = nil

	if err := svc.CancelByToken(context.Background(), tok); err != nil {
		t.Fatalf("CancelByToken error: %v", err)
	}

	got, _ := rows.ScanRows(context.Background(), store.SheetBookings)
	if len(got) != 0 {
		t.Fatalf("rows = %d, want 0 after cancel", len(got))
	}
	if len(notifier.msgs) != 2 {
		t.Fatalf("messages = %d, want cancellation pair", len(notifier.msgs))
	}

	if _, err := svc.FindByToken(context.Background(), tok); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("FindByToken after cancel = %v, want %v", err, store.ErrNotFound)
	}

	// Second cancel of the same token is indistinguishable from a miss.
	if err := svc.CancelByToken(context.Background(), tok); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("second CancelByToken = %v, want %v", err, store.ErrNotFound)
	}
}

func TestCancelByAdmin_ExactMatchOnly(t *testing.T) {
	svc, rows, _ := newTestService(t)

	if _, err := svc.Create(context.Background(), validInput()); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	// Case difference in email is a miss: no normalization.
	err := svc.CancelByAdmin(context.Background(), "A@B.COM", "2099-01-01", "10:00")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("case-differing email = %v, want %v", err, store.ErrNotFound)
	}

	if err := svc.CancelByAdmin(context.Background(), "a@b.com", "2099-01-01", "10:00"); err != nil {
		t.Fatalf("CancelByAdmin error: %v", err)
	}

	got, _ := rows.ScanRows(context.Background(), store.SheetBookings)
	if len(got) != 0 {
		t.Fatalf("rows = %d, want 0 after admin cancel", len(got))
	}
}

func TestCancelByAdmin_FirstMatchInScanOrderWins(t *testing.T) {
	svc, rows, _ := newTestService(t)

	first := validInput()
	first.Name = "First"
	second := validInput()
	second.Name = "Second"

	if _, err := svc.Create(context.Background(), first); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if _, err := svc.Create(context.Background(), second); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if err := svc.CancelByAdmin(context.Background(), "a@b.com", "2099-01-01", "10:00"); err != nil {
		t.Fatalf("CancelByAdmin error: %v", err)
	}

	got, _ := rows.ScanRows(context.Background(), store.SheetBookings)
	if len(got) != 1 {
		t.Fatalf("rows = %d, want 1", len(got))
	}
	if got[0][domain.BookingColName] != "Second" {
		t.Fatalf("surviving row name = %q, want %q", got[0][domain.BookingColName], "Second")
	}
}

func TestCreate_PropagatesStoreErrors(t *testing.T) {
	rows := &failingStore{err: errors.New("boom")}
	notifier := &fakeNotifier{}
	svc := NewService(rows, notifier, Options{
		Now:    func() time.Time { return testNow },
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	_, err := svc.Create(context.Background(), validInput())
	if err == nil || err.Error() != "boom" {
		t.Fatalf("error = %v, want boom", err)
	}
	if len(notifier.msgs) != 0 {
		t.Fatalf("messages = %d, want 0 when the append fails", len(notifier.msgs))
	}
}

type failingStore struct {
	err error
}

func (f *failingStore) ScanRows(ctx context.Context, sheet string) ([][]string, error) {
	return nil, f.err
}

func (f *failingStore) AppendRow(ctx context.Context, sheet string, row []string) error {
	return f.err
}

func (f *failingStore) UpdateRow(ctx context.Context, sheet string, index int, cells map[int]string) error {
	return f.err
}

func (f *failingStore) DeleteRow(ctx context.Context, sheet string, index int) error {
	return f.err
}
