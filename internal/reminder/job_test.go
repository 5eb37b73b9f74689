package reminder

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
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

type fakeSMS struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (f *fakeSMS) SendSMS(ctx context.Context, to, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	return nil
}

func seedBooking(t *testing.T, rows store.RowStore, name, email, phone, date string) {
	t.Helper()
	b := domain.Booking{
		CreatedAt:   time.Now(),
		Name:        name,
		Phone:       phone,
		Email:       email,
		ServiceName: "Cut",
		Date:        date,
		Time:        "10:00",
		Price:       200,
		Duration:    30,
		Token:       "tok-" + name,
	}
	if err := rows.AppendRow(context.Background(), store.SheetBookings, b.Row()); err != nil {
		t.Fatalf("AppendRow error: %v", err)
	}
}

func TestRun_PicksOnlyTomorrowsBookings(t *testing.T) {
	rows := memstore.New()
	notifier := &fakeNotifier{}
	sms := &fakeSMS{}

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	seedBooking(t, rows, "today", "today@b.com", "0811111111", "2026-03-10")
	seedBooking(t, rows, "tomorrow", "tomorrow@b.com", "0822222222", "2026-03-11")
	seedBooking(t, rows, "later", "later@b.com", "0833333333", "2026-03-12")

	j := New(rows, notifier, Options{
		SMS:    sms,
		Now:    func() time.Time { return now },
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	j.Run()

	if len(notifier.msgs) != 1 {
		t.Fatalf("messages = %d, want 1", len(notifier.msgs))
	}
	if notifier.msgs[0].To != "tomorrow@b.com" {
		t.Fatalf("reminder to = %q", notifier.msgs[0].To)
	}
	if len(sms.sent) != 1 || sms.sent[0] != "0822222222" {
		t.Fatalf("sms sent = %v", sms.sent)
	}
}

func TestRun_SMSFailureDoesNotStopPass(t *testing.T) {
	rows := memstore.New()
	notifier := &fakeNotifier{}
	sms := &fakeSMS{err: errors.New("twilio down")}

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	seedBooking(t, rows, "one", "one@b.com", "0811111111", "2026-03-11")
	seedBooking(t, rows, "two", "two@b.com", "0822222222", "2026-03-11")

	j := New(rows, notifier, Options{
		SMS:    sms,
		Now:    func() time.Time { return now },
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	j.Run()

	if len(notifier.msgs) != 2 {
		t.Fatalf("messages = %d, want both email reminders despite sms failures", len(notifier.msgs))
	}
}

func TestRun_NoSMSSenderConfigured(t *testing.T) {
	rows := memstore.New()
	notifier := &fakeNotifier{}

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	seedBooking(t, rows, "one", "one@b.com", "0811111111", "2026-03-11")

	j := New(rows, notifier, Options{
		Now:    func() time.Time { return now },
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	j.Run()

	if len(notifier.msgs) != 1 {
		t.Fatalf("messages = %d, want 1", len(notifier.msgs))
	}
}
