// Package reminder sends day-before appointment reminders on a cron
// schedule. Like every other notification path, failures are logged and never
// affect booking state.
package reminder

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"quedee/internal/domain"
	"quedee/internal/notify"
	"quedee/internal/store"
)

type Notifier interface {
	Enqueue(msg notify.Message)
}

type Job struct {
	rows     store.RowStore
	notifier Notifier
	sms      notify.SMSSender
	now      func() time.Time
	log      *slog.Logger

	cron *cron.Cron
}

type Options struct {
	// SMS is optional; when nil only the email reminder is sent.
	SMS    notify.SMSSender
	Now    func() time.Time
	Logger *slog.Logger
}

func New(rows store.RowStore, notifier Notifier, opts Options) *Job {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Job{
		rows:     rows,
		notifier: notifier,
		sms:      opts.SMS,
		now:      opts.Now,
		log:      opts.Logger.With(slog.String("component", "reminder")),
	}
}

// Start schedules Run on the given cron spec (e.g. "0 9 * * *").
func (j *Job) Start(spec string) error {
	c := cron.New()
	if _, err := c.AddFunc(spec, j.Run); err != nil {
		return err
	}
	c.Start()
	j.cron = c
	j.log.Info("reminder scheduler started", slog.String("spec", spec))
	return nil
}

func (j *Job) Stop() {
	if j.cron != nil {
		<-j.cron.Stop().Done()
	}
}

// Run scans the Bookings sheet and reminds every customer whose appointment
// is tomorrow.
func (j *Job) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	tomorrow := j.now().AddDate(0, 0, 1).Format(domain.DateLayout)

	rows, err := j.rows.ScanRows(ctx, store.SheetBookings)
	if err != nil {
		j.log.Error("reminder scan failed", slog.Any("err", err))
		return
	}

	sent := 0
	for _, row := range rows {
		b := domain.BookingFromRow(row)
		if b.Date != tomorrow {
			continue
		}

		j.notifier.Enqueue(notify.CustomerReminder(b.Email, b))
		if j.sms != nil && b.Phone != "" {
			if err := j.sms.SendSMS(ctx, b.Phone, notify.ReminderSMSBody(b)); err != nil {
				j.log.Error("reminder sms failed", slog.Any("err", err), slog.String("phone", b.Phone))
			}
		}
		sent++
	}
	j.log.Info("reminder pass completed", slog.String("date", tomorrow), slog.Int("bookings", sent))
}
