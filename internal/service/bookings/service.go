package bookings

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"quedee/internal/domain"
	"quedee/internal/notify"
	"quedee/internal/store"
	"quedee/internal/token"
)

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationError(msg string) error {
	return &ValidationError{msg: msg}
}

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[0-9]{9,10}$`)
)

// Notifier queues a message for best-effort delivery after the row mutation
// has committed.
type Notifier interface {
	Enqueue(msg notify.Message)
}

type Service struct {
	rows       store.RowStore
	notifier   Notifier
	siteURL    string
	adminEmail string
	now        func() time.Time
	newToken   func() (string, error)
	log        *slog.Logger
}

type Options struct {
	SiteURL    string
	AdminEmail string
	Now        func() time.Time
	NewToken   func() (string, error)
	Logger     *slog.Logger
}

func NewService(rows store.RowStore, notifier Notifier, opts Options) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewToken == nil {
		opts.NewToken = token.Generate
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Service{
		rows:       rows,
		notifier:   notifier,
		siteURL:    opts.SiteURL,
		adminEmail: opts.AdminEmail,
		now:        opts.Now,
		newToken:   opts.NewToken,
		log:        opts.Logger.With(slog.String("component", "service.bookings")),
	}
}

type CreateInput struct {
	Name        string
	Phone       string
	Email       string
	ServiceName string
	Date        string
	Time        string
	Notes       string
	Price       float64
	Duration    int
}

// Create validates the input, appends the booking row and returns the
// cancellation token. The confirmation and admin-alert emails are queued only
// after the append succeeds; queue failures never surface.
func (s *Service) Create(ctx context.Context, in CreateInput) (string, error) {
	if err := validateCreate(in, s.now()); err != nil {
		return "", err
	}

	tok, err := s.newToken()
	if err != nil {
		return "", err
	}

	b := domain.Booking{
		CreatedAt:   s.now(),
		Name:        in.Name,
		Phone:       in.Phone,
		Email:       in.Email,
		ServiceName: in.ServiceName,
		Date:        in.Date,
		Time:        in.Time,
		Notes:       in.Notes,
		Price:       in.Price,
		Duration:    in.Duration,
		Token:       tok,
	}

	if err := s.rows.AppendRow(ctx, store.SheetBookings, b.Row()); err != nil {
		return "", err
	}

	cancelLink := notify.CancelLink(s.siteURL, tok)
	s.notifier.Enqueue(notify.CustomerConfirmation(b.Email, b, cancelLink))
	s.notifier.Enqueue(notify.AdminNewBooking(s.adminEmail, b))

	s.log.Info("booking created",
		slog.String("service", b.ServiceName),
		slog.String("date", b.Date),
		slog.String("time", b.Time),
	)
	return tok, nil
}

// FindByToken scans the Bookings sheet for the first row whose token column
// matches and projects the booking fields.
func (s *Service) FindByToken(ctx context.Context, tok string) (domain.Booking, error) {
	if tok == "" {
		return domain.Booking{}, validationError("Token required")
	}

	rows, err := s.rows.ScanRows(ctx, store.SheetBookings)
	if err != nil {
		return domain.Booking{}, err
	}
	for _, row := range rows {
		if rowCell(row, domain.BookingColToken) == tok {
			return domain.BookingFromRow(row), nil
		}
	}
	return domain.Booking{}, store.ErrNotFound
}

// CancelByToken deletes the first booking matching the token. A consumed
// token behaves exactly like an unknown one: ErrNotFound, so a second cancel
// of the same booking is indistinguishable from a miss.
func (s *Service) CancelByToken(ctx context.Context, tok string) error {
	if tok == "" {
		return validationError("Token required")
	}
	return s.cancel(ctx, true, func(row []string) bool {
		return rowCell(row, domain.BookingColToken) == tok
	})
}

// CancelByAdmin deletes the first booking matching email, date and time by
// exact string equality. No normalization: a case or whitespace difference in
// the email is a miss. If two live bookings share the key, the first in scan
// order is the one removed.
func (s *Service) CancelByAdmin(ctx context.Context, email, date, timeSlot string) error {
	return s.cancel(ctx, false, func(row []string) bool {
		return rowCell(row, domain.BookingColEmail) == email &&
			rowCell(row, domain.BookingColDate) == date &&
			rowCell(row, domain.BookingColTime) == timeSlot
	})
}

func (s *Service) cancel(ctx context.Context, byCustomer bool, match func(row []string) bool) error {
	rows, err := s.rows.ScanRows(ctx, store.SheetBookings)
	if err != nil {
		return err
	}

	for i, row := range rows {
		if !match(row) {
			continue
		}
		b := domain.BookingFromRow(row)
		if err := s.rows.DeleteRow(ctx, store.SheetBookings, i); err != nil {
			return err
		}

		s.notifier.Enqueue(notify.CustomerCancellation(b.Email, b))
		s.notifier.Enqueue(notify.AdminCancellation(s.adminEmail, b, byCustomer))

		s.log.Info("booking cancelled",
			slog.String("service", b.ServiceName),
			slog.String("date", b.Date),
			slog.String("time", b.Time),
			slog.Bool("by_customer", byCustomer),
		)
		return nil
	}
	return store.ErrNotFound
}

func validateCreate(in CreateInput, now time.Time) error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return validationError("name is required")
	case strings.TrimSpace(in.Phone) == "":
		return validationError("phone is required")
	case strings.TrimSpace(in.Email) == "":
		return validationError("email is required")
	case strings.TrimSpace(in.ServiceName) == "":
		return validationError("serviceName is required")
	case strings.TrimSpace(in.Date) == "":
		return validationError("date is required")
	case strings.TrimSpace(in.Time) == "":
		return validationError("time is required")
	}

	if !emailPattern.MatchString(in.Email) {
		return validationError("invalid email format")
	}
	if !phonePattern.MatchString(in.Phone) {
		return validationError("phone must be 9-10 digits")
	}

	date, err := time.Parse(domain.DateLayout, in.Date)
	if err != nil {
		return validationError("date must be YYYY-MM-DD")
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if date.Before(today) {
		return validationError("date must not be in the past")
	}
	return nil
}

func rowCell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
