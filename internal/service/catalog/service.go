package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"quedee/internal/domain"
	"quedee/internal/notify"
	"quedee/internal/store"
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

type Notifier interface {
	Enqueue(msg notify.Message)
}

type Service struct {
	rows       store.RowStore
	notifier   Notifier
	adminEmail string
	now        func() time.Time
	log        *slog.Logger
}

type Options struct {
	AdminEmail string
	Now        func() time.Time
	Logger     *slog.Logger
}

func NewService(rows store.RowStore, notifier Notifier, opts Options) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Service{
		rows:       rows,
		notifier:   notifier,
		adminEmail: opts.AdminEmail,
		now:        opts.Now,
		log:        opts.Logger.With(slog.String("component", "service.catalog")),
	}
}

// List returns the catalog in scan order, skipping any row whose ID cell is
// empty. Price and duration are parsed from their stored text.
func (s *Service) List(ctx context.Context) ([]domain.Service, error) {
	rows, err := s.rows.ScanRows(ctx, store.SheetServices)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Service, 0, len(rows))
	for _, row := range rows {
		if rowCell(row, domain.ServiceColID) == "" {
			continue
		}
		out = append(out, domain.ServiceFromRow(row))
	}
	return out, nil
}

type AddInput struct {
	ID       string
	Name     string
	Desc     string
	Price    float64
	Duration int
}

// Add appends a catalog row. The ID is taken as supplied; no uniqueness
// check is made at this layer.
func (s *Service) Add(ctx context.Context, in AddInput) error {
	if strings.TrimSpace(in.ID) == "" {
		return validationError("id is required")
	}
	if strings.TrimSpace(in.Name) == "" {
		return validationError("name is required")
	}

	svc := domain.Service{
		ID:        in.ID,
		Name:      in.Name,
		Desc:      in.Desc,
		Price:     in.Price,
		Duration:  in.Duration,
		CreatedAt: s.now(),
	}
	if err := s.rows.AppendRow(ctx, store.SheetServices, svc.Row()); err != nil {
		return err
	}

	s.notifier.Enqueue(notify.AdminServiceAdded(s.adminEmail, svc))
	s.log.Info("service added", slog.String("id", svc.ID), slog.String("name", svc.Name))
	return nil
}

type UpdateInput struct {
	ID       string
	Name     string
	Desc     string
	Price    float64
	Duration int
}

// Update overwrites name, description, price and duration of the first row
// matching the ID and stamps the update time; ID and the creation timestamp
// stay untouched. The admin notification lists only fields that actually
// changed.
func (s *Service) Update(ctx context.Context, in UpdateInput) error {
	if strings.TrimSpace(in.ID) == "" {
		return validationError("id is required")
	}

	rows, err := s.rows.ScanRows(ctx, store.SheetServices)
	if err != nil {
		return err
	}

	for i, row := range rows {
		if rowCell(row, domain.ServiceColID) != in.ID {
			continue
		}
		old := domain.ServiceFromRow(row)

		updated := old
		updated.Name = in.Name
		updated.Desc = in.Desc
		updated.Price = in.Price
		updated.Duration = in.Duration
		updated.UpdatedAt = s.now()

		cells := map[int]string{
			domain.ServiceColName:     updated.Name,
			domain.ServiceColDesc:     updated.Desc,
			domain.ServiceColPrice:    domain.FormatPrice(updated.Price),
			domain.ServiceColDuration: strconv.Itoa(updated.Duration),
			domain.ServiceColUpdated:  updated.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if err := s.rows.UpdateRow(ctx, store.SheetServices, i, cells); err != nil {
			return err
		}

		s.notifier.Enqueue(notify.AdminServiceUpdated(s.adminEmail, updated, diff(old, updated)))
		s.log.Info("service updated", slog.String("id", updated.ID), slog.String("name", updated.Name))
		return nil
	}
	return store.ErrNotFound
}

// Remove deletes the first row matching the ID and reports the deleted
// entry's prior values to the admin.
func (s *Service) Remove(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return validationError("id is required")
	}

	rows, err := s.rows.ScanRows(ctx, store.SheetServices)
	if err != nil {
		return err
	}

	for i, row := range rows {
		if rowCell(row, domain.ServiceColID) != id {
			continue
		}
		old := domain.ServiceFromRow(row)
		if err := s.rows.DeleteRow(ctx, store.SheetServices, i); err != nil {
			return err
		}

		s.notifier.Enqueue(notify.AdminServiceDeleted(s.adminEmail, old))
		s.log.Info("service removed", slog.String("id", old.ID), slog.String("name", old.Name))
		return nil
	}
	return store.ErrNotFound
}

func diff(old, updated domain.Service) []string {
	var changes []string
	if old.Name != updated.Name {
		changes = append(changes, fmt.Sprintf("ชื่อ: %s → %s", old.Name, updated.Name))
	}
	if old.Desc != updated.Desc {
		changes = append(changes, "รายละเอียด: เปลี่ยนแปลง")
	}
	if old.Price != updated.Price {
		changes = append(changes, fmt.Sprintf("ราคา: ฿%s → ฿%s", domain.FormatPrice(old.Price), domain.FormatPrice(updated.Price)))
	}
	if old.Duration != updated.Duration {
		changes = append(changes, fmt.Sprintf("ระยะเวลา: %d → %d นาที", old.Duration, updated.Duration))
	}
	return changes
}

func rowCell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
