package domain

import (
	"strconv"
	"time"
)

// Services sheet column positions. The header row is
// ID, Name, Description, Price, Duration, Created, Updated.
const (
	ServiceColID = iota
	ServiceColName
	ServiceColDesc
	ServiceColPrice
	ServiceColDuration
	ServiceColCreated
	ServiceColUpdated

	ServiceColumns = 7
)

// Service is one offerable appointment type. The ID is caller-supplied
// (typically a client-generated timestamp) and is only ever matched by linear
// scan; nothing at the store layer makes it unique.
type Service struct {
	ID        string
	Name      string
	Desc      string
	Price     float64
	Duration  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Row encodes the service as a Services sheet row in column order. The
// Updated cell stays empty until the first update.
func (s Service) Row() []string {
	updated := ""
	if !s.UpdatedAt.IsZero() {
		updated = s.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return []string{
		s.ID,
		s.Name,
		s.Desc,
		FormatPrice(s.Price),
		strconv.Itoa(s.Duration),
		s.CreatedAt.UTC().Format(time.RFC3339),
		updated,
	}
}

// ServiceFromRow decodes a Services sheet row, parsing price and duration
// from their stored text.
func ServiceFromRow(row []string) Service {
	s := Service{
		ID:   cell(row, ServiceColID),
		Name: cell(row, ServiceColName),
		Desc: cell(row, ServiceColDesc),
	}
	s.Price, _ = strconv.ParseFloat(cell(row, ServiceColPrice), 64)
	s.Duration, _ = strconv.Atoi(cell(row, ServiceColDuration))
	if ts, err := time.Parse(time.RFC3339, cell(row, ServiceColCreated)); err == nil {
		s.CreatedAt = ts
	}
	if ts, err := time.Parse(time.RFC3339, cell(row, ServiceColUpdated)); err == nil {
		s.UpdatedAt = ts
	}
	return s
}
