package store

import "context"

// Sheet names backing the two tables.
const (
	SheetBookings = "Bookings"
	SheetServices = "Services"
)

// Headers gives the fixed header row of each sheet. Implementations own the
// header; RowStore methods deal in data rows only.
var Headers = map[string][]string{
	SheetBookings: {"Timestamp", "Name", "Phone", "Email", "Service", "Date", "Time", "Notes", "Price", "Duration", "Token"},
	SheetServices: {"ID", "Name", "Description", "Price", "Duration", "Created", "Updated"},
}

// RowStore is an ordered-row table store over named sheets. Row indexes are
// 0-based positions over data rows in scan order. DeleteRow is physical and
// immediate: rows after the deleted one shift down by one, exactly like a
// spreadsheet.
type RowStore interface {
	ScanRows(ctx context.Context, sheet string) ([][]string, error)
	AppendRow(ctx context.Context, sheet string, row []string) error
	UpdateRow(ctx context.Context, sheet string, index int, cells map[int]string) error
	DeleteRow(ctx context.Context, sheet string, index int) error
}
