package domain

import (
	"strconv"
	"time"
)

// Bookings sheet column positions. The header row is
// Timestamp, Name, Phone, Email, Service, Date, Time, Notes, Price, Duration, Token.
const (
	BookingColTimestamp = iota
	BookingColName
	BookingColPhone
	BookingColEmail
	BookingColService
	BookingColDate
	BookingColTime
	BookingColNotes
	BookingColPrice
	BookingColDuration
	BookingColToken

	BookingColumns = 11
)

// DateLayout is the calendar date format used in booking rows and requests.
const DateLayout = "2006-01-02"

// Booking is one reserved appointment. ServiceName, Price and Duration are
// copied from the catalog entry at booking time: a booking is a point-in-time
// snapshot, and later catalog edits must not retroactively change it.
type Booking struct {
	CreatedAt   time.Time
	Name        string
	Phone       string
	Email       string
	ServiceName string
	Date        string
	Time        string
	Notes       string
	Price       float64
	Duration    int
	Token       string
}

// Row encodes the booking as a Bookings sheet row in column order.
func (b Booking) Row() []string {
	return []string{
		b.CreatedAt.UTC().Format(time.RFC3339),
		b.Name,
		b.Phone,
		b.Email,
		b.ServiceName,
		b.Date,
		b.Time,
		b.Notes,
		FormatPrice(b.Price),
		strconv.Itoa(b.Duration),
		b.Token,
	}
}

// BookingFromRow decodes a Bookings sheet row. Short rows and unparseable
// cells degrade to zero values rather than failing; the sheet is hand-editable
// and a damaged cell must not make the whole booking unreadable.
func BookingFromRow(row []string) Booking {
	b := Booking{
		Name:        cell(row, BookingColName),
		Phone:       cell(row, BookingColPhone),
		Email:       cell(row, BookingColEmail),
		ServiceName: cell(row, BookingColService),
		Date:        cell(row, BookingColDate),
		Time:        cell(row, BookingColTime),
		Notes:       cell(row, BookingColNotes),
		Token:       cell(row, BookingColToken),
	}
	if ts, err := time.Parse(time.RFC3339, cell(row, BookingColTimestamp)); err == nil {
		b.CreatedAt = ts
	}
	b.Price, _ = strconv.ParseFloat(cell(row, BookingColPrice), 64)
	b.Duration, _ = strconv.Atoi(cell(row, BookingColDuration))
	return b
}

// FormatPrice renders a price the way the sheet stores it: no exponent, no
// trailing zeros.
func FormatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
