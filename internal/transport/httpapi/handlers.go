package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"quedee/internal/service/bookings"
	"quedee/internal/service/catalog"
	"quedee/internal/store"
)

// Every response reports HTTP 200: the script host this replaces could only
// speak in bodies, and the deployed clients switch on the `status` field.

const (
	msgBookingNotFound = "Booking not found"
	msgBookingConsumed = "Booking not found or already cancelled"
	msgServiceNotFound = "Service not found"
	msgUnauthorized    = "Unauthorized"
	msgInvalidBody     = "Invalid request body"
	msgInternal        = "Internal error"
)

// writeRequest carries the union of all write-action fields; clients post one
// loosely-shaped JSON object regardless of action.
type writeRequest struct {
	Action        string `json:"action"`
	AdminPassword string `json:"adminPassword"`

	Name        string  `json:"name"`
	Phone       string  `json:"phone"`
	Email       string  `json:"email"`
	ServiceName string  `json:"serviceName"`
	Date        string  `json:"date"`
	Time        string  `json:"time"`
	Notes       string  `json:"notes"`
	Price       float64 `json:"price"`
	Duration    int     `json:"duration"`
	Token       string  `json:"token"`

	ID   flexString `json:"id"`
	Desc string     `json:"desc"`
}

// flexString accepts a JSON string or number; service ids are client-generated
// timestamps and arrive as either.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		*s = ""
		return nil
	}
	if b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = flexString(n.String())
	return nil
}

type bookingJSON struct {
	Name        string  `json:"name"`
	Phone       string  `json:"phone"`
	Email       string  `json:"email"`
	ServiceName string  `json:"serviceName"`
	Date        string  `json:"date"`
	Time        string  `json:"time"`
	Notes       string  `json:"notes"`
	Price       float64 `json:"price"`
	Duration    int     `json:"duration"`
}

type serviceJSON struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Desc     string  `json:"desc"`
	Price    float64 `json:"price"`
	Duration int     `json:"duration"`
}

func (s *Server) handleRead(c *gin.Context) {
	switch c.Query("action") {
	case "getServices":
		s.getServices(c)
	case "getBooking":
		s.getBooking(c, c.Query("token"))
	default:
		// Historical quirk kept for compatibility: no status field here.
		c.JSON(http.StatusOK, gin.H{"error": "Invalid action"})
	}
}

func (s *Server) handleWrite(c *gin.Context) {
	var req writeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, msgInvalidBody)
		return
	}

	switch req.Action {
	case "addBooking":
		s.addBooking(c, req)
	case "cancelBookingByToken":
		s.cancelBookingByToken(c, req.Token)
	case "cancelBooking":
		if !s.authorized(req.AdminPassword) {
			respondError(c, msgUnauthorized)
			return
		}
		s.cancelBookingByAdmin(c, req)
	case "addService":
		if !s.authorized(req.AdminPassword) {
			respondError(c, msgUnauthorized)
			return
		}
		s.addService(c, req)
	case "updateService":
		if !s.authorized(req.AdminPassword) {
			respondError(c, msgUnauthorized)
			return
		}
		s.updateService(c, req)
	case "deleteService":
		if !s.authorized(req.AdminPassword) {
			respondError(c, msgUnauthorized)
			return
		}
		s.deleteService(c, req)
	default:
		c.JSON(http.StatusOK, gin.H{"error": "Invalid action"})
	}
}

func (s *Server) getServices(c *gin.Context) {
	services, err := s.catalog.List(c.Request.Context())
	if err != nil {
		s.fail(c, "getServices", err, "")
		return
	}

	out := make([]serviceJSON, 0, len(services))
	for _, svc := range services {
		out = append(out, serviceJSON{
			ID:       svc.ID,
			Name:     svc.Name,
			Desc:     svc.Desc,
			Price:    svc.Price,
			Duration: svc.Duration,
		})
	}
	respondSuccess(c, gin.H{"services": out})
}

func (s *Server) getBooking(c *gin.Context, token string) {
	b, err := s.bookings.FindByToken(c.Request.Context(), token)
	if err != nil {
		s.fail(c, "getBooking", err, msgBookingNotFound)
		return
	}
	respondSuccess(c, gin.H{"booking": bookingJSON{
		Name:        b.Name,
		Phone:       b.Phone,
		Email:       b.Email,
		ServiceName: b.ServiceName,
		Date:        b.Date,
		Time:        b.Time,
		Notes:       b.Notes,
		Price:       b.Price,
		Duration:    b.Duration,
	}})
}

func (s *Server) addBooking(c *gin.Context, req writeRequest) {
	token, err := s.bookings.Create(c.Request.Context(), bookings.CreateInput{
		Name:        req.Name,
		Phone:       req.Phone,
		Email:       req.Email,
		ServiceName: req.ServiceName,
		Date:        req.Date,
		Time:        req.Time,
		Notes:       req.Notes,
		Price:       req.Price,
		Duration:    req.Duration,
	})
	if err != nil {
		s.fail(c, "addBooking", err, "")
		return
	}
	respondSuccess(c, gin.H{"token": token})
}

func (s *Server) cancelBookingByToken(c *gin.Context, token string) {
	if err := s.bookings.CancelByToken(c.Request.Context(), token); err != nil {
		s.fail(c, "cancelBookingByToken", err, msgBookingConsumed)
		return
	}
	respondSuccess(c, nil)
}

func (s *Server) cancelBookingByAdmin(c *gin.Context, req writeRequest) {
	if err := s.bookings.CancelByAdmin(c.Request.Context(), req.Email, req.Date, req.Time); err != nil {
		s.fail(c, "cancelBooking", err, msgBookingNotFound)
		return
	}
	respondSuccess(c, nil)
}

func (s *Server) addService(c *gin.Context, req writeRequest) {
	err := s.catalog.Add(c.Request.Context(), catalog.AddInput{
		ID:       string(req.ID),
		Name:     req.Name,
		Desc:     req.Desc,
		Price:    req.Price,
		Duration: req.Duration,
	})
	if err != nil {
		s.fail(c, "addService", err, msgServiceNotFound)
		return
	}
	respondSuccess(c, nil)
}

func (s *Server) updateService(c *gin.Context, req writeRequest) {
	err := s.catalog.Update(c.Request.Context(), catalog.UpdateInput{
		ID:       string(req.ID),
		Name:     req.Name,
		Desc:     req.Desc,
		Price:    req.Price,
		Duration: req.Duration,
	})
	if err != nil {
		s.fail(c, "updateService", err, msgServiceNotFound)
		return
	}
	respondSuccess(c, nil)
}

func (s *Server) deleteService(c *gin.Context, req writeRequest) {
	if err := s.catalog.Remove(c.Request.Context(), string(req.ID)); err != nil {
		s.fail(c, "deleteService", err, msgServiceNotFound)
		return
	}
	respondSuccess(c, nil)
}

func (s *Server) authorized(password string) bool {
	return s.adminPassword == "" || password == s.adminPassword
}

// fail maps a service error onto the envelope: validation errors carry their
// own message, ErrNotFound uses the per-action message, anything else is an
// internal error.
func (s *Server) fail(c *gin.Context, action string, err error, notFoundMsg string) {
	var bErr *bookings.ValidationError
	if errors.As(err, &bErr) {
		respondError(c, bErr.Error())
		return
	}
	var cErr *catalog.ValidationError
	if errors.As(err, &cErr) {
		respondError(c, cErr.Error())
		return
	}
	if errors.Is(err, store.ErrNotFound) && notFoundMsg != "" {
		respondError(c, notFoundMsg)
		return
	}
	s.log.Error("action failed", slog.Any("err", err), slog.String("action", action))
	respondError(c, msgInternal)
}

func respondSuccess(c *gin.Context, payload gin.H) {
	body := gin.H{"status": "success"}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

func respondError(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"status": "error", "message": message})
}
