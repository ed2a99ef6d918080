package handler

import (
	"context"  // bounded contexts for listing queries
	"errors"   // errors.Is / errors.As comparisons
	"log"      // request failure logging
	"net/http" // HTTP status codes
	"time"     // response formatting and timeouts

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/DAREDEVILDD7/trolley-appointment/internal/booking"
	"github.com/DAREDEVILDD7/trolley-appointment/internal/clock"
	"github.com/DAREDEVILDD7/trolley-appointment/internal/model"
	"github.com/DAREDEVILDD7/trolley-appointment/internal/queue"
	"github.com/DAREDEVILDD7/trolley-appointment/internal/schedule"
	queue_publisher "github.com/DAREDEVILDD7/trolley-appointment/internal/service"
)

// BookingLister is the read side the listing endpoint needs.
// repository.BookingRepo satisfies it.
type BookingLister interface {
	ListBySupplier(ctx context.Context, supplierID string) ([]model.Booking, error)
}

// AppointmentHandler serves the booking flow: slot/date enumeration,
// token issuance and a supplier's own booking history.  All methods
// assume JWT authentication has already run, so the supplier identity
// comes from the request context rather than from any client-held state.
type AppointmentHandler struct {
	Engine      *booking.Engine
	Bookings    BookingLister
	Clock       clock.Clock
	HorizonDays int
	// Publish sends the post-commit audit event.  Overridable in tests.
	Publish func(ctx context.Context, ev queue.BookingCreatedEvent) error
}

// NewAppointmentHandler constructs an AppointmentHandler.  Engine, lister
// and clock must be non-nil.
func NewAppointmentHandler(engine *booking.Engine, bookings BookingLister, clk clock.Clock, horizonDays int) *AppointmentHandler {
	if engine == nil || bookings == nil || clk == nil {
		panic("nil dependency passed to NewAppointmentHandler")
	}
	if horizonDays < 1 {
		horizonDays = schedule.DefaultHorizonDays
	}
	return &AppointmentHandler{
		Engine:      engine,
		Bookings:    bookings,
		Clock:       clk,
		HorizonDays: horizonDays,
		Publish:     queue_publisher.PublishBookingCreated,
	}
}

// getSupplierID extracts the supplier_id the JWT middleware stored in the
// context.
func getSupplierID(c echo.Context) (string, error) {
	if v := c.Get("supplier_id"); v != nil {
		if s, ok := v.(string); ok && s != "" {
			return s, nil
		}
	}
	return "", errors.New("invalid supplier_id in context")
}

// ----- DTOs -----

type selectedTime struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type bookReq struct {
	SelectedDate string        `json:"selectedDate"`
	SelectedTime *selectedTime `json:"selectedTime"`
}

type slotPart struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Bookable  bool   `json:"bookable"`
}

type bookingPart struct {
	TokenNo        string `json:"token_no"`
	TransactionID  string `json:"transaction_id"`
	SlotDescriptor string `json:"slot_descriptor"`
	CreatedAt      string `json:"created_at"`
}

// Book handles POST /v1/appointments.  It validates the request, asks the
// engine for the next token and returns the issued token number plus the
// transaction ID.  Missing fields yield exactly
// `{"message": "Missing required fields"}` with a 400 status; sequencing
// and store failures map to 5xx with a descriptive message.
func (h *AppointmentHandler) Book(c echo.Context) error {
	supplierID, err := getSupplierID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var body bookReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Missing required fields"})
	}
	req := booking.Request{
		SupplierID: supplierID,
		Date:       body.SelectedDate,
	}
	if body.SelectedTime != nil {
		req.StartTime = body.SelectedTime.StartTime
		req.EndTime = body.SelectedTime.EndTime
	}

	conf, err := h.Engine.Book(c.Request().Context(), req)
	if err != nil {
		var ve *booking.ValidationError
		switch {
		case errors.As(err, &ve):
			if ve.Kind == booking.MissingField {
				return c.JSON(http.StatusBadRequest, echo.Map{"message": "Missing required fields"})
			}
			return c.JSON(http.StatusBadRequest, echo.Map{"message": ve.Message})
		case errors.Is(err, booking.ErrSequencerContention):
			log.Printf("appointments: allocation contention | supplier=%s date=%s slot=%s-%s",
				supplierID, body.SelectedDate, req.StartTime, req.EndTime)
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"message": "Could not allocate a token, please try again"})
		default:
			log.Printf("appointments: booking failed | supplier=%s date=%s slot=%s-%s err=%v",
				supplierID, body.SelectedDate, req.StartTime, req.EndTime, err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error creating new token for appointment."})
		}
	}

	// Best-effort audit event; the token is already committed.
	ev := queue.BookingCreatedEvent{
		TokenNo:        conf.TokenNo,
		TransactionID:  conf.TransactionID,
		SupplierID:     supplierID,
		SlotDescriptor: conf.SlotDescriptor,
		CreatedAt:      conf.CreatedAt.Format(time.RFC3339),
	}
	_ = h.Publish(c.Request().Context(), ev)

	return c.JSON(http.StatusOK, echo.Map{
		"message":        "Appointment booked successfully",
		"token_no":       conf.TokenNo,
		"transaction_id": conf.TransactionID,
	})
}

// Slots handles GET /v1/appointments/slots.  It returns the bookable date
// window and the daily slot grid evaluated against the server clock, so
// picker and engine cannot disagree about which slots have elapsed.  An
// optional ?date=YYYY-MM-DD selects the day the bookable flags are
// computed for; it defaults to the current day.
func (h *AppointmentHandler) Slots(c echo.Context) error {
	now := h.Clock.Now()
	day := now
	if q := c.QueryParam("date"); q != "" {
		t, err := time.Parse("2006-01-02", q)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "date must be YYYY-MM-DD"})
		}
		day = t
	}

	dates := make([]string, 0, h.HorizonDays)
	for _, d := range schedule.AvailableDates(now, h.HorizonDays) {
		dates = append(dates, d.Format("2006-01-02"))
	}
	slots := make([]slotPart, 0, schedule.LastSlotHour-schedule.FirstSlotHour+1)
	for _, s := range schedule.DaySlots() {
		slots = append(slots, slotPart{
			StartTime: s.Start.String(),
			EndTime:   s.End.String(),
			Bookable:  schedule.IsBookable(s, day, now),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"dates": dates,
		"slots": slots,
	})
}

// List handles GET /v1/appointments.  It returns the authenticated
// supplier's issued tokens, newest first.
func (h *AppointmentHandler) List(c echo.Context) error {
	supplierID, err := getSupplierID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	records, err := h.Bookings.ListBySupplier(ctx, supplierID)
	if err != nil {
		log.Printf("appointments: list failed | supplier=%s err=%v", supplierID, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error loading appointments."})
	}
	out := make([]bookingPart, 0, len(records))
	for _, b := range records {
		out = append(out, bookingPart{
			TokenNo:        b.TokenNo,
			TransactionID:  b.TransactionID,
			SlotDescriptor: b.SlotDescriptor,
			CreatedAt:      b.CreatedAt.Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"appointments": out})
}
