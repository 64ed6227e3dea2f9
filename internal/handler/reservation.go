package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/autorenta/rental-api/internal/booking"
	"github.com/autorenta/rental-api/internal/model"
	"github.com/autorenta/rental-api/internal/queue"
	"github.com/autorenta/rental-api/internal/repository"
	queue_publisher "github.com/autorenta/rental-api/internal/service"
)

// ReservationHandler serves the customer-facing reservation endpoints.
// All routes require a CUSTOMER or ADMIN token; ownership checks keep one
// customer out of another's reservations.
type ReservationHandler struct {
	Reservations *repository.ReservationRepo
	Vehicles     *repository.VehicleRepo
	Addons       *repository.AddonRepo
	QueueURL     string
}

func NewReservationHandler(res *repository.ReservationRepo, veh *repository.VehicleRepo,
	add *repository.AddonRepo, queueURL string) *ReservationHandler {
	return &ReservationHandler{Reservations: res, Vehicles: veh, Addons: add, QueueURL: queueURL}
}

type createReservaReq struct {
	ProductoID  uint64   `json:"productoId"`
	FechaInicio string   `json:"fechaInicio"`
	FechaFin    string   `json:"fechaFin"`
	Servicios   []uint64 `json:"servicios"`
	Estado      string   `json:"estado"`
}

// Create handles POST /v1/reservas.  The total price is always computed
// server-side from the vehicle's daily rate and the selected services; a
// client-sent price would be trusted input.  Availability is re-checked
// inside the insert transaction, so two clients racing for the same
// vehicle cannot both win.
func (h *ReservationHandler) Create(c echo.Context) error {
	uid, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createReservaReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	desde, err := parseDay(req.FechaInicio)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid fechaInicio, want YYYY-MM-DD"})
	}
	hasta, err := parseDay(req.FechaFin)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid fechaFin, want YYYY-MM-DD"})
	}
	if !hasta.After(desde) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "fechaFin must be after fechaInicio"})
	}
	today := booking.NormalizeDay(time.Now().UTC())
	if desde.Before(today) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "fechaInicio cannot be in the past"})
	}

	// A new reservation is confirmed unless the client explicitly asks for
	// a pending hold.
	status := model.StatusConfirmed
	if req.Estado != "" {
		status, err = model.ParseStatus(req.Estado)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid estado"})
		}
		if status != model.StatusConfirmed && status != model.StatusPending {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "estado must be PENDIENTE or CONFIRMADA"})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	v, err := h.Vehicles.GetByID(ctx, req.ProductoID)
	if err == repository.ErrVehicleNotFound {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "producto not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	addons, err := h.Addons.GetByIDs(ctx, req.Servicios)
	if err == repository.ErrAddonNotFound {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown servicio"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	quote := booking.CalculateTotalPrice(v.DailyPriceCents, desde, hasta, addons)
	code, err := booking.NewConfirmationCode()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create reservation failed"})
	}

	created, err := h.Reservations.Create(ctx, model.Reservation{
		UserID:           uid,
		VehicleID:        req.ProductoID,
		StartDate:        desde,
		EndDate:          hasta,
		Status:           status,
		TotalPriceCents:  quote.TotalPriceCents,
		ConfirmationCode: code,
	}, req.Servicios)
	if err != nil {
		switch err {
		case repository.ErrDateConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "producto not available for these dates"})
		case repository.ErrVehicleNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "producto not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create reservation failed"})
	}

	if created.Status == model.StatusConfirmed {
		h.publishConfirmed(created, v, addons)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"reserva":    toReservaResp(created),
		"cotizacion": quote,
	})
}

// publishConfirmed emits the confirmation event in the background; the
// reservation already committed, a broker outage must not fail the
// request.
func (h *ReservationHandler) publishConfirmed(r model.Reservation, v model.Vehicle, addons []model.Addon) {
	names := make([]string, 0, len(addons))
	for _, a := range addons {
		names = append(names, a.Name)
	}
	ev := queue.ReservationConfirmedEvent{
		ReservationID:    r.ID,
		ConfirmationCode: r.ConfirmationCode,
		UserID:           r.UserID,
		VehicleID:        r.VehicleID,
		VehicleName:      v.Name,
		StartDate:        r.StartDate.Format(dayFormat),
		EndDate:          r.EndDate.Format(dayFormat),
		Services:         names,
		TotalCents:       r.TotalPriceCents,
		ConfirmedAt:      time.Now().UTC().Format(time.RFC3339),
	}
	url := h.QueueURL
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = queue_publisher.PublishReservationConfirmed(ctx, url, ev)
	}()
}

// ListByUser handles GET /v1/reservas/usuario/:usuarioId.  Customers may
// only list their own reservations; admins may list anyone's.
func (h *ReservationHandler) ListByUser(c echo.Context) error {
	uid, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	target, err := paramID(c, "usuarioId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid usuarioId"})
	}
	if role, _ := c.Get("role").(string); target != uid && role != "ADMIN" {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	list, err := h.Reservations.ListByUser(ctx, target)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]reservaResp, 0, len(list))
	for _, r := range list {
		out = append(out, toReservaResp(r))
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /v1/reservas/:id, returning the reservation together
// with its additional services.
func (h *ReservationHandler) Get(c echo.Context) error {
	uid, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	r, err := h.Reservations.GetByID(ctx, id)
	if err == sql.ErrNoRows {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reserva not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if role, _ := c.Get("role").(string); r.UserID != uid && role != "ADMIN" {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	addons, err := h.Reservations.AddonsFor(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	services := make([]servicioResp, 0, len(addons))
	for _, a := range addons {
		services = append(services, toServicioResp(a))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"reserva":   toReservaResp(r),
		"servicios": services,
	})
}

// Cancel handles DELETE /v1/reservas/:id.  Confirmed reservations can be
// cancelled up to 24 hours before pickup; pending ones until the start
// day.  Later requests get a 409.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	uid, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	switch err := h.Reservations.Cancel(ctx, id, uid); err {
	case nil:
		return c.NoContent(http.StatusNoContent)
	case sql.ErrNoRows:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reserva not found"})
	case repository.ErrForbidden:
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case repository.ErrConflict:
		return c.JSON(http.StatusConflict, echo.Map{"error": "reserva can no longer be cancelled"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
}
