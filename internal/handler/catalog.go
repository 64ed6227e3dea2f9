package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/autorenta/rental-api/internal/booking"
	"github.com/autorenta/rental-api/internal/repository"
)

// CatalogHandler serves the public, unauthenticated catalog: categories,
// vehicles, additional services, availability checks and price quotes.
// These routes are the cacheable surface of the API.
type CatalogHandler struct {
	Categories   *repository.CategoryRepo
	Vehicles     *repository.VehicleRepo
	Addons       *repository.AddonRepo
	Features     *repository.FeatureRepo
	Reservations *repository.ReservationRepo
	Reviews      *repository.ReviewRepo
}

func NewCatalogHandler(cat *repository.CategoryRepo, veh *repository.VehicleRepo,
	add *repository.AddonRepo, feat *repository.FeatureRepo,
	res *repository.ReservationRepo, rev *repository.ReviewRepo) *CatalogHandler {
	return &CatalogHandler{Categories: cat, Vehicles: veh, Addons: add, Features: feat, Reservations: res, Reviews: rev}
}

// ListCategorias handles GET /v1/categorias.
func (h *CatalogHandler) ListCategorias(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	cats, err := h.Categories.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]categoriaResp, 0, len(cats))
	for _, cat := range cats {
		out = append(out, toCategoriaResp(cat))
	}
	return c.JSON(http.StatusOK, out)
}

// ListProductos handles GET /v1/productos with an optional ?categoria=
// filter.
func (h *CatalogHandler) ListProductos(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var categoryID *uint64
	if raw := c.QueryParam("categoria"); raw != "" {
		id, err := parseUintParam(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid categoria"})
		}
		categoryID = &id
	}
	vehicles, err := h.Vehicles.List(ctx, categoryID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]productoResp, 0, len(vehicles))
	for _, v := range vehicles {
		out = append(out, toProductoResp(v))
	}
	return c.JSON(http.StatusOK, out)
}

// GetProducto handles GET /v1/productos/:id, enriched with the vehicle's
// characteristics and the review summary.
func (h *CatalogHandler) GetProducto(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	v, err := h.Vehicles.GetByID(ctx, id)
	if err == repository.ErrVehicleNotFound {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "producto not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	features, err := h.Features.ListByVehicle(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	feats := make([]caracteristicaResp, 0, len(features))
	for _, f := range features {
		feats = append(feats, toVehicleFeatureResp(f))
	}
	avg, count, err := h.Reviews.AverageRating(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"producto":        toProductoResp(v),
		"caracteristicas": feats,
		"rating":          avg,
		"totalReviews":    count,
	})
}

// ListCaracteristicas handles GET /v1/caracteristicas and returns the
// characteristics vehicles can carry, for building catalog filters.
func (h *CatalogHandler) ListCaracteristicas(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	features, err := h.Features.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]caracteristicaResp, 0, len(features))
	for _, f := range features {
		out = append(out, toCaracteristicaResp(f))
	}
	return c.JSON(http.StatusOK, out)
}

// ListServicios handles GET /v1/servicios and returns the additional
// services currently offered.
func (h *CatalogHandler) ListServicios(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	addons, err := h.Addons.ListActive(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]servicioResp, 0, len(addons))
	for _, a := range addons {
		out = append(out, toServicioResp(a))
	}
	return c.JSON(http.StatusOK, out)
}

// Disponibilidad handles GET /v1/productos/:id/disponibilidad?desde=&hasta=.
// The range is half-open: hasta is the return day and may equal the desde
// of another reservation.
func (h *CatalogHandler) Disponibilidad(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	desde, err := parseDay(c.QueryParam("desde"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid desde, want YYYY-MM-DD"})
	}
	hasta, err := parseDay(c.QueryParam("hasta"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hasta, want YYYY-MM-DD"})
	}
	if !hasta.After(desde) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "hasta must be after desde"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Vehicles.GetByID(ctx, id); err != nil {
		if err == repository.ErrVehicleNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "producto not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	available, err := h.Reservations.IsAvailable(ctx, id, desde, hasta)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"productoId": id,
		"desde":      desde.Format(dayFormat),
		"hasta":      hasta.Format(dayFormat),
		"disponible": available,
	})
}

// Calendario handles GET /v1/productos/:id/calendario.  It returns the
// occupied date ranges of a vehicle so a client can grey out days in a
// picker; only confirmed reservations appear and no renter data is
// exposed.
func (h *CatalogHandler) Calendario(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	list, err := h.Reservations.ListByVehicle(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]echo.Map, 0, len(list))
	for _, r := range list {
		if !r.Status.Blocks() {
			continue
		}
		out = append(out, echo.Map{
			"desde": r.StartDate.Format(dayFormat),
			"hasta": r.EndDate.Format(dayFormat),
		})
	}
	return c.JSON(http.StatusOK, out)
}

type cotizacionReq struct {
	ProductoID  uint64   `json:"productoId"`
	FechaInicio string   `json:"fechaInicio"`
	FechaFin    string   `json:"fechaFin"`
	Servicios   []uint64 `json:"servicios"`
}

// Cotizar handles POST /v1/cotizaciones.  It prices a prospective rental
// without creating anything: base price is days times the vehicle's daily
// rate, each selected service also charges per day.
func (h *CatalogHandler) Cotizar(c echo.Context) error {
	var req cotizacionReq
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
	return c.JSON(http.StatusOK, quote)
}

// ListReviews handles GET /v1/productos/:id/reviews.
func (h *CatalogHandler) ListReviews(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	reviews, err := h.Reviews.ListByVehicle(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]echo.Map, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, echo.Map{
			"id":         r.ID,
			"reservaId":  r.ReservationID,
			"usuarioId":  r.UserID,
			"puntuacion": r.Rating,
			"comentario": r.Comment,
			"createdAt":  r.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, out)
}
