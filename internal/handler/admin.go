package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/autorenta/rental-api/internal/model"
	"github.com/autorenta/rental-api/internal/queue"
	"github.com/autorenta/rental-api/internal/repository"
	queue_publisher "github.com/autorenta/rental-api/internal/service"
)

// AdminHandler serves the back-office surface: catalog CRUD, the full
// reservation backlog and status transitions.  Every route is behind
// RequireRole("ADMIN").
type AdminHandler struct {
	Categories   *repository.CategoryRepo
	Vehicles     *repository.VehicleRepo
	Addons       *repository.AddonRepo
	Features     *repository.FeatureRepo
	Reservations *repository.ReservationRepo
	QueueURL     string
}

func NewAdminHandler(cat *repository.CategoryRepo, veh *repository.VehicleRepo,
	add *repository.AddonRepo, feat *repository.FeatureRepo,
	res *repository.ReservationRepo, queueURL string) *AdminHandler {
	return &AdminHandler{Categories: cat, Vehicles: veh, Addons: add, Features: feat, Reservations: res, QueueURL: queueURL}
}

// ----- categorias -----

type categoriaReq struct {
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion"`
	ImagenURL   string `json:"imagenUrl"`
}

// CreateCategoria handles POST /v1/admin/categorias.
func (h *AdminHandler) CreateCategoria(c echo.Context) error {
	var req categoriaReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Nombre) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "nombre required"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	cat, err := h.Categories.Create(ctx, model.Category{
		Name: req.Nombre, Description: req.Descripcion, ImageURL: req.ImagenURL,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save failed"})
	}
	return c.JSON(http.StatusCreated, toCategoriaResp(cat))
}

// DeleteCategoria handles DELETE /v1/admin/categorias/:id.  Categories
// still holding vehicles cannot be removed.
func (h *AdminHandler) DeleteCategoria(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	switch err := h.Categories.Delete(ctx, id); err {
	case nil:
		return c.NoContent(http.StatusNoContent)
	case repository.ErrCategoryNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "categoria not found"})
	case repository.ErrConflict:
		return c.JSON(http.StatusConflict, echo.Map{"error": "categoria still has productos"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
}

// ----- productos -----

type productoReq struct {
	CategoriaID    uint64 `json:"categoriaId"`
	Nombre         string `json:"nombre"`
	Descripcion    string `json:"descripcion"`
	PrecioDiaCents int64  `json:"precioDiaCents"`
	ImagenURL      string `json:"imagenUrl"`
}

func (r productoReq) validate() string {
	if strings.TrimSpace(r.Nombre) == "" {
		return "nombre required"
	}
	if r.CategoriaID == 0 {
		return "categoriaId required"
	}
	if r.PrecioDiaCents <= 0 {
		return "precioDiaCents must be positive"
	}
	return ""
}

// CreateProducto handles POST /v1/admin/productos.
func (h *AdminHandler) CreateProducto(c echo.Context) error {
	var req productoReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if _, err := h.Categories.GetByID(ctx, req.CategoriaID); err != nil {
		if err == repository.ErrCategoryNotFound {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown categoria"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	v, err := h.Vehicles.Create(ctx, model.Vehicle{
		CategoryID: req.CategoriaID, Name: req.Nombre, Description: req.Descripcion,
		DailyPriceCents: req.PrecioDiaCents, ImageURL: req.ImagenURL,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save failed"})
	}
	return c.JSON(http.StatusCreated, toProductoResp(v))
}

// UpdateProducto handles PUT /v1/admin/productos/:id.
func (h *AdminHandler) UpdateProducto(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req productoReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	err = h.Vehicles.Update(ctx, model.Vehicle{
		ID: id, CategoryID: req.CategoriaID, Name: req.Nombre, Description: req.Descripcion,
		DailyPriceCents: req.PrecioDiaCents, ImageURL: req.ImagenURL,
	})
	switch err {
	case nil:
		return c.NoContent(http.StatusNoContent)
	case repository.ErrVehicleNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "producto not found"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save failed"})
	}
}

// DeleteProducto handles DELETE /v1/admin/productos/:id.  Vehicles with
// reservation history cannot be removed.
func (h *AdminHandler) DeleteProducto(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	switch err := h.Vehicles.Delete(ctx, id); err {
	case nil:
		return c.NoContent(http.StatusNoContent)
	case repository.ErrVehicleNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "producto not found"})
	case repository.ErrConflict:
		return c.JSON(http.StatusConflict, echo.Map{"error": "producto has reservas"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
}

// ----- servicios -----

type servicioReq struct {
	Nombre         string `json:"nombre"`
	Descripcion    string `json:"descripcion"`
	PrecioDiaCents int64  `json:"precioDiaCents"`
	Activo         *bool  `json:"activo"`
}

// ListServicios handles GET /v1/admin/servicios, including retired ones.
func (h *AdminHandler) ListServicios(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	addons, err := h.Addons.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]servicioResp, 0, len(addons))
	for _, a := range addons {
		out = append(out, toServicioResp(a))
	}
	return c.JSON(http.StatusOK, out)
}

// CreateServicio handles POST /v1/admin/servicios.
func (h *AdminHandler) CreateServicio(c echo.Context) error {
	var req servicioReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Nombre) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "nombre required"})
	}
	if req.PrecioDiaCents < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "precioDiaCents cannot be negative"})
	}
	active := true
	if req.Activo != nil {
		active = *req.Activo
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	a, err := h.Addons.Create(ctx, model.Addon{
		Name: req.Nombre, Description: req.Descripcion,
		DailyPriceCents: req.PrecioDiaCents, Active: active,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save failed"})
	}
	return c.JSON(http.StatusCreated, toServicioResp(a))
}

// UpdateServicio handles PUT /v1/admin/servicios/:id.  Setting activo to
// false retires the service from new bookings without touching past
// reservations.
func (h *AdminHandler) UpdateServicio(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req servicioReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Nombre) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "nombre required"})
	}
	active := true
	if req.Activo != nil {
		active = *req.Activo
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	err = h.Addons.Update(ctx, model.Addon{
		ID: id, Name: req.Nombre, Description: req.Descripcion,
		DailyPriceCents: req.PrecioDiaCents, Active: active,
	})
	switch err {
	case nil:
		return c.NoContent(http.StatusNoContent)
	case repository.ErrAddonNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "servicio not found"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save failed"})
	}
}

// ----- caracteristicas -----

type caracteristicaReq struct {
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion"`
	IconoURL    string `json:"iconoUrl"`
}

func (r caracteristicaReq) validate() string {
	if strings.TrimSpace(r.Nombre) == "" {
		return "nombre required"
	}
	return ""
}

// CreateCaracteristica handles POST /v1/admin/caracteristicas.
func (h *AdminHandler) CreateCaracteristica(c echo.Context) error {
	var req caracteristicaReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	f, err := h.Features.Create(ctx, model.Feature{
		Name: req.Nombre, Description: req.Descripcion, IconURL: req.IconoURL,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save failed"})
	}
	return c.JSON(http.StatusCreated, toCaracteristicaResp(f))
}

// UpdateCaracteristica handles PUT /v1/admin/caracteristicas/:id.
func (h *AdminHandler) UpdateCaracteristica(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req caracteristicaReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	err = h.Features.Update(ctx, model.Feature{
		ID: id, Name: req.Nombre, Description: req.Descripcion, IconURL: req.IconoURL,
	})
	switch err {
	case nil:
		return c.NoContent(http.StatusNoContent)
	case repository.ErrFeatureNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "caracteristica not found"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save failed"})
	}
}

// DeleteCaracteristica handles DELETE /v1/admin/caracteristicas/:id.
// Characteristics still attached to vehicles cannot be removed.
func (h *AdminHandler) DeleteCaracteristica(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	switch err := h.Features.Delete(ctx, id); err {
	case nil:
		return c.NoContent(http.StatusNoContent)
	case repository.ErrFeatureNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "caracteristica not found"})
	case repository.ErrConflict:
		return c.JSON(http.StatusConflict, echo.Map{"error": "caracteristica still attached to productos"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
}

type valorReq struct {
	Valor string `json:"valor"`
}

// AssignCaracteristica handles PUT
// /v1/admin/productos/:id/caracteristicas/:caracteristicaId.  Assigning
// an already attached characteristic overwrites its valor.
func (h *AdminHandler) AssignCaracteristica(c echo.Context) error {
	vehicleID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	featureID, err := paramID(c, "caracteristicaId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid caracteristicaId"})
	}
	var req valorReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	switch err := h.Features.Assign(ctx, vehicleID, featureID, req.Valor); err {
	case nil:
		return c.NoContent(http.StatusNoContent)
	case repository.ErrVehicleNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "producto not found"})
	case repository.ErrFeatureNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "caracteristica not found"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save failed"})
	}
}

// UnassignCaracteristica handles DELETE
// /v1/admin/productos/:id/caracteristicas/:caracteristicaId.
func (h *AdminHandler) UnassignCaracteristica(c echo.Context) error {
	vehicleID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	featureID, err := paramID(c, "caracteristicaId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid caracteristicaId"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	switch err := h.Features.Unassign(ctx, vehicleID, featureID); err {
	case nil:
		return c.NoContent(http.StatusNoContent)
	case sql.ErrNoRows:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "caracteristica not attached"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
}

// ----- reservas -----

// ListReservas handles GET /v1/admin/reservas with an optional ?estado=
// filter accepting either status vocabulary.
func (h *AdminHandler) ListReservas(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var filter *model.Status
	if raw := c.QueryParam("estado"); raw != "" {
		st, err := model.ParseStatus(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid estado"})
		}
		filter = &st
	}
	list, err := h.Reservations.ListAll(ctx, filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]reservaResp, 0, len(list))
	for _, r := range list {
		out = append(out, toReservaResp(r))
	}
	return c.JSON(http.StatusOK, out)
}

// legalTransitions maps each status to the states an admin may move it
// to.  Finalized and cancelled are terminal.
var legalTransitions = map[model.Status][]model.Status{
	model.StatusPending:   {model.StatusConfirmed, model.StatusCancelled},
	model.StatusConfirmed: {model.StatusFinalized, model.StatusCancelled},
}

func transitionAllowed(from, to model.Status) bool {
	for _, s := range legalTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type estadoReq struct {
	Estado string `json:"estado"`
}

// UpdateEstado handles PUT /v1/admin/reservas/:id/estado.  Confirming a
// pending reservation re-checks availability; confirming one that lost
// the race yields a 409.
func (h *AdminHandler) UpdateEstado(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req estadoReq
	if err := c.Bind(&req); err != nil || req.Estado == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "estado required"})
	}
	to, err := model.ParseStatus(req.Estado)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid estado"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	current, err := h.Reservations.GetByID(ctx, id)
	if err == sql.ErrNoRows {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reserva not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !transitionAllowed(current.Status, to) {
		return c.JSON(http.StatusConflict, echo.Map{
			"error": "cannot move from " + current.Status.String() + " to " + to.String(),
		})
	}

	updated, err := h.Reservations.UpdateStatus(ctx, id, to)
	if err == repository.ErrDateConflict {
		return c.JSON(http.StatusConflict, echo.Map{"error": "producto no longer available for these dates"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save failed"})
	}

	if to == model.StatusConfirmed {
		h.publishConfirmed(ctx, updated)
	}
	return c.JSON(http.StatusOK, toReservaResp(updated))
}

func (h *AdminHandler) publishConfirmed(ctx context.Context, r model.Reservation) {
	v, err := h.Vehicles.GetByID(ctx, r.VehicleID)
	if err != nil {
		return
	}
	addons, err := h.Reservations.AddonsFor(ctx, r.ID)
	if err != nil {
		return
	}
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
		pctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = queue_publisher.PublishReservationConfirmed(pctx, url, ev)
	}()
}
