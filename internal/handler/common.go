package handler

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/autorenta/rental-api/internal/model"
)

// dayFormat is the wire format for rental dates.  Dates are whole days;
// parsing pins them to UTC midnight so interval arithmetic is stable.
const dayFormat = "2006-01-02"

func parseDay(s string) (time.Time, error) {
	return time.ParseInLocation(dayFormat, s, time.UTC)
}

// currentUser returns the authenticated user's ID stored by the JWT
// middleware.  ok is false on public routes or when the middleware did
// not run.
func currentUser(c echo.Context) (uint64, bool) {
	uid, ok := c.Get("user_id").(uint64)
	return uid, ok
}

// paramID parses a numeric path parameter.
func paramID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// parseUintParam parses a numeric query parameter value.
func parseUintParam(raw string) (uint64, error) {
	return strconv.ParseUint(raw, 10, 64)
}

// ----- shared response shapes -----

type categoriaResp struct {
	ID          uint64 `json:"id"`
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion"`
	ImagenURL   string `json:"imagenUrl,omitempty"`
}

type productoResp struct {
	ID             uint64 `json:"id"`
	CategoriaID    uint64 `json:"categoriaId"`
	Nombre         string `json:"nombre"`
	Descripcion    string `json:"descripcion"`
	PrecioDiaCents int64  `json:"precioDiaCents"`
	ImagenURL      string `json:"imagenUrl,omitempty"`
}

type servicioResp struct {
	ID             uint64 `json:"id"`
	Nombre         string `json:"nombre"`
	Descripcion    string `json:"descripcion"`
	PrecioDiaCents int64  `json:"precioDiaCents"`
	Activo         bool   `json:"activo"`
}

type caracteristicaResp struct {
	ID          uint64 `json:"id"`
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion"`
	IconoURL    string `json:"iconoUrl,omitempty"`
	Valor       string `json:"valor,omitempty"`
}

type reservaResp struct {
	ID                 uint64 `json:"id"`
	UsuarioID          uint64 `json:"usuarioId"`
	ProductoID         uint64 `json:"productoId"`
	FechaInicio        string `json:"fechaInicio"`
	FechaFin           string `json:"fechaFin"`
	Dias               int    `json:"dias"`
	Estado             string `json:"estado"`
	PrecioTotalCents   int64  `json:"precioTotalCents"`
	CodigoConfirmacion string `json:"codigoConfirmacion,omitempty"`
	CreatedAt          string `json:"createdAt"`
}

func toCategoriaResp(c model.Category) categoriaResp {
	return categoriaResp{ID: c.ID, Nombre: c.Name, Descripcion: c.Description, ImagenURL: c.ImageURL}
}

func toProductoResp(v model.Vehicle) productoResp {
	return productoResp{
		ID: v.ID, CategoriaID: v.CategoryID, Nombre: v.Name,
		Descripcion: v.Description, PrecioDiaCents: v.DailyPriceCents, ImagenURL: v.ImageURL,
	}
}

func toCaracteristicaResp(f model.Feature) caracteristicaResp {
	return caracteristicaResp{ID: f.ID, Nombre: f.Name, Descripcion: f.Description, IconoURL: f.IconURL}
}

func toVehicleFeatureResp(vf model.VehicleFeature) caracteristicaResp {
	out := toCaracteristicaResp(vf.Feature)
	out.Valor = vf.Value
	return out
}

func toServicioResp(a model.Addon) servicioResp {
	return servicioResp{ID: a.ID, Nombre: a.Name, Descripcion: a.Description, PrecioDiaCents: a.DailyPriceCents, Activo: a.Active}
}

func toReservaResp(r model.Reservation) reservaResp {
	return reservaResp{
		ID:                 r.ID,
		UsuarioID:          r.UserID,
		ProductoID:         r.VehicleID,
		FechaInicio:        r.StartDate.Format(dayFormat),
		FechaFin:           r.EndDate.Format(dayFormat),
		Dias:               r.Days(),
		Estado:             r.Status.String(),
		PrecioTotalCents:   r.TotalPriceCents,
		CodigoConfirmacion: r.ConfirmationCode,
		CreatedAt:          r.CreatedAt.UTC().Format(time.RFC3339),
	}
}
