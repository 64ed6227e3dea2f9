package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/autorenta/rental-api/internal/repository"
)

// FavoriteHandler manages a customer's favorited vehicles.
type FavoriteHandler struct {
	Favorites *repository.FavoriteRepo
}

func NewFavoriteHandler(f *repository.FavoriteRepo) *FavoriteHandler {
	return &FavoriteHandler{Favorites: f}
}

// List handles GET /v1/favoritos.
func (h *FavoriteHandler) List(c echo.Context) error {
	uid, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	vehicles, err := h.Favorites.ListByUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]productoResp, 0, len(vehicles))
	for _, v := range vehicles {
		out = append(out, toProductoResp(v))
	}
	return c.JSON(http.StatusOK, out)
}

// Add handles POST /v1/favoritos/:productoId.  Favoriting twice is
// idempotent.
func (h *FavoriteHandler) Add(c echo.Context) error {
	uid, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	vehicleID, err := paramID(c, "productoId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid productoId"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	switch err := h.Favorites.Add(ctx, uid, vehicleID); err {
	case nil:
		return c.NoContent(http.StatusNoContent)
	case repository.ErrVehicleNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "producto not found"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save failed"})
	}
}

// Remove handles DELETE /v1/favoritos/:productoId.
func (h *FavoriteHandler) Remove(c echo.Context) error {
	uid, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	vehicleID, err := paramID(c, "productoId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid productoId"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	switch err := h.Favorites.Remove(ctx, uid, vehicleID); err {
	case nil:
		return c.NoContent(http.StatusNoContent)
	case sql.ErrNoRows:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "favorito not found"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
}
