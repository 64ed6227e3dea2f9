package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/autorenta/rental-api/internal/model"
	"github.com/autorenta/rental-api/internal/repository"
)

// ReviewHandler lets customers review vehicles they have actually rented.
type ReviewHandler struct {
	Reviews *repository.ReviewRepo
}

func NewReviewHandler(r *repository.ReviewRepo) *ReviewHandler {
	return &ReviewHandler{Reviews: r}
}

type createReviewReq struct {
	ReservaID  uint64 `json:"reservaId"`
	ProductoID uint64 `json:"productoId"`
	Puntuacion int    `json:"puntuacion"`
	Comentario string `json:"comentario"`
}

// Create handles POST /v1/reviews.  Only the renter of a finished
// reservation may review it, and only once.
func (h *ReviewHandler) Create(c echo.Context) error {
	uid, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createReviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Puntuacion < 1 || req.Puntuacion > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "puntuacion must be between 1 and 5"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	rev, err := h.Reviews.Create(ctx, model.Review{
		ReservationID: req.ReservaID,
		VehicleID:     req.ProductoID,
		UserID:        uid,
		Rating:        req.Puntuacion,
		Comment:       strings.TrimSpace(req.Comentario),
	})
	switch err {
	case nil:
	case repository.ErrReviewNotAllowed:
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only finished rentals can be reviewed"})
	case repository.ErrConflict:
		return c.JSON(http.StatusConflict, echo.Map{"error": "reserva already reviewed"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":         rev.ID,
		"reservaId":  rev.ReservationID,
		"productoId": rev.VehicleID,
		"puntuacion": rev.Rating,
		"comentario": rev.Comment,
		"createdAt":  rev.CreatedAt.UTC().Format(time.RFC3339),
	})
}
