package handler // declare the package name; contains HTTP handlers

import (
	"context"      // context carries the ping deadline
	"database/sql" // sql gives access to the connection pool for pinging
	"net/http"     // net/http provides status codes and response helpers
	"time"         // time bounds the database ping

	"github.com/labstack/echo/v4" // echo is the web framework used for this project
)

// Health reports service liveness for load balancers and monitoring
// systems.  When constructed with a database handle it also pings the
// pool so a wedged database shows up as 503 instead of a healthy-looking
// 200.
type Health struct {
	DB *sql.DB
}

// NewHealth builds the handler.  A nil db is allowed; the check then only
// covers the process itself.
func NewHealth(db *sql.DB) *Health { return &Health{DB: db} }

// Check handles GET /healthz.
func (h *Health) Check(c echo.Context) error {
	if h.DB != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := h.DB.PingContext(ctx); err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "degraded", "error": "database unreachable"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
