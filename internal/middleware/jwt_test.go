package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/autorenta/rental-api/internal/utils"
)

const testSecret = "test-secret"

func protectedApp(mw ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	g := e.Group("/v1", mw...)
	g.GET("/ping", func(c echo.Context) error {
		uid, _ := c.Get("user_id").(uint64)
		role, _ := c.Get("role").(string)
		return c.JSON(http.StatusOK, echo.Map{"uid": uid, "role": role})
	})
	return e
}

func TestJWTAuthRejectsMissingToken(t *testing.T) {
	e := protectedApp(JWTAuth(testSecret))
	req := httptest.NewRequest(http.MethodGet, "/v1/ping", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestJWTAuthRejectsGarbage(t *testing.T) {
	e := protectedApp(JWTAuth(testSecret))
	req := httptest.NewRequest(http.MethodGet, "/v1/ping", nil)
	req.Header.Set("Authorization", "Bearer not.a.jwt")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 42, RoleCustomer, 5)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	e := protectedApp(JWTAuth(testSecret))
	req := httptest.NewRequest(http.MethodGet, "/v1/ping", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
}

func TestRequireRole(t *testing.T) {
	adminTok, _ := utils.NewAccessToken(testSecret, 1, RoleAdmin, 5)
	customerTok, _ := utils.NewAccessToken(testSecret, 2, RoleCustomer, 5)

	e := protectedApp(JWTAuth(testSecret), RequireRole(RoleAdmin))

	req := httptest.NewRequest(http.MethodGet, "/v1/ping", nil)
	req.Header.Set("Authorization", "Bearer "+adminTok.Token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("admin status = %d, want 200", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/ping", nil)
	req.Header.Set("Authorization", "Bearer "+customerTok.Token)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("customer status = %d, want 403", rec.Code)
	}
}

func TestSubjectID(t *testing.T) {
	if id, err := subjectID(float64(7)); err != nil || id != 7 {
		t.Errorf("subjectID(float64) = %d, %v", id, err)
	}
	if id, err := subjectID("19"); err != nil || id != 19 {
		t.Errorf("subjectID(string) = %d, %v", id, err)
	}
	if _, err := subjectID(true); err == nil {
		t.Error("subjectID accepted a bool")
	}
	if _, err := subjectID(float64(-1)); err == nil {
		t.Error("subjectID accepted a negative subject")
	}
}
