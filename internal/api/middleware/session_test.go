package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/parkview/rental-system/internal/pkg/session"
)

func newManager(t *testing.T, scope session.Scope, secret string) *session.Manager {
	t.Helper()
	m, err := session.NewManager(scope, secret, time.Hour)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m
}

func runSession(t *testing.T, m *session.Manager, cookie *http.Cookie, next echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := Session(m)(next)(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

func failureOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return body["error"]
}

func TestSession_ValidCookie(t *testing.T) {
	m := newManager(t, session.ScopeTenant, "tenant-secret")
	token, exp, err := m.Issue(session.Identity{UserID: 4, Email: "ana@example.com", Role: "tenant"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	called := false
	rec := runSession(t, m, m.NewCookie(token, exp, false), func(c echo.Context) error {
		called = true
		id, ok := c.Get(IdentityKey).(*session.Identity)
		if !ok || id.UserID != 4 || id.Email != "ana@example.com" {
			t.Fatalf("identity not set: %+v", c.Get(IdentityKey))
		}
		if c.Get(RoleKey) != "tenant" {
			t.Fatalf("role not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected pass-through, got %d", rec.Code)
	}
}

func TestSession_MissingCookie(t *testing.T) {
	m := newManager(t, session.ScopeTenant, "tenant-secret")
	rec := runSession(t, m, nil, func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if got := failureOf(t, rec); got != string(session.FailureMissingToken) {
		t.Fatalf("unexpected failure %q", got)
	}
}

func TestSession_TokenFromOtherScope(t *testing.T) {
	tenant := newManager(t, session.ScopeTenant, "tenant-secret")
	admin := newManager(t, session.ScopeAdmin, "admin-secret")

	token, exp, err := tenant.Issue(session.Identity{UserID: 4, Email: "ana@example.com", Role: "tenant"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	forged := admin.NewCookie(token, exp, false)

	rec := runSession(t, admin, forged, func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if got := failureOf(t, rec); got != string(session.FailureInvalid) {
		t.Fatalf("unexpected failure %q", got)
	}
}
