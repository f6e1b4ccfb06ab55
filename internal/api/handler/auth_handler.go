package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/parkview/rental-system/internal/core/domain"
	"github.com/parkview/rental-system/internal/core/ports"
	"github.com/parkview/rental-system/internal/pkg/session"
)

type AuthHandler struct {
	authService   ports.AuthService
	tenant        *session.Manager
	admin         *session.Manager
	secureCookies bool
}

func NewAuthHandler(authService ports.AuthService, tenant, admin *session.Manager, secureCookies bool) *AuthHandler {
	return &AuthHandler{authService: authService, tenant: tenant, admin: admin, secureCookies: secureCookies}
}

type signupRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	User      *domain.User `json:"user"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// Signup creates a tenant account and starts a tenant session.
//
// @Summary      Tenant signup
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Account details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Signup(c.Request().Context(), ports.SignupInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return err
	}

	exp, err := h.startSession(c, h.tenant, user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, authResponse{User: user, ExpiresAt: exp})
}

// Login authenticates a tenant and sets the tenant session cookie.
//
// @Summary      Tenant login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	return h.login(c, h.tenant)
}

// AdminLogin authenticates an admin and sets the admin session cookie.
//
// @Summary      Admin login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  authResponse
// @Failure      401   {object}  map[string]string
// @Router       /admin/login [post]
func (h *AuthHandler) AdminLogin(c echo.Context) error {
	return h.login(c, h.admin)
}

func (h *AuthHandler) login(c echo.Context, m *session.Manager) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password, m.Role())
	if err != nil {
		return err
	}

	exp, err := h.startSession(c, m, user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResponse{User: user, ExpiresAt: exp})
}

func (h *AuthHandler) startSession(c echo.Context, m *session.Manager, user *domain.User) (time.Time, error) {
	token, exp, err := m.Issue(session.Identity{UserID: user.ID, Email: user.Email, Role: user.Role})
	if err != nil {
		return time.Time{}, err
	}
	c.SetCookie(m.NewCookie(token, exp, h.secureCookies))
	return exp, nil
}

// Logout clears the tenant session cookie.
//
// @Summary      Tenant logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(h.tenant.ClearCookie(h.secureCookies))
	return c.JSON(http.StatusOK, map[string]string{"status": "logged out"})
}

// AdminLogout clears the admin session cookie.
//
// @Summary      Admin logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /admin/logout [post]
func (h *AuthHandler) AdminLogout(c echo.Context) error {
	c.SetCookie(h.admin.ClearCookie(h.secureCookies))
	return c.JSON(http.StatusOK, map[string]string{"status": "logged out"})
}

// Me returns the verified session identity for either scope.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  session.Identity
// @Failure      401  {object}  map[string]string
// @Router       /me [get]
// @Router       /admin/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, id)
}
