package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vamilabs/labrecords-api/internal/api/metrics"
	"github.com/vamilabs/labrecords-api/internal/api/middleware"
	"github.com/vamilabs/labrecords-api/internal/core/domain"
	"github.com/vamilabs/labrecords-api/internal/core/ports"
)

// AuthHandler handles registration, login, logout and the role probe.
type AuthHandler struct {
	authService ports.AuthService
	sessions    ports.SessionStore
}

func NewAuthHandler(authService ports.AuthService, sessions ports.SessionStore) *AuthHandler {
	return &AuthHandler{authService: authService, sessions: sessions}
}

type registerRequest struct {
	NombreUsuario string `json:"nombre_usuario" form:"nombre_usuario" validate:"required"`
	Password      string `json:"password"       form:"password"       validate:"required,min=6"`
	CodigoAcceso  string `json:"codigos_acceso" form:"codigos_acceso" validate:"required"`
}

type loginRequest struct {
	NombreUsuario string `json:"nombre_usuario" form:"nombre_usuario" validate:"required"`
	Password      string `json:"password"       form:"password"       validate:"required"`
}

type userResponse struct {
	ID            int64  `json:"id"`
	NombreUsuario string `json:"nombre_usuario"`
	TipoUsuario   string `json:"tipo_usuario"`
}

// Register creates a new account. The access code decides the role.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /registrar [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.Register(c.Request().Context(), req.NombreUsuario, req.Password, req.CodigoAcceso)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, userResponse{
		ID:            user.ID,
		NombreUsuario: user.Username,
		TipoUsuario:   user.Role,
	})
}

// Login authenticates a user and sets the session cookie.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  userResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.NombreUsuario, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			metrics.LoginsTotal.WithLabelValues("not_found").Inc()
		case errors.Is(err, domain.ErrInvalidCredentials):
			metrics.LoginsTotal.WithLabelValues("bad_credentials").Inc()
		}
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	metrics.SessionsActive.Set(float64(h.sessions.Active()))

	return c.JSON(http.StatusOK, userResponse{
		ID:            user.ID,
		NombreUsuario: user.Username,
		TipoUsuario:   user.Role,
	})
}

// Logout destroys the session. Idempotent: a missing or stale cookie still
// yields 200.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /logout [get]
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.SessionCookie); err == nil {
		h.authService.Logout(c.Request().Context(), cookie.Value)
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	metrics.SessionsActive.Set(float64(h.sessions.Active()))

	return c.JSON(http.StatusOK, map[string]string{"message": "sesion cerrada"})
}

// UserType returns the role snapshot of the current session.
//
// @Summary      Current session role
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  errorResponse
// @Router       /tipo-usuario [get]
func (h *AuthHandler) UserType(c echo.Context) error {
	role, _ := c.Get("role").(string)
	return c.JSON(http.StatusOK, map[string]string{"tipo_usuario": role})
}
