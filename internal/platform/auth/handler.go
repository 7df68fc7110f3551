package auth

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/auth/login", h.Login)
	api.POST("/auth/logout", h.Logout)
}

func (h *Handler) Login(c echo.Context) error {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, sess, err := h.svc.Login(c.Request().Context(), body.Username, body.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"token":      token,
		"username":   sess.Username,
		"expires_at": sess.ExpiresAt,
	})
}

func (h *Handler) Logout(c echo.Context) error {
	sess := SessionFromContext(c.Request().Context())
	if sess == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "no active session")
	}
	h.svc.Logout(sess)
	return c.NoContent(http.StatusNoContent)
}
