package medication

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/carebase/carebase/internal/platform/store"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/patients/:patientId/medications", h.Get)
	api.POST("/patients/:patientId/medications", h.AddOrUpdate)
	api.POST("/patients/:patientId/medications/:index/toggle", h.ToggleStatus)
	api.DELETE("/patients/:patientId/medications/:index", h.Delete)
	api.GET("/medications/vocabulary", h.Vocabulary)
}

func (h *Handler) Get(c echo.Context) error {
	doc, err := h.svc.Get(c.Request().Context(), c.Param("patientId"))
	if err != nil {
		return ledgerError(err)
	}
	return c.JSON(http.StatusOK, doc)
}

func (h *Handler) AddOrUpdate(c echo.Context) error {
	var body struct {
		Entry
		EditingIndex   *int           `json:"editingIndex"`
		PatientDetails PatientDetails `json:"patientDetails"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	doc, err := h.svc.AddOrUpdate(c.Request().Context(), c.Param("patientId"), body.Entry, body.EditingIndex, body.PatientDetails)
	if err != nil {
		return ledgerError(err)
	}
	return c.JSON(http.StatusOK, doc)
}

func (h *Handler) ToggleStatus(c echo.Context) error {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid entry index")
	}
	confirmed := c.QueryParam("confirm") == "true"
	doc, err := h.svc.ToggleStatus(c.Request().Context(), c.Param("patientId"), index, confirmed)
	if err != nil {
		return ledgerError(err)
	}
	return c.JSON(http.StatusOK, doc)
}

func (h *Handler) Delete(c echo.Context) error {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid entry index")
	}
	confirmed := c.QueryParam("confirm") == "true"
	doc, err := h.svc.Delete(c.Request().Context(), c.Param("patientId"), index, confirmed)
	if err != nil {
		return ledgerError(err)
	}
	return c.JSON(http.StatusOK, doc)
}

func (h *Handler) Vocabulary(c echo.Context) error {
	names, err := h.svc.Vocabulary(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, names)
}

func ledgerError(err error) error {
	switch {
	case errors.Is(err, ErrConfirmationRequired):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, ErrEntryNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "medication list not found")
	case errors.Is(err, ErrInvalidEntry):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
