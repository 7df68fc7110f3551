package event

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carebase/carebase/internal/domain/registry"
	"github.com/carebase/carebase/internal/platform/guard"
	"github.com/carebase/carebase/internal/platform/store"
	"github.com/carebase/carebase/pkg/listview"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/event/records", h.List)
	api.POST("/event/records/:id/checkin", h.CheckIn)
	api.POST("/event/records/:id/checkout", h.CheckOut)
	api.GET("/event/checkins", h.ListCheckedIn)
	api.GET("/event/wards", h.Wards)
}

// recordView configures the event roster list: free-text search over the
// identifying fields, a check-in status filter and the name sort.
var recordView = listview.View[registry.PatientRecord]{
	SearchFields: []func(registry.PatientRecord) string{
		func(r registry.PatientRecord) string { return r.PatientName },
		func(r registry.PatientRecord) string { return r.PalliativeID },
		func(r registry.PatientRecord) string { return r.Place },
		func(r registry.PatientRecord) string { return r.Address },
	},
	FilterFields: map[string]func(registry.PatientRecord) string{
		"status": func(r registry.PatientRecord) string {
			if r.EventStatus {
				return "checkedIn"
			}
			return "checkedOut"
		},
		"ward": func(r registry.PatientRecord) string { return r.WardNumber },
	},
	Comparators: map[string]func(a, b registry.PatientRecord) int{
		"name": func(a, b registry.PatientRecord) int {
			return listview.CompareStrings(a.PatientName, b.PatientName)
		},
	},
}

func (h *Handler) List(c echo.Context) error {
	records, err := h.svc.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	params := listview.FromContext(c)
	params.Filters["status"] = c.QueryParam("status")
	params.Filters["ward"] = c.QueryParam("ward")
	if params.SortKey == "" {
		params.SortKey = "name"
	}
	return c.JSON(http.StatusOK, listview.Apply(records, recordView, params))
}

func (h *Handler) CheckIn(c echo.Context) error {
	fields, err := h.svc.CheckIn(c.Request().Context(), c.Param("id"))
	if err != nil {
		return transitionError(err)
	}
	return c.JSON(http.StatusOK, fields)
}

func (h *Handler) CheckOut(c echo.Context) error {
	var body struct {
		PIN string `json:"pin"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	fields, err := h.svc.CheckOut(c.Request().Context(), c.Param("id"), body.PIN)
	if err != nil {
		return transitionError(err)
	}
	return c.JSON(http.StatusOK, fields)
}

func (h *Handler) ListCheckedIn(c echo.Context) error {
	records, err := h.svc.ListCheckedIn(c.Request().Context(), c.QueryParam("ward"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"count":   len(records),
		"records": records,
	})
}

func (h *Handler) Wards(c echo.Context) error {
	wards, err := h.svc.Wards(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, wards)
}

func transitionError(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "record not found")
	case errors.Is(err, guard.ErrPINMismatch):
		return echo.NewHTTPError(http.StatusForbidden, "incorrect PIN")
	case errors.Is(err, ErrAlreadyCheckedIn), errors.Is(err, ErrNotCheckedIn):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrTransitionPending):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
