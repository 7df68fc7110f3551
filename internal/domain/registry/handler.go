package registry

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carebase/carebase/internal/platform/guard"
	"github.com/carebase/carebase/internal/platform/reporting"
	"github.com/carebase/carebase/internal/platform/store"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/registrations", h.Register)
	api.GET("/registrations", h.List)
	api.GET("/registrations/:id", h.Get)
	api.GET("/registrations/:id/summary", h.Summary)
	api.PUT("/registrations/:id", h.Update)
	api.DELETE("/registrations/:id", h.Delete)
}

func (h *Handler) Register(c echo.Context) error {
	var rec PatientRecord
	if err := c.Bind(&rec); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Register(c.Request().Context(), &rec); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, rec)
}

func (h *Handler) Get(c echo.Context) error {
	rec, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "registration not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *Handler) List(c echo.Context) error {
	records, err := h.svc.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, records)
}

func (h *Handler) Update(c echo.Context) error {
	var rec PatientRecord
	if err := c.Bind(&rec); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Update(c.Request().Context(), c.Param("id"), &rec); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "registration not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *Handler) Delete(c echo.Context) error {
	var body struct {
		PIN string `json:"pin"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	err := h.svc.Delete(c.Request().Context(), c.Param("id"), body.PIN)
	if err != nil {
		switch {
		case errors.Is(err, guard.ErrPINMismatch):
			return echo.NewHTTPError(http.StatusForbidden, "incorrect PIN, deletion cancelled")
		case errors.Is(err, store.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "registration not found")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// Summary renders the printable patient summary for one registration.
func (h *Handler) Summary(c echo.Context) error {
	rec, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "registration not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	status := "Not Checked"
	if rec.EventStatus {
		status = "Checked In"
	}
	summary := reporting.Summary{
		Title: "Patient Summary - " + rec.PalliativeID,
		Sections: []reporting.Section{
			{Title: "BASIC INFORMATION", Rows: []reporting.Row{
				{Label: "Patient ID", Value: rec.PalliativeID},
				{Label: "Reg No", Value: rec.RegisterNo},
				{Label: "Name", Value: rec.PatientName},
				{Label: "Status", Value: status},
				{Label: "Address", Value: rec.Address},
				{Label: "Place", Value: rec.Place},
				{Label: "Panchayat", Value: rec.Panchayat},
				{Label: "Ward No", Value: rec.WardNumber},
			}},
			{Title: "CONTACT INFORMATION", Rows: []reporting.Row{
				{Label: "Bystander Name", Value: rec.Bystander.Name},
				{Label: "Phone 1", Value: rec.Bystander.Phone1},
				{Label: "Phone 2", Value: rec.Bystander.Phone2},
				{Label: "Remarks", Value: rec.Remarks},
			}},
			{Title: "CARE REQUIREMENTS", Rows: []reporting.Row{
				{Label: "Equipment", Value: rec.EquipmentRequired},
				{Label: "Medicine", Value: rec.Medicine},
				{Label: "Food", Value: rec.Food},
			}},
			{Title: "TRANSPORTATION", Rows: []reporting.Row{
				{Label: "Vehicle", Value: rec.Vehicle},
				{Label: "Leaving Time", Value: rec.LeavingTime},
			}},
			{Title: "CARE TEAM", Rows: []reporting.Row{
				{Label: "Patient Volunteer", Value: rec.PatientVolunteer.Name},
				{Label: "Volunteer Phone", Value: rec.PatientVolunteer.Phone},
				{Label: "Incharge Volunteer", Value: rec.InchargeVolunteer.Name},
				{Label: "Incharge Phone", Value: rec.InchargeVolunteer.Phone},
				{Label: "Ward Coordinator", Value: rec.WardCoordinator.Name},
				{Label: "Coordinator Phone", Value: rec.WardCoordinator.Phone},
			}},
		},
	}

	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	return reporting.WriteSummaryHTML(c.Response(), summary)
}
