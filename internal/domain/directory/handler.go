package directory

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carebase/carebase/internal/platform/reporting"
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
	api.POST("/patients", h.Create)
	api.GET("/patients", h.List)
	api.GET("/patients/export", h.Export)
	api.GET("/patients/diagnoses", h.Diagnoses)
	api.GET("/patients/:id", h.Get)
	api.PUT("/patients/:id", h.Update)
	api.DELETE("/patients/:id", h.Delete)
}

func (h *Handler) Create(c echo.Context) error {
	var p PatientProfile
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) Get(c echo.Context) error {
	p, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) Update(c echo.Context) error {
	var p PatientProfile
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Update(c.Request().Context(), c.Param("id"), &p); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) Delete(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) List(c echo.Context) error {
	params := listview.FromContext(c)
	if c.QueryParam("page_size") == "" {
		params.PageSize = DirectoryPageSize
	}
	params.Filters["status"] = c.QueryParam("status")
	params.Filters["ward"] = c.QueryParam("ward")
	page, err := h.svc.List(c.Request().Context(), params, c.QueryParam("diagnosis"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, page)
}

func (h *Handler) Diagnoses(c echo.Context) error {
	diagnoses, err := h.svc.Diagnoses(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, diagnoses)
}

// exportHeader matches the columns of the legacy spreadsheet download.
var exportHeader = []string{
	"Register Number", "Name", "Age", "Gender", "Category", "Address",
	"Location", "Ward", "Panchayat", "Main Diagnosis", "Medical History",
	"Current Difficulties", "Main Caretaker", "Caretaker Phone", "Status",
}

// Export streams the filtered directory as CSV.
func (h *Handler) Export(c echo.Context) error {
	params := listview.FromContext(c)
	params.Filters["status"] = c.QueryParam("status")
	params.Filters["ward"] = c.QueryParam("ward")
	profiles, err := h.svc.FilteredSet(c.Request().Context(), params, c.QueryParam("diagnosis"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	rows := make([][]string, 0, len(profiles))
	for _, p := range profiles {
		rows = append(rows, []string{
			p.RegisterNumber, p.Name, p.Age, p.Gender, p.Category, p.Address,
			p.Location, p.Ward, p.Panchayat, p.MainDiagnosis, p.MedicalHistory,
			p.CurrentDifficulties, p.MainCaretaker, p.MainCaretakerPhone, p.Status(),
		})
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="patients.csv"`)
	c.Response().WriteHeader(http.StatusOK)
	return reporting.WriteCSV(c.Response(), exportHeader, rows)
}
