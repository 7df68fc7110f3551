package medication

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/carebase/carebase/internal/platform/store"
)

func testHandler(t *testing.T) (*Handler, *Service) {
	t.Helper()
	svc := NewService(NewStoreRepo(store.NewMemory()), zerolog.Nop())
	return NewHandler(svc), svc
}

func TestAddEndpoint(t *testing.T) {
	h, _ := testHandler(t)
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/patients/PTV100001/medications",
		strings.NewReader(`{"medicineName":"Paracetamol","quantity":"500mg","time":"Morning"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("patientId")
	c.SetParamValues("PTV100001")

	if err := h.AddOrUpdate(c); err != nil {
		t.Fatalf("add: %v", err)
	}
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"active"`) {
		t.Errorf("unexpected response %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAddEndpointRejectsEmptyQuantity(t *testing.T) {
	h, _ := testHandler(t)
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/patients/PTV100001/medications",
		strings.NewReader(`{"medicineName":"Paracetamol","time":"Morning"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("patientId")
	c.SetParamValues("PTV100001")

	err := h.AddOrUpdate(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestToggleEndpointWithoutConfirm(t *testing.T) {
	h, svc := testHandler(t)
	e := echo.New()

	if _, err := svc.AddOrUpdate(context.Background(), "PTV100001", validEntry(), nil, PatientDetails{}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/patients/PTV100001/medications/0/toggle", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("patientId", "index")
	c.SetParamValues("PTV100001", "0")

	err := h.ToggleStatus(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusForbidden {
		t.Errorf("expected 403 without confirm, got %v", err)
	}
}

func TestToggleEndpointWithConfirm(t *testing.T) {
	h, svc := testHandler(t)
	e := echo.New()

	if _, err := svc.AddOrUpdate(context.Background(), "PTV100001", validEntry(), nil, PatientDetails{}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/patients/PTV100001/medications/0/toggle?confirm=true", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("patientId", "index")
	c.SetParamValues("PTV100001", "0")

	if err := h.ToggleStatus(c); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"status":"stopped"`) {
		t.Errorf("entry not stopped: %s", rec.Body.String())
	}
}

func TestDeleteEndpointBadIndex(t *testing.T) {
	h, _ := testHandler(t)
	e := echo.New()

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/patients/PTV100001/medications/x?confirm=true", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("patientId", "index")
	c.SetParamValues("PTV100001", "x")

	err := h.Delete(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for non-numeric index, got %v", err)
	}
}
