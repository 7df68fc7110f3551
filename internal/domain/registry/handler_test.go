package registry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/carebase/carebase/internal/platform/guard"
	"github.com/carebase/carebase/internal/platform/store"
)

func testHandler(t *testing.T) (*Handler, *Service) {
	t.Helper()
	svc := NewService(NewStoreRepo(store.NewMemory()), guard.PIN("2012"))
	return NewHandler(svc), svc
}

func TestRegisterEndpoint(t *testing.T) {
	h, _ := testHandler(t)
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/registrations",
		strings.NewReader(`{"patientname":"Asha","place":"Kuruva"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Register(c); err != nil {
		t.Fatalf("register: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"palliativeId":"PTV`) {
		t.Errorf("response missing generated id: %s", rec.Body.String())
	}
}

func TestRegisterEndpointRejectsMissingName(t *testing.T) {
	h, _ := testHandler(t)
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/registrations",
		strings.NewReader(`{"place":"Kuruva"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	err := h.Register(e.NewContext(req, rec))
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestGetEndpointNotFound(t *testing.T) {
	h, _ := testHandler(t)
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/registrations/PTV999999", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("PTV999999")

	err := h.Get(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestDeleteEndpointWrongPIN(t *testing.T) {
	h, svc := testHandler(t)
	e := echo.New()

	seed := &PatientRecord{PatientName: "Asha"}
	if err := svc.Register(context.Background(), seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/registrations/"+seed.PalliativeID,
		strings.NewReader(`{"pin":"0000"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(seed.PalliativeID)

	err := h.Delete(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %v", err)
	}
}

func TestSummaryEndpointRendersHTML(t *testing.T) {
	h, svc := testHandler(t)
	e := echo.New()

	seed := &PatientRecord{PatientName: "Asha", Place: "Kuruva"}
	if err := svc.Register(context.Background(), seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/registrations/"+seed.PalliativeID+"/summary", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(seed.PalliativeID)

	if err := h.Summary(c); err != nil {
		t.Fatalf("summary: %v", err)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Asha") || !strings.Contains(body, "BASIC INFORMATION") {
		t.Errorf("summary missing expected content: %s", body)
	}
}
