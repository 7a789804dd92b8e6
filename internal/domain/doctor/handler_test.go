package doctor

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/CemBlt/dent-admin-app/internal/platform/tenant"
)

func newContext(e *echo.Echo, f *fixture, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	tenant.Set(c, f.hospital)
	return c, rec
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T (%v)", err, err)
	}
	return httpErr.Code
}

func TestHandler_CreateDoctor(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)
	c, rec := newContext(echo.New(), f, http.MethodPost, "/", `{"name":"Ayşe","surname":"Yılmaz","specialty":"Ortodonti"}`)

	if err := h.CreateDoctor(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	var got map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	hours, ok := got["working_hours"].(map[string]interface{})
	if !ok || len(hours) != 7 {
		t.Errorf("expected all seven days in working_hours, got %v", got["working_hours"])
	}
}

func TestHandler_ListDoctors_BadQuery(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)
	for _, target := range []string{"/?active=maybe", "/?service_id=x"} {
		c, _ := newContext(echo.New(), f, http.MethodGet, target, "")
		if code := httpCode(t, h.ListDoctors(c)); code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, code)
		}
	}
}

func TestHandler_SetActive_RequiresField(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)
	d := f.create(t, "Ayşe", "Yılmaz")

	c, _ := newContext(echo.New(), f, http.MethodPut, "/", `{}`)
	c.SetParamNames("id")
	c.SetParamValues(d.ID.String())
	if code := httpCode(t, h.SetActive(c)); code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", code)
	}

	c, rec := newContext(echo.New(), f, http.MethodPut, "/", `{"is_active":false}`)
	c.SetParamNames("id")
	c.SetParamValues(d.ID.String())
	if err := h.SetActive(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"is_active":false`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestHandler_DeleteDoctor_NotFound(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)
	c, _ := newContext(echo.New(), f, http.MethodDelete, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("00000000-0000-0000-0000-000000000001")
	if code := httpCode(t, h.DeleteDoctor(c)); code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", code)
	}
}
