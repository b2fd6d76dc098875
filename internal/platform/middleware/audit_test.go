package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func TestAuditRecordsAPIAccess(t *testing.T) {
	e := echo.New()
	var recorded []AuditEntry
	recorder := AuditRecorderFunc(func(entry AuditEntry) error {
		recorded = append(recorded, entry)
		return nil
	})

	handler := Audit(zerolog.Nop(), recorder)(func(c echo.Context) error {
		return c.NoContent(http.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/interviews", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("request_id", "req-1")

	if err := handler(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recorded) != 1 {
		t.Fatalf("recorded = %d entries, want 1", len(recorded))
	}
	entry := recorded[0]
	if entry.Resource != "interviews" {
		t.Errorf("resource = %q, want interviews", entry.Resource)
	}
	if entry.Action != "create" {
		t.Errorf("action = %q, want create", entry.Action)
	}
	if entry.StatusCode != http.StatusCreated {
		t.Errorf("status = %d, want 201", entry.StatusCode)
	}
	if entry.RequestID != "req-1" {
		t.Errorf("request id = %q", entry.RequestID)
	}
}

func TestAuditSkipsNonAPIRoutes(t *testing.T) {
	e := echo.New()
	var recorded []AuditEntry
	recorder := AuditRecorderFunc(func(entry AuditEntry) error {
		recorded = append(recorded, entry)
		return nil
	})

	handler := Audit(zerolog.Nop(), recorder)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	if err := handler(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recorded) != 0 {
		t.Errorf("health check must not be audited, got %d entries", len(recorded))
	}
}

func TestResourceFromPath(t *testing.T) {
	cases := map[string]string{
		"/api/v1/interviews":              "interviews",
		"/api/v1/interviews/123/triage":   "interviews",
		"/api/v1/categories":              "categories",
		"/api/v1/triage/questions":        "triage",
	}
	for path, want := range cases {
		if got := resourceFromPath(path); got != want {
			t.Errorf("resourceFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}
