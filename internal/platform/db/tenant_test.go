package db

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestResolveTenantIDPrecedence(t *testing.T) {
	e := echo.New()

	// JWT claim wins over header and query.
	req := httptest.NewRequest(http.MethodGet, "/?tenant_id=fromquery", nil)
	req.Header.Set("X-Tenant-ID", "fromheader")
	c := e.NewContext(req, httptest.NewRecorder())
	c.Set("jwt_tenant_id", "fromjwt")
	if got := resolveTenantID(c, "default"); got != "fromjwt" {
		t.Errorf("tenant = %q, want fromjwt", got)
	}

	// Header beats query.
	req = httptest.NewRequest(http.MethodGet, "/?tenant_id=fromquery", nil)
	req.Header.Set("X-Tenant-ID", "fromheader")
	c = e.NewContext(req, httptest.NewRecorder())
	if got := resolveTenantID(c, "default"); got != "fromheader" {
		t.Errorf("tenant = %q, want fromheader", got)
	}

	// Query beats default.
	req = httptest.NewRequest(http.MethodGet, "/?tenant_id=fromquery", nil)
	c = e.NewContext(req, httptest.NewRecorder())
	if got := resolveTenantID(c, "default"); got != "fromquery" {
		t.Errorf("tenant = %q, want fromquery", got)
	}

	// Nothing supplied: the configured default.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	c = e.NewContext(req, httptest.NewRecorder())
	if got := resolveTenantID(c, "default"); got != "default" {
		t.Errorf("tenant = %q, want default", got)
	}
}

func TestTenantIDPattern(t *testing.T) {
	valid := []string{"default", "clinic_1", "Tokyo2"}
	for _, id := range valid {
		if !tenantIDPattern.MatchString(id) {
			t.Errorf("%q should be a valid tenant id", id)
		}
	}
	invalid := []string{"", "a-b", "x;DROP SCHEMA", "tenant name"}
	for _, id := range invalid {
		if tenantIDPattern.MatchString(id) {
			t.Errorf("%q should be rejected", id)
		}
	}
}

func TestTenantFromContext(t *testing.T) {
	ctx := context.WithValue(context.Background(), TenantIDKey, "clinic_1")
	if got := TenantFromContext(ctx); got != "clinic_1" {
		t.Errorf("tenant = %q", got)
	}
	if got := TenantFromContext(context.Background()); got != "" {
		t.Errorf("empty context tenant = %q", got)
	}
	if conn := ConnFromContext(context.Background()); conn != nil {
		t.Error("empty context must carry no connection")
	}
}
