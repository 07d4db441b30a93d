package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

func newTestApp(t *testing.T) *app {
	t.Helper()

	cfg := DefaultConfig()
	cfg.Persistence.DSN = fmt.Sprintf("file:integrationsd-test-%d?mode=memory&cache=shared", time.Now().UnixNano())
	cfg.AppKey = "integrationsd-test-key"

	a, err := newApp(context.Background(), &cfg, glog.ProviderFromLogger(glog.Nop()))
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(a.Close)
	return a
}

func doRequest(t *testing.T, method, url, session, body string) (int, string) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if session != "" {
		req.Header.Set("X-Session-ID", session)
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer res.Body.Close()
	raw, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	return res.StatusCode, string(raw)
}

func TestApp_ServesIntegrationsOverHTTP(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	if err := a.members.AddMember(ctx, "sess-1", "acme"); err != nil {
		t.Fatalf("add member: %v", err)
	}

	server := httptest.NewServer(a.handler)
	t.Cleanup(server.Close)
	base := server.URL + "/v1/depot/origins/acme/integrations"

	if status, body := doRequest(t, http.MethodPut, base+"/docker/prod", "sess-1", `{"token":"abc"}`); status != http.StatusNoContent {
		t.Fatalf("expected create 204, got %d %s", status, body)
	}
	if status, body := doRequest(t, http.MethodPut, base+"/docker/prod", "sess-1", `{"token":"abc"}`); status != http.StatusConflict {
		t.Fatalf("expected duplicate create 409, got %d %s", status, body)
	}

	status, body := doRequest(t, http.MethodGet, base+"/docker/names", "sess-1", "")
	if status != http.StatusOK {
		t.Fatalf("expected list 200, got %d %s", status, body)
	}
	var names struct {
		Origin      string   `json:"origin"`
		Integration string   `json:"integration"`
		Names       []string `json:"names"`
	}
	if err := json.Unmarshal([]byte(body), &names); err != nil {
		t.Fatalf("decode names: %v", err)
	}
	if names.Origin != "acme" || names.Integration != "docker" || len(names.Names) != 1 || names.Names[0] != "prod" {
		t.Fatalf("unexpected names %+v", names)
	}
	if strings.Contains(body, "token") {
		t.Fatalf("expected list to omit bodies, got %s", body)
	}

	if status, body := doRequest(t, http.MethodGet, base+"/none/names", "sess-1", ""); status != http.StatusNotFound {
		t.Fatalf("expected empty list 404, got %d %s", status, body)
	}
	if status, body := doRequest(t, http.MethodPut, base+"/docker/staging", "sess-2", `{"token":"abc"}`); status != http.StatusForbidden {
		t.Fatalf("expected non-member create 403, got %d %s", status, body)
	}
	if status, body := doRequest(t, http.MethodGet, base+"/docker/names", "", ""); status != http.StatusUnauthorized {
		t.Fatalf("expected missing session 401, got %d %s", status, body)
	}
	if status, body := doRequest(t, http.MethodPut, base+"/docker/staging", "sess-1", `{"token":`); status != http.StatusBadRequest {
		t.Fatalf("expected malformed body 400, got %d %s", status, body)
	}

	if status, body := doRequest(t, http.MethodDelete, base+"/docker/prod", "sess-1", ""); status != http.StatusNoContent {
		t.Fatalf("expected delete 204, got %d %s", status, body)
	}
	if status, body := doRequest(t, http.MethodGet, base+"/docker/names", "sess-1", ""); status != http.StatusNotFound {
		t.Fatalf("expected list after delete 404, got %d %s", status, body)
	}
}

func TestNewApp_RejectsMissingKeyMaterial(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Persistence.DSN = fmt.Sprintf("file:integrationsd-test-%d?mode=memory&cache=shared", time.Now().UnixNano())

	if _, err := newApp(context.Background(), &cfg, glog.ProviderFromLogger(glog.Nop())); err == nil {
		t.Fatalf("expected missing key material to fail")
	}
}
