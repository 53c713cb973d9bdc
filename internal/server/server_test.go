package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/codeGROOVE-dev/repocost/pkg/cocomo"
)

func TestNew(t *testing.T) {
	s := New()
	if s == nil {
		t.Fatal("New() returned nil")
	}
	if s.logger == nil {
		t.Error("Server logger not initialized")
	}
	if s.ipLimiters == nil {
		t.Error("Server ipLimiters not initialized")
	}
	if s.cfg.Multiplier != cocomo.DefaultConfig().Multiplier {
		t.Error("Server should start with default model constants")
	}
}

func TestSetCommit(t *testing.T) {
	s := New()
	commit := "abc123def"
	s.SetCommit(commit)
	if s.serverCommit != commit {
		t.Errorf("SetCommit() failed: got %s, want %s", s.serverCommit, commit)
	}
}

func TestSetCORSConfig(t *testing.T) {
	tests := []struct {
		name         string
		origins      string
		allowAll     bool
		wantAllowAll bool
		wantOrigins  int
	}{
		{
			name:         "allow all",
			origins:      "",
			allowAll:     true,
			wantAllowAll: true,
			wantOrigins:  0,
		},
		{
			name:         "specific origins",
			origins:      "https://example.com,https://test.com",
			allowAll:     false,
			wantAllowAll: false,
			wantOrigins:  2,
		},
		{
			name:         "wildcard origin",
			origins:      "https://*.example.com",
			allowAll:     false,
			wantAllowAll: false,
			wantOrigins:  1,
		},
		{
			name:         "invalid double wildcard dropped",
			origins:      "https://*.*.example.com",
			allowAll:     false,
			wantAllowAll: false,
			wantOrigins:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			s.SetCORSConfig(tt.origins, tt.allowAll)
			if s.allowAllCors != tt.wantAllowAll {
				t.Errorf("allowAllCors = %v, want %v", s.allowAllCors, tt.wantAllowAll)
			}
			if len(s.allowedOrigins) != tt.wantOrigins {
				t.Errorf("allowedOrigins = %d, want %d", len(s.allowedOrigins), tt.wantOrigins)
			}
		})
	}
}

func TestIsOriginAllowed(t *testing.T) {
	s := New()
	s.SetCORSConfig("https://example.com,https://*.dev.example.com", false)

	tests := []struct {
		origin string
		want   bool
	}{
		{"https://example.com", true},
		{"https://other.com", false},
		{"https://app.dev.example.com", true},
		{"https://deep.app.dev.example.com", true},
		{"http://app.dev.example.com", false},
		{"https://fakedev.example.com", false},
		{"not-a-url", false},
	}
	for _, tt := range tests {
		if got := s.isOriginAllowed(tt.origin); got != tt.want {
			t.Errorf("isOriginAllowed(%q) = %v, want %v", tt.origin, got, tt.want)
		}
	}
}

func TestHealthEndpoint(t *testing.T) {
	s := New()
	req := httptest.NewRequest(http.MethodGet, "/health", http.NoBody)
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("health status = %d, want %d", rec.Code, http.StatusOK)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("health response not JSON: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("health status field = %q, want healthy", body["status"])
	}
}

func TestSecurityHeaders(t *testing.T) {
	s := New()
	req := httptest.NewRequest(http.MethodGet, "/health", http.NoBody)
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	headers := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Referrer-Policy":        "no-referrer",
	}
	for name, want := range headers {
		if got := rec.Header().Get(name); got != want {
			t.Errorf("header %s = %q, want %q", name, got, want)
		}
	}
}

func TestEstimatePost(t *testing.T) {
	s := New()
	payload := map[string]any{
		"code_lines":        10000,
		"maintenance_years": 3,
	}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/v1/estimate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("estimate status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp EstimateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response not JSON: %v", err)
	}
	if resp.Estimate.CodeLines != 10000 {
		t.Errorf("code_lines = %d, want 10000", resp.Estimate.CodeLines)
	}
	if resp.Estimate.RealisticCostUSD <= 0 {
		t.Error("realistic_cost_usd should be positive")
	}
	if resp.Estimate.Maintenance == nil {
		t.Error("maintenance projection missing with maintenance_years 3")
	}
	if resp.Timestamp.IsZero() {
		t.Error("timestamp not set")
	}
}

func TestEstimateGet(t *testing.T) {
	s := New()
	req := httptest.NewRequest(http.MethodGet,
		"/v1/estimate?lines=10000&complexity=high&team_exp=2&max_team=10", http.NoBody)
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("estimate status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var resp EstimateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response not JSON: %v", err)
	}
	if resp.Estimate.Params.Complexity != cocomo.ComplexityHigh {
		t.Errorf("complexity = %v, want high", resp.Estimate.Params.Complexity)
	}
	if resp.Estimate.Params.MaxTeamSize != 10 {
		t.Errorf("max_team_size = %d, want 10", resp.Estimate.Params.MaxTeamSize)
	}
}

func TestEstimateDefaultsApplied(t *testing.T) {
	s := New()
	body := []byte(`{"code_lines": 5000}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/estimate", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("estimate status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp EstimateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	defaults := cocomo.DefaultParams()
	p := resp.Estimate.Params
	if p.Complexity != defaults.Complexity || p.TeamExperience != defaults.TeamExperience ||
		p.AvgWage != defaults.AvgWage || p.MaxTeamSize != defaults.MaxTeamSize {
		t.Errorf("unset fields should fall back to defaults, got %+v", p)
	}
}

func TestEstimateMissingSize(t *testing.T) {
	s := New()
	req := httptest.NewRequest(http.MethodPost, "/v1/estimate", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestEstimateInvalidParams(t *testing.T) {
	s := New()
	body := []byte(`{"code_lines": 1000, "team_experience": 9}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/estimate", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if !strings.Contains(rec.Body.String(), "team_experience") {
		t.Errorf("error should name the offending field: %s", rec.Body.String())
	}
}

func TestEstimateInvalidJSON(t *testing.T) {
	s := New()
	req := httptest.NewRequest(http.MethodPost, "/v1/estimate", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestEstimateMethodNotAllowed(t *testing.T) {
	s := New()
	req := httptest.NewRequest(http.MethodDelete, "/v1/estimate", http.NoBody)
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

func TestRateLimiting(t *testing.T) {
	s := New()
	s.SetRateLimit(1, 1)

	req := httptest.NewRequest(http.MethodGet, "/v1/estimate?lines=1000", http.NoBody)
	req.RemoteAddr = "192.0.2.1:1234"

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want %d", rec.Code, http.StatusOK)
	}

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("second request status = %d, want %d", rec.Code, http.StatusTooManyRequests)
	}
}

func TestRateLimitPerIP(t *testing.T) {
	s := New()
	s.SetRateLimit(1, 1)

	first := httptest.NewRequest(http.MethodGet, "/v1/estimate?lines=1000", http.NoBody)
	first.RemoteAddr = "192.0.2.1:1234"
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, first)
	if rec.Code != http.StatusOK {
		t.Fatalf("first IP status = %d, want %d", rec.Code, http.StatusOK)
	}

	second := httptest.NewRequest(http.MethodGet, "/v1/estimate?lines=1000", http.NoBody)
	second.RemoteAddr = "192.0.2.2:1234"
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, second)
	if rec.Code != http.StatusOK {
		t.Errorf("different IP should not share a limiter, status = %d", rec.Code)
	}
}

func TestSetCalibration(t *testing.T) {
	s := New()
	cfg := cocomo.DefaultConfig()
	cfg.FlatMonthlyRate = 20000
	defaults := cocomo.DefaultParams()
	defaults.AvgWage = 200000
	s.SetCalibration(cfg, defaults)

	body := []byte(`{"code_lines": 10000}`)
	request := httptest.NewRequest(http.MethodPost, "/v1/estimate", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, request)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp EstimateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Estimate.Params.AvgWage != 200000 {
		t.Errorf("avg_wage = %v, want calibrated 200000", resp.Estimate.Params.AvgWage)
	}
}

func TestWebUIServed(t *testing.T) {
	s := New()
	request := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, request)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type = %q, want text/html", ct)
	}
	if !strings.Contains(rec.Body.String(), "Repo Cost Estimator") {
		t.Error("web UI body missing title")
	}
}

func TestNotFound(t *testing.T) {
	s := New()
	request := httptest.NewRequest(http.MethodGet, "/nope", http.NoBody)
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, request)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		want       string
	}{
		{"remote addr only", "10.0.0.1:5555", "", "10.0.0.1"},
		{"single forwarded", "10.0.0.1:5555", "203.0.113.7", "203.0.113.7"},
		{"forwarded chain", "10.0.0.1:5555", "203.0.113.7, 10.0.0.2", "203.0.113.7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
			r.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if got := clientIP(r); got != tt.want {
				t.Errorf("clientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
