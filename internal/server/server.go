// Package server implements the HTTP server for the estimation API.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/codeGROOVE-dev/repocost/pkg/cocomo"
)

const (
	// DefaultRateLimit is the default requests per second limit.
	DefaultRateLimit = 100
	// DefaultRateBurst is the default burst size for rate limiting.
	DefaultRateBurst = 100
	// errorKey is the logging key for error messages.
	errorKey = "error"
	// maxRequestSize bounds request bodies to prevent memory exhaustion.
	maxRequestSize = 1 << 20
)

//go:embed static/*
var staticFS embed.FS

// Server handles HTTP requests for the estimation API.
//
//nolint:govet // fieldalignment: struct field ordering optimized for readability over memory
type Server struct {
	logger         *slog.Logger
	csrfProtection *http.CrossOriginProtection
	// Per-IP rate limiting.
	ipLimiters     map[string]*rate.Limiter
	ipLimitersMu   sync.RWMutex
	allowedOrigins []string
	serverCommit   string
	rateLimit      int
	rateBurst      int
	allowAllCors   bool

	// Model constants and default parameters, set once before serving.
	cfg      cocomo.Config
	defaults cocomo.Params
}

// EstimateRequest carries estimation parameters. Absent fields fall back
// to the server's defaults rather than the zero value.
//
//nolint:govet // fieldalignment: API struct field order optimized for readability
type EstimateRequest struct {
	CodeLines         *int           `json:"code_lines"`
	Complexity        *string        `json:"complexity"`
	TeamExperience    *float64       `json:"team_experience"`
	ReuseFactor       *float64       `json:"reuse_factor"`
	ToolSupport       *float64       `json:"tool_support"`
	LanguageMix       map[string]int `json:"language_mix,omitempty"`
	AvgWage           *float64       `json:"avg_wage"`
	MaxTeamSize       *int           `json:"max_team_size"`
	MaxScheduleMonths *float64       `json:"max_schedule_months"`
	Rely              *float64       `json:"rely"`
	Cplx              *float64       `json:"cplx"`
	Ruse              *float64       `json:"ruse"`
	Pcon              *float64       `json:"pcon"`
	Apex              *float64       `json:"apex"`
	MaintenanceRate   *float64       `json:"maintenance_rate"`
	MaintenanceYears  *int           `json:"maintenance_years"`
}

// EstimateResponse wraps an estimate with server metadata.
type EstimateResponse struct {
	Estimate  cocomo.Result `json:"estimate"`
	Timestamp time.Time     `json:"timestamp"`
	Commit    string        `json:"commit"`
}

// New creates a Server with default model constants and rate limits.
func New() *Server {
	ctx := context.Background()
	logger := slog.Default().With("component", "repocost-server")

	// CSRF protection via Sec-Fetch-Site and Origin headers. GET, HEAD
	// and OPTIONS are safe methods and automatically allowed.
	csrfProtection := http.NewCrossOriginProtection()

	logger.InfoContext(ctx, "Server initialized with CSRF protection enabled")

	return &Server{
		logger:         logger,
		csrfProtection: csrfProtection,
		ipLimiters:     make(map[string]*rate.Limiter),
		rateLimit:      DefaultRateLimit,
		rateBurst:      DefaultRateBurst,
		cfg:            cocomo.DefaultConfig(),
		defaults:       cocomo.DefaultParams(),
	}
}

// SetCommit sets the server commit hash.
func (s *Server) SetCommit(commit string) {
	s.serverCommit = commit
}

// SetCalibration replaces the model constants and default parameters,
// typically from a calibration file.
func (s *Server) SetCalibration(cfg cocomo.Config, defaults cocomo.Params) {
	s.cfg = cfg
	s.defaults = defaults
	s.logger.InfoContext(context.Background(), "Calibration configured",
		"multiplier", cfg.Multiplier, "flat_monthly_rate", cfg.FlatMonthlyRate)
}

// SetCORSConfig sets the CORS configuration.
//
//nolint:revive // flag-parameter: allowAll is a clear boolean flag for CORS configuration
func (s *Server) SetCORSConfig(origins string, allowAll bool) {
	ctx := context.Background()
	if allowAll {
		s.allowAllCors = true
		s.logger.WarnContext(ctx, "CORS configured to allow all origins - DEVELOPMENT MODE ONLY")
		return
	}

	s.allowAllCors = false
	if origins != "" {
		for _, origin := range strings.Split(origins, ",") {
			origin = strings.TrimSpace(origin)

			// Wildcard patterns must be *.domain.com or https://*.domain.com.
			if strings.Contains(origin, "*") {
				valid := strings.HasPrefix(origin, "*.") ||
					strings.HasPrefix(origin, "https://*.") ||
					strings.HasPrefix(origin, "http://*.")
				if !valid || strings.Count(origin, "*") > 1 {
					s.logger.ErrorContext(ctx, "Invalid wildcard CORS origin", "origin", origin)
					continue
				}
			}

			s.allowedOrigins = append(s.allowedOrigins, origin)
		}
		s.logger.InfoContext(ctx, "CORS origins configured", "origins", s.allowedOrigins)
	}
}

// SetRateLimit sets the rate limiting configuration.
func (s *Server) SetRateLimit(rps int, burst int) {
	s.rateLimit = rps
	s.rateBurst = burst
	s.logger.InfoContext(context.Background(), "Rate limit configured (per-IP)",
		"requests_per_sec", rps, "burst", burst)
}

// limiter returns a rate limiter for the given IP address.
func (s *Server) limiter(ctx context.Context, ip string) *rate.Limiter {
	s.ipLimitersMu.RLock()
	limiter, exists := s.ipLimiters[ip]
	s.ipLimitersMu.RUnlock()

	if exists {
		return limiter
	}

	s.ipLimitersMu.Lock()
	defer s.ipLimitersMu.Unlock()

	// Double-check after acquiring write lock.
	if existingLimiter, exists := s.ipLimiters[ip]; exists {
		return existingLimiter
	}

	limiter = rate.NewLimiter(rate.Limit(s.rateLimit), s.rateBurst)
	s.ipLimiters[ip] = limiter

	// Cleanup old limiters if map grows too large (prevent memory leak).
	const maxLimiters = 10000
	if len(s.ipLimiters) > maxLimiters {
		count := 0
		target := len(s.ipLimiters) / 2
		for ip := range s.ipLimiters {
			delete(s.ipLimiters, ip)
			count++
			if count >= target {
				break
			}
		}
		s.logger.InfoContext(ctx, "Cleaned up old IP rate limiters", "removed", count, "remaining", len(s.ipLimiters))
	}

	return limiter
}

// Shutdown releases server resources.
func (*Server) Shutdown() {
	// Nothing to do - in-memory structures will be garbage collected.
}

// ServeHTTP implements http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Apply CSRF protection FIRST - blocks cross-origin POST requests.
	if s.csrfProtection != nil {
		if err := s.csrfProtection.Check(r); err != nil {
			s.logger.WarnContext(r.Context(), "CSRF check failed - cross-origin request denied",
				"origin", r.Header.Get("Origin"),
				"sec_fetch_site", r.Header.Get("Sec-Fetch-Site"),
				"path", r.URL.Path,
				"method", r.Method,
				"remote_addr", r.RemoteAddr,
				errorKey, err)
			http.Error(w, "Cross-origin request denied", http.StatusForbidden)
			return
		}
	}

	// Security headers.
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("X-XSS-Protection", "1; mode=block")
	w.Header().Set("Referrer-Policy", "no-referrer")
	w.Header().Set("Cross-Origin-Resource-Policy", "cross-origin")

	// Handle CORS.
	origin := r.Header.Get("Origin")
	if s.allowAllCors {
		// SECURITY: Never use wildcard with credentials - echo the origin even in dev mode.
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			s.logger.DebugContext(r.Context(), "CORS allowed (dev mode)", "origin", origin)
		}
	} else if origin != "" && s.isOriginAllowed(origin) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Vary", "Origin")
	}
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

	// Handle preflight OPTIONS request.
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	// Route requests.
	switch {
	case r.URL.Path == "/v1/estimate":
		if r.Method != http.MethodPost && r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.handleEstimate(w, r)
	case r.URL.Path == "/health":
		s.handleHealth(w, r)
	case strings.HasPrefix(r.URL.Path, "/static/"):
		s.handleStatic(w, r)
	case r.URL.Path == "/":
		s.handleWebUI(w, r)
	default:
		http.NotFound(w, r)
	}
}

// handleEstimate processes cost estimation requests.
func (s *Server) handleEstimate(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()

	clientIP := clientIP(request)
	s.logger.InfoContext(ctx, "[handleEstimate] Incoming request",
		"client_ip", clientIP, "method", request.Method, "path", request.URL.Path)

	// Per-IP rate limiting.
	limiter := s.limiter(ctx, clientIP)
	if !limiter.Allow() {
		s.logger.WarnContext(ctx, "[handleEstimate] Rate limit exceeded", "client_ip", clientIP)
		http.Error(writer, "Rate limit exceeded", http.StatusTooManyRequests)
		return
	}

	params, err := s.parseRequest(ctx, request)
	if err != nil {
		s.logger.ErrorContext(ctx, "[handleEstimate] Failed to parse request",
			"remote_addr", request.RemoteAddr, errorKey, err)
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := cocomo.Estimate(params, s.cfg)
	if err != nil {
		var verr *cocomo.ValidationError
		if errors.As(err, &verr) {
			s.logger.WarnContext(ctx, "[handleEstimate] Invalid parameters",
				"field", verr.Field, errorKey, err)
			http.Error(writer, err.Error(), http.StatusBadRequest)
			return
		}
		s.logger.ErrorContext(ctx, "[handleEstimate] Error processing request", errorKey, err)
		http.Error(writer, "Internal server error", http.StatusInternalServerError)
		return
	}

	response := EstimateResponse{
		Estimate:  result,
		Timestamp: time.Now().UTC(),
		Commit:    s.serverCommit,
	}

	writer.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(writer).Encode(response); err != nil {
		s.logger.ErrorContext(ctx, "[handleEstimate] Error encoding response", errorKey, err)
		return
	}

	s.logger.InfoContext(ctx, "[handleEstimate] Request completed",
		"code_lines", result.CodeLines, "realistic_cost_usd", result.RealisticCostUSD)
}

// clientIP extracts the client address for rate limiting and logging.
// SECURITY: X-Forwarded-For is trusted because Cloud Run sanitizes it; for
// other deployments consider using RemoteAddr only.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx > 0 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// parseRequest parses the incoming request and resolves it against the
// server defaults.
func (s *Server) parseRequest(ctx context.Context, r *http.Request) (cocomo.Params, error) {
	var req EstimateRequest

	if r.Method == http.MethodGet {
		parseRequestFromQuery(&req, r.URL.Query())
	} else {
		r.Body = http.MaxBytesReader(nil, r.Body, maxRequestSize)
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.logger.ErrorContext(ctx, "[parseRequest] Failed to decode JSON", errorKey, err)
			return cocomo.Params{}, fmt.Errorf("invalid JSON: %w", err)
		}
	}

	if req.CodeLines == nil && len(req.LanguageMix) == 0 {
		return cocomo.Params{}, errors.New("missing required field: code_lines or language_mix")
	}

	return s.resolve(&req), nil
}

// resolve overlays the request fields on the server's default parameters.
func (s *Server) resolve(req *EstimateRequest) cocomo.Params {
	p := s.defaults

	if req.CodeLines != nil {
		p.CodeLines = *req.CodeLines
	}
	if req.Complexity != nil {
		p.Complexity = cocomo.Complexity(*req.Complexity)
	}
	if req.TeamExperience != nil {
		p.TeamExperience = *req.TeamExperience
	}
	if req.ReuseFactor != nil {
		p.ReuseFactor = *req.ReuseFactor
	}
	if req.ToolSupport != nil {
		p.ToolSupport = *req.ToolSupport
	}
	if len(req.LanguageMix) > 0 {
		p.LanguageMix = req.LanguageMix
	}
	if req.AvgWage != nil {
		p.AvgWage = *req.AvgWage
	}
	if req.MaxTeamSize != nil {
		p.MaxTeamSize = *req.MaxTeamSize
	}
	if req.MaxScheduleMonths != nil {
		p.MaxScheduleMonths = *req.MaxScheduleMonths
	}
	if req.Rely != nil {
		p.Rely = *req.Rely
	}
	if req.Cplx != nil {
		p.Cplx = *req.Cplx
	}
	if req.Ruse != nil {
		p.Ruse = *req.Ruse
	}
	if req.Pcon != nil {
		p.Pcon = *req.Pcon
	}
	if req.Apex != nil {
		p.Apex = *req.Apex
	}
	if req.MaintenanceRate != nil {
		p.MaintenanceRate = *req.MaintenanceRate
	}
	if req.MaintenanceYears != nil {
		p.MaintenanceYears = *req.MaintenanceYears
	}
	return p
}

// parseRequestFromQuery fills req from query parameters so estimates can
// be shared as plain URLs.
func parseRequestFromQuery(req *EstimateRequest, query url.Values) {
	if v := query.Get("lines"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			req.CodeLines = &n
		}
	}
	if v := query.Get("complexity"); v != "" {
		req.Complexity = &v
	}
	setFloat := func(name string, dst **float64) {
		if v := query.Get(name); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				*dst = &f
			}
		}
	}
	setInt := func(name string, dst **int) {
		if v := query.Get(name); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = &n
			}
		}
	}
	setFloat("team_exp", &req.TeamExperience)
	setFloat("reuse", &req.ReuseFactor)
	setFloat("tools", &req.ToolSupport)
	setFloat("avg_wage", &req.AvgWage)
	setInt("max_team", &req.MaxTeamSize)
	setFloat("max_schedule", &req.MaxScheduleMonths)
	setFloat("rely", &req.Rely)
	setFloat("cplx", &req.Cplx)
	setFloat("ruse", &req.Ruse)
	setFloat("pcon", &req.Pcon)
	setFloat("apex", &req.Apex)
	setFloat("maintenance_rate", &req.MaintenanceRate)
	setInt("maintenance_years", &req.MaintenanceYears)
}

// isOriginAllowed checks an Origin header against the configured list,
// including wildcard subdomain patterns.
func (s *Server) isOriginAllowed(origin string) bool {
	if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
		return false
	}

	protocolEnd := strings.Index(origin, "://")
	if protocolEnd == -1 {
		return false
	}
	protocol := origin[:protocolEnd]

	host := origin[protocolEnd+3:]
	if colonIndex := strings.Index(host, ":"); colonIndex != -1 {
		host = host[:colonIndex]
	}
	if slashIndex := strings.Index(host, "/"); slashIndex != -1 {
		host = host[:slashIndex]
	}

	for _, allowed := range s.allowedOrigins {
		if allowed == origin {
			return true
		}

		if strings.Contains(allowed, "*") {
			var wildcardDomain string
			var requiredProtocol string

			switch {
			case strings.HasPrefix(allowed, "http://"), strings.HasPrefix(allowed, "https://"):
				allowedProtocolEnd := strings.Index(allowed, "://")
				if allowedProtocolEnd == -1 {
					continue
				}
				requiredProtocol = allowed[:allowedProtocolEnd]
				wildcardPart := allowed[allowedProtocolEnd+3:]

				if !strings.HasPrefix(wildcardPart, "*.") {
					continue
				}
				wildcardDomain = wildcardPart[2:]

				if protocol != requiredProtocol {
					continue
				}
			case strings.HasPrefix(allowed, "*."):
				wildcardDomain = allowed[2:]
			default:
				continue
			}

			// Matches example.com and any depth of subdomain, never
			// notexample.com.
			if host == wildcardDomain || strings.HasSuffix(host, "."+wildcardDomain) {
				return true
			}
		}
	}
	return false
}

// handleHealth provides a simple health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "healthy"}); err != nil {
		s.logger.ErrorContext(ctx, "[handleHealth] Error encoding response", errorKey, err)
	}
}

// handleWebUI serves the embedded web UI.
func (s *Server) handleWebUI(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	htmlContent, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		s.logger.ErrorContext(ctx, "[handleWebUI] Failed to read index.html", errorKey, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(htmlContent); err != nil {
		s.logger.ErrorContext(ctx, "[handleWebUI] Error writing response", errorKey, err)
	}
}

// handleStatic serves embedded static files.
func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	path := strings.TrimPrefix(r.URL.Path, "/")

	content, err := staticFS.ReadFile(path)
	if err != nil {
		s.logger.WarnContext(ctx, "[handleStatic] File not found", "path", path, errorKey, err)
		http.NotFound(w, r)
		return
	}

	var contentType string
	switch {
	case strings.HasSuffix(path, ".png"):
		contentType = "image/png"
	case strings.HasSuffix(path, ".ico"):
		contentType = "image/x-icon"
	case strings.HasSuffix(path, ".css"):
		contentType = "text/css; charset=utf-8"
	case strings.HasSuffix(path, ".js"):
		contentType = "application/javascript; charset=utf-8"
	default:
		contentType = "application/octet-stream"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(content); err != nil {
		s.logger.ErrorContext(ctx, "[handleStatic] Error writing response", errorKey, err)
	}
}
