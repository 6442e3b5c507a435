// Package chi wires the chat service into an HTTP API.
package chi

import (
	"encoding/json"
	"net/http"
	"strings"

	chirouter "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	openaitransport "github.com/jbritton/cvchat/internal/transport/openai"
	answeruc "github.com/jbritton/cvchat/internal/usecase/answer"
	healthuc "github.com/jbritton/cvchat/internal/usecase/health"
	"github.com/jbritton/cvchat/internal/version"
)

// Error codes returned in JSON error bodies.
const (
	codeBadRequest   = "bad_request"
	codeUnauthorized = "unauthorized"
	codeRateLimited  = "rate_limited"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// chatRequest is the chat endpoint body. The site historically sent the
// question under either key, so both are accepted; "message" wins when both
// are present.
type chatRequest struct {
	Message string `json:"message"`
	Query   string `json:"query"`
}

// Server exposes the chat pipeline over HTTP.
type Server struct {
	answers   *answeruc.Service
	health    *healthuc.Service
	modelDiag openaitransport.Diagnostics
	logger    *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(
	answers *answeruc.Service,
	health *healthuc.Service,
	modelDiag openaitransport.Diagnostics,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		answers:   answers,
		health:    health,
		modelDiag: modelDiag,
		logger:    logger,
	}
}

// Routes registers the API routes on the router.
func (s *Server) Routes(r chirouter.Router) {
	r.Post("/api/chat", s.Chat)
	r.Get("/api/model", s.ModelInfo)
	r.Get("/healthz", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Chat handles POST /api/chat. Pipeline failures never surface as HTTP
// errors: a processed query always gets 200 with usable answer text. Only
// malformed requests get 400.
func (s *Server) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	question := req.Message
	if question == "" {
		question = req.Query
	}
	if strings.TrimSpace(question) == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Message is required")
		return
	}

	ans := s.answers.Answer(r.Context(), question)
	writeJSON(w, http.StatusOK, ans)
}

// ModelInfo handles GET /api/model: the resolved completion model and how
// it was chosen.
func (s *Server) ModelInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.modelDiag)
}

// HealthCheck handles GET /healthz.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status":  report.Status,
		"checks":  report.Checks,
		"version": version.Version,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}
