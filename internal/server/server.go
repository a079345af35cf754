// Package server exposes the dashboard's JSON API over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/iwvelando/finance-dashboard/internal/aggregation"
	"github.com/iwvelando/finance-dashboard/internal/apperr"
	"github.com/iwvelando/finance-dashboard/internal/auth"
	"github.com/iwvelando/finance-dashboard/internal/importer"
	"github.com/iwvelando/finance-dashboard/internal/metrics"
	"github.com/iwvelando/finance-dashboard/internal/retirement"
	"github.com/iwvelando/finance-dashboard/internal/store"
	"github.com/iwvelando/finance-dashboard/pkg/constants"
	"go.uber.org/zap"
)

// Options are the dependencies of the HTTP handler. Provider and Syncer may
// be nil when account aggregation is not configured.
type Options struct {
	Store         store.Store
	Tokens        *auth.Tokens
	Provider      aggregation.Provider
	Syncer        *aggregation.Syncer
	Parser        *importer.Parser
	Metrics       *metrics.Collector
	Logger        *zap.Logger
	MaxUploadSize int64
	Version       string
	Benchmarks    retirement.BenchmarkTable
	GrowthRates   []float64
	Now           func() time.Time
}

// Handler routes API requests. Benchmarks and growth rates can be replaced
// while serving.
type Handler struct {
	router        *mux.Router
	store         store.Store
	tokens        *auth.Tokens
	provider      aggregation.Provider
	syncer        *aggregation.Syncer
	parser        *importer.Parser
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	now           func() time.Time

	mu         sync.RWMutex
	benchmarks retirement.BenchmarkTable
	rates      []float64
}

// NewHandler constructs the HTTP handler that serves the dashboard API.
func NewHandler(opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	maxUploadSize := opts.MaxUploadSize
	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	version := strings.TrimSpace(opts.Version)
	if version == "" {
		version = "dev"
	}

	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}

	parser := opts.Parser
	if parser == nil {
		parser = importer.NewParser(logger)
	}

	benchmarks := opts.Benchmarks
	if len(benchmarks.Brackets()) == 0 {
		benchmarks = retirement.DefaultBenchmarks()
	}

	h := &Handler{
		store:         opts.Store,
		tokens:        opts.Tokens,
		provider:      opts.Provider,
		syncer:        opts.Syncer,
		parser:        parser,
		logger:        logger,
		maxUploadSize: maxUploadSize,
		version:       version,
		now:           now,
		benchmarks:    benchmarks,
		rates:         append([]float64(nil), opts.GrowthRates...),
	}
	h.router = h.routes(opts.Metrics)
	return h
}

func (h *Handler) routes(collector *metrics.Collector) *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		h.writeJSON(w, http.StatusNotFound, map[string]string{"error": http.StatusText(http.StatusNotFound)})
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		h.writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": http.StatusText(http.StatusMethodNotAllowed)})
	})

	if collector != nil {
		r.Use(collector.Middleware)
		r.Handle("/metrics", collector.Handler()).Methods(http.MethodGet)
	}

	// All routes share the root router so a method mismatch reaches
	// MethodNotAllowedHandler.
	r.HandleFunc("/api/version", h.handleVersion).Methods(http.MethodGet)
	r.HandleFunc("/api/auth/register", h.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", h.handleLogin).Methods(http.MethodPost)

	protect := auth.Middleware(h.tokens, h.logger)
	protected := func(path string, fn http.HandlerFunc, method string) {
		r.Handle(path, protect(fn)).Methods(method)
	}

	protected("/api/properties", h.handleListProperties, http.MethodGet)
	protected("/api/properties", h.handleCreateProperty, http.MethodPost)
	protected("/api/properties/{id}", h.handleGetProperty, http.MethodGet)
	protected("/api/properties/{id}", h.handleUpdateProperty, http.MethodPut)
	protected("/api/properties/{id}", h.handleDeleteProperty, http.MethodDelete)

	protected("/api/retirement/goals", h.handleGetGoals, http.MethodGet)
	protected("/api/retirement/goals", h.handleSaveGoals, http.MethodPut)
	protected("/api/retirement/projection", h.handleProjection, http.MethodGet)

	protected("/api/networth", h.handleListSnapshots, http.MethodGet)
	protected("/api/networth", h.handleCreateSnapshot, http.MethodPost)
	protected("/api/networth/comparison", h.handleComparison, http.MethodGet)

	protected("/api/accounts/link-token", h.handleLinkToken, http.MethodPost)
	protected("/api/accounts/link", h.handleLinkAccount, http.MethodPost)
	protected("/api/accounts/sync", h.handleSync, http.MethodPost)
	protected("/api/import/ofx", h.handleImportOFX, http.MethodPost)

	return r
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// SetBenchmarks replaces the peer comparison table.
func (h *Handler) SetBenchmarks(table retirement.BenchmarkTable) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.benchmarks = table
}

// SetGrowthRates replaces the projected growth rates. Empty uses the defaults.
func (h *Handler) SetGrowthRates(rates []float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rates = append([]float64(nil), rates...)
}

func (h *Handler) currentBenchmarks() retirement.BenchmarkTable {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.benchmarks
}

func (h *Handler) currentRates() []float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]float64(nil), h.rates...)
}

func (h *Handler) handleVersion(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

// decodeJSON reads a size-limited JSON body into v.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return err
		}
		return apperr.NewValidationError("body", fmt.Sprintf("invalid JSON: %v", err))
	}
	return nil
}

func statusFor(err error) int {
	var maxBytesErr *http.MaxBytesError
	switch {
	case apperr.IsValidation(err):
		return http.StatusBadRequest
	case errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, apperr.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperr.ErrNotFound), errors.Is(err, aggregation.ErrNoLinkedItems):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// respondErr maps err to a status code and writes it. Internal errors are
// logged in full but reported generically.
func (h *Handler) respondErr(w http.ResponseWriter, err error, op string) {
	status := statusFor(err)
	resp := errorResponse{Error: err.Error()}

	var ve *apperr.ValidationError
	switch {
	case errors.As(err, &ve):
		resp.Fields = ve.Fields
	case status == http.StatusRequestEntityTooLarge:
		resp.Error = fmt.Sprintf("request exceeds limit of %d bytes", h.maxUploadSize)
	case status == http.StatusInternalServerError:
		resp.Error = http.StatusText(status)
	}

	h.logRequestError(op, status, err)
	h.writeJSON(w, status, resp)
}

func (h *Handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logRequestError(op, status, errors.New(msg))
	h.writeJSON(w, status, errorResponse{Error: msg})
}

func (h *Handler) logRequestError(op string, status int, err error) {
	log := h.logger.Warn
	if status >= http.StatusInternalServerError {
		log = h.logger.Error
	}
	log("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.Error(err),
	)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

// userID returns the authenticated user. Routes behind auth.Middleware always
// have one.
func userID(r *http.Request) uuid.UUID {
	id, _ := auth.UserIDFromContext(r.Context())
	return id
}
