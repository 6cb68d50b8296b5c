package dispatch

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/c360/webkit/errors"
	"github.com/c360/webkit/metric"
)

// maxBodySize bounds action request bodies (1MB).
const maxBodySize = 1024 * 1024

// response is the JSON envelope every action reply uses.
type response struct {
	OK     bool   `json:"ok"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Handler serves POST /{controller}/{action} requests from a Registry.
type Handler struct {
	registry   *Registry
	authorizer Authorizer
	logger     *slog.Logger
	metrics    *metric.Metrics
}

// NewHandler creates the dispatch HTTP handler. authorizer may be nil, in
// which case actions requiring authorization are refused; logger and
// metrics may be nil.
func NewHandler(registry *Registry, authorizer Authorizer, logger *slog.Logger, metrics *metric.Metrics) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		registry:   registry,
		authorizer: authorizer,
		logger:     logger,
		metrics:    metrics,
	}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	controller, name, ok := splitActionPath(r.URL.Path)
	if !ok {
		h.writeError(w, http.StatusNotFound, "unknown action path")
		return
	}

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		h.writeError(w, http.StatusMethodNotAllowed, "actions are invoked with POST")
		return
	}

	action, ok := h.registry.Lookup(controller, name)
	if !ok {
		h.count(controller, name, "not_found")
		h.writeError(w, http.StatusNotFound, "action not registered")
		return
	}

	if action.RequireAuth {
		if h.authorizer == nil {
			h.count(controller, name, "unauthorized")
			h.writeError(w, http.StatusUnauthorized, "authorization required")
			return
		}
		if err := h.authorizer.Authorize(r); err != nil {
			h.count(controller, name, "unauthorized")
			h.logger.Warn("action authorization refused",
				"controller", controller, "action", name, "error", err)
			h.writeError(w, http.StatusUnauthorized, "authorization refused")
			return
		}
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		h.count(controller, name, "error")
		h.writeError(w, http.StatusBadRequest, "request body unreadable")
		return
	}

	result, err := action.Handler(r.Context(), body)
	if err != nil {
		status := http.StatusInternalServerError
		outcome := "error"
		if errors.IsInvalid(err) || errors.IsType(err) {
			status = http.StatusBadRequest
			outcome = "invalid"
		}
		h.count(controller, name, outcome)
		h.logger.Error("action failed",
			"controller", controller, "action", name, "error", err)
		h.writeError(w, status, err.Error())
		return
	}

	h.count(controller, name, "ok")
	h.writeJSON(w, http.StatusOK, response{OK: true, Result: result})
}

// splitActionPath extracts controller and action from "/controller/action".
func splitActionPath(path string) (controller, name string, ok bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, response{OK: false, Error: msg})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, resp response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("response encoding failed", "error", err)
	}
}

func (h *Handler) count(controller, name, status string) {
	if h.metrics != nil {
		h.metrics.ActionsDispatched.WithLabelValues(controller, name, status).Inc()
	}
}
