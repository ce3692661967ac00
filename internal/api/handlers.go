package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/mesh-intelligence/playnotes/internal/dispatch"
	"github.com/mesh-intelligence/playnotes/pkg/types"
)

// maxBodyBytes caps the size of a request body.
const maxBodyBytes = 1 << 20

// Pinger reports whether the store is reachable.
type Pinger interface {
	Ping() error
}

type ExecHandler struct {
	d *dispatch.Dispatcher
}

func NewExecHandler(d *dispatch.Dispatcher) *ExecHandler {
	return &ExecHandler{d: d}
}

// Exec handles POST / and POST /exec. Every outcome, including a failed
// request, is reported as an envelope with status 200.
func (h *ExecHandler) Exec(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusOK, types.Failed(types.Validationf("invalid request body: too large")))
			return
		}
		writeJSON(w, http.StatusOK, types.Failed(types.Validationf("invalid request body: %v", err)))
		return
	}
	writeJSON(w, http.StatusOK, h.d.DispatchJSON(body))
}

type HealthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type HealthHandler struct {
	pinger Pinger
}

func NewHealthHandler(pinger Pinger) *HealthHandler {
	return &HealthHandler{pinger: pinger}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.pinger.Ping(); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "degraded", Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, types.Response{OK: false, Error: msg})
}
