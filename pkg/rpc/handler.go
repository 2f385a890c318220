package rpc

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/NERVsystems/mapsmcp/pkg/gmaps"
	"github.com/NERVsystems/mapsmcp/pkg/tools"
)

// MaxBodyBytes caps the size of a request envelope.
const MaxBodyBytes = 1 << 20

// Handler is the HTTP endpoint of the RPC shape.
type Handler struct {
	dispatcher *Dispatcher
	hasKey     bool
	logger     *slog.Logger
}

// NewHandler creates the HTTP handler. When hasKey is false every POST is
// answered with 500 before the body is read.
func NewHandler(d *Dispatcher, hasKey bool, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{dispatcher: d, hasKey: hasKey, logger: logger.With("transport", "rpc")}
}

type errorBody struct {
	Error string `json:"error"`
}

// WriteJSON writes v with the given status as application/json.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes {"error": msg} with the given status.
func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, errorBody{Error: msg})
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	if !h.hasKey {
		WriteError(w, http.StatusInternalServerError, gmaps.ErrNoAPIKey.Error())
		return
	}

	env, err := decodeEnvelope(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, http.StatusBadRequest, "request body too large")
			return
		}
		WriteError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	logger := h.logger.With("method", env.Method)
	result, err := h.dispatcher.Dispatch(r.Context(), env)
	if err != nil {
		var badReq *BadRequestError
		switch {
		case errors.Is(err, ErrUnknownMethod):
			WriteError(w, http.StatusBadRequest, ErrUnknownMethod.Error())
		case errors.As(err, &badReq), tools.IsClientError(err):
			logger.Debug("rejected request", "error", err)
			WriteError(w, http.StatusBadRequest, err.Error())
		default:
			logger.Error("request failed", "error", err)
			WriteError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

// decodeEnvelope reads exactly one JSON value; anything but whitespace after
// it is rejected.
func decodeEnvelope(r io.Reader) (Envelope, error) {
	var env Envelope
	dec := json.NewDecoder(r)
	if err := dec.Decode(&env); err != nil {
		return env, err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return env, err
		}
		return env, errors.New("unexpected data after request body")
	}
	return env, nil
}
