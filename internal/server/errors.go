package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/arcanaland/seer/internal/deck"
	"github.com/arcanaland/seer/internal/ledger"
	"github.com/arcanaland/seer/internal/settings"
)

// errBadRequest marks malformed request bodies and parameters
var errBadRequest = errors.New("bad request")

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// statusFor maps an error to its HTTP status and a stable error code
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, deck.ErrInvalidCount), errors.Is(err, ledger.ErrInvalidArgument):
		return http.StatusBadRequest, "invalid_argument"
	case errors.Is(err, deck.ErrCardNotFound), errors.Is(err, ledger.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, settings.ErrUnknownTheme):
		return http.StatusNotFound, "unknown_theme"
	case errors.Is(err, ledger.ErrNotConnected):
		return http.StatusUnauthorized, "not_connected"
	case errors.Is(err, ledger.ErrRejected):
		return http.StatusConflict, "rejected"
	case errors.Is(err, ledger.ErrTransportFailure):
		return http.StatusBadGateway, "transport_failure"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
