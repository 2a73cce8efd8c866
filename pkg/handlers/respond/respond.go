// Package respond writes JSON responses and maps trade errors to HTTP
// status codes.
package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/elmo3159/Pokeseal-sub000/pkg/api"
	"github.com/elmo3159/Pokeseal-sub000/pkg/trade"
)

var statusByError = []struct {
	err    error
	status int
}{
	{trade.ErrInvalidParticipant, http.StatusForbidden},
	{trade.ErrSessionNotFound, http.StatusNotFound},
	{trade.ErrSessionClosed, http.StatusConflict},
	{trade.ErrSessionNotNegotiating, http.StatusConflict},
	{trade.ErrConfirmationLocked, http.StatusConflict},
	{trade.ErrOwnershipInvalid, http.StatusUnprocessableEntity},
	{trade.ErrLedgerFull, http.StatusUnprocessableEntity},
	{trade.ErrInvalidMessage, http.StatusBadRequest},
	{trade.ErrTransientStore, http.StatusServiceUnavailable},
	{trade.ErrFeedUnavailable, http.StatusServiceUnavailable},
}

// Status returns the HTTP status for a service error.
func Status(err error) int {
	for _, e := range statusByError {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// JSON writes body with the given status.
func JSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

// Error writes err as an api.Error. Closed sessions always read "this trade
// has ended". Server-side failures are logged; the caller only sees the
// sentinel text for known 5xx errors and "failed to <op>" otherwise.
func Error(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := Status(err)
	msg := err.Error()
	switch {
	case errors.Is(err, trade.ErrSessionClosed):
		msg = trade.ErrSessionClosed.Error()
	case status >= http.StatusInternalServerError:
		slog.Error("request failed", "op", op, "path", r.URL.Path, "status", status, "error", err)
		msg = publicMessage(op, err)
	}
	JSON(w, status, api.Error{Message: msg})
}

func publicMessage(op string, err error) string {
	for _, e := range statusByError {
		if e.status >= http.StatusInternalServerError && errors.Is(err, e.err) {
			return e.err.Error()
		}
	}
	return fmt.Sprintf("failed to %s", op)
}

// Decode reads a JSON request body into dst, writing a 400 on failure.
func Decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		JSON(w, http.StatusBadRequest, api.Error{Message: fmt.Sprintf("Invalid request body: %v", err)})
		return false
	}
	return true
}
