package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/cricket-hub/internal/platform/logging"
	"github.com/riskibarqy/cricket-hub/internal/usecase"
)

const (
	googleAPIVersion = "2.0"
	errorDomain      = "cricket-hub"
	internalErrorMsg = "internal server error"
)

// Error bodies follow the Google JSON style guide; success bodies do not
// use an envelope.
type googleErrorEnvelope struct {
	APIVersion string          `json:"apiVersion"`
	Error      googleErrorBody `json:"error"`
}

type googleErrorBody struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Status  string            `json:"status"`
	Errors  []googleErrorItem `json:"errors,omitempty"`
}

type googleErrorItem struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type mappedError struct {
	HTTPStatus int
	Reason     string
	Status     string
}

var internalError = mappedError{HTTPStatus: http.StatusInternalServerError, Reason: "internalError", Status: "INTERNAL"}

// errorTable is checked in order; the first sentinel matched wins.
var errorTable = []struct {
	target error
	mapped mappedError
}{
	{usecase.ErrInvalidInput, mappedError{http.StatusBadRequest, "invalidInput", "INVALID_ARGUMENT"}},
	{usecase.ErrNotFound, mappedError{http.StatusNotFound, "notFound", "NOT_FOUND"}},
	{usecase.ErrDependencyUnavailable, mappedError{http.StatusServiceUnavailable, "dependencyUnavailable", "UNAVAILABLE"}},
}

func mapError(err error) mappedError {
	for _, entry := range errorTable {
		if errors.Is(err, entry.target) {
			return entry.mapped
		}
	}
	return internalError
}

// writeJSON marshals before touching the response so an encoding failure
// still produces a clean 500.
func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	body, err := sonic.Marshal(payload)
	if err != nil {
		logging.Default().ErrorContext(ctx, "encode response failed", "error", err)
		status = http.StatusInternalServerError
		body, _ = sonic.Marshal(newErrorEnvelope(internalError, internalErrorMsg))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	mapped := mapError(err)
	if mapped.HTTPStatus == http.StatusInternalServerError {
		writeInternalError(ctx, w)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(ctx, w, mapped.HTTPStatus, newErrorEnvelope(mapped, err.Error()))
}

// writeInternalError never exposes the cause to the caller.
func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(ctx, w, http.StatusInternalServerError, newErrorEnvelope(internalError, internalErrorMsg))
}

func newErrorEnvelope(mapped mappedError, message string) googleErrorEnvelope {
	return googleErrorEnvelope{
		APIVersion: googleAPIVersion,
		Error: googleErrorBody{
			Code:    mapped.HTTPStatus,
			Message: message,
			Status:  mapped.Status,
			Errors:  []googleErrorItem{{Domain: errorDomain, Reason: mapped.Reason, Message: message}},
		},
	}
}
