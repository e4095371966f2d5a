package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/boddenberg/quote-configurator-bfa-go/internal/domain"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Request bodies above 1 MiB are rejected; a signature PNG fits well below.
const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}

// classify picks the status, client body and log level for a service error.
func classify(err error) (int, errorResponse, zapcore.Level) {
	var (
		validation   *domain.ErrValidation
		notFound     *domain.ErrNotFound
		unauthorized *domain.ErrUnauthorized
		circuitOpen  *domain.ErrCircuitOpen
		unavailable  *domain.ErrUnavailable
		timeout      *domain.ErrTimeout
		external     *domain.ErrExternalService
	)
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, errorResponse{Error: validation.Message, Field: validation.Field}, zapcore.DebugLevel
	case errors.As(err, &notFound):
		return http.StatusNotFound, errorResponse{Error: err.Error()}, zapcore.DebugLevel
	case errors.As(err, &unauthorized):
		return http.StatusUnauthorized, errorResponse{Error: err.Error()}, zapcore.WarnLevel
	case errors.As(err, &circuitOpen):
		return http.StatusServiceUnavailable, errorResponse{Error: err.Error()}, zapcore.ErrorLevel
	case errors.As(err, &unavailable):
		return http.StatusServiceUnavailable, errorResponse{Error: err.Error()}, zapcore.WarnLevel
	case errors.As(err, &timeout):
		return http.StatusGatewayTimeout, errorResponse{Error: err.Error()}, zapcore.ErrorLevel
	case errors.As(err, &external):
		return http.StatusServiceUnavailable, errorResponse{Error: "serviço externo indisponível: " + external.Service}, zapcore.ErrorLevel
	default:
		return http.StatusInternalServerError, errorResponse{Error: "internal server error"}, zapcore.ErrorLevel
	}
}

// handleServiceError writes the HTTP form of a domain error and logs it.
func handleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	status, body, level := classify(err)
	if ce := logger.Check(level, "request failed"); ce != nil {
		ce.Write(zap.Int("status", status), zap.Error(err))
	}
	writeJSON(w, status, body)
}
