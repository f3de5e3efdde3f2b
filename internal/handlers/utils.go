package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/akolanti/FaqSearch/internal/adapter"
	"github.com/akolanti/FaqSearch/internal/domain/ragError"
	"github.com/akolanti/FaqSearch/pkg/logger_i"
)

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}, log *logger_i.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but can't send a clean status code now
		log.Error("Error encoding response: %v", err)
	}
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpCode)
	_ = json.NewEncoder(w).Encode(adapter.ToErrorResponse(message))
}

// statusForError maps the error taxonomy onto http codes. A bad query is the
// caller's fault, a failing backend is a bad gateway, everything else is a 500.
func statusForError(err error) int {
	switch ragError.KindOf(err) {
	case ragError.KindValidation:
		return http.StatusBadRequest
	case ragError.KindEmbedding, ragError.KindIndex:
		return http.StatusBadGateway
	case ragError.KindConfiguration:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func validateContext(ctx context.Context, log *logger_i.Logger) bool {
	if ctx.Err() != nil {
		log.Warn("context error", "error", ctx.Err())
		return false
	}

	select {
	case <-ctx.Done():
		log.Warn("context cancelled")
		return false
	default:
		return true
	}
}
