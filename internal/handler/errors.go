package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tiagoriveira/jacupemba-ai-sub001/internal/models"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func WriteError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

func WriteSuccess(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func writeCoded(w http.ResponseWriter, message, code string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message, Code: code})
}

// writeServiceError maps the error taxonomy onto HTTP statuses. Business-rule
// violations keep their message verbatim so the UI can explain itself.
func writeServiceError(w http.ResponseWriter, err error) {
	var validationErr *models.ValidationError
	var providerErr *models.ProviderError

	switch {
	case errors.As(err, &validationErr):
		writeCoded(w, validationErr.Error(), "VALIDATION", http.StatusBadRequest)
	case errors.Is(err, models.ErrNotFound), errors.Is(err, models.ErrIntentNotFound):
		writeCoded(w, err.Error(), "NOT_FOUND", http.StatusNotFound)
	case errors.Is(err, models.ErrForbidden):
		writeCoded(w, err.Error(), "FORBIDDEN", http.StatusForbidden)
	case errors.Is(err, models.ErrNotExpired):
		writeCoded(w, err.Error(), "NOT_EXPIRED", http.StatusConflict)
	case errors.Is(err, models.ErrQuotaExceeded):
		writeCoded(w, err.Error(), "QUOTA_EXCEEDED", http.StatusUnprocessableEntity)
	case errors.As(err, &providerErr):
		writeCoded(w, providerErr.Error(), "PROVIDER_ERROR", http.StatusBadGateway)
	default:
		WriteError(w, err.Error(), http.StatusInternalServerError)
	}
}
