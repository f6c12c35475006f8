package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/huyhqq/Student-Club-Management-System/internal/domain"
	"github.com/huyhqq/Student-Club-Management-System/internal/logger"
)

// envelope is the body of every API response
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
	Data    any    `json:"data,omitempty"`
	Total   *int32 `json:"total,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeOK(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data})
}

func writeCreated(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusCreated, envelope{Success: true, Message: message, Data: data})
}

func writeMessage(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: message})
}

func writePage(w http.ResponseWriter, data any, total int32) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data, Total: &total})
}

// writeError maps a service error onto a status code by its kind.
// Infrastructure causes are never exposed to the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	body := envelope{Success: false, Message: err.Error()}

	var de *domain.Error
	if errors.As(err, &de) {
		body.Code = de.Code
	}
	if status == http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "Request failed", "path", r.URL.Path, "error", err)
		body.Code = domain.ErrProcessing.Code
		body.Message = domain.ErrProcessing.Message
	}
	writeJSON(w, status, body)
}

func statusFor(err error) int {
	switch domain.KindOf(err) {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindAuthorization:
		return http.StatusForbidden
	case domain.KindInvariant:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, envelope{Success: false, Code: domain.ErrValidation.Code, Message: message})
}
