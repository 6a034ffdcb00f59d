package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"lawdesk-backend/internal/logger"
	"lawdesk-backend/internal/service"
)

const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeOfficeNotFound     = "OFFICE_NOT_FOUND"
	CodeAlreadyMember      = "ALREADY_MEMBER"
	CodeDuplicatePending   = "DUPLICATE_PENDING"
	CodeInvalidTransition  = "INVALID_TRANSITION"
	CodeEmailTaken         = "EMAIL_TAKEN"
	CodeInternal           = "INTERNAL_ERROR"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

// apiError carries a status and code produced inside the HTTP layer.
type apiError struct {
	status  int
	code    string
	message string
}

func (e *apiError) Error() string { return e.message }

func badRequest(message string) error {
	return &apiError{status: http.StatusBadRequest, code: CodeValidation, message: message}
}

func unauthorized(message string) error {
	return &apiError{status: http.StatusUnauthorized, code: CodeUnauthorized, message: message}
}

var errorTable = []struct {
	err    error
	status int
	code   string
}{
	{service.ErrValidation, http.StatusBadRequest, CodeValidation},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, CodeInvalidCredentials},
	{service.ErrForbidden, http.StatusForbidden, CodeForbidden},
	{service.ErrOfficeNotFound, http.StatusNotFound, CodeOfficeNotFound},
	{service.ErrNotFound, http.StatusNotFound, CodeNotFound},
	{service.ErrAlreadyMember, http.StatusConflict, CodeAlreadyMember},
	{service.ErrDuplicatePending, http.StatusConflict, CodeDuplicatePending},
	{service.ErrInvalidTransition, http.StatusConflict, CodeInvalidTransition},
	{service.ErrEmailTaken, http.StatusConflict, CodeEmailTaken},
}

// statusFor maps an error to its HTTP status, code and caller-facing message.
func statusFor(err error) (int, string, string) {
	var ae *apiError
	if errors.As(err, &ae) {
		return ae.status, ae.code, ae.message
	}
	for _, e := range errorTable {
		if errors.Is(err, e.err) {
			msg := err.Error()
			if e.err == service.ErrValidation {
				msg = strings.TrimPrefix(msg, service.ErrValidation.Error()+": ")
			}
			return e.status, e.code, msg
		}
	}
	return http.StatusInternalServerError, CodeInternal, "internal server error"
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: msg}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to encode response", "error", err)
	}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return badRequest("request body is not valid JSON")
	}
	return nil
}
