package util

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"gradelookup/backend/internal/records"
	"gradelookup/backend/internal/session"
)

// Messages shown to the person searching.
const (
	MsgEmptyID             = "Please enter a Student ID"
	MsgNotFound            = "Student ID not found. Please check and try again."
	MsgAccessDenied        = "Access denied. Please check database access policies."
	MsgDatabaseErrorPrefix = "Database error: "
	MsgUnexpected          = "An error occurred. Please try again."
	MsgNoSessionData       = "No student data found. Please search again."
	MsgSessionMalformed    = "Failed to load student data."
	MsgRecordTooLarge      = "Student record is too large to display."
	MsgConfigError         = "System configuration error."
	MsgDatabaseUnavailable = "Database connection failed."
)

// JSONResponse structure for successful responses
type JSONResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// JSONError structure for error responses
type JSONError struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// WriteJSON is a helper to write JSON responses
func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	var response interface{}

	// A map with its own "success" key is written as is
	if responseMap, ok := payload.(map[string]interface{}); ok && responseMap["success"] != nil {
		response = payload
	} else if status >= 200 && status < 300 {
		response = JSONResponse{Success: true, Data: payload}
	} else {
		response = JSONError{Success: false, Message: "Unknown error"}
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		zap.L().Error("failed to write JSON response", zap.Int("status", status), zap.Error(err))
	}
}

// WriteJSONError is a helper to write standardized error JSON responses
func WriteJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	errorResponse := JSONError{
		Success: false,
		Message: message,
	}

	if err := json.NewEncoder(w).Encode(errorResponse); err != nil {
		zap.L().Error("failed to write JSON error response", zap.Int("status", status), zap.Error(err))
	}
}

// LookupErrorMessage maps a resolver error to an HTTP status and the message
// the search page shows inline.
func LookupErrorMessage(err error) (int, string) {
	var svcErr *records.ServiceError

	switch {
	case errors.Is(err, records.ErrInvalidID):
		return http.StatusBadRequest, MsgEmptyID
	case errors.Is(err, records.ErrNotFound):
		return http.StatusNotFound, MsgNotFound
	case errors.Is(err, records.ErrAccessDenied):
		return http.StatusForbidden, MsgAccessDenied
	case errors.As(err, &svcErr):
		return http.StatusInternalServerError, MsgDatabaseErrorPrefix + svcErr.Message
	default:
		return http.StatusInternalServerError, MsgUnexpected
	}
}

// SessionErrorMessage maps a session load error to an HTTP status and the
// message that replaces the results page.
func SessionErrorMessage(err error) (int, string) {
	if errors.Is(err, session.ErrNoData) {
		return http.StatusNotFound, MsgNoSessionData
	}
	return http.StatusBadRequest, MsgSessionMalformed
}

// SaveErrorMessage maps a failure to store a found record in the session to an
// HTTP status and the message the search page shows inline.
func SaveErrorMessage(err error) (int, string) {
	if errors.Is(err, session.ErrTooLarge) {
		return http.StatusInternalServerError, MsgRecordTooLarge
	}
	return http.StatusInternalServerError, MsgUnexpected
}

// HandleLookupError writes the JSON error for a failed lookup.
func HandleLookupError(w http.ResponseWriter, err error) {
	status, message := LookupErrorMessage(err)
	WriteJSONError(w, status, message)
}
