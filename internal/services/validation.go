package services

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// APIError is the failure envelope every endpoint returns.
type APIError struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// RespondJSON writes v as the JSON response body.
func RespondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// RespondError writes a {success:false, message} failure.
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, APIError{Success: false, Message: message})
}

// ValidationMessage turns the first validator failure into a message naming
// the violated constraint instead of a generic "validation failed".
func ValidationMessage(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return "Invalid request"
	}

	e := errs[0]
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "email":
		return "Enter a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", e.Field(), e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", e.Field(), e.Param())
	default:
		return fmt.Sprintf("%s failed validation on '%s'", e.Field(), e.Tag())
	}
}

// DecodeJSONBody decodes a request body into dst, limited to 1 MB and
// rejecting unknown fields and trailing JSON objects.
func DecodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1_048_576)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	if dec.More() {
		return fmt.Errorf("request body must only contain a single JSON object")
	}
	return nil
}
