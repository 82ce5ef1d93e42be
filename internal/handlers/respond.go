package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError sends an error message in the standard envelope
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// validationMessage flattens validator field errors into one readable line
func validationMessage(errs validator.ValidationErrors) string {
	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		switch e.ActualTag() {
		case "required":
			messages = append(messages, fmt.Sprintf("field %s is required", e.Field()))
		case "email":
			messages = append(messages, fmt.Sprintf("field %s must be a valid email address", e.Field()))
		default:
			messages = append(messages, fmt.Sprintf("field %s is invalid", e.Field()))
		}
	}
	return strings.Join(messages, ", ")
}
