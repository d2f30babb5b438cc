// Package handlers implements the site's HTTP endpoints.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/wolfman30/sitefront/internal/validation"
)

const maxBodyBytes = 1 << 20

// apiResponse is the envelope of the form endpoints.
type apiResponse struct {
	Success bool                    `json:"success"`
	Message string                  `json:"message,omitempty"`
	ID      string                  `json:"id,omitempty"`
	Error   string                  `json:"error,omitempty"`
	Details []validation.FieldError `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeFailure(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, apiResponse{Success: false, Error: msg})
}

func writeValidationFailure(w http.ResponseWriter, errs validation.Errors) {
	writeJSON(w, http.StatusBadRequest, apiResponse{Success: false, Error: "Validation failed", Details: errs})
}

// Preflight answers OPTIONS for a route that accepts methods.
func Preflight(methods ...string) http.HandlerFunc {
	allow := strings.Join(append(methods, http.MethodOptions), ", ")
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", allow)
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.WriteHeader(http.StatusOK)
	}
}

// decodeBody reads a JSON body into dst and reports which keys it carried.
// A field holding the wrong JSON type is reported as a validation failure;
// any other decode problem is returned as a plain error.
func decodeBody(r *http.Request, dst any) (validation.Presence, validation.Errors, error) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, nil, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return nil, validation.Errors{{
				Field:   typeErr.Field,
				Message: "Expected " + typeErr.Type.Kind().String() + ", received " + typeErr.Value,
			}}, nil
		}
		return nil, nil, err
	}
	return validation.PresenceOf(raw), nil, nil
}
