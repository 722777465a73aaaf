package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Brigames121/ChatGPT-Beta/internal/apperr"
)

const maxBodyBytes = 1 << 20

var statusByCode = map[string]int{
	apperr.CodeValidation:         http.StatusBadRequest,
	apperr.CodeDuplicateEmail:     http.StatusBadRequest,
	apperr.CodeInvalidCredentials: http.StatusUnauthorized,
	apperr.CodeUnauthorized:       http.StatusUnauthorized,
	apperr.CodeForbidden:          http.StatusForbidden,
	apperr.CodeServiceUnavailable: http.StatusServiceUnavailable,
	apperr.CodeServiceError:       http.StatusInternalServerError,
}

// writeJSON writes JSON response with status code.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError sends an error message.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "message": msg})
}

// statusFor maps a classified error to its HTTP status and public message.
// Unclassified errors are reported as a generic service error.
func statusFor(err error) (int, string) {
	e, ok := apperr.As(err)
	if !ok {
		return http.StatusInternalServerError, "internal server error"
	}
	status, known := statusByCode[e.Code]
	if !known {
		status = http.StatusInternalServerError
	}
	return status, e.Message
}

// decodeJSON reads a bounded JSON body into dst.
func decodeJSON(w http.ResponseWriter, req *http.Request, dst any) error {
	body := http.MaxBytesReader(w, req.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperr.Validation("request body too large")
		}
		return apperr.Validation("invalid JSON body")
	}
	return nil
}
