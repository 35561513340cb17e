package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/onbd/pkg/httpx"
	"github.com/aussiebroadwan/onbd/pkg/onbdsdk"
)

func writeError(w http.ResponseWriter, code int, errCode, desc string) {
	httpx.WriteJSON(w, code, onbdsdk.ErrorResponse{
		Error:            errCode,
		ErrorDescription: desc,
	})
}

func writeServerError(w http.ResponseWriter) {
	writeError(w, http.StatusInternalServerError, onbdsdk.ErrorCodeServerError, "An internal error occurred")
}

func writeValidationError(w http.ResponseWriter, details map[string]string) {
	httpx.WriteJSON(w, http.StatusBadRequest, onbdsdk.ValidationErrorResponse{
		Code:    onbdsdk.ErrorCodeValidation,
		Message: "validation failed for some fields",
		Details: details,
	})
}

// decodeBody reads a JSON body into v and writes the error response itself
// when that fails.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	err := httpx.DecodeJSON(w, r, v)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, onbdsdk.ErrorCodeInvalidRequest, "Request body too large")
		return false
	}
	writeError(w, http.StatusBadRequest, onbdsdk.ErrorCodeInvalidRequest, "Request body must be valid JSON")
	return false
}
