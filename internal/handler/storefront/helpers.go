// Package storefront holds the JSON HTTP handlers the browser app talks to.
// Handlers are thin: they decode and validate input, delegate to the
// commerce client or an internal service, and encode the result. Business
// rules live below this layer.
package storefront

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/strandluxe/storefront/internal/domain"
	"github.com/strandluxe/storefront/internal/middleware"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// respondJSON writes v as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// respondError writes a structured JSON error response. Internal errors
// are logged with their full chain; the client only ever sees the safe
// message from domain.ErrorMessage.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.ErrorCode(err)
	status := middleware.ErrorCodeToHTTPStatus(code)

	logger := middleware.GetLogger(r.Context())
	if status >= 500 {
		logger.Error("request failed", "error", err, "code", code, "op", domain.ErrorOp(err))
	} else {
		logger.Info("request rejected", "error", err, "code", code)
	}

	body := map[string]interface{}{
		"error": map[string]interface{}{
			"code":    code,
			"message": domain.ErrorMessage(err),
		},
	}
	if fields := domain.GetValidationFields(err); len(fields) > 0 {
		body["error"].(map[string]interface{})["fields"] = fields
	}

	respondJSON(w, status, body)
}

// decodeJSON decodes the request body into dst and runs struct validation.
// All failures come back as EINVALID domain errors safe to show the client.
func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Invalid("decodeJSON", "Request body is required")
		}
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return domain.Errorf(domain.ETOOLARGE, "decodeJSON", "Request body too large")
		}
		return domain.Invalid("decodeJSON", "Request body is not valid JSON")
	}

	if err := validate.Struct(dst); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return domain.Internal(err, "decodeJSON", "Validation failed")
		}

		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return domain.NewValidationError("decodeJSON", fe.Field(), validationMessage(fe))
		}
		return domain.Invalid("decodeJSON", "Request body failed validation")
	}

	return nil
}

// validationMessage turns a validator tag failure into a shopper-facing
// message.
func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min":
		return "Must be at least " + fe.Param()
	case "max":
		return "Must be at most " + fe.Param()
	case "gt":
		return "Must be greater than " + fe.Param()
	default:
		return "Invalid value"
	}
}

// queryInt parses an integer query parameter, falling back to def when the
// parameter is absent or malformed.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}
