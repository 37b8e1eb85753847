package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// Response is the standard success envelope.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ListResponse is the envelope for paginated collections.
type ListResponse struct {
	Success bool   `json:"success"`
	Count   int    `json:"count"`
	Total   int    `json:"total"`
	Page    int    `json:"page"`
	Pages   int    `json:"pages"`
	Data    any    `json:"data"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse is the standard failure envelope. Error carries a stable
// machine-readable code; Message is for humans.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// writeJSON writes data as a JSON body with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeSuccess writes a success envelope.
func writeSuccess(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, Response{Success: true, Message: message, Data: data})
}

// writeList writes a paginated collection envelope. Pages is derived from
// total and limit; a zero limit yields a single page.
func writeList(w http.ResponseWriter, count, total, page, limit int, data any) {
	pages := 1
	if limit > 0 {
		pages = (total + limit - 1) / limit
		if pages < 1 {
			pages = 1
		}
	}
	writeJSON(w, http.StatusOK, ListResponse{
		Success: true,
		Count:   count,
		Total:   total,
		Page:    page,
		Pages:   pages,
		Data:    data,
	})
}

// writeError maps a service error onto an HTTP status and the failure
// envelope. Unknown errors collapse to a generic 500 so internals never
// leak to the client.
func writeError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	status := http.StatusInternalServerError
	code := model.ErrCodeInternalError
	message := "An unexpected error occurred"

	var stockErr *model.InsufficientStockError
	var domainErr *model.DomainError

	switch {
	case errors.As(err, &stockErr):
		status = http.StatusBadRequest
		code = stockErr.Code()
		message = stockErr.Error()
	case errors.As(err, &domainErr):
		status = statusFor(domainErr.Code)
		code = domainErr.Code
		message = domainErr.Message
	default:
		logger.Error().Err(err).Msg("unhandled error")
	}

	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Int("status", status).Msg("request failed")
	} else {
		logger.Debug().Err(err).Int("status", status).Str("code", code).Msg("request rejected")
	}

	writeJSON(w, status, ErrorResponse{Success: false, Message: message, Error: code})
}

// statusFor maps a domain error code to its HTTP status.
func statusFor(code string) int {
	switch code {
	case model.ErrCodeNotFound:
		return http.StatusNotFound
	case model.ErrCodeForbidden:
		return http.StatusForbidden
	case model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	case model.ErrCodeInvalidState, model.ErrCodeDuplicateAction:
		return http.StatusConflict
	case model.ErrCodeValidation, model.ErrCodeInvalidJSON,
		model.ErrCodeInsufficientStock, model.ErrCodeInvalidCoupon:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody decodes a JSON request body into dst.
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return model.NewDomainError(model.ErrCodeInvalidJSON, "Invalid request body")
	}
	return nil
}
