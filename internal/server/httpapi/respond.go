package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/pivault/internal/common"
)

// errorBody mirrors the {"detail": "<tag>"} shape clients already parse.
type errorBody struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorTag(w http.ResponseWriter, status int, tag string) {
	writeJSON(w, status, errorBody{Detail: tag})
}

// writeError translates a service error into a stable machine-readable tag.
// Anything outside the known taxonomy is an internal error and is logged
// rather than leaked.
func (s *HTTPServer) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrorEmailExists):
		writeErrorTag(w, http.StatusConflict, "email_exists")
	case errors.Is(err, common.ErrorUnauthorized):
		writeErrorTag(w, http.StatusUnauthorized, "invalid_credentials")
	case errors.Is(err, common.ErrTokenExpired):
		writeErrorTag(w, http.StatusUnauthorized, "token_expired")
	case errors.Is(err, common.ErrInvalidToken):
		writeErrorTag(w, http.StatusUnauthorized, "invalid_token")
	case errors.Is(err, common.ErrTooManyAttempts):
		writeErrorTag(w, http.StatusTooManyRequests, "too_many_attempts")
	case errors.Is(err, common.ErrTOTPRequired):
		writeErrorTag(w, http.StatusBadRequest, "totp_required")
	case errors.Is(err, common.ErrInvalidTOTP):
		writeErrorTag(w, http.StatusUnauthorized, "invalid_totp")
	case errors.Is(err, common.ErrTOTPAlreadyEnabled):
		writeErrorTag(w, http.StatusBadRequest, "totp_already_enabled")
	case errors.Is(err, common.ErrTOTPNotSetUp):
		writeErrorTag(w, http.StatusBadRequest, "totp_not_setup")
	case errors.Is(err, common.ErrTOTPNotEnabled):
		writeErrorTag(w, http.StatusBadRequest, "totp_not_enabled")
	case errors.Is(err, common.ErrorNotFound):
		writeErrorTag(w, http.StatusNotFound, "not_found")
	case errors.Is(err, common.ErrorInvalidInput):
		writeErrorTag(w, http.StatusBadRequest, "invalid_input")
	default:
		s.logger.Error(ctx, "request failed", "error", err)
		writeErrorTag(w, http.StatusInternalServerError, "internal_error")
	}
}
