package httpapi

import (
	"encoding/json"
	"net/http"
	"net/mail"
	"time"

	"github.com/dmitrijs2005/pivault/internal/server/services"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	TOTPCode string `json:"totp_code"`
}

type tokenResponse struct {
	AccessToken     string `json:"access_token"`
	TokenType       string `json:"token_type"`
	UserID          string `json:"user_id"`
	Email           string `json:"email"`
	TOTPEnabled     bool   `json:"totp_enabled"`
	Language        string `json:"language"`
	AutoLockMinutes int    `json:"auto_lock_minutes"`
}

type totpSetupResponse struct {
	Secret     string `json:"secret"`
	OtpauthURL string `json:"otpauth_url"`
	QRData     string `json:"qr_data"`
}

type totpVerifyRequest struct {
	Code string `json:"code"`
}

type settingsUpdateRequest struct {
	Language        *string `json:"language"`
	AutoLockMinutes *int    `json:"auto_lock_minutes"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func sessionToResponse(session *services.Session) tokenResponse {
	return tokenResponse{
		AccessToken:     session.AccessToken,
		TokenType:       "bearer",
		UserID:          session.UserID,
		Email:           session.Email,
		TOTPEnabled:     session.TOTPEnabled,
		Language:        session.Language,
		AutoLockMinutes: session.AutoLockMinutes,
	}
}

func (s *HTTPServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorTag(w, http.StatusBadRequest, "invalid_input")
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil || len(req.Password) < 8 {
		writeErrorTag(w, http.StatusBadRequest, "invalid_input")
		return
	}

	session, err := s.users.Register(r.Context(), req.Email, req.Password, clientInfo(r))
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionToResponse(session))
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorTag(w, http.StatusBadRequest, "invalid_input")
		return
	}

	session, err := s.users.Login(r.Context(), req.Email, req.Password, req.TOTPCode, clientInfo(r))
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionToResponse(session))
}

func (s *HTTPServer) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.GetProfile(r.Context(), subjectID(r))
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":                user.ID,
		"email":             user.Email,
		"totp_enabled":      user.TOTPEnabled,
		"language":          user.Language,
		"auto_lock_minutes": user.AutoLockMinutes,
		"master_key_salt":   user.MasterKeySalt,
	})
}

func (s *HTTPServer) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.users.Logout(r.Context(), subjectID(r), clientInfo(r)); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "logged_out"})
}

func (s *HTTPServer) handleTOTPSetup(w http.ResponseWriter, r *http.Request) {
	secret, url, err := s.totp.Setup(r.Context(), subjectID(r))
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, totpSetupResponse{Secret: secret, OtpauthURL: url, QRData: url})
}

func (s *HTTPServer) handleTOTPVerify(w http.ResponseWriter, r *http.Request) {
	var req totpVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		writeErrorTag(w, http.StatusBadRequest, "invalid_input")
		return
	}
	if err := s.totp.Confirm(r.Context(), subjectID(r), req.Code, clientInfo(r)); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "totp_enabled"})
}

func (s *HTTPServer) handleTOTPDisable(w http.ResponseWriter, r *http.Request) {
	var req totpVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		writeErrorTag(w, http.StatusBadRequest, "invalid_input")
		return
	}
	if err := s.totp.Disable(r.Context(), subjectID(r), req.Code, clientInfo(r)); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "totp_disabled"})
}

func (s *HTTPServer) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorTag(w, http.StatusBadRequest, "invalid_input")
		return
	}
	if err := s.users.UpdateSettings(r.Context(), subjectID(r), req.Language, req.AutoLockMinutes, clientInfo(r)); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "settings_updated"})
}

func (s *HTTPServer) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := s.users.DeleteAccount(r.Context(), subjectID(r), clientInfo(r)); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "account_deleted"})
}

func (s *HTTPServer) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "PiVault API",
		"version": "1.0.0",
		"status":  "healthy",
	})
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
	})
}

func (s *HTTPServer) handlePasswordStrength(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorTag(w, http.StatusBadRequest, "invalid_input")
		return
	}
	score, feedback := services.CalculatePasswordStrength(req.Password)
	writeJSON(w, http.StatusOK, map[string]any{
		"score":    score,
		"feedback": feedback,
	})
}
