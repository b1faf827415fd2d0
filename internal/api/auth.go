package api

import (
	"errors"
	"net/http"

	"github.com/koassets/rights-backend/internal/auth"
	"github.com/koassets/rights-backend/internal/middleware"
	"github.com/koassets/rights-backend/internal/review"
)

type otpRequestBody struct {
	Email string `json:"email"`
}

type otpVerifyBody struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type refreshBody struct {
	RefreshToken string `json:"refreshToken"`
}

type tokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// RequestOTP starts the passwordless login flow by mailing a one-time
// code. The response is the same whether or not the email is on the
// roster, so the endpoint cannot be used to enumerate accounts.
func (s *Server) RequestOTP(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	var body otpRequestBody
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Email == "" {
		writeError(w, http.StatusBadRequest, ValidationErr("Email is required", []ErrorDetail{{Field: "email", Message: "must not be empty"}}))
		return
	}

	email := review.NormalizeEmail(body.Email)
	code, err := s.authFlow.RequestOTP(r.Context(), email)
	switch {
	case errors.Is(err, auth.ErrUserNotFound):
		logger.Info("OTP requested for unknown email", "email", email)
	case errors.Is(err, auth.ErrOTPCooldown):
		writeError(w, http.StatusTooManyRequests, ConflictErr("A code was sent recently, wait before requesting another"))
		return
	case err != nil:
		logger.Error("Failed to generate OTP", "email", email, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	default:
		if err := s.mailer.SendLoginCode(email, code); err != nil {
			logger.Error("Failed to enqueue login code email", "email", email, "error", err)
			writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
			return
		}
		logger.Info("Login code sent", "email", email)
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "If the address is registered, a login code is on its way."})
}

func (s *Server) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	var body otpVerifyBody
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Email == "" || body.Code == "" {
		writeError(w, http.StatusBadRequest, ValidationErr("Email and code are required", nil))
		return
	}

	email := review.NormalizeEmail(body.Email)
	access, refresh, err := s.authFlow.VerifyOTP(r.Context(), email, body.Code)
	switch {
	case errors.Is(err, auth.ErrOTPInvalid), errors.Is(err, auth.ErrOTPMaxAttempts):
		logger.Warn("OTP verification failed", "email", email, "error", err)
		writeError(w, http.StatusUnauthorized, Unauthorized("Invalid email or code"))
		return
	case err != nil:
		logger.Error("OTP verification error", "email", email, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	logger.Info("User logged in", "email", email)
	writeJSON(w, http.StatusOK, tokenPairResponse{AccessToken: access, RefreshToken: refresh})
}

func (s *Server) RefreshToken(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	var body refreshBody
	if !decodeBody(w, r, &body) {
		return
	}
	if body.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, ValidationErr("Refresh token is required", nil))
		return
	}

	access, refresh, err := s.authFlow.Refresh(r.Context(), body.RefreshToken)
	switch {
	case errors.Is(err, auth.ErrRefreshInvalid):
		writeError(w, http.StatusUnauthorized, Unauthorized("Invalid or expired refresh token"))
		return
	case err != nil:
		logger.Error("Token refresh error", "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	writeJSON(w, http.StatusOK, tokenPairResponse{AccessToken: access, RefreshToken: refresh})
}

func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	var body refreshBody
	if !decodeBody(w, r, &body) {
		return
	}

	// best effort: an already-invalid token still logs out cleanly
	if body.RefreshToken != "" {
		if err := s.authFlow.Logout(r.Context(), body.RefreshToken); err != nil && !errors.Is(err, auth.ErrRefreshInvalid) {
			middleware.GetLoggerFromContext(r.Context()).Error("Logout error", "error", err)
			writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
			return
		}
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Logged out"})
}
