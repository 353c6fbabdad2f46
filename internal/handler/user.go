package handler

import (
	"log/slog"
	"net/http"

	"treehouse/internal/auth"
	"treehouse/internal/config"
	"treehouse/internal/domain/services"
	"treehouse/internal/httputil"
	"treehouse/internal/middleware"
)

// UserHandler handles HTTP requests for accounts and sessions
type UserHandler struct {
	users  services.UserService
	tokens auth.TokenManager
	secure bool
	logger *slog.Logger
}

// NewUserHandler creates a new user handler. secure controls the Secure
// flag on session cookies and should be true outside local development.
func NewUserHandler(users services.UserService, tokens auth.TokenManager, secure bool, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		users:  users,
		tokens: tokens,
		secure: secure,
		logger: logger,
	}
}

// Register creates an account and sends a verification code
// POST /api/user/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.users.Register(r.Context(), &req)
	if err != nil {
		handleError(h.logger, w, err)
		return
	}

	// Registration starts a session immediately; verification only gates the
	// verified flag, not login.
	token, err := h.tokens.IssueToken(user.ID)
	if err != nil {
		handleError(h.logger, w, err)
		return
	}
	http.SetCookie(w, h.sessionCookie(token, int(config.SessionTokenTTL.Seconds())))

	httputil.RespondJSON(w, http.StatusCreated, user)
}

// Login checks credentials and starts a cookie session
// POST /api/user/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req services.LoginRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.users.Login(r.Context(), &req)
	if err != nil {
		handleError(h.logger, w, err)
		return
	}

	token, err := h.tokens.IssueToken(user.ID)
	if err != nil {
		handleError(h.logger, w, err)
		return
	}

	http.SetCookie(w, h.sessionCookie(token, int(config.SessionTokenTTL.Seconds())))
	httputil.RespondJSON(w, http.StatusOK, user)
}

// Logout clears the session cookie
// POST /api/user/logout
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.sessionCookie("", -1))
	httputil.RespondJSON(w, http.StatusOK, messageResponse{Message: "logged out"})
}

// VerifyEmail marks an account verified when the submitted code matches
// POST /api/user/verify
func (h *UserHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req services.VerifyEmailRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.users.VerifyEmail(r.Context(), &req); err != nil {
		handleError(h.logger, w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, messageResponse{Message: "email verified"})
}

// ForgetPassword issues a reset code to the account's email address.
// The response does not reveal whether the address exists.
// POST /api/user/forget-password
func (h *UserHandler) ForgetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.users.ForgetPassword(r.Context(), req.Email); err != nil {
		handleError(h.logger, w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, messageResponse{Message: "reset code sent if the account exists"})
}

// ResetForgottenPassword sets a new password given a valid reset code
// POST /api/user/reset-forgotten-password
func (h *UserHandler) ResetForgottenPassword(w http.ResponseWriter, r *http.Request) {
	var req services.ResetForgottenPasswordRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.users.ResetForgottenPassword(r.Context(), &req); err != nil {
		handleError(h.logger, w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, messageResponse{Message: "password reset"})
}

// ChangePassword updates the authenticated user's password
// POST /api/user/change-password
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req services.ChangePasswordRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.UserID = httputil.GetUserID(r)

	if err := h.users.ChangePassword(r.Context(), &req); err != nil {
		handleError(h.logger, w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, messageResponse{Message: "password changed"})
}

// UserDetails returns the authenticated user's account
// GET /api/user/user-details
func (h *UserHandler) UserDetails(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetDetails(r.Context(), httputil.GetUserID(r))
	if err != nil {
		handleError(h.logger, w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, user)
}

func (h *UserHandler) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
