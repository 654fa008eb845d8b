package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/priyanshinegi05/first-thought-api/internal/httputil"
	"github.com/priyanshinegi05/first-thought-api/internal/logging"
	"github.com/priyanshinegi05/first-thought-api/internal/user"
)

// Handler contains HTTP handlers for signup and session endpoints
type Handler struct {
	service         *Service
	rateLimiter     RateLimiter
	logger          *logging.Logger
	isProduction    bool
	sessionDuration time.Duration
}

func NewHandler(service *Service, rateLimiter RateLimiter, logger *logging.Logger, isProduction bool, sessionDuration time.Duration) *Handler {
	return &Handler{
		service:         service,
		rateLimiter:     rateLimiter,
		logger:          logger,
		isProduction:    isProduction,
		sessionDuration: sessionDuration,
	}
}

// SendOTPRequest represents the OTP send/resend request body
type SendOTPRequest struct {
	Email string `json:"email"`
}

// SendOTPResponse represents the OTP send/resend response
type SendOTPResponse struct {
	Message string `json:"message"`
	Email   string `json:"email"`
}

// VerifyOTPRequest represents the OTP verification request body
type VerifyOTPRequest struct {
	Email    string `json:"email"`
	OTP      string `json:"otp"`
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

// VerifyOTPResponse represents a successful verification
type VerifyOTPResponse struct {
	Message              string     `json:"message"`
	User                 *user.User `json:"user"`
	RequiresProfileSetup bool       `json:"requiresProfileSetup"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents a successful login
type LoginResponse struct {
	Message string     `json:"message"`
	User    *user.User `json:"user"`
}

// SendOTP handles the first issuance of a verification code
// @Summary      Send signup OTP
// @Description  Issue a 6-digit verification code to an email address that is not yet registered.
// @Tags         otp
// @Accept       json
// @Produce      json
// @Param        request body SendOTPRequest true "Email to verify"
// @Success      200 {object} SendOTPResponse
// @Failure      400 {object} httputil.ErrorResponse "Invalid email or already registered"
// @Failure      429 {object} httputil.ErrorResponse "Too many requests"
// @Failure      500 {object} httputil.ErrorResponse "Delivery failure"
// @Router       /otp/send [post]
func (h *Handler) SendOTP(w http.ResponseWriter, r *http.Request) {
	h.handleSendOTP(w, r, "otp_send", "Verification code sent. Please check your email.")
}

// ResendOTP handles re-issuance; the previous code is silently invalidated
// @Summary      Resend signup OTP
// @Description  Issue a fresh verification code, invalidating any previously issued code for the email.
// @Tags         otp
// @Accept       json
// @Produce      json
// @Param        request body SendOTPRequest true "Email to verify"
// @Success      200 {object} SendOTPResponse
// @Failure      400 {object} httputil.ErrorResponse "Invalid email or already registered"
// @Failure      429 {object} httputil.ErrorResponse "Too many requests"
// @Failure      500 {object} httputil.ErrorResponse "Delivery failure"
// @Router       /otp/resend [post]
func (h *Handler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	h.handleSendOTP(w, r, "otp_resend", "A new verification code has been sent. Please check your email.")
}

func (h *Handler) handleSendOTP(w http.ResponseWriter, r *http.Request, purpose, successMessage string) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req SendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid OTP request body", "error", err.Error())
		respondError(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	logger = logger.WithFields(map[string]any{"email": req.Email})

	// Rate limit by IP
	ip := getClientIP(r)
	exceeded, err := h.rateLimiter.CheckIPRateLimit(r.Context(), ip, purpose)
	if err != nil {
		logger.Error("failed to check IP rate limit", "error", err.Error())
		// Continue despite error to avoid blocking legitimate requests
	} else if exceeded {
		logger.Warn("IP rate limit exceeded", "ip", ip, "purpose", purpose)
		respondError(w, "too many requests, please try again later", httputil.CodeTooManyRequests, http.StatusTooManyRequests)
		return
	}

	// Check email cooldown (2 min)
	onCooldown, err := h.rateLimiter.CheckEmailCooldown(r.Context(), req.Email)
	if err != nil {
		logger.Error("failed to check email cooldown", "error", err.Error())
	} else if onCooldown {
		logger.Warn("email on cooldown")
		respondError(w, "please wait before requesting another code", httputil.CodeCooldownActive, http.StatusTooManyRequests)
		return
	}

	if err := h.rateLimiter.RecordIPRequest(r.Context(), ip, purpose); err != nil {
		logger.Error("failed to record IP request", "error", err.Error())
	}

	if err := h.service.IssueCode(r.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, ErrAlreadyRegistered):
			logger.Warn("OTP issuance failed: email already registered")
			respondError(w, "User with this email already exists", httputil.CodeEmailAlreadyExists, http.StatusBadRequest)
		case errors.Is(err, ErrEmailRequired):
			respondError(w, err.Error(), httputil.CodeEmailRequired, http.StatusBadRequest)
		case errors.Is(err, ErrInvalidEmailFormat):
			respondError(w, err.Error(), httputil.CodeInvalidEmailFormat, http.StatusBadRequest)
		case errors.Is(err, ErrDeliveryFailed):
			logger.Error("OTP issuance failed: delivery error")
			respondError(w, "Failed to send verification code. Please try again.", httputil.CodeOTPSendFailed, http.StatusInternalServerError)
		default:
			logger.Error("OTP issuance failed: internal error", "error", err.Error())
			respondError(w, "failed to send verification code", httputil.CodeInternalError, http.StatusInternalServerError)
		}
		return
	}

	// Start the cooldown only after a successful send
	if err := h.rateLimiter.SetEmailCooldown(r.Context(), req.Email); err != nil {
		logger.Error("failed to set email cooldown", "error", err.Error())
	}

	logger.Info("verification code issued")

	respondJSON(w, SendOTPResponse{
		Message: successMessage,
		Email:   req.Email,
	}, http.StatusOK)
}

// VerifyOTP handles the verification gate and account materialization
// @Summary      Verify signup OTP
// @Description  Validate the presented code and create the account. Sets a session cookie on success; the account starts with an incomplete profile.
// @Tags         otp
// @Accept       json
// @Produce      json
// @Param        request body VerifyOTPRequest true "Verification payload"
// @Success      201 {object} VerifyOTPResponse
// @Failure      400 {object} httputil.ErrorResponse "Invalid/expired OTP or taken username"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /otp/verify [post]
func (h *Handler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid verify request body", "error", err.Error())
		respondError(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	logger = logger.WithFields(map[string]any{"email": req.Email, "username": req.Username})

	newUser, token, err := h.service.Verify(r.Context(), VerifyParams{
		Email:    req.Email,
		Code:     strings.TrimSpace(req.OTP),
		Username: req.Username,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNoPendingVerification):
			logger.Warn("verification failed: no pending code")
			respondError(w, "No verification code was requested for this email. Please request a new one.", httputil.CodeOTPNotFound, http.StatusBadRequest)
		case errors.Is(err, ErrCodeExpired):
			logger.Warn("verification failed: code expired")
			respondError(w, "Verification code has expired. Please request a new one.", httputil.CodeOTPExpired, http.StatusBadRequest)
		case errors.Is(err, ErrCodeMismatch):
			logger.Warn("verification failed: code mismatch")
			respondError(w, "Invalid verification code. Please try again.", httputil.CodeOTPInvalid, http.StatusBadRequest)
		case errors.Is(err, ErrUsernameTaken):
			logger.Warn("verification failed: username taken")
			respondError(w, "Username is already taken", httputil.CodeUsernameTaken, http.StatusBadRequest)
		case errors.Is(err, ErrAlreadyRegistered):
			logger.Warn("verification failed: email already registered")
			respondError(w, "User with this email already exists", httputil.CodeEmailAlreadyExists, http.StatusBadRequest)
		case errors.Is(err, ErrEmailRequired):
			respondError(w, err.Error(), httputil.CodeEmailRequired, http.StatusBadRequest)
		case errors.Is(err, ErrInvalidEmailFormat):
			respondError(w, err.Error(), httputil.CodeInvalidEmailFormat, http.StatusBadRequest)
		case errors.Is(err, ErrOTPRequired):
			respondError(w, err.Error(), httputil.CodeOTPRequired, http.StatusBadRequest)
		case errors.Is(err, ErrUsernameRequired):
			respondError(w, err.Error(), httputil.CodeUsernameRequired, http.StatusBadRequest)
		case errors.Is(err, ErrPasswordRequired):
			respondError(w, err.Error(), httputil.CodePasswordRequired, http.StatusBadRequest)
		case errors.Is(err, ErrPasswordTooShort):
			respondError(w, err.Error(), httputil.CodePasswordTooShort, http.StatusBadRequest)
		default:
			logger.Error("verification failed: internal error", "error", err.Error())
			respondError(w, "failed to verify code", httputil.CodeInternalError, http.StatusInternalServerError)
		}
		return
	}

	logger.Info("account created", "user_id", newUser.ID)

	SetSessionCookie(w, token, h.isProduction, h.sessionDuration)

	respondJSON(w, VerifyOTPResponse{
		Message:              "Account created successfully. Please complete your profile.",
		User:                 newUser,
		RequiresProfileSetup: true,
	}, http.StatusCreated)
}

// Login handles user login
// @Summary      User login
// @Description  Authenticate with email and password. Sets a session cookie on success.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} LoginResponse
// @Failure      400 {object} httputil.ErrorResponse "Invalid request body"
// @Failure      401 {object} httputil.ErrorResponse "Invalid credentials"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid login request body", "error", err.Error())
		respondError(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	logger = logger.WithFields(map[string]any{"email": req.Email})

	existingUser, token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			logger.Warn("login failed: invalid credentials")
			respondError(w, "Invalid email or password", httputil.CodeInvalidCredentials, http.StatusUnauthorized)
			return
		}
		logger.Error("login failed: internal error", "error", err.Error())
		respondError(w, "failed to login", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("user logged in", "user_id", existingUser.ID)

	SetSessionCookie(w, token, h.isProduction, h.sessionDuration)

	respondJSON(w, LoginResponse{
		Message: "Logged in successfully",
		User:    existingUser,
	}, http.StatusOK)
}

// Logout handles user logout
// @Summary      User logout
// @Description  Clear the session cookie
// @Tags         auth
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	ClearSessionCookie(w, h.isProduction)

	logger.Info("user logged out")

	respondJSON(w, map[string]string{"message": "Logged out"}, http.StatusOK)
}

// Me returns the account behind the current session
// @Summary      Current user
// @Description  Return the authenticated user's account
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} map[string]any
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      404 {object} httputil.ErrorResponse "User not found"
// @Router       /auth/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	currentUser, err := h.service.CurrentUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			respondError(w, "User not found", httputil.CodeUserNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to load current user", "error", err.Error())
		respondError(w, "failed to load user", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	respondJSON(w, map[string]any{"user": currentUser}, http.StatusOK)
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, data any, statusCode int) {
	httputil.RespondJSON(w, data, statusCode)
}

// respondError sends an error response with a machine-readable code
func respondError(w http.ResponseWriter, message string, code string, statusCode int) {
	httputil.RespondErrorWithCode(w, message, code, statusCode)
}

// getClientIP extracts the client IP address from the request
func getClientIP(r *http.Request) string {
	// Check X-Forwarded-For header first (behind proxy/load balancer)
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		// X-Forwarded-For can contain multiple IPs, take the first one
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	// Check X-Real-IP header
	xri := r.Header.Get("X-Real-IP")
	if xri != "" {
		return strings.TrimSpace(xri)
	}

	// Fallback to RemoteAddr
	ip := r.RemoteAddr
	// RemoteAddr format is "IP:port", extract just the IP
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}
