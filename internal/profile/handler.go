package profile

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/priyanshinegi05/first-thought-api/internal/auth"
	"github.com/priyanshinegi05/first-thought-api/internal/httputil"
	"github.com/priyanshinegi05/first-thought-api/internal/logging"
	"github.com/priyanshinegi05/first-thought-api/internal/user"
)

// Handler contains HTTP handlers for the profile-setup endpoints
type Handler struct {
	service *Service
	logger  *logging.Logger
}

func NewHandler(service *Service, logger *logging.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// UpdateRequest represents the profile completion request body
type UpdateRequest struct {
	Bio              string   `json:"bio"`
	Avatar           string   `json:"avatar"`
	TopicsOfInterest []string `json:"topicsOfInterest"`
}

// UpdateResponse represents a completed profile
type UpdateResponse struct {
	Message string     `json:"message"`
	User    *user.User `json:"user"`
}

// Get returns the account shown on the profile-setup screen
// @Summary      Get profile-setup state
// @Description  Return the user's account, including topics of interest as an array.
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Param        userId path string true "User ID"
// @Success      200 {object} map[string]any
// @Failure      404 {object} httputil.ErrorResponse "User not found"
// @Router       /profile-setup/{userId} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	userID, ok := h.pathUserID(w, r)
	if !ok {
		return
	}

	u, err := h.service.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			httputil.RespondErrorWithCode(w, "User not found", httputil.CodeUserNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to get profile", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to get profile", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, map[string]any{"user": u}, http.StatusOK)
}

// Update applies profile attributes and activates the account
// @Summary      Complete profile setup
// @Description  Persist bio, avatar, and at least three topics of interest, activating the account.
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        userId path string true "User ID"
// @Param        request body UpdateRequest true "Profile attributes"
// @Success      200 {object} UpdateResponse
// @Failure      400 {object} httputil.ErrorResponse "Fewer than three topics"
// @Failure      404 {object} httputil.ErrorResponse "User not found"
// @Router       /profile-setup/{userId} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	userID, ok := h.pathUserID(w, r)
	if !ok {
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid profile update body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	updated, err := h.service.Complete(r.Context(), userID, CompleteParams{
		Bio:              req.Bio,
		Avatar:           req.Avatar,
		TopicsOfInterest: req.TopicsOfInterest,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInsufficientInterests):
			logger.Warn("profile completion rejected: insufficient interests")
			httputil.RespondErrorWithCode(w, "Please select at least 3 topics of interest", httputil.CodeInsufficientInterests, http.StatusBadRequest)
		case errors.Is(err, ErrAccountNotFound):
			httputil.RespondErrorWithCode(w, "User not found", httputil.CodeUserNotFound, http.StatusNotFound)
		default:
			logger.Error("failed to complete profile", "error", err.Error())
			httputil.RespondErrorWithCode(w, "failed to complete profile", httputil.CodeInternalError, http.StatusInternalServerError)
		}
		return
	}

	logger.Info("profile completed", "user_id", updated.ID)

	httputil.RespondJSON(w, UpdateResponse{
		Message: "Profile completed successfully",
		User:    updated,
	}, http.StatusOK)
}

// pathUserID parses the path parameter and ensures the caller only
// touches their own profile.
func (h *Handler) pathUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		httputil.RespondErrorWithCode(w, "invalid user ID", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return uuid.Nil, false
	}

	sessionUserID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return uuid.Nil, false
	}

	if sessionUserID != userID {
		httputil.RespondErrorWithCode(w, "cannot modify another user's profile", httputil.CodeForbidden, http.StatusForbidden)
		return uuid.Nil, false
	}

	return userID, true
}
