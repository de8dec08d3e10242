package handler

import (
	"net/http"

	"chatmart/internal/model"
	"chatmart/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// UserHandler handles identity verification and user profile requests.
type UserHandler struct {
	service service.UserService
	logger  zerolog.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(service service.UserService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		logger:  logger.With().Str("handler", "user").Logger(),
	}
}

type verifyResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Role    string `json:"role"`
}

// VerifyAccessToken handles POST /verify-access-token requests.
func (h *UserHandler) VerifyAccessToken(w http.ResponseWriter, r *http.Request) {
	var req model.VerifyAccessTokenRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	role, err := h.service.VerifyAccessToken(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, "failed to save user", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, verifyResponse{Success: true, Message: "User saved successfully", Role: role})
}

// Get handles GET /get-user/{userId} requests.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		writeServiceError(w, err, "failed to get user", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// List handles GET /admin/users requests.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		writeServiceError(w, err, "failed to list users", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// UpdateProfile handles POST /update-profile requests.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateProfileRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	if err := h.service.UpdateProfile(r.Context(), &req); err != nil {
		writeServiceError(w, err, "failed to update profile", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true, Message: "Profile updated successfully"})
}
