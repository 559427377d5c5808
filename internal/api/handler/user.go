package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/somyu/user-service/internal/api/middleware"
	"github.com/somyu/user-service/internal/api/response"
	"github.com/somyu/user-service/internal/user"
)

// UserHandler handles user lookup endpoints.
type UserHandler struct {
	store user.Store
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(store user.Store) *UserHandler {
	return &UserHandler{store: store}
}

// Me handles GET /api/user/me. The route is gated behind
// RequireAuthenticated, so an identity is present here.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	identity := middleware.GetIdentity(r.Context())
	if identity == nil {
		response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", requestID)
		return
	}

	u, err := h.store.FindByEmail(r.Context(), identity.Subject)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "User not found", requestID)
			return
		}
		slog.Error("failed to load current user", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load user", requestID)
		return
	}

	response.Success(w, http.StatusOK, toUserResponse(u), requestID)
}

// GetByID handles GET /api/user/{id} (admin only).
func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID", requestID)
		return
	}

	u, err := h.store.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "User not found", requestID)
			return
		}
		slog.Error("failed to get user", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get user", requestID)
		return
	}

	response.Success(w, http.StatusOK, toUserResponse(u), requestID)
}
