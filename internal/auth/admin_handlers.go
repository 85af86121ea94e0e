package auth

import (
	"errors"
	"strconv"

	"HostelAPI/internal/common"
	"HostelAPI/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AdminHandler handles admin endpoints
type AdminHandler struct {
	repo *Repository
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(repo *Repository) *AdminHandler {
	return &AdminHandler{repo: repo}
}

// --- User Management ---

// ListUsers returns all users with pagination
// GET /admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	users, err := h.repo.GetAllUsers(c.Request.Context(), limit, offset)
	if err != nil {
		common.ServerError(c, err)
		return
	}

	common.List(c, users, len(users))
}

// GetUser returns a user by ID
// GET /admin/users/:id
func (h *AdminHandler) GetUser(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		common.NotFound(c, "user not found")
		return
	}

	user, err := h.repo.GetUserByID(c.Request.Context(), id)
	if errors.Is(err, ErrUserNotFound) {
		common.NotFound(c, "user not found")
		return
	}
	if err != nil {
		common.ServerError(c, err)
		return
	}

	common.OK(c, user)
}

// UpdateUser changes role and/or status. Suspending revokes refresh tokens.
// PATCH /admin/users/:id
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		common.NotFound(c, "user not found")
		return
	}

	var req UserUpdateRequest
	if !common.BindAndValidate(c, &req) {
		return
	}

	ctx := c.Request.Context()
	err := h.repo.UpdateUser(ctx, id, req.Role, req.Status)
	if errors.Is(err, ErrUserNotFound) {
		common.NotFound(c, "user not found")
		return
	}
	if err != nil {
		common.ServerError(c, err)
		return
	}

	if req.Status != nil && *req.Status == StatusSuspended {
		if err := h.repo.RevokeAllRefreshTokens(ctx, id); err != nil {
			common.ServerError(c, err)
			return
		}
	}

	user, err := h.repo.GetUserByID(ctx, id)
	if err != nil {
		common.ServerError(c, err)
		return
	}

	if actor := GetUserFromContext(c); actor != nil {
		logging.Info().
			Str("actor_id", actor.ID).
			Str("user_id", user.ID).
			Str("role", string(user.Role)).
			Str("status", string(user.Status)).
			Msg("user updated")
	}
	common.OKWithMessage(c, "User updated", user)
}
