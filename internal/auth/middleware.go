package auth

import (
	"errors"
	"fmt"
	"strings"

	"HostelAPI/internal/common"

	"github.com/gin-gonic/gin"
)

const (
	// Context keys
	ContextKeyUser   = "auth_user"
	ContextKeyClaims = "auth_claims"

	// Headers
	HeaderAuthorization = "Authorization"
)

var ErrAccountSuspended = errors.New("account is suspended")

// Middleware provides authentication and authorization middleware
type Middleware struct {
	repo   *Repository
	tokens *TokenStore
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(repo *Repository, tokens *TokenStore) *Middleware {
	return &Middleware{
		repo:   repo,
		tokens: tokens,
	}
}

// bearerToken extracts the token from "Authorization: Bearer <token>"
func bearerToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader(HeaderAuthorization)
	if authHeader == "" {
		return "", errors.New("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", errors.New("invalid authorization header format")
	}
	return strings.TrimSpace(parts[1]), nil
}

// RequireAuth validates the bearer access token and loads the current user.
// Unknown or malformed credentials give 401, a suspended account gives 403.
func (m *Middleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := bearerToken(c)
		if err != nil {
			common.Unauthorized(c, err.Error())
			return
		}

		claims, err := m.tokens.JWT().ValidateToken(raw)
		if err != nil {
			common.Unauthorized(c, err.Error())
			return
		}

		user, err := m.repo.GetUserByID(c.Request.Context(), claims.Subject)
		if errors.Is(err, ErrUserNotFound) {
			common.Unauthorized(c, "user no longer exists")
			return
		}
		if err != nil {
			common.ServerError(c, err)
			return
		}

		if user.Status != StatusActive {
			common.Forbidden(c, fmt.Sprintf("account is %s", user.Status))
			return
		}

		c.Set(ContextKeyUser, user)
		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// RequireRole returns a middleware that checks the user holds one of roles.
// Admins pass every role check.
func (m *Middleware) RequireRole(roles ...Role) gin.HandlerFunc {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}

	return func(c *gin.Context) {
		user := GetUserFromContext(c)
		if user == nil {
			common.Unauthorized(c, "not authenticated")
			return
		}

		if !HasRole(user, roles...) {
			common.Forbidden(c, fmt.Sprintf("requires %s role", strings.Join(names, " or ")))
			return
		}

		c.Next()
	}
}

// HasRole reports whether user is an admin or holds one of roles
func HasRole(user *User, roles ...Role) bool {
	if user == nil {
		return false
	}
	if user.Role == RoleAdmin {
		return true
	}
	for _, r := range roles {
		if user.Role == r {
			return true
		}
	}
	return false
}

// GetUserFromContext retrieves the authenticated user from the context
func GetUserFromContext(c *gin.Context) *User {
	userVal, exists := c.Get(ContextKeyUser)
	if !exists {
		return nil
	}
	user, ok := userVal.(*User)
	if !ok {
		return nil
	}
	return user
}

// GetClaimsFromContext retrieves the validated access-token claims
func GetClaimsFromContext(c *gin.Context) *Claims {
	claimsVal, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil
	}
	claims, ok := claimsVal.(*Claims)
	if !ok {
		return nil
	}
	return claims
}
