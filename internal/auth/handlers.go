package auth

import (
	"errors"
	"net/http"

	"HostelAPI/internal/common"
	"HostelAPI/internal/logging"

	"github.com/gin-gonic/gin"
)

const (
	OAuthStateCookieName = "hms_oauth_state"
)

// Handler handles authentication endpoints
type Handler struct {
	repo         *Repository
	oauthConfig  *OAuthConfig
	stateStore   *OAuthStateStore
	tokens       *TokenStore
	secureCookie bool
}

// NewHandler creates a new auth handler
func NewHandler(
	repo *Repository,
	oauthConfig *OAuthConfig,
	stateStore *OAuthStateStore,
	tokens *TokenStore,
	secureCookie bool,
) *Handler {
	return &Handler{
		repo:         repo,
		oauthConfig:  oauthConfig,
		stateStore:   stateStore,
		tokens:       tokens,
		secureCookie: secureCookie,
	}
}

// Register creates a student account and signs it in
// POST /auth/register
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if !common.BindAndValidate(c, &req) {
		return
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		common.ServerError(c, err)
		return
	}

	user, err := h.repo.CreateUser(c.Request.Context(), req.Name, req.Email, hash, RoleStudent)
	if errors.Is(err, ErrEmailTaken) {
		common.ValidationFailed(c, []string{"email is already registered"})
		return
	}
	if err != nil {
		common.ServerError(c, err)
		return
	}

	pair, err := h.tokens.IssuePair(c.Request.Context(), user)
	if err != nil {
		common.ServerError(c, err)
		return
	}

	logging.Info().Str("user_id", user.ID).Msg("user registered")
	common.Created(c, "Account created", pair)
}

// Login exchanges email and password for a token pair
// POST /auth/login
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if !common.BindAndValidate(c, &req) {
		return
	}

	user, err := h.repo.GetUserByEmail(c.Request.Context(), req.Email)
	if errors.Is(err, ErrUserNotFound) {
		common.Unauthorized(c, "invalid email or password")
		return
	}
	if err != nil {
		common.ServerError(c, err)
		return
	}

	if !user.PasswordHash.Valid {
		common.Unauthorized(c, "invalid email or password")
		return
	}
	ok, err := CheckPassword(user.PasswordHash.String, req.Password)
	if err != nil {
		common.ServerError(c, err)
		return
	}
	if !ok {
		common.Unauthorized(c, "invalid email or password")
		return
	}

	if user.Status != StatusActive {
		common.Forbidden(c, "account is "+string(user.Status))
		return
	}

	pair, err := h.tokens.IssuePair(c.Request.Context(), user)
	if err != nil {
		common.ServerError(c, err)
		return
	}
	common.OKWithMessage(c, "Logged in", pair)
}

// Refresh issues a new access token for a refresh token
// POST /auth/refresh
func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if !common.BindAndValidate(c, &req) {
		return
	}

	pair, err := h.tokens.Refresh(c.Request.Context(), req.RefreshToken)
	switch {
	case errors.Is(err, ErrRefreshTokenInvalid):
		common.Unauthorized(c, err.Error())
		return
	case errors.Is(err, ErrAccountSuspended):
		common.Forbidden(c, err.Error())
		return
	case err != nil:
		common.ServerError(c, err)
		return
	}
	common.OK(c, pair)
}

// Logout revokes the caller's refresh token. Unknown tokens are ignored.
// POST /auth/logout
func (h *Handler) Logout(c *gin.Context) {
	user := GetUserFromContext(c)
	if user == nil {
		common.Unauthorized(c, "not authenticated")
		return
	}

	var req RefreshRequest
	if !common.BindAndValidate(c, &req) {
		return
	}

	if err := h.tokens.Revoke(c.Request.Context(), req.RefreshToken, user.ID); err != nil && !errors.Is(err, ErrRefreshTokenInvalid) {
		common.ServerError(c, err)
		return
	}

	common.OKWithMessage(c, "logged out successfully", nil)
}

// Me returns the current authenticated user
// GET /auth/me
func (h *Handler) Me(c *gin.Context) {
	user := GetUserFromContext(c)
	if user == nil {
		common.Unauthorized(c, "not authenticated")
		return
	}
	common.OK(c, user)
}

// OAuthLogin initiates OAuth flow
// GET /auth/login/:provider
func (h *Handler) OAuthLogin(c *gin.Context) {
	provider, ok := ParseProvider(c.Param("provider"))
	if !ok {
		common.BadRequest(c, "unsupported provider")
		return
	}

	if !h.oauthConfig.IsProviderConfigured(provider) {
		common.BadRequest(c, "provider not configured")
		return
	}

	// Generate state for CSRF protection
	state, err := h.stateStore.CreateState(c.Request.Context())
	if err != nil {
		common.ServerError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		OAuthStateCookieName,
		state,
		int(OAuthStateExpiry.Seconds()),
		"/",
		"",
		h.secureCookie,
		true,
	)

	authURL, err := h.oauthConfig.GetAuthURL(provider, state)
	if err != nil {
		common.ServerError(c, err)
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, authURL)
}

// OAuthCallback handles the provider redirect and returns a token pair
// GET /auth/callback/:provider
func (h *Handler) OAuthCallback(c *gin.Context) {
	provider, ok := ParseProvider(c.Param("provider"))
	if !ok {
		common.BadRequest(c, "unsupported provider")
		return
	}

	queryState := c.Query("state")
	cookieState, err := c.Cookie(OAuthStateCookieName)
	if err != nil || cookieState == "" {
		common.BadRequest(c, "missing OAuth state cookie")
		return
	}
	if queryState != cookieState {
		common.BadRequest(c, "OAuth state mismatch")
		return
	}

	ctx := c.Request.Context()
	valid, err := h.stateStore.ValidateState(ctx, queryState)
	if err != nil || !valid {
		common.BadRequest(c, "invalid or expired OAuth state")
		return
	}

	c.SetCookie(OAuthStateCookieName, "", -1, "/", "", h.secureCookie, true)

	if errMsg := c.Query("error"); errMsg != "" {
		common.BadRequest(c, "OAuth error: "+errMsg)
		return
	}

	code := c.Query("code")
	if code == "" {
		common.BadRequest(c, "missing authorization code")
		return
	}

	token, err := h.oauthConfig.ExchangeCode(ctx, provider, code)
	if err != nil {
		common.ServerError(c, err)
		return
	}

	info, err := h.oauthConfig.GetUserInfo(ctx, provider, token)
	if err != nil {
		common.ServerError(c, err)
		return
	}

	user, err := h.findOrCreateUser(c, info, provider)
	if err != nil {
		common.ServerError(c, err)
		return
	}

	if user.Status != StatusActive {
		common.Forbidden(c, "account is "+string(user.Status))
		return
	}

	pair, err := h.tokens.IssuePair(ctx, user)
	if err != nil {
		common.ServerError(c, err)
		return
	}
	common.OKWithMessage(c, "authenticated successfully", pair)
}

func (h *Handler) findOrCreateUser(c *gin.Context, info *OAuthUserInfo, provider Provider) (*User, error) {
	ctx := c.Request.Context()

	identity, err := h.repo.GetOAuthIdentity(ctx, provider, info.ProviderID)
	if err != nil {
		return nil, err
	}
	if identity != nil {
		return h.repo.GetUserByID(ctx, identity.UserID)
	}

	// Link to an existing account with the same email
	user, err := h.repo.GetUserByEmail(ctx, info.Email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	if user == nil {
		user, err = h.repo.CreateUser(ctx, info.Name, info.Email, "", RoleStudent)
		if err != nil {
			return nil, err
		}
	}

	if err := h.repo.CreateOAuthIdentity(ctx, user.ID, provider, info.ProviderID); err != nil {
		return nil, err
	}
	return user, nil
}
