package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/mr-tron/base58"
)

const (
	// TokenPrefix is the prefix for all generated refresh tokens
	TokenPrefix = "hms_"

	TokenTypeBearer = "Bearer"
)

var ErrRefreshTokenInvalid = errors.New("refresh token is invalid or expired")

// TokenStore issues access tokens and manages refresh tokens
type TokenStore struct {
	repo          *Repository
	jwt           *JWTManager
	refreshExpiry time.Duration
}

// NewTokenStore creates a new token store
func NewTokenStore(repo *Repository, jwt *JWTManager, refreshExpiry time.Duration) *TokenStore {
	return &TokenStore{
		repo:          repo,
		jwt:           jwt,
		refreshExpiry: refreshExpiry,
	}
}

// JWT exposes the access-token manager for middleware
func (s *TokenStore) JWT() *JWTManager {
	return s.jwt
}

// GenerateToken creates a new random refresh token with the hms_ prefix
// Format: hms_ + Base58(SHA256(random_bytes))
func GenerateToken() (rawToken string, tokenHash string, err error) {
	// Generate 32 random bytes
	randomBytes := make([]byte, 32)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", "", err
	}

	hash := sha256.Sum256(randomBytes)
	rawToken = TokenPrefix + base58.Encode(hash[:])

	// Only the hash of the raw token is stored
	tokenHash = hashToken(rawToken)

	return rawToken, tokenHash, nil
}

// hashToken creates a SHA256 hash of a token for storage
func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// IssuePair signs an access token and stores a fresh refresh token for user
func (s *TokenStore) IssuePair(ctx context.Context, user *User) (*TokenPair, error) {
	access, err := s.jwt.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	rawToken, tokenHash, err := GenerateToken()
	if err != nil {
		return nil, err
	}
	if err := s.repo.InsertRefreshToken(ctx, user.ID, tokenHash, time.Now().Add(s.refreshExpiry)); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: rawToken,
		TokenType:    TokenTypeBearer,
		ExpiresIn:    int64(s.jwt.Expiry().Seconds()),
		User:         user,
	}, nil
}

// Refresh exchanges a live refresh token for a new access token.
// The refresh token itself stays valid until it expires or is revoked.
func (s *TokenStore) Refresh(ctx context.Context, rawToken string) (*TokenPair, error) {
	if !strings.HasPrefix(rawToken, TokenPrefix) {
		return nil, ErrRefreshTokenInvalid
	}

	stored, err := s.repo.GetRefreshToken(ctx, hashToken(rawToken))
	if err != nil {
		return nil, err
	}
	if stored == nil || stored.RevokedAt != nil || !stored.ExpiresAt.After(time.Now()) {
		return nil, ErrRefreshTokenInvalid
	}

	user, err := s.repo.GetUserByID(ctx, stored.UserID)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrRefreshTokenInvalid
	}
	if err != nil {
		return nil, err
	}
	if user.Status != StatusActive {
		return nil, ErrAccountSuspended
	}

	access, err := s.jwt.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken: access,
		TokenType:   TokenTypeBearer,
		ExpiresIn:   int64(s.jwt.Expiry().Seconds()),
		User:        user,
	}, nil
}

// Revoke invalidates a refresh token owned by userID
func (s *TokenStore) Revoke(ctx context.Context, rawToken, userID string) error {
	ok, err := s.repo.RevokeRefreshToken(ctx, hashToken(rawToken), userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrRefreshTokenInvalid
	}
	return nil
}
