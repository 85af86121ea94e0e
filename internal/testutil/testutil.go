// Package testutil builds migrated in-memory databases and signed-in users for tests.
package testutil

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"HostelAPI/internal/auth"
	"HostelAPI/internal/database"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

const TestJWTSecret = "test-secret-with-enough-entropy-0123456789"

func init() {
	gin.SetMode(gin.TestMode)
}

// NewDB returns a private, fully migrated in-memory database
func NewDB(t testing.TB) *sqlx.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.New().String())
	db, err := database.Open(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// Auth bundles the auth components a router under test needs
type Auth struct {
	Repo       *auth.Repository
	Tokens     *auth.TokenStore
	Middleware *auth.Middleware
}

// NewAuth wires auth against db with a fixed test secret
func NewAuth(t testing.TB, db *sqlx.DB) *Auth {
	t.Helper()

	jwtManager, err := auth.NewJWTManager(TestJWTSecret, time.Hour)
	require.NoError(t, err)

	repo := auth.NewRepository(db)
	tokens := auth.NewTokenStore(repo, jwtManager, 24*time.Hour)
	return &Auth{
		Repo:       repo,
		Tokens:     tokens,
		Middleware: auth.NewMiddleware(repo, tokens),
	}
}

// CreateUser inserts an active user with role and returns it with a valid access token
func (a *Auth) CreateUser(t testing.TB, role auth.Role) (*auth.User, string) {
	t.Helper()

	email := fmt.Sprintf("%s-%s@hostel.test", role, uuid.New().String()[:8])
	user, err := a.Repo.CreateUser(context.Background(), "Test "+string(role), email, "", role)
	require.NoError(t, err)

	token, err := a.Tokens.JWT().GenerateToken(user)
	require.NoError(t, err)
	return user, token
}

// Bearer sets the Authorization header when token is non-empty
func Bearer(req *http.Request, token string) *http.Request {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}
