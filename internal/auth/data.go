package auth

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"HostelAPI/internal/database"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email is already registered")
)

const userColumns = `id, name, email, password_hash, role, status, created_at, updated_at`

// Repository provides access to auth-related database operations
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a new auth repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// DB returns the underlying database connection
func (r *Repository) DB() *sqlx.DB {
	return r.db
}

// --- User Operations ---

// GetUserByID returns a user by ID, or ErrUserNotFound
func (r *Repository) GetUserByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByEmail returns a user by email, or ErrUserNotFound
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE email = ?`, normalizeEmail(email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetAllUsers returns all users with pagination
func (r *Repository) GetAllUsers(ctx context.Context, limit, offset int) ([]User, error) {
	users := []User{}
	err := r.db.SelectContext(ctx, &users, `
		SELECT `+userColumns+`
		FROM users
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	return users, err
}

// GetUserRefs resolves ids to public user references in one query
func (r *Repository) GetUserRefs(ctx context.Context, ids []string) (map[string]*UserRef, error) {
	refs := make(map[string]*UserRef, len(ids))
	if len(ids) == 0 {
		return refs, nil
	}

	query, args, err := sqlx.In(`SELECT id, name, email FROM users WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}

	var rows []UserRef
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	for i := range rows {
		refs[rows[i].ID] = &rows[i]
	}
	return refs, nil
}

// CreateUser creates a new user. passwordHash is empty for OAuth-only users.
func (r *Repository) CreateUser(ctx context.Context, name, email, passwordHash string, role Role) (*User, error) {
	now := time.Now().UTC()
	u := &User{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(name),
		Email:     normalizeEmail(email),
		Role:      role,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if passwordHash != "" {
		u.PasswordHash = sql.NullString{String: passwordHash, Valid: true}
	}

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO users (id, name, email, password_hash, role, status, created_at, updated_at)
		VALUES (:id, :name, :email, :password_hash, :role, :status, :created_at, :updated_at)
	`, u)
	if database.IsUniqueViolation(err) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateUser updates role and/or status
func (r *Repository) UpdateUser(ctx context.Context, id string, role *Role, status *Status) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET role = COALESCE(?, role),
		    status = COALESCE(?, status),
		    updated_at = ?
		WHERE id = ?
	`, nullableString(role), nullableString(status), time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SetRoleByEmail is used by the migrate tool to promote the first administrator
func (r *Repository) SetRoleByEmail(ctx context.Context, email string, role Role) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET role = ?, updated_at = ? WHERE email = ?`,
		role, time.Now().UTC(), normalizeEmail(email))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// --- OAuth Identity Operations ---

// GetOAuthIdentity returns an OAuth identity by provider and provider ID, or nil
func (r *Repository) GetOAuthIdentity(ctx context.Context, provider Provider, providerID string) (*OAuthIdentity, error) {
	var o OAuthIdentity
	err := r.db.GetContext(ctx, &o, `
		SELECT id, user_id, provider, provider_id, created_at
		FROM oauth_identities
		WHERE provider = ? AND provider_id = ?
	`, provider, providerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// CreateOAuthIdentity links a provider account to a user
func (r *Repository) CreateOAuthIdentity(ctx context.Context, userID string, provider Provider, providerID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO oauth_identities (user_id, provider, provider_id, created_at)
		VALUES (?, ?, ?, ?)
	`, userID, provider, providerID, time.Now().UTC())
	return err
}

// --- Refresh Token Operations ---

func (r *Repository) InsertRefreshToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO refresh_tokens (user_id, token_hash, expires_at, created_at)
		VALUES (?, ?, ?, ?)
	`, userID, tokenHash, expiresAt.UTC(), time.Now().UTC())
	return err
}

// GetRefreshToken returns the stored token for a hash, or nil
func (r *Repository) GetRefreshToken(ctx context.Context, tokenHash string) (*RefreshToken, error) {
	var t RefreshToken
	err := r.db.GetContext(ctx, &t, `
		SELECT id, user_id, token_hash, expires_at, revoked_at, created_at
		FROM refresh_tokens WHERE token_hash = ?
	`, tokenHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// RevokeRefreshToken marks a token revoked; it reports whether a live token was hit
func (r *Repository) RevokeRefreshToken(ctx context.Context, tokenHash, userID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE refresh_tokens SET revoked_at = ?
		WHERE token_hash = ? AND user_id = ? AND revoked_at IS NULL
	`, time.Now().UTC(), tokenHash, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// RevokeAllRefreshTokens is used when an account gets suspended
func (r *Repository) RevokeAllRefreshTokens(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE refresh_tokens SET revoked_at = ?
		WHERE user_id = ? AND revoked_at IS NULL
	`, time.Now().UTC(), userID)
	return err
}

// DeleteExpiredRefreshTokens removes tokens past their expiry
func (r *Repository) DeleteExpiredRefreshTokens(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE expires_at <= ?`, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func nullableString[T ~string](v *T) interface{} {
	if v == nil {
		return nil
	}
	return string(*v)
}
