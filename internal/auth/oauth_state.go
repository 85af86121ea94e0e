package auth

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/mr-tron/base58"
)

// OAuthStateExpiry bounds the time between the login redirect and the callback
const OAuthStateExpiry = 10 * time.Minute

const (
	insertStateSQL  = `INSERT INTO oauth_states (state, expires_at) VALUES (:state, :expires_at)`
	consumeStateSQL = `DELETE FROM oauth_states WHERE state = ? AND expires_at > ?`
	purgeStatesSQL  = `DELETE FROM oauth_states WHERE expires_at <= ?`
)

type pendingState struct {
	State     string    `db:"state"`
	ExpiresAt time.Time `db:"expires_at"`
}

// OAuthStateStore keeps the single-use values handed to providers as the
// OAuth state parameter. Base58 keeps them safe in both query strings and
// cookies.
type OAuthStateStore struct {
	repo *Repository
	now  func() time.Time
}

func NewOAuthStateStore(repo *Repository) *OAuthStateStore {
	return &OAuthStateStore{repo: repo, now: time.Now}
}

// CreateState records a fresh state valid for OAuthStateExpiry
func (s *OAuthStateStore) CreateState(ctx context.Context) (string, error) {
	var raw [24]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", fmt.Errorf("oauth state: %w", err)
	}

	pending := pendingState{
		State:     base58.Encode(raw[:]),
		ExpiresAt: s.now().Add(OAuthStateExpiry).UTC(),
	}
	if _, err := s.repo.db.NamedExecContext(ctx, insertStateSQL, pending); err != nil {
		return "", fmt.Errorf("oauth state: %w", err)
	}
	return pending.State, nil
}

// ValidateState consumes state. It reports true only for the first use of
// a state that has not expired yet.
func (s *OAuthStateStore) ValidateState(ctx context.Context, state string) (bool, error) {
	if state == "" {
		return false, nil
	}
	n, err := s.exec(ctx, consumeStateSQL, state, s.now().UTC())
	return n == 1, err
}

// CleanupExpiredStates drops abandoned logins and returns how many were removed
func (s *OAuthStateStore) CleanupExpiredStates(ctx context.Context) (int64, error) {
	return s.exec(ctx, purgeStatesSQL, s.now().UTC())
}

func (s *OAuthStateStore) exec(ctx context.Context, query string, args ...interface{}) (int64, error) {
	res, err := s.repo.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
