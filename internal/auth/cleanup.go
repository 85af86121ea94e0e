package auth

import (
	"context"
	"sync"
	"time"

	"HostelAPI/internal/logging"
)

const (
	// CleanupInterval is how often expired OAuth states and refresh tokens are purged
	CleanupInterval = 10 * time.Minute
)

// Cleaner purges expired auth rows in the background
type Cleaner struct {
	repo       *Repository
	stateStore *OAuthStateStore
	interval   time.Duration
	stopCh     chan struct{}
	stopOnce   sync.Once
	wg         sync.WaitGroup
}

// NewCleaner creates a cleaner; interval <= 0 uses CleanupInterval
func NewCleaner(repo *Repository, stateStore *OAuthStateStore, interval time.Duration) *Cleaner {
	if interval <= 0 {
		interval = CleanupInterval
	}
	return &Cleaner{
		repo:       repo,
		stateStore: stateStore,
		interval:   interval,
		stopCh:     make(chan struct{}),
	}
}

// Start begins the background cleanup goroutine
func (t *Cleaner) Start(ctx context.Context) {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		t.cleanupTicker(ctx)
	}()
}

// Stop gracefully stops the cleaner
func (t *Cleaner) Stop() {
	t.stopOnce.Do(func() { close(t.stopCh) })
	t.wg.Wait()
}

func (t *Cleaner) cleanupTicker(ctx context.Context) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.stopCh:
			return
		case <-ticker.C:
			t.Cleanup(ctx)
		}
	}
}

// Cleanup runs one purge pass
func (t *Cleaner) Cleanup(ctx context.Context) {
	log := logging.With("auth-cleanup")

	tokens, err := t.repo.DeleteExpiredRefreshTokens(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to delete expired refresh tokens")
	}

	var states int64
	if t.stateStore != nil {
		states, err = t.stateStore.CleanupExpiredStates(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("failed to delete expired OAuth states")
		}
	}

	if tokens > 0 || states > 0 {
		log.Debug().Int64("refresh_tokens", tokens).Int64("oauth_states", states).Msg("expired auth rows purged")
	}
}
