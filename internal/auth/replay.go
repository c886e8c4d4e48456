package auth

import (
	"context"
	"sync"
	"time"

	"github.com/cyphera/cyphera-vault/internal/address"
)

// ReplayGuard remembers accepted signatures until their timestamp leaves the
// verification window.
type ReplayGuard interface {
	// Claim reports false when signer already used signature and the claim
	// has not expired at now.
	Claim(ctx context.Context, signer address.Identity, signature string, now, expires time.Time) (bool, error)
}

type replayKey struct {
	signer    address.Identity
	signature string
}

// MemoryReplayGuard is a process-local ReplayGuard.
type MemoryReplayGuard struct {
	mu      sync.Mutex
	claimed map[replayKey]time.Time
	now     func() time.Time
}

// NewMemoryReplayGuard creates an empty guard.
func NewMemoryReplayGuard() *MemoryReplayGuard {
	return &MemoryReplayGuard{claimed: make(map[replayKey]time.Time), now: time.Now}
}

func (g *MemoryReplayGuard) Claim(_ context.Context, signer address.Identity, signature string, now, expires time.Time) (bool, error) {
	key := replayKey{signer: signer, signature: signature}
	g.mu.Lock()
	defer g.mu.Unlock()
	if until, ok := g.claimed[key]; ok && now.Before(until) {
		return false, nil
	}
	g.claimed[key] = expires
	return true, nil
}

// StartCleanup drops expired claims every interval until ctx is done.
func (g *MemoryReplayGuard) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				g.evictExpired()
			}
		}
	}()
}

func (g *MemoryReplayGuard) evictExpired() {
	now := g.now()
	g.mu.Lock()
	defer g.mu.Unlock()
	for key, until := range g.claimed {
		if !now.Before(until) {
			delete(g.claimed, key)
		}
	}
}

// Len is the number of live claims.
func (g *MemoryReplayGuard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.claimed)
}
