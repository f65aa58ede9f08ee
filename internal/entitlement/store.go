package entitlement

import "sync"

// Store is the session-scoped entitlement cache. Unlocks arrive from two
// independent sources in no guaranteed order: an optimistic local payment
// confirmation, and the authoritative list fetched from the server. Either
// may never arrive; the store keeps the union and never regresses an
// unlocked artwork except through an explicit Reset.
type Store struct {
	mu        sync.RWMutex
	state     *State
	persister Persister
}

// NewStore creates an empty store. persister may be nil (no durability).
func NewStore(p Persister) *Store {
	return &Store{state: NewState(), persister: p}
}

// Load rehydrates persisted entitlement from a previous session. Called once
// at startup; a missing snapshot is not an error.
func (s *Store) Load() error {
	if s.persister == nil {
		return nil
	}
	st, err := s.persister.Load()
	if err != nil {
		return err
	}
	if st == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	merge(s.state, st)
	return nil
}

// Unlock marks one artwork unlocked, optimistically or authoritatively.
func (s *Store) Unlock(artworkID string) {
	if artworkID == "" {
		return
	}
	s.mu.Lock()
	s.state.PurchasedArtworkIDs[artworkID] = struct{}{}
	s.mu.Unlock()
	s.persist()
}

// GrantLifetime flips the global flag that unlocks every artwork.
func (s *Store) GrantLifetime() {
	s.mu.Lock()
	s.state.HasLifetimeAccess = true
	s.mu.Unlock()
	s.persist()
}

// SetSubscriptionActive records a locally observed subscription confirmation.
func (s *Store) SetSubscriptionActive(active bool) {
	s.mu.Lock()
	if active {
		s.state.SubscriptionActive = true
	}
	s.mu.Unlock()
}

// Reconcile folds an authoritative fetch into the cache. The result is the
// union of both sources: the authoritative set alone would lose unlocks the
// webhook has not delivered yet, the local set alone would lose purchases
// completed on another device.
func (s *Store) Reconcile(authoritative *State) {
	if authoritative == nil {
		return
	}
	s.mu.Lock()
	merge(s.state, authoritative)
	s.mu.Unlock()
	s.persist()
}

// Reset clears everything. Only sign-out calls this.
func (s *Store) Reset() {
	s.mu.Lock()
	s.state = NewState()
	s.mu.Unlock()
	s.persist()
}

// Snapshot returns a copy safe to read without holding the store's lock.
func (s *Store) Snapshot() *State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// IsUnlocked derives blur state for one artwork from the current snapshot.
func (s *Store) IsUnlocked(artworkID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return IsUnlocked(artworkID, s.state)
}

func merge(dst, src *State) {
	for id := range src.PurchasedArtworkIDs {
		dst.PurchasedArtworkIDs[id] = struct{}{}
	}
	dst.HasLifetimeAccess = dst.HasLifetimeAccess || src.HasLifetimeAccess
	dst.SubscriptionActive = dst.SubscriptionActive || src.SubscriptionActive
}

func (s *Store) persist() {
	if s.persister == nil {
		return
	}
	// Persistence is best-effort; the authoritative record lives server-side.
	_ = s.persister.Save(s.Snapshot())
}
