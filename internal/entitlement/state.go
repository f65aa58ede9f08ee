// Package entitlement holds the client-side view of what has been paid for:
// an explicit store object (not a module-level singleton) with a monotonic
// merge between optimistic local unlocks and the authoritative server fetch.
package entitlement

// State is the derived entitlement of one identity. PurchasedArtworkIDs and
// HasLifetimeAccess only ever grow within a session; SubscriptionActive is
// refreshed from whichever source last reported it active.
type State struct {
	PurchasedArtworkIDs map[string]struct{}
	HasLifetimeAccess   bool
	SubscriptionActive  bool
}

func NewState() *State {
	return &State{PurchasedArtworkIDs: map[string]struct{}{}}
}

// Clone returns an independent copy.
func (s *State) Clone() *State {
	cp := &State{
		PurchasedArtworkIDs: make(map[string]struct{}, len(s.PurchasedArtworkIDs)),
		HasLifetimeAccess:   s.HasLifetimeAccess,
		SubscriptionActive:  s.SubscriptionActive,
	}
	for id := range s.PurchasedArtworkIDs {
		cp.PurchasedArtworkIDs[id] = struct{}{}
	}
	return cp
}

// IsUnlocked is the single derivation every render path must agree on:
// lifetime access, an individual purchase, or an active subscription. Pure
// and total; no I/O.
func IsUnlocked(artworkID string, st *State) bool {
	if st == nil {
		return false
	}
	if st.HasLifetimeAccess || st.SubscriptionActive {
		return true
	}
	_, ok := st.PurchasedArtworkIDs[artworkID]
	return ok
}
