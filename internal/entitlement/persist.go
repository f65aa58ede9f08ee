package entitlement

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Persister stores entitlement between sessions. Subscription status is
// deliberately not persisted: it is re-derived from the authoritative fetch
// so an expired subscription cannot survive a restart.
type Persister interface {
	Load() (*State, error)
	Save(st *State) error
}

type persistedState struct {
	PurchasedArtworkIDs []string `json:"purchasedArtworkIds"`
	HasLifetimeAccess   bool     `json:"hasLifetimeAccess"`
}

// FilePersister keeps the snapshot as a small JSON file.
type FilePersister struct {
	path string
}

var _ Persister = (*FilePersister)(nil)

func NewFilePersister(path string) *FilePersister {
	return &FilePersister{path: path}
}

func (p *FilePersister) Load() (*State, error) {
	b, err := os.ReadFile(p.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var ps persistedState
	if err := json.Unmarshal(b, &ps); err != nil {
		return nil, err
	}
	st := NewState()
	st.HasLifetimeAccess = ps.HasLifetimeAccess
	for _, id := range ps.PurchasedArtworkIDs {
		st.PurchasedArtworkIDs[id] = struct{}{}
	}
	return st, nil
}

func (p *FilePersister) Save(st *State) error {
	ids := make([]string, 0, len(st.PurchasedArtworkIDs))
	for id := range st.PurchasedArtworkIDs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	b, err := json.Marshal(persistedState{
		PurchasedArtworkIDs: ids,
		HasLifetimeAccess:   st.HasLifetimeAccess,
	})
	if err != nil {
		return err
	}
	if dir := filepath.Dir(p.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, p.path)
}
