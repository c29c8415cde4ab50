// Package cas implements the content addressed build plan store.
package cas

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.PlanStore = (*Store)(nil)

// Store implements ports.PlanStore using one JSON file per descriptor ID.
type Store struct{}

// NewStore creates a new PlanStore.
func NewStore() *Store {
	return &Store{}
}

// Get retrieves the plan with the given descriptor ID under root.
// It returns nil, nil when no such plan has been stored.
func (s *Store) Get(root, id string) (*domain.BuildDescriptor, error) {
	filename := s.getFilename(root, id)
	//nolint:gosec // Path is constructed from trusted directory and hashed filename
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "id", id)
	}

	var plan domain.BuildDescriptor
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error()), "id", id)
	}

	return &plan, nil
}

// Put stores the plan under root. Plans are immutable: storing the same ID twice
// writes identical content.
func (s *Store) Put(root string, plan domain.BuildDescriptor) error {
	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error())
	}

	filename := s.getFilename(root, plan.ID)
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrStoreCreateFailed.Error())
	}

	//nolint:gosec // Path is constructed from trusted directory and hashed filename
	if err := os.WriteFile(filename, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "id", plan.ID)
	}

	return nil
}

// Path returns where the plan with the given ID is stored under root.
func (s *Store) Path(root, id string) string {
	return s.getFilename(root, id)
}

func (s *Store) getFilename(root, id string) string {
	hash := sha256.Sum256([]byte(id))
	hexHash := hex.EncodeToString(hash[:])
	storeDir := filepath.Join(root, domain.DefaultStorePath())
	return filepath.Join(storeDir, hexHash+".json")
}
