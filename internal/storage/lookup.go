package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/san-kum/mmwave/internal/transition"
)

var ErrNoSnapshot = errors.New("storage: no lookup snapshot")

func (s *Store) lookupPath(name string) string {
	return filepath.Join(s.baseDir, "lookups", name+".msgpack")
}

// SaveLookup writes a transition snapshot (parameters and Rabi lookup
// tables) under name.
func (s *Store) SaveLookup(name string, snap *transition.Snapshot) error {
	path := s.lookupPath(name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := snap.Encode(f); err != nil {
		f.Close()
		return fmt.Errorf("encode lookup %s: %w", name, err)
	}
	return f.Close()
}

func (s *Store) LoadLookup(name string) (*transition.Snapshot, error) {
	f, err := os.Open(s.lookupPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", name, ErrNoSnapshot)
		}
		return nil, err
	}
	defer f.Close()
	return transition.DecodeSnapshot(f)
}
