package transition

import (
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

var ErrSnapshotMismatch = errors.New("transition: snapshot was taken for different parameters")

// Snapshot is the serialisable state of the fast lookup tables.
type Snapshot struct {
	Atom   string  `msgpack:"atom"`
	Params Params  `msgpack:"params"`
	Probe  *Lookup `msgpack:"probe"`
	Couple *Lookup `msgpack:"couple"`
}

func (r *Rydberg) Snapshot() (*Snapshot, error) {
	if !r.HasLookup() {
		return nil, ErrNoLookup
	}
	return &Snapshot{Atom: r.atom.Name, Params: r.Params, Probe: r.probe, Couple: r.couple}, nil
}

// Restore installs lookup tables from s after checking they belong to the
// same atom and ladder.
func (r *Rydberg) Restore(s *Snapshot) error {
	if s.Atom != r.atom.Name || s.Params != r.Params {
		return ErrSnapshotMismatch
	}
	if s.Probe == nil || s.Couple == nil {
		return ErrNoLookup
	}
	if err := s.Probe.fit(); err != nil {
		return fmt.Errorf("restore probe lookup: %w", err)
	}
	if err := s.Couple.fit(); err != nil {
		return fmt.Errorf("restore couple lookup: %w", err)
	}
	r.probe, r.couple = s.Probe, s.Couple
	return nil
}

func (s *Snapshot) Encode(w io.Writer) error {
	return msgpack.NewEncoder(w).Encode(s)
}

func DecodeSnapshot(rd io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := msgpack.NewDecoder(rd).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &s, nil
}
