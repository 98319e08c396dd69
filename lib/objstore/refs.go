// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package objstore

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/swidtree/lib/codec"
)

// refNameDomainKey is the BLAKE3 key for hashing ref names to
// filesystem-safe paths: the ASCII domain name, zero-padded to 32
// bytes.
var refNameDomainKey = [32]byte{
	's', 'w', 'i', 'd', 't', 'r', 'e', 'e', '.', 'o', 'b', 'j', 's', 't', 'o', 'r',
	'e', '.', 'r', 'e', 'f', '.', 'n', 'a', 'm', 'e', 0, 0, 0, 0, 0, 0,
}

// MaxRefNameLength is the maximum byte length of a ref name.
const MaxRefNameLength = 512

// RefRecord is the on-disk form of one ref.
type RefRecord struct {
	Name      string    `cbor:"name"`
	Commit    string    `cbor:"commit"`
	CreatedAt time.Time `cbor:"created_at"`
	UpdatedAt time.Time `cbor:"updated_at"`
}

// refIndex is an in-memory name-to-record map backed by one CBOR file
// per ref. Ref names like "fedora:fedora/stable/x86_64/iot" contain
// path separators, so files are named by the keyed hash of the name
// and carry the name inside for reconstruction.
type refIndex struct {
	root    string
	mu      sync.RWMutex
	entries map[string]RefRecord
}

func loadRefIndex(root string) (*refIndex, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating refs directory %s: %w", root, err)
	}
	index := &refIndex{root: root, entries: make(map[string]RefRecord)}
	if err := index.scanAll(); err != nil {
		return nil, fmt.Errorf("scanning refs: %w", err)
	}
	return index, nil
}

func (x *refIndex) scanAll() error {
	return filepath.WalkDir(x.root, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".cbor") {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading ref file %s: %w", path, err)
		}
		var record RefRecord
		if err := codec.Unmarshal(data, &record); err != nil {
			return fmt.Errorf("decoding ref file %s: %w", path, err)
		}
		if record.Name == "" {
			return nil
		}
		x.entries[record.Name] = record
		return nil
	})
}

func (x *refIndex) get(name string) (RefRecord, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	record, ok := x.entries[name]
	return record, ok
}

func (x *refIndex) path(name string) string {
	// NewKeyed only fails for a key that is not 32 bytes.
	hasher, err := blake3.NewKeyed(refNameDomainKey[:])
	if err != nil {
		panic("objstore: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write([]byte(name))
	hexString := hex.EncodeToString(hasher.Sum(nil))
	return filepath.Join(x.root, hexString[:2], hexString[2:4], hexString+".cbor")
}

// ValidateRefName checks a ref name.
func ValidateRefName(name string) error {
	if name == "" {
		return fmt.Errorf("ref name is required")
	}
	if len(name) > MaxRefNameLength {
		return fmt.Errorf("ref name is %d bytes, maximum is %d", len(name), MaxRefNameLength)
	}
	if ValidateID(name) == nil {
		return fmt.Errorf("ref name %q is a commit id", name)
	}
	if strings.ContainsAny(name, "\x00\n") {
		return fmt.Errorf("ref name %q contains a control character", name)
	}
	return nil
}

// Ref returns the record for name.
func (r *Repo) Ref(name string) (RefRecord, bool) {
	return r.refs.get(name)
}

// Refs returns every ref, sorted by name.
func (r *Repo) Refs() []RefRecord {
	r.refs.mu.RLock()
	defer r.refs.mu.RUnlock()
	records := make([]RefRecord, 0, len(r.refs.entries))
	for _, record := range r.refs.entries {
		records = append(records, record)
	}
	slices.SortFunc(records, func(a, b RefRecord) int {
		return strings.Compare(a.Name, b.Name)
	})
	return records
}

// SetRef points name at an existing commit. If expectedPrevious is
// non-nil the update only succeeds when the ref currently points
// there; an empty expectedPrevious means the ref must not exist yet.
func (r *Repo) SetRef(name, commit string, expectedPrevious *string) error {
	if err := ValidateRefName(name); err != nil {
		return err
	}
	if !r.HasObject(commit, ObjectCommit) {
		return fmt.Errorf("setting ref %q: commit %s does not exist", name, commit)
	}

	r.refs.mu.Lock()
	defer r.refs.mu.Unlock()

	existing, exists := r.refs.entries[name]
	if expectedPrevious != nil && existing.Commit != *expectedPrevious {
		current := existing.Commit
		if !exists {
			current = "nothing"
		}
		return fmt.Errorf("ref conflict: %q currently points to %s, expected %q", name, current, *expectedPrevious)
	}

	now := r.clock.Now().UTC()
	record := RefRecord{Name: name, Commit: commit, CreatedAt: now, UpdatedAt: now}
	if exists {
		record.CreatedAt = existing.CreatedAt
	}

	data, err := codec.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding ref %q: %w", name, err)
	}
	err = r.writeAtomic("ref-*.cbor", func(w io.Writer) (string, error) {
		_, err := w.Write(data)
		return r.refs.path(name), err
	})
	if err != nil {
		return fmt.Errorf("writing ref %q: %w", name, err)
	}
	r.refs.entries[name] = record
	r.logger.Debug("updated ref", "ref", name, "commit", commit)
	return nil
}
