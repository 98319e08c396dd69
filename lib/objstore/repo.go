// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package objstore

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bureau-foundation/swidtree/lib/clock"
	"github.com/bureau-foundation/swidtree/lib/codec"
)

const (
	configFile = "config.cbor"
	objectsDir = "objects"
	refsDir    = "refs"
	tmpDir     = "tmp"
)

// FormatVersion is the repository layout version written by Init.
const FormatVersion = 1

// ErrNotRepository is returned by Open for a directory that was not
// created by Init.
var ErrNotRepository = errors.New("not a swidtree repository")

// RepoConfig is the repository-wide configuration stored in
// config.cbor.
type RepoConfig struct {
	Version     int               `cbor:"version"`
	Compression CompressionPolicy `cbor:"compression"`
}

// Repo is an open repository. Reads are safe for concurrent use;
// Commit and SetRef serialize on the ref index.
type Repo struct {
	root   string
	config RepoConfig
	clock  clock.Clock
	logger *slog.Logger
	refs   *refIndex
}

// Option configures a Repo.
type Option func(*Repo)

// WithClock sets the time source for commit and ref timestamps.
func WithClock(c clock.Clock) Option {
	return func(r *Repo) { r.clock = c }
}

// WithLogger sets the logger. The default discards.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Repo) { r.logger = logger }
}

// Init creates an empty repository at root. root may exist but must
// not already hold a repository.
func Init(root string, config RepoConfig, options ...Option) (*Repo, error) {
	policy, err := ParseCompressionPolicy(string(config.Compression))
	if err != nil {
		return nil, err
	}
	config.Compression = policy
	config.Version = FormatVersion

	if _, err := os.Stat(filepath.Join(root, configFile)); err == nil {
		return nil, fmt.Errorf("repository already exists at %s", root)
	}
	for _, dir := range []string{
		root,
		filepath.Join(root, objectsDir),
		filepath.Join(root, refsDir),
		filepath.Join(root, tmpDir),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating repository directory %s: %w", dir, err)
		}
	}

	repo := newRepo(root, config, options)
	data, err := codec.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("marshaling repository config: %w", err)
	}
	if err := repo.writeAtomic("config-*.cbor", func(w io.Writer) (string, error) {
		_, err := w.Write(data)
		return filepath.Join(root, configFile), err
	}); err != nil {
		return nil, err
	}
	refs, err := loadRefIndex(filepath.Join(root, refsDir))
	if err != nil {
		return nil, err
	}
	repo.refs = refs
	return repo, nil
}

// Open opens the repository at root.
func Open(root string, options ...Option) (*Repo, error) {
	data, err := os.ReadFile(filepath.Join(root, configFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", root, ErrNotRepository)
	}
	if err != nil {
		return nil, fmt.Errorf("reading repository config: %w", err)
	}
	var config RepoConfig
	if err := codec.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("decoding repository config: %w", err)
	}
	if config.Version != FormatVersion {
		return nil, fmt.Errorf("repository %s has format version %d, want %d", root, config.Version, FormatVersion)
	}
	if _, err := ParseCompressionPolicy(string(config.Compression)); err != nil {
		return nil, fmt.Errorf("repository config: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(root, tmpDir), 0o755); err != nil {
		return nil, fmt.Errorf("creating tmp directory: %w", err)
	}

	repo := newRepo(root, config, options)
	refs, err := loadRefIndex(filepath.Join(root, refsDir))
	if err != nil {
		return nil, err
	}
	repo.refs = refs
	return repo, nil
}

func newRepo(root string, config RepoConfig, options []Option) *Repo {
	repo := &Repo{
		root:   root,
		config: config,
		clock:  clock.Real(),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, option := range options {
		option(repo)
	}
	return repo
}

// Root returns the repository directory.
func (r *Repo) Root() string {
	return r.root
}

// Config returns the repository configuration.
func (r *Repo) Config() RepoConfig {
	return r.config
}

// writeAtomic writes a file through tmp/ and renames it into place.
// write returns the final path, which for content-addressed objects is
// only known once the content has been hashed. The temp file is
// removed on any failure.
func (r *Repo) writeAtomic(pattern string, write func(io.Writer) (string, error)) error {
	tmpFile, err := os.CreateTemp(filepath.Join(r.root, tmpDir), pattern)
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	finalPath, err := write(tmpFile)
	if err != nil {
		tmpFile.Close()
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(finalPath), 0o755); err != nil {
		return fmt.Errorf("creating shard directory: %w", err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		return fmt.Errorf("renaming into place: %w", err)
	}
	success = true
	return nil
}
