// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package snapshottest provides an in-memory snapshot.Store for tests.
//
// Trees are built from Node values:
//
//	store := snapshottest.New()
//	store.SetRef("main", snapshottest.Dir("",
//		snapshottest.File("hello.txt", "hi"),
//		snapshottest.Dir("etc"),
//		snapshottest.Symlink("link", "hello.txt"),
//	))
//
// Nodes carry fault injection fields (EnumerateErr, MissingChecksum,
// ReadErr), and the store has a BeforeEnumerate hook so tests can
// cancel a context at a chosen point in a walk.
package snapshottest

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"path"
	"sync"

	"github.com/bureau-foundation/swidtree/lib/snapshot"
)

// Node is one entry of an in-memory tree. It is also the store's
// handle type.
type Node struct {
	Name     string
	Kind     snapshot.Kind
	Content  []byte
	Target   string
	Children []*Node

	// EnumerateErr makes Enumerate of this directory fail.
	EnumerateErr error
	// MissingChecksum makes ContentID of this file fail.
	MissingChecksum bool
	// ReadErr makes reads of this file's content fail after the
	// content has been returned.
	ReadErr error

	path string
}

// Path is the node's absolute path, set when its tree is attached
// with SetRef.
func (n *Node) Path() string {
	return n.path
}

// Dir returns a directory node.
func Dir(name string, children ...*Node) *Node {
	return &Node{Name: name, Kind: snapshot.KindDirectory, Children: children}
}

// File returns a regular file node.
func File(name, content string) *Node {
	return &Node{Name: name, Kind: snapshot.KindRegular, Content: []byte(content)}
}

// Symlink returns a symbolic link node.
func Symlink(name, target string) *Node {
	return &Node{Name: name, Kind: snapshot.KindSymlink, Target: target}
}

// Other returns a special file node (device, fifo, socket).
func Other(name string) *Node {
	return &Node{Name: name, Kind: snapshot.KindOther}
}

// Store is an in-memory snapshot.Store[*Node]. Safe for concurrent
// use.
type Store struct {
	// BeforeEnumerate, if set, runs at the start of every Enumerate
	// call with the directory's path.
	BeforeEnumerate func(dirPath string)

	mu       sync.Mutex
	refs     map[string]ref
	contents map[string]*Node
	opened   int
	closed   int
}

type ref struct {
	root   *Node
	commit string
}

var _ snapshot.Store[*Node] = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{
		refs:     make(map[string]ref),
		contents: make(map[string]*Node),
	}
}

// SetRef points name at root and returns the synthetic commit id.
func (s *Store) SetRef(name string, root *Node) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attach(root, "/")
	commitHash := sha256.Sum256([]byte("commit:" + name))
	commit := hex.EncodeToString(commitHash[:])
	s.refs[name] = ref{root: root, commit: commit}
	return commit
}

func (s *Store) attach(node *Node, nodePath string) {
	node.path = nodePath
	if node.Kind == snapshot.KindRegular && !node.MissingChecksum {
		s.contents[contentID(node)] = node
	}
	for _, child := range node.Children {
		s.attach(child, path.Join(nodePath, child.Name))
	}
}

func contentID(node *Node) string {
	sum := sha256.Sum256(node.Content)
	id := hex.EncodeToString(sum[:])
	if node.ReadErr != nil {
		// Keep failing content distinct from healthy content with the
		// same bytes.
		id = "fail-" + node.path
	}
	return id
}

// Resolve implements snapshot.Store.
func (s *Store) Resolve(ctx context.Context, name string) (*Node, string, error) {
	if err := snapshot.CheckContext(ctx, "resolve", name); err != nil {
		return nil, "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.refs[name]
	if !ok {
		return nil, "", &snapshot.Error{Kind: snapshot.ErrNotFound, Op: "resolve", Path: name}
	}
	return r.root, r.commit, nil
}

// Enumerate implements snapshot.Store.
func (s *Store) Enumerate(ctx context.Context, dir *Node) ([]snapshot.Entry[*Node], error) {
	if s.BeforeEnumerate != nil {
		s.BeforeEnumerate(dir.path)
	}
	if err := snapshot.CheckContext(ctx, "enumerate", dir.path); err != nil {
		return nil, err
	}
	if dir.Kind != snapshot.KindDirectory {
		return nil, &snapshot.Error{Kind: snapshot.ErrIO, Op: "enumerate", Path: dir.path,
			Err: fmt.Errorf("%s is a %s", dir.path, dir.Kind)}
	}
	if dir.EnumerateErr != nil {
		return nil, &snapshot.Error{Kind: snapshot.ErrIO, Op: "enumerate", Path: dir.path, Err: dir.EnumerateErr}
	}
	entries := make([]snapshot.Entry[*Node], 0, len(dir.Children))
	for _, child := range dir.Children {
		entries = append(entries, snapshot.Entry[*Node]{Name: child.Name, Kind: child.Kind, Handle: child})
	}
	return entries, nil
}

// ContentID implements snapshot.Store.
func (s *Store) ContentID(ctx context.Context, file *Node) (string, error) {
	if err := snapshot.CheckContext(ctx, "content-id", file.path); err != nil {
		return "", err
	}
	if file.MissingChecksum {
		return "", &snapshot.Error{Kind: snapshot.ErrMissingChecksum, Op: "content-id", Path: file.path}
	}
	return contentID(file), nil
}

// OpenContent implements snapshot.Store.
func (s *Store) OpenContent(ctx context.Context, id string) (io.ReadCloser, error) {
	if err := snapshot.CheckContext(ctx, "open", id); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	node, ok := s.contents[id]
	if !ok {
		return nil, &snapshot.Error{Kind: snapshot.ErrIO, Op: "open", Path: id, Err: fmt.Errorf("no such object")}
	}
	s.opened++
	var reader io.Reader = bytes.NewReader(node.Content)
	if node.ReadErr != nil {
		reader = io.MultiReader(reader, errReader{node.ReadErr})
	}
	return &stream{Reader: reader, store: s}, nil
}

// Streams returns how many content streams have been opened and how
// many of those have been closed.
func (s *Store) Streams() (opened, closed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opened, s.closed
}

type stream struct {
	io.Reader
	store *Store
	once  sync.Once
}

func (r *stream) Close() error {
	r.once.Do(func() {
		r.store.mu.Lock()
		r.store.closed++
		r.store.mu.Unlock()
	})
	return nil
}

type errReader struct{ err error }

func (r errReader) Read([]byte) (int, error) { return 0, r.err }
