// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package treewalk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"slices"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/bureau-foundation/swidtree/lib/contenthash"
	"github.com/bureau-foundation/swidtree/lib/coswid"
	"github.com/bureau-foundation/swidtree/lib/snapshot"
)

// Order is the order children appear in within each directory.
type Order int

const (
	// OrderStore keeps the store's enumeration order.
	OrderStore Order = iota
	// OrderName sorts children by name (bytewise).
	OrderName
)

func (o Order) String() string {
	switch o {
	case OrderStore:
		return "store"
	case OrderName:
		return "name"
	default:
		return fmt.Sprintf("Order(%d)", int(o))
	}
}

// ParseOrder parses "store" or "name". The empty string is OrderStore.
func ParseOrder(s string) (Order, error) {
	switch s {
	case "", "store":
		return OrderStore, nil
	case "name":
		return OrderName, nil
	default:
		return 0, fmt.Errorf("unknown walk order %q (want store or name)", s)
	}
}

// Options configures Walk.
type Options struct {
	// Concurrency is the number of files hashed at once. Zero or
	// one hashes sequentially on the calling goroutine.
	Concurrency int

	// Order controls child ordering within each directory.
	Order Order

	// Logger receives per-directory debug output. Nil discards.
	Logger *slog.Logger
}

// Stats counts what a walk visited.
type Stats struct {
	Directories int
	Files       int
	Skipped     int
	Bytes       int64
}

// Result is a completed walk.
type Result struct {
	// Root is the directory-entry for the walked root. Its fs-name is
	// empty.
	Root  *coswid.Directory
	Stats Stats
}

// Walk builds the directory-entry for the tree under root.
func Walk[H any](ctx context.Context, store snapshot.Store[H], root H, options Options) (*Result, error) {
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	w := &walker[H]{
		store:  store,
		order:  options.Order,
		logger: logger,
		ctx:    ctx,
	}
	if options.Concurrency > 1 {
		walkCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		group, groupCtx := errgroup.WithContext(walkCtx)
		group.SetLimit(options.Concurrency)
		w.group = group
		w.ctx = groupCtx
		w.cancel = cancel
	}

	tree, err := w.walkDirectory(root, "", "/")
	if err := w.wait(err); err != nil {
		return nil, err
	}

	directory := tree.build()
	w.stats.Bytes = w.bytes.Load()
	return &Result{Root: &directory, Stats: w.stats}, nil
}

type walker[H any] struct {
	store  snapshot.Store[H]
	order  Order
	logger *slog.Logger
	ctx    context.Context
	group  *errgroup.Group
	cancel context.CancelFunc
	stats  Stats
	bytes  atomic.Int64
}

// wait collects outstanding hash jobs and picks the error to report.
// A failed hash cancels the group context, so traversal then fails
// with a cancellation; the hash failure is the cause and wins. A
// traversal failure of any other kind cancels the outstanding hashes
// and wins over their cancellation errors.
func (w *walker[H]) wait(walkErr error) error {
	if w.group == nil {
		return walkErr
	}
	if walkErr != nil {
		w.cancel()
	}
	hashErr := w.group.Wait()
	if hashErr != nil && (walkErr == nil || errors.Is(walkErr, snapshot.ErrCancelled)) {
		return hashErr
	}
	return walkErr
}

// dirNode is a directory whose file slots may still be filling in.
type dirNode struct {
	name        string
	files       []coswid.File
	directories []*dirNode
}

func (n *dirNode) build() coswid.Directory {
	directories := make([]coswid.Directory, len(n.directories))
	for i, child := range n.directories {
		directories[i] = child.build()
	}
	return BuildDirectory(n.name, n.files, directories)
}

func (w *walker[H]) walkDirectory(handle H, name, dirPath string) (*dirNode, error) {
	if err := snapshot.CheckContext(w.ctx, "walk", dirPath); err != nil {
		return nil, err
	}

	entries, err := w.store.Enumerate(w.ctx, handle)
	if err != nil {
		return nil, fmt.Errorf("enumerating %s: %w", dirPath, err)
	}
	if w.order == OrderName {
		slices.SortStableFunc(entries, func(a, b snapshot.Entry[H]) int {
			return strings.Compare(a.Name, b.Name)
		})
	}

	regular := 0
	for _, entry := range entries {
		if entry.Kind == snapshot.KindRegular {
			regular++
		}
	}
	node := &dirNode{name: name, files: make([]coswid.File, regular)}
	w.stats.Directories++
	w.logger.Debug("enumerated directory", "path", dirPath, "entries", len(entries), "files", regular)

	slot := 0
	for _, entry := range entries {
		childPath := path.Join(dirPath, entry.Name)
		switch entry.Kind {
		case snapshot.KindDirectory:
			child, err := w.walkDirectory(entry.Handle, entry.Name, childPath)
			if err != nil {
				return nil, err
			}
			node.directories = append(node.directories, child)

		case snapshot.KindRegular:
			file := &node.files[slot]
			slot++
			w.stats.Files++
			handle := entry.Handle
			fileName := entry.Name
			job := func() error {
				return w.hashFile(handle, fileName, childPath, file)
			}
			if w.group == nil {
				if err := job(); err != nil {
					return nil, err
				}
			} else {
				w.group.Go(job)
			}

		default:
			w.stats.Skipped++
			w.logger.Debug("skipping entry", "path", childPath, "kind", entry.Kind)
		}
	}
	return node, nil
}

func (w *walker[H]) hashFile(handle H, name, filePath string, slot *coswid.File) error {
	id, err := w.store.ContentID(w.ctx, handle)
	if err != nil {
		return fmt.Errorf("reading checksum of %s: %w", filePath, err)
	}
	stream, err := w.store.OpenContent(w.ctx, id)
	if err != nil {
		return fmt.Errorf("opening %s: %w", filePath, err)
	}
	digest, n, err := contenthash.Sum(&contextReader{ctx: w.ctx, path: filePath, ReadCloser: stream})
	if err != nil {
		return fmt.Errorf("hashing %s: %w", filePath, err)
	}
	*slot = coswid.File{
		FSName: name,
		Root:   coswid.RootPath,
		Hash:   coswid.SHA256Entry(digest),
	}
	w.bytes.Add(n)
	return nil
}

// contextReader fails reads once ctx is done, so a cancelled walk
// stops in the middle of a large file.
type contextReader struct {
	ctx  context.Context
	path string
	io.ReadCloser
}

func (r *contextReader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, &snapshot.Error{Kind: snapshot.ErrCancelled, Op: "read", Path: r.path, Err: err}
	}
	n, err := r.ReadCloser.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		return n, snapshot.NewError(snapshot.ErrIO, "read", r.path, err)
	}
	return n, err
}
