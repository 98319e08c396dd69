// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package objstore

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/bureau-foundation/swidtree/lib/snapshot"
)

// Handle identifies an entry within a commit's tree.
type Handle struct {
	// Path is the entry's absolute path within the commit.
	Path   string
	Kind   snapshot.Kind
	Target string
}

var _ snapshot.Store[Handle] = (*Repo)(nil)

// Resolve implements snapshot.Store. ref may be a ref name or a full
// commit id.
func (r *Repo) Resolve(ctx context.Context, ref string) (Handle, string, error) {
	if err := snapshot.CheckContext(ctx, "resolve", ref); err != nil {
		return Handle{}, "", err
	}

	commitID := ""
	if record, ok := r.refs.get(ref); ok {
		commitID = record.Commit
	} else if ValidateID(ref) == nil && r.HasObject(ref, ObjectCommit) {
		commitID = ref
	} else {
		return Handle{}, "", &snapshot.Error{Kind: snapshot.ErrNotFound, Op: "resolve", Path: ref,
			Err: fmt.Errorf("no ref or commit named %q", ref)}
	}

	commit, err := r.ReadCommit(commitID)
	if err != nil {
		kind := snapshot.ErrIO
		if isNotExist(err) {
			kind = snapshot.ErrNotFound
		}
		return Handle{}, "", &snapshot.Error{Kind: kind, Op: "resolve", Path: ref, Err: err}
	}
	return Handle{Path: "/", Kind: snapshot.KindDirectory, Target: commit.Tree}, commitID, nil
}

// Enumerate implements snapshot.Store.
func (r *Repo) Enumerate(ctx context.Context, dir Handle) ([]snapshot.Entry[Handle], error) {
	if err := snapshot.CheckContext(ctx, "enumerate", dir.Path); err != nil {
		return nil, err
	}
	if dir.Kind != snapshot.KindDirectory {
		return nil, &snapshot.Error{Kind: snapshot.ErrIO, Op: "enumerate", Path: dir.Path,
			Err: fmt.Errorf("not a directory (%s)", dir.Kind)}
	}
	tree, err := r.ReadDirTree(dir.Target)
	if err != nil {
		return nil, &snapshot.Error{Kind: snapshot.ErrIO, Op: "enumerate", Path: dir.Path, Err: err}
	}

	entries := make([]snapshot.Entry[Handle], len(tree.Entries))
	for i, entry := range tree.Entries {
		entries[i] = snapshot.Entry[Handle]{
			Name: entry.Name,
			Kind: entry.Kind,
			Handle: Handle{
				Path:   path.Join(dir.Path, entry.Name),
				Kind:   entry.Kind,
				Target: entry.Target,
			},
		}
	}
	return entries, nil
}

// ContentID implements snapshot.Store.
func (r *Repo) ContentID(ctx context.Context, file Handle) (string, error) {
	if err := snapshot.CheckContext(ctx, "content-id", file.Path); err != nil {
		return "", err
	}
	if file.Target == "" {
		return "", &snapshot.Error{Kind: snapshot.ErrMissingChecksum, Op: "content-id", Path: file.Path}
	}
	return file.Target, nil
}

// OpenContent implements snapshot.Store.
func (r *Repo) OpenContent(ctx context.Context, id string) (io.ReadCloser, error) {
	if err := snapshot.CheckContext(ctx, "open", id); err != nil {
		return nil, err
	}
	stream, err := r.OpenObject(id)
	if err != nil {
		return nil, &snapshot.Error{Kind: snapshot.ErrIO, Op: "open", Path: id, Err: err}
	}
	return stream, nil
}
