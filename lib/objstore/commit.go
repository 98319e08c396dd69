// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package objstore

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bureau-foundation/swidtree/lib/snapshot"
)

// CommitOptions describes an import.
type CommitOptions struct {
	// Source is the local directory to import.
	Source string
	// Ref is advanced to the new commit. Its previous target becomes
	// the commit's parent.
	Ref     string
	Subject string
}

// CommitResult describes a completed import.
type CommitResult struct {
	Commit      string
	Tree        string
	Parent      string
	Directories int
	Files       int
	Symlinks    int
	Other       int
	Bytes       int64
}

// Commit imports the tree under options.Source as a new commit and
// advances options.Ref to it. Regular files are stored as content
// objects, symlinks keep their link text, and device nodes, fifos, and
// sockets are recorded by name only. Symlinks are never followed.
func (r *Repo) Commit(ctx context.Context, options CommitOptions) (*CommitResult, error) {
	if err := ValidateRefName(options.Ref); err != nil {
		return nil, err
	}
	info, err := os.Stat(options.Source)
	if err != nil {
		return nil, fmt.Errorf("commit source: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("commit source %s is not a directory", options.Source)
	}

	parent := ""
	if record, ok := r.refs.get(options.Ref); ok {
		parent = record.Commit
	}

	result := &CommitResult{Parent: parent}
	tree, err := r.importDirectory(ctx, options.Source, "/", result)
	if err != nil {
		return nil, err
	}
	result.Tree = tree

	commit, err := r.writeRecord(ObjectCommit, Commit{
		Tree:      tree,
		Parent:    parent,
		Subject:   options.Subject,
		Timestamp: r.clock.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	result.Commit = commit

	if err := r.SetRef(options.Ref, commit, &parent); err != nil {
		return nil, err
	}
	r.logger.Info("committed tree",
		"ref", options.Ref,
		"commit", commit,
		"files", result.Files,
		"directories", result.Directories,
		"bytes", result.Bytes,
	)
	return result, nil
}

func (r *Repo) importDirectory(ctx context.Context, dirPath, treePath string, result *CommitResult) (string, error) {
	if err := snapshot.CheckContext(ctx, "commit", treePath); err != nil {
		return "", err
	}

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return "", fmt.Errorf("reading directory %s: %w", dirPath, err)
	}
	result.Directories++

	tree := DirTree{Entries: make([]DirEntry, 0, len(entries))}
	for _, entry := range entries {
		sourcePath := filepath.Join(dirPath, entry.Name())
		childPath := filepath.ToSlash(filepath.Join(treePath, entry.Name()))

		info, err := entry.Info()
		if err != nil {
			return "", fmt.Errorf("stat %s: %w", sourcePath, err)
		}
		mode := info.Mode()
		record := DirEntry{Name: entry.Name(), Mode: uint32(mode)}

		switch {
		case mode.IsDir():
			target, err := r.importDirectory(ctx, sourcePath, childPath, result)
			if err != nil {
				return "", err
			}
			record.Kind = snapshot.KindDirectory
			record.Target = target

		case mode.IsRegular():
			target, size, err := r.importFile(sourcePath)
			if err != nil {
				return "", err
			}
			record.Kind = snapshot.KindRegular
			record.Target = target
			record.Size = size
			result.Files++
			result.Bytes += size

		case mode&fs.ModeSymlink != 0:
			link, err := os.Readlink(sourcePath)
			if err != nil {
				return "", fmt.Errorf("reading link %s: %w", sourcePath, err)
			}
			record.Kind = snapshot.KindSymlink
			record.Link = link
			result.Symlinks++

		default:
			record.Kind = snapshot.KindOther
			result.Other++
			r.logger.Debug("recording special file without content", "path", childPath, "mode", mode.String())
		}
		tree.Entries = append(tree.Entries, record)
	}
	return r.writeRecord(ObjectDirTree, tree)
}

func (r *Repo) importFile(sourcePath string) (string, int64, error) {
	file, err := os.Open(sourcePath)
	if err != nil {
		return "", 0, fmt.Errorf("opening %s: %w", sourcePath, err)
	}
	defer file.Close()
	id, size, err := r.WriteContent(file)
	if err != nil {
		return "", 0, fmt.Errorf("importing %s: %w", sourcePath, err)
	}
	return id, size, nil
}
