// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build unix

package objstore

import (
	"context"
	"path/filepath"
	"testing"

	"golang.org/x/sys/unix"

	"github.com/bureau-foundation/swidtree/lib/snapshot"
	"github.com/bureau-foundation/swidtree/lib/testutil"
)

func TestCommitRecordsFifoAsOther(t *testing.T) {
	repo, _ := newTestRepo(t, RepoConfig{})
	source := t.TempDir()
	testutil.WriteTree(t, source, map[string]string{"regular": "x"})
	if err := unix.Mkfifo(filepath.Join(source, "pipe"), 0o644); err != nil {
		t.Skipf("Mkfifo: %v", err)
	}

	result, err := repo.Commit(context.Background(), CommitOptions{Source: source, Ref: "main"})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if result.Other != 1 || result.Files != 1 {
		t.Errorf("result = %+v", result)
	}

	root, _, err := repo.Resolve(context.Background(), "main")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	entries, err := repo.Enumerate(context.Background(), root)
	if err != nil {
		t.Fatalf("Enumerate: %v", err)
	}
	for _, entry := range entries {
		if entry.Name == "pipe" && entry.Kind != snapshot.KindOther {
			t.Errorf("pipe kind = %s, want other", entry.Kind)
		}
	}
}
