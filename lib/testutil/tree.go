// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"os"
	"path/filepath"
	"strings"
)

// SymlinkPrefix marks a WriteTree value as a symlink target.
const SymlinkPrefix = "->"

// WriteTree creates entries under root from a slash-separated
// path-to-content map. Paths ending in "/" become empty directories;
// values beginning with [SymlinkPrefix] become symlinks to the rest of
// the value. Parent directories are created as needed.
//
//	testutil.WriteTree(t, source, map[string]string{
//	    "etc/hostname": "iot\n",
//	    "var/":         "",
//	    "bin":          "->usr/bin",
//	})
func WriteTree(t interface {
	Helper()
	Fatalf(format string, args ...any)
}, root string, entries map[string]string) {
	t.Helper()
	for name, content := range entries {
		path := filepath.Join(root, filepath.FromSlash(name))
		if strings.HasSuffix(name, "/") {
			if err := os.MkdirAll(path, 0o755); err != nil {
				t.Fatalf("creating directory %s: %v", name, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("creating parent of %s: %v", name, err)
		}
		if target, ok := strings.CutPrefix(content, SymlinkPrefix); ok {
			if err := os.Symlink(target, path); err != nil {
				t.Fatalf("creating symlink %s: %v", name, err)
			}
			continue
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}
}
