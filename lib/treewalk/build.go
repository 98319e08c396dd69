// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package treewalk

import "github.com/bureau-foundation/swidtree/lib/coswid"

// BuildDirectory assembles a directory-entry from its direct children.
// Each child list collapses on its own: none is absent, one is the
// bare entry, more is the list in the given order. The path-elements
// group is always present, even when both slots are absent.
func BuildDirectory(name string, files []coswid.File, directories []coswid.Directory) coswid.Directory {
	return coswid.Directory{
		FSName: name,
		Root:   coswid.RootPath,
		PathElements: &coswid.PathElements{
			Directory: coswid.Collapse(directories),
			File:      coswid.Collapse(files),
		},
	}
}
