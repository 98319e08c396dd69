// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package coswid

// Summary counts the resources in a tag's payload.
type Summary struct {
	Directories int
	Files       int
	Hashed      int
	MaxDepth    int
}

// Summarize walks the payload of t. The payload's top-level
// directories are at depth 0.
func (t *Tag) Summarize() Summary {
	var summary Summary
	if t.Payload == nil {
		return summary
	}
	for _, directory := range t.Payload.Directory.Values() {
		summary.addDirectory(&directory, 0)
	}
	for _, file := range t.Payload.File.Values() {
		summary.addFile(&file)
	}
	return summary
}

func (s *Summary) addDirectory(d *Directory, depth int) {
	s.Directories++
	s.MaxDepth = max(s.MaxDepth, depth)
	for _, child := range d.Directories() {
		s.addDirectory(&child, depth+1)
	}
	for _, file := range d.Files() {
		s.addFile(&file)
	}
}

func (s *Summary) addFile(f *File) {
	s.Files++
	if f.Hash != nil {
		s.Hashed++
	}
}
