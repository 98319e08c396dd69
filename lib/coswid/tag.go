// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package coswid

// TagNumber is the CBOR semantic tag for a tagged CoSWID document
// (RFC 9393 §2.2).
const TagNumber uint64 = 1398229316

// RootPath is the filesystem root every resource in a generated
// payload is declared relative to.
const RootPath = "/"

// Tag is a concise-swid-tag.
type Tag struct {
	TagID           string             `cbor:"0,keyasint" json:"tag-id"`
	SoftwareName    string             `cbor:"1,keyasint" json:"software-name"`
	Entity          *OneOrMany[Entity] `cbor:"2,keyasint" json:"entity"`
	Payload         *Payload           `cbor:"6,keyasint,omitempty" json:"payload,omitempty"`
	Corpus          *bool              `cbor:"8,keyasint,omitempty" json:"corpus,omitempty"`
	Patch           *bool              `cbor:"9,keyasint,omitempty" json:"patch,omitempty"`
	Supplemental    *bool              `cbor:"11,keyasint,omitempty" json:"supplemental,omitempty"`
	TagVersion      int                `cbor:"12,keyasint" json:"tag-version"`
	SoftwareVersion string             `cbor:"13,keyasint,omitempty" json:"software-version,omitempty"`
	VersionScheme   VersionScheme      `cbor:"14,keyasint,omitempty" json:"version-scheme,omitempty"`
	Lang            string             `cbor:"15,keyasint,omitempty" json:"lang,omitempty"`
}

// Entity is an entity-entry: an organization or person with a role
// relative to the tag or the software.
type Entity struct {
	EntityName string           `cbor:"31,keyasint" json:"entity-name"`
	RegID      string           `cbor:"32,keyasint,omitempty" json:"reg-id,omitempty"`
	Role       *OneOrMany[Role] `cbor:"33,keyasint" json:"role"`
	Thumbprint *HashEntry       `cbor:"34,keyasint,omitempty" json:"thumbprint,omitempty"`
}

// Payload is a payload-entry: the resources the software installs.
type Payload struct {
	Directory *OneOrMany[Directory] `cbor:"16,keyasint,omitempty" json:"directory,omitempty"`
	File      *OneOrMany[File]      `cbor:"17,keyasint,omitempty" json:"file,omitempty"`
}

// Directory is a directory-entry.
type Directory struct {
	Key          *bool         `cbor:"22,keyasint,omitempty" json:"key,omitempty"`
	Location     string        `cbor:"23,keyasint,omitempty" json:"location,omitempty"`
	FSName       string        `cbor:"24,keyasint" json:"fs-name"`
	Root         string        `cbor:"25,keyasint,omitempty" json:"root,omitempty"`
	PathElements *PathElements `cbor:"26,keyasint,omitempty" json:"path-elements,omitempty"`
}

// PathElements holds a directory's children. Each slot collapses
// independently.
type PathElements struct {
	Directory *OneOrMany[Directory] `cbor:"16,keyasint,omitempty" json:"directory,omitempty"`
	File      *OneOrMany[File]      `cbor:"17,keyasint,omitempty" json:"file,omitempty"`
}

// Files returns the files directly in d.
func (d *Directory) Files() []File {
	if d.PathElements == nil {
		return nil
	}
	return d.PathElements.File.Values()
}

// Directories returns the subdirectories directly in d.
func (d *Directory) Directories() []Directory {
	if d.PathElements == nil {
		return nil
	}
	return d.PathElements.Directory.Values()
}

// File is a file-entry.
type File struct {
	Key         *bool      `cbor:"22,keyasint,omitempty" json:"key,omitempty"`
	Location    string     `cbor:"23,keyasint,omitempty" json:"location,omitempty"`
	FSName      string     `cbor:"24,keyasint" json:"fs-name"`
	Root        string     `cbor:"25,keyasint,omitempty" json:"root,omitempty"`
	Size        *uint64    `cbor:"20,keyasint,omitempty" json:"size,omitempty"`
	FileVersion string     `cbor:"21,keyasint,omitempty" json:"file-version,omitempty"`
	Hash        *HashEntry `cbor:"7,keyasint,omitempty" json:"hash,omitempty"`
}

// Bool returns a pointer to b, for the optional boolean fields.
func Bool(b bool) *bool {
	return &b
}

// Uint64 returns a pointer to n.
func Uint64(n uint64) *uint64 {
	return &n
}
