// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package tagbuild assembles a complete CoSWID tag from static tag
// metadata and a walked directory tree, and runs the whole
// resolve, walk, assemble pipeline against a snapshot store.
package tagbuild

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"text/template"

	"github.com/bureau-foundation/swidtree/lib/coswid"
	"github.com/bureau-foundation/swidtree/lib/snapshot"
	"github.com/bureau-foundation/swidtree/lib/treewalk"
)

// DefaultTagID is the tag id used when none is configured.
const DefaultTagID = "org.fedoraproject.iot.x86_64.stable"

// DefaultSoftwareName is the software name used when none is
// configured.
const DefaultSoftwareName = "Fedora IoT OSTree"

// Metadata is everything in a tag that does not come from the tree.
type Metadata struct {
	// TagID is a text/template rendered with Run. A template without
	// actions is used verbatim.
	TagID      string
	TagVersion int

	SoftwareName    string
	SoftwareVersion string
	VersionScheme   coswid.VersionScheme
	Lang            string

	Corpus       bool
	Patch        bool
	Supplemental bool

	EntityName  string
	EntityRegID string
	// EntityRoles defaults to tag-creator alone when empty.
	EntityRoles []coswid.Role
}

// DefaultMetadata returns a corpus tag with no patch or supplemental
// flag, created by a single tag-creator entity.
func DefaultMetadata() Metadata {
	return Metadata{
		TagID:        DefaultTagID,
		SoftwareName: DefaultSoftwareName,
		Corpus:       true,
		EntityName:   "Fedora Project",
		EntityRoles:  []coswid.Role{coswid.RoleTagCreator},
	}
}

// Run identifies the snapshot a tag describes. Its fields are
// available to the TagID template as {{.Ref}} and {{.Commit}}.
type Run struct {
	Ref    string
	Commit string
}

// Validate checks that metadata can produce a valid tag.
func (m Metadata) Validate() error {
	if m.TagID == "" {
		return errors.New("tag id is empty")
	}
	if _, err := parseTagID(m.TagID); err != nil {
		return err
	}
	if m.SoftwareName == "" {
		return errors.New("software name is empty")
	}
	if m.EntityName == "" {
		return errors.New("entity name is empty")
	}
	return nil
}

func parseTagID(text string) (*template.Template, error) {
	tmpl, err := template.New("tag-id").Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parsing tag id template: %w", err)
	}
	return tmpl, nil
}

// RenderTagID renders the TagID template for run.
func (m Metadata) RenderTagID(run Run) (string, error) {
	tmpl, err := parseTagID(m.TagID)
	if err != nil {
		return "", err
	}
	var buffer bytes.Buffer
	if err := tmpl.Execute(&buffer, run); err != nil {
		return "", fmt.Errorf("rendering tag id: %w", err)
	}
	if buffer.Len() == 0 {
		return "", errors.New("tag id renders empty")
	}
	return buffer.String(), nil
}

// Assemble builds the tag. The payload wraps root and is omitted when
// root is nil.
func Assemble(metadata Metadata, root *coswid.Directory, run Run) (*coswid.Tag, error) {
	if err := metadata.Validate(); err != nil {
		return nil, err
	}
	tagID, err := metadata.RenderTagID(run)
	if err != nil {
		return nil, err
	}

	roles := metadata.EntityRoles
	if len(roles) == 0 {
		roles = []coswid.Role{coswid.RoleTagCreator}
	}

	tag := &coswid.Tag{
		TagID:           tagID,
		TagVersion:      metadata.TagVersion,
		SoftwareName:    metadata.SoftwareName,
		SoftwareVersion: metadata.SoftwareVersion,
		VersionScheme:   metadata.VersionScheme,
		Lang:            metadata.Lang,
		Corpus:          coswid.Bool(metadata.Corpus),
		Patch:           coswid.Bool(metadata.Patch),
		Supplemental:    coswid.Bool(metadata.Supplemental),
		Entity: coswid.One(coswid.Entity{
			EntityName: metadata.EntityName,
			RegID:      metadata.EntityRegID,
			Role:       coswid.Collapse(roles),
		}),
	}
	if root != nil {
		tag.Payload = &coswid.Payload{Directory: coswid.One(*root)}
	}
	return tag, nil
}

// Generated is the output of Generate.
type Generated struct {
	Tag    *coswid.Tag
	Commit string
	Stats  treewalk.Stats
}

// Generate resolves ref in store, walks the commit's tree, and
// assembles the tag. Nothing is returned unless every step succeeds.
func Generate[H any](ctx context.Context, store snapshot.Store[H], ref string, metadata Metadata, options treewalk.Options) (*Generated, error) {
	if err := metadata.Validate(); err != nil {
		return nil, fmt.Errorf("tag metadata: %w", err)
	}

	root, commit, err := store.Resolve(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("resolving ref %q: %w", ref, err)
	}
	if options.Logger != nil {
		options.Logger.Info("resolved ref", "ref", ref, "commit", commit)
	}

	result, err := treewalk.Walk(ctx, store, root, options)
	if err != nil {
		return nil, fmt.Errorf("building payload for commit %s: %w", commit, err)
	}

	tag, err := Assemble(metadata, result.Root, Run{Ref: ref, Commit: commit})
	if err != nil {
		return nil, err
	}
	return &Generated{Tag: tag, Commit: commit, Stats: result.Stats}, nil
}
