// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package coswid

import (
	"errors"
	"fmt"
)

// Validate checks that t can be represented as a schema-conformant
// concise-swid-tag: required fields are set, every present one-or-more
// field holds at least one value, and hash digests have the right
// length. The first problem found is returned with its location.
func (t *Tag) Validate() error {
	if t.TagID == "" {
		return errors.New("tag-id is empty")
	}
	if t.SoftwareName == "" {
		return errors.New("software-name is empty")
	}
	if t.Entity.Len() == 0 {
		return errors.New("tag has no entity")
	}
	for i, entity := range t.Entity.Values() {
		if err := entity.Validate(); err != nil {
			return fmt.Errorf("entity[%d]: %w", i, err)
		}
	}
	if t.Payload != nil {
		if err := t.Payload.Validate(); err != nil {
			return fmt.Errorf("payload: %w", err)
		}
	}
	return nil
}

// Validate checks an entity-entry.
func (e *Entity) Validate() error {
	if e.EntityName == "" {
		return errors.New("entity-name is empty")
	}
	if e.Role.Len() == 0 {
		return fmt.Errorf("entity %q has no role", e.EntityName)
	}
	for _, role := range e.Role.Values() {
		if role == 0 {
			return fmt.Errorf("entity %q has role 0", e.EntityName)
		}
	}
	if e.Thumbprint != nil {
		if err := e.Thumbprint.Validate(); err != nil {
			return fmt.Errorf("entity %q thumbprint: %w", e.EntityName, err)
		}
	}
	return nil
}

// Validate checks a payload-entry. Top-level directories may have an
// empty fs-name; they stand for the root of the payload.
func (p *Payload) Validate() error {
	if err := checkPresent(p.Directory, "directory"); err != nil {
		return err
	}
	if err := checkPresent(p.File, "file"); err != nil {
		return err
	}
	for _, directory := range p.Directory.Values() {
		if err := directory.validate(directory.FSName, true); err != nil {
			return err
		}
	}
	for _, file := range p.File.Values() {
		if err := file.validate(file.FSName); err != nil {
			return err
		}
	}
	return nil
}

func (d *Directory) validate(path string, top bool) error {
	if d.FSName == "" && !top {
		return fmt.Errorf("directory in %q has an empty fs-name", path)
	}
	if d.PathElements == nil {
		return nil
	}
	if err := checkPresent(d.PathElements.Directory, path+"/directory"); err != nil {
		return err
	}
	if err := checkPresent(d.PathElements.File, path+"/file"); err != nil {
		return err
	}
	for _, child := range d.PathElements.Directory.Values() {
		if err := child.validate(path+"/"+child.FSName, false); err != nil {
			return err
		}
	}
	for _, file := range d.PathElements.File.Values() {
		if err := file.validate(path + "/" + file.FSName); err != nil {
			return err
		}
	}
	return nil
}

func (f *File) validate(path string) error {
	if f.FSName == "" {
		return fmt.Errorf("file at %q has an empty fs-name", path)
	}
	if f.Hash != nil {
		if err := f.Hash.Validate(); err != nil {
			return fmt.Errorf("file %q: %w", path, err)
		}
	}
	return nil
}

// checkPresent rejects a non-nil one-or-more with no values, which
// has no valid encoding.
func checkPresent[T any](o *OneOrMany[T], field string) error {
	if o != nil && o.Len() == 0 {
		return fmt.Errorf("%s is present but empty", field)
	}
	return nil
}
