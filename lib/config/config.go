// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/swidtree/lib/coswid"
	"github.com/bureau-foundation/swidtree/lib/objstore"
	"github.com/bureau-foundation/swidtree/lib/tagbuild"
	"github.com/bureau-foundation/swidtree/lib/treewalk"
)

// EnvVar names the environment variable consulted by [Load] when no
// explicit path is given.
const EnvVar = "SWIDTREE_CONFIG"

// Config is the swidtree configuration file.
type Config struct {
	Tag    TagConfig    `yaml:"tag" json:"tag"`
	Walk   WalkConfig   `yaml:"walk" json:"walk"`
	Output OutputConfig `yaml:"output" json:"output"`
	Store  StoreConfig  `yaml:"store" json:"store"`
}

// TagConfig holds the static tag metadata.
type TagConfig struct {
	// ID is a text/template; {{.Ref}} and {{.Commit}} are available.
	ID              string `yaml:"id" json:"id"`
	Version         int    `yaml:"version" json:"version"`
	SoftwareName    string `yaml:"software_name" json:"software_name"`
	SoftwareVersion string `yaml:"software_version" json:"software_version"`
	VersionScheme   string `yaml:"version_scheme" json:"version_scheme"`
	Lang            string `yaml:"lang" json:"lang"`

	Corpus       bool `yaml:"corpus" json:"corpus"`
	Patch        bool `yaml:"patch" json:"patch"`
	Supplemental bool `yaml:"supplemental" json:"supplemental"`

	Entity EntityConfig `yaml:"entity" json:"entity"`
}

// EntityConfig describes the tag's single entity.
type EntityConfig struct {
	Name  string `yaml:"name" json:"name"`
	RegID string `yaml:"reg_id" json:"reg_id"`
	// Roles are role names or numbers. Empty means tag-creator.
	Roles []string `yaml:"roles" json:"roles"`
}

// WalkConfig controls tree traversal.
type WalkConfig struct {
	Concurrency int    `yaml:"concurrency" json:"concurrency"`
	Order       string `yaml:"order" json:"order"`
}

// OutputConfig controls serialization.
type OutputConfig struct {
	// CBORTag wraps the output in the CoSWID CBOR tag.
	CBORTag bool `yaml:"cbor_tag" json:"cbor_tag"`
}

// StoreConfig controls repositories created by init and written by
// commit.
type StoreConfig struct {
	Compression string `yaml:"compression" json:"compression"`
}

// Default returns the built-in configuration.
func Default() *Config {
	metadata := tagbuild.DefaultMetadata()
	return &Config{
		Tag: TagConfig{
			ID:           metadata.TagID,
			SoftwareName: metadata.SoftwareName,
			Corpus:       metadata.Corpus,
			Entity: EntityConfig{
				Name: metadata.EntityName,
			},
		},
		Walk: WalkConfig{
			Concurrency: 1,
			Order:       treewalk.OrderStore.String(),
		},
		Store: StoreConfig{
			Compression: string(objstore.PolicyAuto),
		},
	}
}

// Load resolves the configuration to use. An explicit path wins; an
// empty path falls back to $SWIDTREE_CONFIG, and when that is unset
// too the built-in defaults are returned.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvVar)
	}
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile loads configuration from path, layered over [Default].
// Files ending in .json or .jsonc are parsed as JSON with comments and
// trailing commas; everything else is YAML.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		err = json.Unmarshal(jsonc.ToJSON(data), cfg)
	default:
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.expandVariables()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// expandVariables expands ${VAR} and ${VAR:-default} in the free-text
// tag fields so a single file can serve several builds.
func (c *Config) expandVariables() {
	c.Tag.SoftwareName = expandVars(c.Tag.SoftwareName)
	c.Tag.SoftwareVersion = expandVars(c.Tag.SoftwareVersion)
	c.Tag.ID = expandVars(c.Tag.ID)
	c.Tag.Entity.Name = expandVars(c.Tag.Entity.Name)
	c.Tag.Entity.RegID = expandVars(c.Tag.Entity.RegID)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		return parts[2]
	})
}

// Validate checks the configuration for errors. All problems are
// reported together.
func (c *Config) Validate() error {
	var errs []error

	if c.Walk.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("walk.concurrency must not be negative, got %d", c.Walk.Concurrency))
	}
	if _, err := treewalk.ParseOrder(c.Walk.Order); err != nil {
		errs = append(errs, fmt.Errorf("walk.order: %w", err))
	}
	if _, err := objstore.ParseCompressionPolicy(c.Store.Compression); err != nil {
		errs = append(errs, fmt.Errorf("store.compression: %w", err))
	}
	if c.Tag.Version < 0 {
		errs = append(errs, fmt.Errorf("tag.version must not be negative, got %d", c.Tag.Version))
	}

	metadata, err := c.metadata()
	if err != nil {
		errs = append(errs, err)
	} else if err := metadata.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tag: %w", err))
	}

	return errors.Join(errs...)
}

// Metadata converts the tag section to assembler metadata.
func (c *Config) Metadata() (tagbuild.Metadata, error) {
	metadata, err := c.metadata()
	if err != nil {
		return tagbuild.Metadata{}, err
	}
	if err := metadata.Validate(); err != nil {
		return tagbuild.Metadata{}, fmt.Errorf("tag: %w", err)
	}
	return metadata, nil
}

func (c *Config) metadata() (tagbuild.Metadata, error) {
	metadata := tagbuild.Metadata{
		TagID:           c.Tag.ID,
		TagVersion:      c.Tag.Version,
		SoftwareName:    c.Tag.SoftwareName,
		SoftwareVersion: c.Tag.SoftwareVersion,
		Lang:            c.Tag.Lang,
		Corpus:          c.Tag.Corpus,
		Patch:           c.Tag.Patch,
		Supplemental:    c.Tag.Supplemental,
		EntityName:      c.Tag.Entity.Name,
		EntityRegID:     c.Tag.Entity.RegID,
	}

	if c.Tag.VersionScheme != "" {
		scheme, err := coswid.ParseVersionScheme(c.Tag.VersionScheme)
		if err != nil {
			return tagbuild.Metadata{}, fmt.Errorf("tag.version_scheme: %w", err)
		}
		metadata.VersionScheme = scheme
	}

	for _, name := range c.Tag.Entity.Roles {
		role, err := coswid.ParseRole(name)
		if err != nil {
			return tagbuild.Metadata{}, fmt.Errorf("tag.entity.roles: %w", err)
		}
		metadata.EntityRoles = append(metadata.EntityRoles, role)
	}

	return metadata, nil
}

// WalkOptions converts the walk section to walker options. The logger
// is left for the caller.
func (c *Config) WalkOptions() (treewalk.Options, error) {
	order, err := treewalk.ParseOrder(c.Walk.Order)
	if err != nil {
		return treewalk.Options{}, fmt.Errorf("walk.order: %w", err)
	}
	if c.Walk.Concurrency < 0 {
		return treewalk.Options{}, fmt.Errorf("walk.concurrency must not be negative, got %d", c.Walk.Concurrency)
	}
	return treewalk.Options{
		Concurrency: c.Walk.Concurrency,
		Order:       order,
	}, nil
}

// CompressionPolicy returns the store section's compression policy.
func (c *Config) CompressionPolicy() (objstore.CompressionPolicy, error) {
	policy, err := objstore.ParseCompressionPolicy(c.Store.Compression)
	if err != nil {
		return "", fmt.Errorf("store.compression: %w", err)
	}
	return policy, nil
}
