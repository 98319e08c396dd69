// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/bureau-foundation/swidtree/cmd/swidtree/cli"
	"github.com/bureau-foundation/swidtree/lib/config"
	"github.com/bureau-foundation/swidtree/lib/coswid"
	"github.com/bureau-foundation/swidtree/lib/objstore"
	"github.com/bureau-foundation/swidtree/lib/tagbuild"
)

const generateUsage = "swidtree generate [flags] STORE REF OUTPUT"

// generateParams are the generate flags. Zero values defer to the
// configuration file.
type generateParams struct {
	cli.VerboseOutput
	Config          string   `json:"config"           flag:"config,c"         desc:"configuration file (default $SWIDTREE_CONFIG, else built-in defaults)"`
	Concurrency     int      `json:"concurrency"      flag:"concurrency,j"    desc:"files hashed in parallel (0: walk.concurrency from config)"`
	Sort            string   `json:"sort"             flag:"sort"             desc:"child order within a directory: store or name (default walk.order from config)"`
	CBORTag         bool     `json:"cbor_tag"         flag:"cbor-tag"         desc:"wrap the output in the CoSWID CBOR tag"`
	TagID           string   `json:"tag_id"           flag:"tag-id"           desc:"tag id template, may use {{.Ref}} and {{.Commit}}"`
	SoftwareVersion string   `json:"software_version" flag:"software-version" desc:"software version recorded in the tag"`
	Roles           []string `json:"roles"            flag:"role"             desc:"entity role name or number, repeatable (default tag.entity.roles from config)"`
}

// apply layers explicitly set flags over cfg.
func (p *generateParams) apply(cfg *config.Config) {
	if p.Concurrency != 0 {
		cfg.Walk.Concurrency = p.Concurrency
	}
	if p.Sort != "" {
		cfg.Walk.Order = p.Sort
	}
	if p.CBORTag {
		cfg.Output.CBORTag = true
	}
	if p.TagID != "" {
		cfg.Tag.ID = p.TagID
	}
	if p.SoftwareVersion != "" {
		cfg.Tag.SoftwareVersion = p.SoftwareVersion
	}
	if len(p.Roles) > 0 {
		cfg.Tag.Entity.Roles = p.Roles
	}
}

func generateCommand(streams Streams) *cli.Command {
	var params generateParams

	return &cli.Command{
		Name:    "generate",
		Summary: "Generate a CoSWID tag for a committed tree",
		Description: `Resolve REF in the repository at STORE, walk the committed tree, and
write a corpus CoSWID tag describing it to OUTPUT ("-" for stdout).

Every directory and regular file appears in the payload; each file
carries its SHA-256 digest and no size. Symlinks, device nodes, fifos
and sockets are skipped. Children appear in repository order unless --sort
name is given.

Nothing is written unless the whole tree is hashed successfully. A file
OUTPUT is replaced atomically.`,
		Usage: generateUsage,
		Examples: []cli.Example{
			{
				Description: "Write a tag for the stable ref",
				Command:     "swidtree generate /srv/ostree fedora/stable/x86_64/iot iot.coswid",
			},
			{
				Description: "Hash eight files at once and emit tagged CBOR to stdout",
				Command:     "swidtree generate -j 8 --cbor-tag /srv/ostree fedora/stable/x86_64/iot - | swidtree inspect --summary -",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if err := cli.ExactArgs(args, 3, generateUsage); err != nil {
				return err
			}
			return runGenerate(ctx, params, args[0], args[1], args[2], streams.Stdout, logger)
		},
	}
}

func runGenerate(ctx context.Context, params generateParams, storePath, ref, output string, stdout io.Writer, logger *slog.Logger) error {
	cfg, err := config.Load(params.Config)
	if err != nil {
		return err
	}
	params.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	metadata, err := cfg.Metadata()
	if err != nil {
		return err
	}
	options, err := cfg.WalkOptions()
	if err != nil {
		return err
	}
	logger = logger.With("store", storePath)
	options.Logger = logger

	repo, err := objstore.Open(storePath, objstore.WithLogger(logger))
	if err != nil {
		return err
	}

	generated, err := tagbuild.Generate[objstore.Handle](ctx, repo, ref, metadata, options)
	if err != nil {
		return err
	}

	encodeOptions := coswid.EncodeOptions{Tagged: cfg.Output.CBORTag}
	err = writeOutput(output, stdout, func(w io.Writer) error {
		return coswid.Encode(w, generated.Tag, encodeOptions)
	})
	if err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}

	logger.Info("tag generated",
		"ref", ref,
		"commit", generated.Commit,
		"tag_id", generated.Tag.TagID,
		"directories", generated.Stats.Directories,
		"files", generated.Stats.Files,
		"skipped", generated.Stats.Skipped,
		"bytes", generated.Stats.Bytes,
		"output", output,
	)
	return nil
}
