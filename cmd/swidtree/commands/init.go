// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/swidtree/cmd/swidtree/cli"
	"github.com/bureau-foundation/swidtree/lib/config"
	"github.com/bureau-foundation/swidtree/lib/objstore"
)

const initUsage = "swidtree init [flags] STORE"

type initParams struct {
	Config      string `json:"config"      flag:"config,c"    desc:"configuration file (default $SWIDTREE_CONFIG, else built-in defaults)"`
	Compression string `json:"compression" flag:"compression" desc:"file object compression: auto, none, lz4, or zstd (default store.compression from config)"`
}

func initCommand(streams Streams) *cli.Command {
	var params initParams

	return &cli.Command{
		Name:    "init",
		Summary: "Create an empty snapshot repository",
		Description: `Create an empty repository at STORE. The directory may exist but
must not already hold a repository.

The compression policy applies to file objects written by later
commits. "auto" compresses each file with zstd or lz4 only when a probe
of its first 64 KiB shows it is worth it.`,
		Usage:  initUsage,
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if err := cli.ExactArgs(args, 1, initUsage); err != nil {
				return err
			}

			cfg, err := config.Load(params.Config)
			if err != nil {
				return err
			}
			if params.Compression != "" {
				cfg.Store.Compression = params.Compression
			}
			policy, err := cfg.CompressionPolicy()
			if err != nil {
				return err
			}

			repo, err := objstore.Init(args[0], objstore.RepoConfig{Compression: policy}, objstore.WithLogger(logger))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(streams.Stdout, "initialized repository at %s (compression %s)\n",
				repo.Root(), repo.Config().Compression)
			return err
		},
	}
}
