// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/swidtree/cmd/swidtree/cli"
	"github.com/bureau-foundation/swidtree/lib/objstore"
)

const commitUsage = "swidtree commit [flags] STORE REF DIR"

type commitParams struct {
	cli.VerboseOutput
	Subject string `json:"subject" flag:"subject,m" desc:"commit subject"`
}

func commitCommand(streams Streams) *cli.Command {
	var params commitParams

	return &cli.Command{
		Name:    "commit",
		Summary: "Import a directory as a new commit",
		Description: `Import the tree under DIR into the repository at STORE and point REF
at the new commit. The previous commit of REF, if any, becomes the
parent.

Regular files are stored by content. Symlinks are recorded with their
target and never followed. Device nodes, fifos, and sockets are
recorded by name only.

Prints the new commit id.`,
		Usage: commitUsage,
		Examples: []cli.Example{{
			Description: "Commit a deployment root",
			Command:     `swidtree commit -m "compose 41.20261017.0" /srv/ostree fedora/stable/x86_64/iot ./rootfs`,
		}},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if err := cli.ExactArgs(args, 3, commitUsage); err != nil {
				return err
			}
			storePath, ref, source := args[0], args[1], args[2]
			logger = logger.With("store", storePath)

			repo, err := objstore.Open(storePath, objstore.WithLogger(logger))
			if err != nil {
				return err
			}
			result, err := repo.Commit(ctx, objstore.CommitOptions{
				Source:  source,
				Ref:     ref,
				Subject: params.Subject,
			})
			if err != nil {
				return err
			}

			logger.Info("committed",
				"ref", ref,
				"commit", result.Commit,
				"parent", result.Parent,
				"directories", result.Directories,
				"files", result.Files,
				"symlinks", result.Symlinks,
				"other", result.Other,
				"bytes", result.Bytes,
			)
			_, err = fmt.Fprintln(streams.Stdout, result.Commit)
			return err
		},
	}
}
