// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/bureau-foundation/swidtree/cmd/swidtree/cli"
	"github.com/bureau-foundation/swidtree/lib/objstore"
)

const refsUsage = "swidtree refs STORE"

func refsCommand(streams Streams) *cli.Command {
	return &cli.Command{
		Name:    "refs",
		Summary: "List the refs of a repository",
		Usage:   refsUsage,
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if err := cli.ExactArgs(args, 1, refsUsage); err != nil {
				return err
			}
			repo, err := objstore.Open(args[0], objstore.WithLogger(logger))
			if err != nil {
				return err
			}

			writer := tabwriter.NewWriter(streams.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintf(writer, "REF\tCOMMIT\tUPDATED\n")
			for _, record := range repo.Refs() {
				fmt.Fprintf(writer, "%s\t%s\t%s\n",
					record.Name, record.Commit, record.UpdatedAt.UTC().Format(time.RFC3339))
			}
			return writer.Flush()
		},
	}
}
