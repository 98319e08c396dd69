// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the swidtree command tree.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bureau-foundation/swidtree/cmd/swidtree/cli"
	"github.com/bureau-foundation/swidtree/lib/version"
)

// Streams are the process's standard streams. Tests substitute buffers.
type Streams struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// StandardStreams returns the real stdin, stdout, and stderr.
func StandardStreams() Streams {
	return Streams{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

type rootParams struct {
	Version bool `json:"-" flag:"version" desc:"print version information and exit"`
}

// Root builds and returns the complete swidtree command tree.
func Root(streams Streams) *cli.Command {
	var params rootParams
	root := &cli.Command{
		Name: "swidtree",
		Description: `swidtree: CoSWID software identity tags for content-addressed trees.

Generates a corpus CoSWID tag (RFC 9393) describing every directory and
regular file in a committed snapshot, with a SHA-256 digest per file,
serialized as deterministic CBOR.`,
		Output: streams.Stderr,
		Subcommands: []*cli.Command{
			generateCommand(streams),
			initCommand(streams),
			commitCommand(streams),
			refsCommand(streams),
			inspectCommand(streams),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(_ context.Context, args []string, _ *slog.Logger) error {
					_, err := fmt.Fprintf(streams.Stdout, "swidtree %s\n", version.Full())
					return err
				},
			},
		},
		Params: func() any { return &params },
	}
	root.Run = func(_ context.Context, args []string, _ *slog.Logger) error {
		if params.Version {
			_, err := fmt.Fprintf(streams.Stdout, "swidtree %s\n", version.Info())
			return err
		}
		root.PrintHelp(streams.Stderr)
		if len(args) > 0 {
			return fmt.Errorf("unexpected argument %q", args[0])
		}
		return fmt.Errorf("subcommand required")
	}
	return root
}
