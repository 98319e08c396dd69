// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/alecthomas/chroma/v2/quick"

	"github.com/bureau-foundation/swidtree/cmd/swidtree/cli"
	"github.com/bureau-foundation/swidtree/lib/codec"
	"github.com/bureau-foundation/swidtree/lib/coswid"
)

const inspectUsage = "swidtree inspect [flags] FILE"

type inspectParams struct {
	Diag     bool   `json:"diag"     flag:"diag"     desc:"print CBOR diagnostic notation instead of JSON"`
	Summary  bool   `json:"summary"  flag:"summary"  desc:"print directory and file counts"`
	Validate bool   `json:"validate" flag:"validate" desc:"check the tag's structure; exit 1 when invalid"`
	Color    string `json:"color"    flag:"color"    desc:"highlight JSON output: auto, always, or never" default:"auto"`
}

func inspectCommand(streams Streams) *cli.Command {
	var params inspectParams

	return &cli.Command{
		Name:    "inspect",
		Summary: "Decode and display a CoSWID tag",
		Description: `Decode the CoSWID tag in FILE ("-" for stdin), tagged or bare, and
print it as JSON with the RFC 9393 field names. JSON is highlighted when
stdout is a terminal.

--diag prints RFC 8949 diagnostic notation of the raw bytes instead,
showing integer keys and the CBOR tag exactly as encoded.`,
		Usage: inspectUsage,
		Examples: []cli.Example{
			{
				Description: "Show a tag as JSON",
				Command:     "swidtree inspect iot.coswid",
			},
			{
				Description: "Show the wire form",
				Command:     "swidtree inspect --diag iot.coswid",
			},
		},
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if err := cli.ExactArgs(args, 1, inspectUsage); err != nil {
				return err
			}
			data, err := readInput(args[0], streams.Stdin)
			if err != nil {
				return err
			}
			return runInspect(params, data, streams.Stdout)
		},
	}
}

func runInspect(params inspectParams, data []byte, stdout io.Writer) error {
	if params.Diag {
		return diagnose(data, stdout)
	}

	tag, err := coswid.Unmarshal(data)
	if err != nil {
		return err
	}

	switch {
	case params.Validate:
		if err := tag.Validate(); err != nil {
			fmt.Fprintf(stdout, "invalid: %v\n", err)
			return &cli.ExitError{Code: 1}
		}
		_, err := fmt.Fprintln(stdout, "valid")
		return err

	case params.Summary:
		summary := tag.Summarize()
		writer := tabwriter.NewWriter(stdout, 2, 0, 1, ' ', 0)
		fmt.Fprintf(writer, "tag-id:\t%s\n", tag.TagID)
		fmt.Fprintf(writer, "software-name:\t%s\n", tag.SoftwareName)
		fmt.Fprintf(writer, "directories:\t%d\n", summary.Directories)
		fmt.Fprintf(writer, "files:\t%d\n", summary.Files)
		fmt.Fprintf(writer, "hashed:\t%d\n", summary.Hashed)
		fmt.Fprintf(writer, "max-depth:\t%d\n", summary.MaxDepth)
		return writer.Flush()
	}

	colorize, err := shouldColorize(params.Color, stdout)
	if err != nil {
		return err
	}
	rendered, err := json.MarshalIndent(tag, "", "  ")
	if err != nil {
		return fmt.Errorf("rendering JSON: %w", err)
	}
	rendered = append(rendered, '\n')
	if colorize {
		if err := quick.Highlight(stdout, string(rendered), "json", "terminal256", "monokai"); err == nil {
			return nil
		}
	}
	_, err = stdout.Write(rendered)
	return err
}

func shouldColorize(mode string, stdout io.Writer) (bool, error) {
	switch mode {
	case "", "auto":
		return cli.IsTerminal(stdout), nil
	case "always":
		return true, nil
	case "never":
		return false, nil
	default:
		return false, fmt.Errorf("unknown --color %q (want auto, always, or never)", mode)
	}
}

// diagnose writes diagnostic notation for each item of a CBOR
// sequence, one per line.
func diagnose(data []byte, w io.Writer) error {
	if len(data) == 0 {
		return fmt.Errorf("empty input: expected CBOR data")
	}
	remaining := data
	for len(remaining) > 0 {
		notation, rest, err := codec.DiagnoseFirst(remaining)
		if err != nil {
			offset := len(data) - len(remaining)
			return fmt.Errorf("diagnose CBOR at byte %d: %w", offset, err)
		}
		if _, err := fmt.Fprintln(w, notation); err != nil {
			return err
		}
		remaining = rest
	}
	return nil
}
