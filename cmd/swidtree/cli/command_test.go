// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestCommand_Execute_DispatchesToSubcommand(t *testing.T) {
	var called string
	var receivedArgs []string

	root := &Command{
		Name: "swidtree",
		Subcommands: []*Command{
			{
				Name: "refs",
				Run: func(_ context.Context, args []string, _ *slog.Logger) error {
					called = "refs"
					receivedArgs = args
					return nil
				},
			},
			{
				Name: "version",
				Run: func(context.Context, []string, *slog.Logger) error {
					called = "version"
					return nil
				},
			},
		},
	}

	if err := root.Execute(context.Background(), []string{"refs", "/srv/repo"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "refs" {
		t.Errorf("dispatched to %q, want refs", called)
	}
	if len(receivedArgs) != 1 || receivedArgs[0] != "/srv/repo" {
		t.Errorf("args = %v, want [/srv/repo]", receivedArgs)
	}
}

func TestCommand_Execute_PassesContext(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "marker")

	var got any
	root := &Command{
		Name: "swidtree",
		Subcommands: []*Command{{
			Name: "generate",
			Run: func(ctx context.Context, _ []string, logger *slog.Logger) error {
				got = ctx.Value(key{})
				if logger == nil {
					t.Error("logger is nil")
				}
				return nil
			},
		}},
	}

	if err := root.Execute(ctx, []string{"generate"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if got != "marker" {
		t.Errorf("context value = %v, want marker", got)
	}
}

func TestCommand_Execute_ParamsParsing(t *testing.T) {
	type params struct {
		VerboseOutput
		Sort        string `flag:"sort" default:"store"`
		Concurrency int    `flag:"concurrency" default:"1"`
	}
	var p params
	var positional []string
	var debugEnabled bool

	command := &Command{
		Name:   "generate",
		Params: func() any { return &p },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			positional = args
			debugEnabled = logger.Enabled(ctx, slog.LevelDebug)
			return nil
		},
	}

	err := command.Execute(context.Background(), []string{"--sort", "name", "repo", "-v", "ref", "-"})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if p.Sort != "name" || p.Concurrency != 1 {
		t.Errorf("params = %+v", p)
	}
	if strings.Join(positional, " ") != "repo ref -" {
		t.Errorf("args = %v, want [repo ref -]", positional)
	}
	if !debugEnabled {
		t.Error("--verbose should enable debug logging")
	}
}

func TestCommand_Execute_UnknownFlagSuggestion(t *testing.T) {
	type params struct {
		CBORTag bool `flag:"cbor-tag"`
	}
	var p params
	command := &Command{
		Name:   "generate",
		Params: func() any { return &p },
		Run:    func(context.Context, []string, *slog.Logger) error { return nil },
	}

	err := command.Execute(context.Background(), []string{"--cbor-tga"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown flag")
	}
	for _, want := range []string{"cbor-tga", "did you mean --cbor-tag", "--help"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error = %q, want it to contain %q", err, want)
		}
	}
}

func TestCommand_Execute_UnknownSubcommand(t *testing.T) {
	var help bytes.Buffer
	root := &Command{
		Name:   "swidtree",
		Output: &help,
		Subcommands: []*Command{
			{Name: "generate"},
			{Name: "inspect"},
		},
	}

	err := root.Execute(context.Background(), []string{"genrate"})
	if err == nil || !strings.Contains(err.Error(), `did you mean "generate"`) {
		t.Errorf("error = %v, want suggestion for generate", err)
	}

	err = root.Execute(context.Background(), []string{"zzzzzzz"})
	if err == nil || strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error = %v, want no suggestion", err)
	}
}

func TestCommand_Execute_HelpAndMissingSubcommand(t *testing.T) {
	for _, helpArg := range []string{"-h", "--help", "help"} {
		t.Run(helpArg, func(t *testing.T) {
			var help bytes.Buffer
			root := &Command{
				Name:        "swidtree",
				Output:      &help,
				Subcommands: []*Command{{Name: "generate", Summary: "Generate a tag"}},
			}
			if err := root.Execute(context.Background(), []string{helpArg}); err != nil {
				t.Errorf("Execute(%q) error: %v", helpArg, err)
			}
			if !strings.Contains(help.String(), "Generate a tag") {
				t.Errorf("help output = %q", help.String())
			}
		})
	}

	var help bytes.Buffer
	root := &Command{
		Name:        "swidtree",
		Output:      &help,
		Subcommands: []*Command{{Name: "generate"}},
	}
	err := root.Execute(context.Background(), nil)
	if err == nil || !strings.Contains(err.Error(), "subcommand required") {
		t.Errorf("error = %v, want subcommand required", err)
	}
}

func TestCommand_Execute_SubcommandInheritsOutput(t *testing.T) {
	var help bytes.Buffer
	root := &Command{
		Name:   "swidtree",
		Output: &help,
		Subcommands: []*Command{{
			Name:    "refs",
			Summary: "List refs",
			Run:     func(context.Context, []string, *slog.Logger) error { return nil },
		}},
	}

	if err := root.Execute(context.Background(), []string{"refs", "--help"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !strings.Contains(help.String(), "swidtree refs") {
		t.Errorf("help output = %q, want full command name", help.String())
	}
}

func TestCommand_PrintHelp(t *testing.T) {
	type params struct {
		Sort string `flag:"sort" desc:"child order: store or name" default:"store"`
	}
	command := &Command{
		Name:        "generate",
		Description: "Generate a CoSWID tag for a committed tree.",
		Usage:       "swidtree generate STORE REF OUTPUT",
		Params:      func() any { return &params{} },
		Examples: []Example{{
			Description: "Write a tag to stdout",
			Command:     "swidtree generate /srv/repo fedora/stable -",
		}},
	}

	var buffer bytes.Buffer
	command.PrintHelp(&buffer)
	output := buffer.String()

	for _, want := range []string{
		"Generate a CoSWID tag",
		"Usage:",
		"swidtree generate STORE REF OUTPUT",
		"Flags:",
		"--sort",
		"child order",
		"Examples:",
		"# Write a tag to stdout",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("help output missing %q\n\nFull output:\n%s", want, output)
		}
	}
}

func TestExactArgs(t *testing.T) {
	if err := ExactArgs([]string{"a", "b"}, 2, "x A B"); err != nil {
		t.Errorf("ExactArgs: %v", err)
	}
	err := ExactArgs([]string{"a"}, 2, "x A B")
	if err == nil || !strings.Contains(err.Error(), "expected 2 argument(s), got 1") {
		t.Errorf("error = %v", err)
	}
}

func TestExitError(t *testing.T) {
	var err error = &ExitError{Code: 3}
	coder, ok := err.(interface{ ExitCode() int })
	if !ok || coder.ExitCode() != 3 {
		t.Errorf("ExitError does not report code 3")
	}
	if err.Error() != "exit code 3" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestNewLogger(t *testing.T) {
	var buffer bytes.Buffer
	newLogger(&buffer, false, slog.LevelInfo).Info("walked", "files", 3)
	if !strings.HasPrefix(buffer.String(), "{") || !strings.Contains(buffer.String(), `"files":3`) {
		t.Errorf("non-terminal output should be JSON, got %q", buffer.String())
	}

	buffer.Reset()
	logger := newLogger(&buffer, true, slog.LevelInfo)
	logger.Debug("hidden")
	logger.Info("walked", "files", 3)
	if strings.Contains(buffer.String(), "hidden") {
		t.Error("debug record emitted at info level")
	}
	if !strings.Contains(buffer.String(), "files=3") {
		t.Errorf("terminal output should be text, got %q", buffer.String())
	}

	if IsTerminal(&buffer) {
		t.Error("bytes.Buffer reported as terminal")
	}
}
