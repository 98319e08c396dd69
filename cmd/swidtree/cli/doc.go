// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for swidtree.
//
// The central type is [Command], which represents a named subcommand with
// optional nested [Command.Subcommands], a params struct whose tags
// become pflag flags (see [BindFlags]), and a Run function. Commands are
// assembled into a tree by the commands package and dispatched via
// [Command.Execute], which handles flag parsing, subcommand routing, and
// structured help output with examples.
//
// When a user types an unknown subcommand or flag, the framework computes
// Levenshtein edit distance against all known names and suggests the
// closest match (threshold: distance <= 3).
//
// Every Run receives a [log/slog] logger from [NewCommandLogger] that
// writes to the command's Output: text on a terminal, JSON otherwise. Params structs embedding
// [VerboseOutput] lower its level to debug with --verbose.
package cli
