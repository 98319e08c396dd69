// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads swidtree configuration files.
//
// A configuration file is chosen by an explicit path (the --config
// flag), then by the SWIDTREE_CONFIG environment variable. When
// neither is set the built-in defaults from [Default] apply. There is
// no directory search. Files ending in .json or .jsonc are read as
// JSON with comments; anything else is YAML.
//
// File values are layered over [Default], so a file only needs the
// keys it changes. Free-text tag fields expand ${VAR} and
// ${VAR:-default} from the environment after loading.
//
// Key exports:
//
//   - [Config] -- tag, walk, output, and store sections
//   - [Load] and [LoadFile] -- the two entry points for loading
//   - [Config.Metadata], [Config.WalkOptions], and
//     [Config.CompressionPolicy] -- conversions to the library types
package config
