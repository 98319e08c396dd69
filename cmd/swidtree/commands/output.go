// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// stdoutName is the OUTPUT argument meaning standard output.
const stdoutName = "-"

// writeOutput sends write's bytes to stdout or to path. A file is
// replaced atomically: readers see either the old content or the
// complete new content, and a failed write leaves no partial file.
func writeOutput(path string, stdout io.Writer, write func(io.Writer) error) error {
	if path == stdoutName {
		return write(stdout)
	}

	directory := filepath.Dir(path)
	temporary, err := os.CreateTemp(directory, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temporary file in %s: %w", directory, err)
	}
	temporaryPath := temporary.Name()
	success := false
	defer func() {
		if !success {
			temporary.Close()
			os.Remove(temporaryPath)
		}
	}()

	if err := write(temporary); err != nil {
		return err
	}
	if err := temporary.Sync(); err != nil {
		return fmt.Errorf("syncing %s: %w", temporaryPath, err)
	}
	if err := temporary.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", temporaryPath, err)
	}
	if err := os.Chmod(temporaryPath, 0o644); err != nil {
		return fmt.Errorf("setting mode on %s: %w", temporaryPath, err)
	}
	if err := os.Rename(temporaryPath, path); err != nil {
		return fmt.Errorf("renaming into %s: %w", path, err)
	}
	success = true
	return nil
}

// readInput reads a whole file, or stdin when path is "-".
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == stdoutName {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}
