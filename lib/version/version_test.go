// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"runtime/debug"
	"strings"
	"testing"
)

func stubBuildInfo(t *testing.T, settings ...debug.BuildSetting) {
	t.Helper()
	original := readBuildInfo
	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{Settings: settings}, true
	}
	t.Cleanup(func() { readBuildInfo = original })
}

func setVar(t *testing.T, target *string, value string) {
	t.Helper()
	original := *target
	*target = value
	t.Cleanup(func() { *target = original })
}

func TestInfo_LdflagsWin(t *testing.T) {
	setVar(t, &GitCommit, "abc1234")
	setVar(t, &GitDirty, "true")
	setVar(t, &BuildTime, "2026-10-01T00:00:00Z")
	stubBuildInfo(t, debug.BuildSetting{Key: "vcs.revision", Value: "ffffffffffffffffffff"})

	want := Version + " (abc1234-dirty, 2026-10-01T00:00:00Z)"
	if got := Info(); got != want {
		t.Errorf("Info() = %q, want %q", got, want)
	}
}

func TestCommit_VCSFallback(t *testing.T) {
	setVar(t, &GitCommit, "unknown")
	stubBuildInfo(t,
		debug.BuildSetting{Key: "vcs.revision", Value: "0123456789abcdef0123"},
		debug.BuildSetting{Key: "vcs.modified", Value: "true"},
	)

	if got := Commit(); got != "0123456789ab" {
		t.Errorf("Commit() = %q, want 0123456789ab", got)
	}
	if !strings.Contains(Info(), "0123456789ab-dirty") {
		t.Errorf("Info() = %q, want dirty vcs revision", Info())
	}
}

func TestCommit_NoBuildInfo(t *testing.T) {
	setVar(t, &GitCommit, "unknown")
	original := readBuildInfo
	readBuildInfo = func() (*debug.BuildInfo, bool) { return nil, false }
	t.Cleanup(func() { readBuildInfo = original })

	if got := Commit(); got != "unknown" {
		t.Errorf("Commit() = %q, want unknown", got)
	}
}

func TestFull(t *testing.T) {
	full := Full()
	if !strings.HasPrefix(full, Info()) || !strings.Contains(full, "Go: ") {
		t.Errorf("Full() = %q", full)
	}
	if Short() != Version {
		t.Errorf("Short() = %q, want %q", Short(), Version)
	}
}
