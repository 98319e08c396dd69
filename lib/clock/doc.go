// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source.
//
// swidtree only reads the wall clock when it stamps commits and ref
// records in the object store. Those timestamps end up in content
// addressed objects, so tests inject Fake() to make object ids
// reproducible:
//
//	c := clock.Fake(time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC))
//	repo, err := objstore.Init(dir, objstore.RepoConfig{}, objstore.WithClock(c))
//
// In production Real() returns time.Now.
package clock
