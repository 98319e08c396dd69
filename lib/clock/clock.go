// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Clock abstracts the wall clock. Production code injects Real();
// tests inject Fake().
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}
