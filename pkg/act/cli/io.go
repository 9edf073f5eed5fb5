// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package cli exposes act actions as cobra commands.
package cli

import "io"

// IO provides input/output streams for CLI commands.
type IO struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}
