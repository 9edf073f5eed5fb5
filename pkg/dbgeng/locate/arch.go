// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

package locate

import (
	"path/filepath"
	"strconv"
)

// Arch is the pointer width class of the process, which decides which build
// of the toolkit can be loaded.
type Arch string

const (
	AMD64 Arch = "amd64"
	X86   Arch = "x86"
)

// CurrentArch returns the architecture of the running process.
func CurrentArch() Arch {
	if strconv.IntSize == 64 {
		return AMD64
	}
	return X86
}

// DebuggersDir qualifies a kits root, e.g. <root>\Debuggers\x64.
func (a Arch) DebuggersDir(root string) string {
	if a == AMD64 {
		return filepath.Join(root, "Debuggers", "x64")
	}
	return filepath.Join(root, "Debuggers", "x86")
}

// PackageDir qualifies a store package directory, e.g. <pkg>\amd64.
func (a Arch) PackageDir(pkg string) string {
	return filepath.Join(pkg, string(a))
}
