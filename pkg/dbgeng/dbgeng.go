// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package dbgeng names the native libraries of the Windows debugging engine.
//
// The subpackages find an installed toolkit (locate), keep a loadable copy of
// a store-installed toolkit (libcache), load the libraries into the process
// (preload), and tie those steps together (bootstrap).
package dbgeng

const (
	// ModelLibrary is the optional data model library. It is loaded first.
	ModelLibrary = "dbgmodel.dll"
	// HelpLibrary is the symbol helper library.
	HelpLibrary = "dbghelp.dll"
	// EngineLibrary is the debugger engine.
	EngineLibrary = "dbgeng.dll"
)

// Libraries lists every library a toolkit directory must provide.
var Libraries = []string{EngineLibrary, HelpLibrary, ModelLibrary}

// LoadOrder is the order in which libraries must be loaded into a process.
var LoadOrder = []string{ModelLibrary, HelpLibrary, EngineLibrary}
