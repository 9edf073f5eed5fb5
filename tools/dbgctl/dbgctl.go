// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

// dbgctl inspects and prepares the debugger toolkit used by the engine bindings.
package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/google/dbgboot/tools/dbgctl/command/cachebuild"
	"github.com/google/dbgboot/tools/dbgctl/command/cacheclear"
	"github.com/google/dbgboot/tools/dbgctl/command/cachestatus"
	"github.com/google/dbgboot/tools/dbgctl/command/locate"
	"github.com/google/dbgboot/tools/dbgctl/command/preload"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dbgctl",
	Short: "Locate, cache, and preload the Windows debugger toolkit",
	// Errors are printed by main.
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.AddCommand(locate.Command())
	rootCmd.AddCommand(preload.Command())
	rootCmd.AddCommand(cachestatus.Command())
	rootCmd.AddCommand(cacheclear.Command())
	rootCmd.AddCommand(cachebuild.Command())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
