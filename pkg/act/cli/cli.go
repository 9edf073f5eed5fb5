// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"github.com/google/dbgboot/pkg/act"
	"github.com/spf13/cobra"
)

// Deps is implemented by dependency containers that write to the terminal.
type Deps interface {
	SetIO(IO)
}

// ParseArgs populates an Input from positional arguments.
type ParseArgs[I act.Input] func(in *I, args []string) error

// SkipArgs is a ParseArgs that sets no arguments.
func SkipArgs[I act.Input](*I, []string) error {
	return nil
}

// Render writes an action's output for a human.
type Render[O any] func(IO, *O) error

// RunE constructs a cobra.Command.RunE that parses arguments into cfg, runs
// the action with the command's streams attached, and renders its output.
// A nil render discards the output.
func RunE[I act.Input, O any, D Deps](
	cfg *I,
	parseArgs ParseArgs[I],
	initDeps act.InitDeps[D],
	action act.Action[I, O, D],
	render Render[O],
) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := parseArgs(cfg, args); err != nil {
			return err
		}
		cio := IO{In: cmd.InOrStdin(), Out: cmd.OutOrStdout(), Err: cmd.ErrOrStderr()}
		out, err := act.Run(cmd.Context(), *cfg, initDeps, func(d D) { d.SetIO(cio) }, action)
		if err != nil {
			return err
		}
		if render == nil || out == nil {
			return nil
		}
		return render(cio, out)
	}
}
