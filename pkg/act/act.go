// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package act separates an operation's logic from the surface that invokes it.
// An action takes a validated input and a dependency container built per call.
package act

import (
	"context"

	"github.com/pkg/errors"
)

// Input is a validated input type.
type Input interface {
	Validate() error
}

// InitDeps builds an action's dependencies.
type InitDeps[D any] func(context.Context) (D, error)

// Action is a surface-agnostic operation.
type Action[I Input, O any, D any] func(context.Context, I, D) (*O, error)

// Run validates in, builds dependencies, attaches them with prepare (which may
// be nil), and executes action.
func Run[I Input, O any, D any](ctx context.Context, in I, initDeps InitDeps[D], prepare func(D), action Action[I, O, D]) (*O, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	deps, err := initDeps(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "initializing dependencies")
	}
	if prepare != nil {
		prepare(deps)
	}
	return action(ctx, in, deps)
}
