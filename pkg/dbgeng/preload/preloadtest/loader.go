// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package preloadtest provides a recording preload.Loader for tests.
package preloadtest

import (
	"sync"

	"github.com/google/dbgboot/pkg/dbgeng/preload"
)

// Loader records loads and releases and fails paths listed in Errs.
type Loader struct {
	mu sync.Mutex
	// Errs maps absolute library paths to the error their load returns.
	Errs     map[string]error
	Loads    []string
	Released []preload.Handle
	next     preload.Handle
	handles  map[preload.Handle]string
}

// Load implements preload.Loader.
func (l *Loader) Load(path string) (preload.Handle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Loads = append(l.Loads, path)
	if err := l.Errs[path]; err != nil {
		return 0, err
	}
	if l.handles == nil {
		l.handles = make(map[preload.Handle]string)
	}
	l.next++
	l.handles[l.next] = path
	return l.next, nil
}

// Release implements preload.Loader.
func (l *Loader) Release(h preload.Handle) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Released = append(l.Released, h)
	delete(l.handles, h)
	return nil
}

// Resident returns the paths of loaded and unreleased libraries.
func (l *Loader) Resident() map[string]bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]bool, len(l.handles))
	for _, p := range l.handles {
		out[p] = true
	}
	return out
}

var _ preload.Loader = &Loader{}
