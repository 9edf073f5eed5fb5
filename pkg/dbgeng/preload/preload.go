// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package preload loads the toolkit libraries into the process in dependency order.
//
// Libraries are loaded by absolute path before any engine code runs so that
// the loader binds the toolkit's own builds rather than same-named system
// copies found elsewhere on the search path.
package preload

import (
	"context"
	"log"
	"path/filepath"

	"github.com/google/dbgboot/internal/cache"
	"github.com/google/dbgboot/pkg/dbgeng"
	"github.com/pkg/errors"
)

// ErrUnsupported is returned by the native Loader on platforms that cannot load the toolkit.
var ErrUnsupported = errors.New("loading debugger libraries is not supported on this platform")

// Handle is a loaded module handle.
type Handle uintptr

// Loader loads and releases native libraries.
type Loader interface {
	Load(path string) (Handle, error)
	Release(Handle) error
}

// Result describes the libraries resident after a successful Preload.
type Result struct {
	Dir    string
	Model  Handle
	Help   Handle
	Engine Handle
	// ModelAvailable is false when the optional data model library failed to
	// load. Data model features must be treated as unavailable.
	ModelAvailable bool
	ModelErr       error
}

// Preloader loads toolkit directories. Loaded libraries stay resident for the
// life of the process and repeated loads of the same path reuse the handle.
type Preloader struct {
	Loader Loader
	Logger *log.Logger
	loaded cache.Coalescing[string, Handle]
}

// New returns a Preloader using the native loader.
func New() *Preloader {
	return &Preloader{Loader: NativeLoader(), Logger: log.Default()}
}

func (p *Preloader) logf(format string, args ...any) {
	if p.Logger != nil {
		p.Logger.Printf(format, args...)
	}
}

// load returns the handle for path and whether this call performed the load.
func (p *Preloader) load(path string) (h Handle, fresh bool, err error) {
	h, err = p.loaded.GetOrSet(path, func() (Handle, error) {
		fresh = true
		return p.Loader.Load(path)
	})
	return h, fresh, err
}

// Preload loads the libraries of dir in dbgeng.LoadOrder. A model load failure
// is recorded in the Result. A help or engine failure is returned and any
// library loaded during this call is released.
func (p *Preloader) Preload(ctx context.Context, dir string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r := &Result{Dir: dir}
	var taken []string
	for _, lib := range dbgeng.LoadOrder {
		path := filepath.Join(dir, lib)
		h, fresh, err := p.load(path)
		if err != nil && lib == dbgeng.ModelLibrary {
			r.ModelErr = err
			p.logf("Data model unavailable, %s failed to load: %v", path, err)
			continue
		}
		if err != nil {
			p.release(taken)
			return nil, errors.Wrapf(err, "loading %s", path)
		}
		if fresh {
			taken = append(taken, path)
		}
		switch lib {
		case dbgeng.ModelLibrary:
			r.Model, r.ModelAvailable = h, true
		case dbgeng.HelpLibrary:
			r.Help = h
		case dbgeng.EngineLibrary:
			r.Engine = h
		}
	}
	return r, nil
}

// release unloads and forgets paths.
func (p *Preloader) release(paths []string) {
	for _, path := range paths {
		h, err := p.loaded.Get(path)
		if err != nil {
			continue
		}
		p.loaded.Del(path)
		if err := p.Loader.Release(h); err != nil {
			p.logf("Failed to release %s: %v", path, err)
		}
	}
}

// Loaded returns the paths currently held by p.
func (p *Preloader) Loaded() []string {
	return p.loaded.Keys()
}
