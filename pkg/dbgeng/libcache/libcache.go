// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package libcache keeps a private, loadable copy of a store-installed toolkit.
//
// Store packages live in a directory whose libraries the current user may read
// but not load. The cache directory (by default %LOCALAPPDATA%\pybag_cache)
// holds copies of the toolkit libraries and a provenance file, version.txt,
// recording the exact source directory they came from. The store path embeds
// the package version, so a differing provenance means a new toolkit was
// installed and the cache is rebuilt in full.
//
// # Concurrency
//
// Ensure and Clear hold an advisory lock on a hidden sibling file
// (.<name>.lock) for their duration. No sibling other than staging and trash
// directories starts with the cache name. New caches are assembled in a staging sibling and renamed
// into place, so a crash mid-copy never leaves a partial cache behind under
// the final name. Leftover staging and trash siblings are swept on the next
// Ensure.
package libcache

import (
	"context"
	"io/fs"
	"log"
	"os"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/google/dbgboot/internal/billyx"
	"github.com/google/dbgboot/pkg/dbgeng"
	"github.com/google/dbgboot/pkg/dbgeng/config"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ProvenanceFile is the name of the file recording a cache's source directory.
const ProvenanceFile = "version.txt"

const (
	stagingInfix = ".tmp-"
	trashInfix   = ".old-"
	lockPrefix   = "."
	lockSuffix   = ".lock"
)

// ErrCorrupt matches errors for a cache directory that exists without a
// readable provenance file. Such a cache is not rebuilt automatically.
var ErrCorrupt = errors.New("library cache is corrupt")

// CorruptError describes a corrupt cache directory.
type CorruptError struct {
	Dir string
	Err error
}

func (e *CorruptError) Error() string {
	return "library cache " + e.Dir + " is corrupt: " + e.Err.Error()
}

func (e *CorruptError) Unwrap() error { return e.Err }

func (e *CorruptError) Is(target error) bool { return target == ErrCorrupt }

// Manager owns one cache directory.
type Manager struct {
	// FS addresses both the source install and the cache by absolute path.
	FS billy.Filesystem
	// Root is the parent directory of the cache.
	Root string
	// Name is the cache directory's name under Root.
	Name   string
	Logger *log.Logger
}

// New returns a Manager for the cache configured in cfg on the host filesystem.
func New(cfg config.Config) (*Manager, error) {
	root, err := cfg.CacheDirRoot()
	if err != nil {
		return nil, err
	}
	return &Manager{FS: billyx.Host(), Root: root, Name: cfg.CacheName, Logger: log.Default()}, nil
}

// Dir returns the cache directory path.
func (m *Manager) Dir() string {
	return m.FS.Join(m.Root, m.Name)
}

func (m *Manager) logf(format string, args ...any) {
	if m.Logger != nil {
		m.Logger.Printf(format, args...)
	}
}

// lock takes the advisory cache lock and returns its release function.
func (m *Manager) lock() (func(), error) {
	if err := m.FS.MkdirAll(m.Root, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating %s", m.Root)
	}
	path := m.FS.Join(m.Root, lockPrefix+m.Name+lockSuffix)
	f, err := m.FS.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, errors.Wrapf(err, "opening lock %s", path)
	}
	if err := f.Lock(); err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "locking %s", path)
	}
	return func() {
		f.Unlock()
		f.Close()
	}, nil
}

// Ensure returns a cache directory holding the libraries of source, creating
// or rebuilding it as needed. A fresh cache is returned untouched.
func (m *Manager) Ensure(ctx context.Context, source string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	unlock, err := m.lock()
	if err != nil {
		return "", err
	}
	defer unlock()
	m.sweep()
	dir := m.Dir()
	info, err := m.FS.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		m.logf("Creating library cache %s from %s", dir, source)
		if err := m.build(source, dir); err != nil {
			return "", err
		}
		return dir, nil
	} else if err != nil {
		return "", errors.Wrapf(err, "checking %s", dir)
	}
	if !info.IsDir() {
		return "", &CorruptError{Dir: dir, Err: errors.New("not a directory")}
	}
	recorded, err := m.provenance(dir)
	if err != nil {
		return "", err
	}
	if recorded == source {
		return dir, nil
	}
	m.logf("Library cache %s is stale (built from %s), rebuilding from %s", dir, recorded, source)
	trash := m.FS.Join(m.Root, m.Name+trashInfix+uuid.NewString())
	if err := m.FS.Rename(dir, trash); err != nil {
		return "", errors.Wrapf(err, "moving aside stale cache %s", dir)
	}
	if err := m.build(source, dir); err != nil {
		return "", err
	}
	if err := util.RemoveAll(m.FS, trash); err != nil {
		m.logf("Failed to remove stale cache %s: %v", trash, err)
	}
	return dir, nil
}

// build copies the libraries of source into a staging directory and renames it to dir.
func (m *Manager) build(source, dir string) error {
	staging := m.FS.Join(m.Root, m.Name+stagingInfix+uuid.NewString())
	if err := m.FS.MkdirAll(staging, 0o755); err != nil {
		return errors.Wrapf(err, "creating %s", staging)
	}
	err := func() error {
		if err := billyx.CopyFiles(m.FS, staging, m.FS, source, dbgeng.Libraries...); err != nil {
			return errors.Wrap(err, "copying libraries")
		}
		if err := util.WriteFile(m.FS, m.FS.Join(staging, ProvenanceFile), []byte(source), 0o644); err != nil {
			return errors.Wrap(err, "writing provenance")
		}
		return errors.Wrapf(m.FS.Rename(staging, dir), "renaming %s to %s", staging, dir)
	}()
	if err != nil {
		if rmErr := util.RemoveAll(m.FS, staging); rmErr != nil {
			m.logf("Failed to remove staging directory %s: %v", staging, rmErr)
		}
		return err
	}
	return nil
}

func (m *Manager) provenance(dir string) (string, error) {
	b, err := billyx.ReadFile(m.FS, m.FS.Join(dir, ProvenanceFile))
	if err != nil {
		return "", &CorruptError{Dir: dir, Err: err}
	}
	return string(b), nil
}

// sweep removes staging and trash siblings left by interrupted runs. Callers hold the lock.
func (m *Manager) sweep() {
	entries, err := m.FS.ReadDir(m.Root)
	if err != nil {
		return
	}
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, m.Name+stagingInfix) && !strings.HasPrefix(name, m.Name+trashInfix) {
			continue
		}
		m.logf("Removing leftover %s", name)
		if err := util.RemoveAll(m.FS, m.FS.Join(m.Root, name)); err != nil {
			m.logf("Failed to remove %s: %v", name, err)
		}
	}
}

// Status describes the cache directory.
type Status struct {
	Dir    string
	Exists bool
	// Source is the recorded provenance. Empty if unreadable.
	Source string
	// SourceErr is set when the cache exists but its provenance cannot be read.
	SourceErr error
	Present   []string
	Missing   []string
}

// Status inspects the cache without modifying it.
func (m *Manager) Status(ctx context.Context) (*Status, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := &Status{Dir: m.Dir()}
	if _, err := m.FS.Stat(s.Dir); errors.Is(err, fs.ErrNotExist) {
		return s, nil
	} else if err != nil {
		return nil, errors.Wrapf(err, "checking %s", s.Dir)
	}
	s.Exists = true
	s.Source, s.SourceErr = m.provenance(s.Dir)
	for _, lib := range dbgeng.Libraries {
		if billyx.Exists(m.FS, m.FS.Join(s.Dir, lib)) {
			s.Present = append(s.Present, lib)
		} else {
			s.Missing = append(s.Missing, lib)
		}
	}
	return s, nil
}

// Clear removes the cache directory, if any.
func (m *Manager) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	unlock, err := m.lock()
	if err != nil {
		return err
	}
	defer unlock()
	dir := m.Dir()
	if err := util.RemoveAll(m.FS, dir); err != nil {
		return errors.Wrapf(err, "removing %s", dir)
	}
	m.logf("Removed library cache %s", dir)
	return nil
}
