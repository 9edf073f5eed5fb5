// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package locate finds the directory of an installed debugging toolkit.
//
// Sources are probed in a fixed order and the first existing directory wins:
//
//  1. The override environment variable (WINDBG_DIR).
//  2. The Windows Kits root recorded in HKLM.
//  3. The default Windows Kits install roots.
//  4. Store (WinDbg app) packages recorded in HKCR.
//
// A probe that errors is logged and skipped. Only exhausting every probe is fatal.
package locate

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/google/dbgboot/internal/billyx"
	"github.com/google/dbgboot/internal/winreg"
	"github.com/google/dbgboot/pkg/dbgeng/config"
	"github.com/pkg/errors"
)

// ErrNotFound is returned when no source yields an existing directory.
var ErrNotFound = errors.New("windbg install directory not found")

// Source identifies the probe that produced a Resolution.
type Source string

const (
	SourceOverride    Source = "override"
	SourceKitsRoot    Source = "kits-root"
	SourceDefaultRoot Source = "default-root"
	SourceStore       Source = "store"
)

// Resolution is a located toolkit directory.
type Resolution struct {
	Dir    string
	Source Source
}

// Locator probes the host for a toolkit install.
type Locator struct {
	Config   config.Config
	FS       billy.Basic
	Registry winreg.Registry
	Getenv   func(string) string
	Logger   *log.Logger
	// arch is fixed at construction so that every probe qualifies paths the same way.
	arch Arch
}

// New returns a Locator that probes the host filesystem and registry.
func New(cfg config.Config) *Locator {
	return &Locator{
		Config:   cfg,
		FS:       billyx.Host(),
		Registry: winreg.Native(),
		Getenv:   os.Getenv,
		Logger:   log.Default(),
		arch:     CurrentArch(),
	}
}

// WithArch returns a copy of l that qualifies paths for a.
func (l *Locator) WithArch(a Arch) *Locator {
	c := *l
	c.arch = a
	return &c
}

// Arch returns the architecture the Locator qualifies paths for.
func (l *Locator) Arch() Arch {
	if l.arch == "" {
		return CurrentArch()
	}
	return l.arch
}

func (l *Locator) logf(format string, args ...any) {
	if l.Logger != nil {
		l.Logger.Printf(format, args...)
	}
}

func (l *Locator) exists(path string) bool {
	return path != "" && billyx.Exists(l.FS, path)
}

// Locate returns the first toolkit directory found, or ErrNotFound.
func (l *Locator) Locate(ctx context.Context) (*Resolution, error) {
	probes := []struct {
		source Source
		probe  func(context.Context) (string, error)
	}{
		{SourceOverride, l.fromOverride},
		{SourceKitsRoot, l.fromKitsRoot},
		{SourceDefaultRoot, l.fromDefaultRoots},
		{SourceStore, l.FindStoreInstall},
	}
	for _, p := range probes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		dir, err := p.probe(ctx)
		if err != nil {
			l.logf("Skipping %s probe: %v", p.source, err)
			continue
		}
		if dir != "" {
			l.logf("Found toolkit via %s: %s", p.source, dir)
			return &Resolution{Dir: dir, Source: p.source}, nil
		}
	}
	return nil, ErrNotFound
}

func (l *Locator) fromOverride(context.Context) (string, error) {
	if l.Config.OverrideEnv == "" || l.Getenv == nil {
		return "", nil
	}
	dir := l.Getenv(l.Config.OverrideEnv)
	if dir == "" {
		return "", nil
	}
	if !l.exists(dir) {
		l.logf("%s=%s does not exist, ignoring", l.Config.OverrideEnv, dir)
		return "", nil
	}
	return dir, nil
}

func (l *Locator) fromKitsRoot(context.Context) (string, error) {
	k, err := l.Registry.OpenKey(winreg.LocalMachine, l.Config.KitsRootKey)
	if errors.Is(err, winreg.ErrNotExist) {
		return "", nil
	} else if err != nil {
		return "", err
	}
	defer k.Close()
	root, err := k.StringValue(l.Config.KitsRootValue)
	if errors.Is(err, winreg.ErrNotExist) {
		return "", nil
	} else if err != nil {
		return "", err
	}
	if dir := l.Arch().DebuggersDir(root); l.exists(dir) {
		return dir, nil
	}
	return "", nil
}

func (l *Locator) fromDefaultRoots(context.Context) (string, error) {
	for _, root := range l.Config.DefaultRoots {
		if dir := l.Arch().DebuggersDir(root); l.exists(dir) {
			return dir, nil
		}
	}
	return "", nil
}

// FindStoreInstall enumerates the store package repository and returns the
// first matching package directory that exists, or "" if there is none.
func (l *Locator) FindStoreInstall(ctx context.Context) (string, error) {
	k, err := l.Registry.OpenKey(winreg.ClassesRoot, l.Config.PackagesKey)
	if errors.Is(err, winreg.ErrNotExist) {
		return "", nil
	} else if err != nil {
		return "", err
	}
	defer k.Close()
	for i := uint32(0); ; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		name, err := k.SubkeyName(i)
		if errors.Is(err, winreg.ErrNoMoreItems) {
			return "", nil
		} else if err != nil {
			return "", err
		}
		if !l.isToolkitPackage(name) {
			continue
		}
		if dir := l.Arch().PackageDir(filepath.Join(l.Config.StoreAppsRoot, name)); l.exists(dir) {
			return dir, nil
		}
	}
}

func (l *Locator) isToolkitPackage(name string) bool {
	if !strings.Contains(name, l.Config.PackageMatch) {
		return false
	}
	return l.Config.PackageExclude == "" || !strings.Contains(name, l.Config.PackageExclude)
}
