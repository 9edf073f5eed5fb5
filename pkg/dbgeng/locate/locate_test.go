// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

package locate

import (
	"context"
	"io"
	"log"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/google/dbgboot/internal/winreg"
	"github.com/google/dbgboot/internal/winreg/winregtest"
	"github.com/google/dbgboot/pkg/dbgeng/config"
	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

const (
	storeRoot  = "/WindowsApps"
	neutralPkg = "Microsoft.WinDbg_1.2402.24001.0_neutral_~_8wekyb3d8bbwe"
	x64Pkg     = "Microsoft.WinDbg_1.2402.24001.0_x64__8wekyb3d8bbwe"
)

type fixture struct {
	fs  billy.Filesystem
	reg *winregtest.Registry
	env map[string]string
	cfg config.Config
}

func newFixture() *fixture {
	cfg := config.Default()
	cfg.DefaultRoots = []string{"/ProgramFiles/Windows Kits/10", "/ProgramFilesX86/Windows Kits/10"}
	cfg.StoreAppsRoot = storeRoot
	return &fixture{fs: memfs.New(), reg: &winregtest.Registry{}, env: map[string]string{}, cfg: cfg}
}

func (f *fixture) mkdir(t *testing.T, path string) string {
	t.Helper()
	if err := f.fs.MkdirAll(path, 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func (f *fixture) locator() *Locator {
	return (&Locator{
		Config:   f.cfg,
		FS:       f.fs,
		Registry: f.reg,
		Getenv:   func(k string) string { return f.env[k] },
		Logger:   log.New(io.Discard, "", 0),
	}).WithArch(AMD64)
}

func TestLocate(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, f *fixture)
		want  *Resolution
	}{
		{
			name: "override wins",
			setup: func(t *testing.T, f *fixture) {
				f.env["WINDBG_DIR"] = f.mkdir(t, "/custom/dbg")
				f.reg.SetValue(winreg.LocalMachine, f.cfg.KitsRootKey, "KitsRoot10", "/kits")
				f.mkdir(t, "/kits/Debuggers/x64")
			},
			want: &Resolution{Dir: "/custom/dbg", Source: SourceOverride},
		},
		{
			name: "missing override falls through",
			setup: func(t *testing.T, f *fixture) {
				f.env["WINDBG_DIR"] = "/does/not/exist"
				f.mkdir(t, "/ProgramFiles/Windows Kits/10/Debuggers/x64")
			},
			want: &Resolution{Dir: "/ProgramFiles/Windows Kits/10/Debuggers/x64", Source: SourceDefaultRoot},
		},
		{
			name: "kits root beats defaults",
			setup: func(t *testing.T, f *fixture) {
				f.reg.SetValue(winreg.LocalMachine, f.cfg.KitsRootKey, "KitsRoot10", "/kits")
				f.mkdir(t, "/kits/Debuggers/x64")
				f.mkdir(t, "/ProgramFiles/Windows Kits/10/Debuggers/x64")
			},
			want: &Resolution{Dir: "/kits/Debuggers/x64", Source: SourceKitsRoot},
		},
		{
			name: "kits root without arch dir falls through",
			setup: func(t *testing.T, f *fixture) {
				f.reg.SetValue(winreg.LocalMachine, f.cfg.KitsRootKey, "KitsRoot10", "/kits")
				f.mkdir(t, "/kits/Debuggers/x86")
				f.mkdir(t, "/ProgramFilesX86/Windows Kits/10/Debuggers/x64")
			},
			want: &Resolution{Dir: "/ProgramFilesX86/Windows Kits/10/Debuggers/x64", Source: SourceDefaultRoot},
		},
		{
			name: "second default root",
			setup: func(t *testing.T, f *fixture) {
				f.mkdir(t, "/ProgramFilesX86/Windows Kits/10/Debuggers/x64")
			},
			want: &Resolution{Dir: "/ProgramFilesX86/Windows Kits/10/Debuggers/x64", Source: SourceDefaultRoot},
		},
		{
			name: "store install used directly",
			setup: func(t *testing.T, f *fixture) {
				f.reg.AddSubkeys(winreg.ClassesRoot, f.cfg.PackagesKey, "Microsoft.WindowsCalculator_11.0_x64__8wekyb3d8bbwe", x64Pkg)
				f.mkdir(t, filepath.Join(storeRoot, x64Pkg, "amd64"))
			},
			want: &Resolution{Dir: filepath.Join(storeRoot, x64Pkg, "amd64"), Source: SourceStore},
		},
		{
			name: "registry failure falls through",
			setup: func(t *testing.T, f *fixture) {
				f.reg.Err = errors.New("access denied")
				f.mkdir(t, "/ProgramFiles/Windows Kits/10/Debuggers/x64")
			},
			want: &Resolution{Dir: "/ProgramFiles/Windows Kits/10/Debuggers/x64", Source: SourceDefaultRoot},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tt.setup(t, f)
			got, err := f.locator().Locate(context.Background())
			if err != nil {
				t.Fatalf("Locate() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Locate() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLocateOverrideSkipsRegistry(t *testing.T) {
	f := newFixture()
	f.env["WINDBG_DIR"] = f.mkdir(t, "/custom/dbg")
	if _, err := f.locator().Locate(context.Background()); err != nil {
		t.Fatalf("Locate() error = %v", err)
	}
	if len(f.reg.Opened) != 0 {
		t.Errorf("registry consulted: %v", f.reg.Opened)
	}
}

func TestLocateNotFound(t *testing.T) {
	f := newFixture()
	f.reg.AddSubkeys(winreg.ClassesRoot, f.cfg.PackagesKey, x64Pkg)
	_, err := f.locator().Locate(context.Background())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Locate() error = %v, want ErrNotFound", err)
	}
	if err.Error() != "windbg install directory not found" {
		t.Errorf("Locate() message = %q", err.Error())
	}
}

func TestLocateCanceled(t *testing.T) {
	f := newFixture()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := f.locator().Locate(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Locate() error = %v, want context.Canceled", err)
	}
}

func TestFindStoreInstallSkipsNeutral(t *testing.T) {
	f := newFixture()
	f.reg.AddSubkeys(winreg.ClassesRoot, f.cfg.PackagesKey, neutralPkg, x64Pkg)
	f.mkdir(t, filepath.Join(storeRoot, neutralPkg, "amd64"))
	f.mkdir(t, filepath.Join(storeRoot, x64Pkg, "amd64"))
	got, err := f.locator().FindStoreInstall(context.Background())
	if err != nil {
		t.Fatalf("FindStoreInstall() error = %v", err)
	}
	if want := filepath.Join(storeRoot, x64Pkg, "amd64"); got != want {
		t.Errorf("FindStoreInstall() = %q, want %q", got, want)
	}
}

func TestFindStoreInstallArch(t *testing.T) {
	f := newFixture()
	f.reg.AddSubkeys(winreg.ClassesRoot, f.cfg.PackagesKey, x64Pkg)
	f.mkdir(t, filepath.Join(storeRoot, x64Pkg, "x86"))
	got, err := f.locator().WithArch(X86).FindStoreInstall(context.Background())
	if err != nil {
		t.Fatalf("FindStoreInstall() error = %v", err)
	}
	if want := filepath.Join(storeRoot, x64Pkg, "x86"); got != want {
		t.Errorf("FindStoreInstall() = %q, want %q", got, want)
	}
	got, err = f.locator().FindStoreInstall(context.Background())
	if err != nil || got != "" {
		t.Errorf("FindStoreInstall() for amd64 = %q, %v; want empty", got, err)
	}
}

func TestFindStoreInstallNoPackagesKey(t *testing.T) {
	f := newFixture()
	got, err := f.locator().FindStoreInstall(context.Background())
	if err != nil || got != "" {
		t.Errorf("FindStoreInstall() = %q, %v; want empty, nil", got, err)
	}
}

func TestArchDirs(t *testing.T) {
	if got, want := AMD64.DebuggersDir("/k"), filepath.Join("/k", "Debuggers", "x64"); got != want {
		t.Errorf("AMD64.DebuggersDir() = %q, want %q", got, want)
	}
	if got, want := X86.DebuggersDir("/k"), filepath.Join("/k", "Debuggers", "x86"); got != want {
		t.Errorf("X86.DebuggersDir() = %q, want %q", got, want)
	}
	if got, want := AMD64.PackageDir("/p"), filepath.Join("/p", "amd64"); got != want {
		t.Errorf("AMD64.PackageDir() = %q, want %q", got, want)
	}
}
