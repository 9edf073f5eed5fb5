// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package config defines where the toolkit is searched for and where its
// libraries are cached.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// FileEnv names the environment variable that may point at a config file.
const FileEnv = "DBGBOOT_CONFIG"

// Config controls toolkit discovery and caching.
type Config struct {
	// OverrideEnv names the environment variable holding an explicit install directory.
	OverrideEnv string `yaml:"override_env" toml:"override_env"`
	// KitsRootKey is the HKLM key holding the installed kits roots.
	KitsRootKey string `yaml:"kits_root_key" toml:"kits_root_key"`
	// KitsRootValue is the value under KitsRootKey naming the kits root.
	KitsRootValue string `yaml:"kits_root_value" toml:"kits_root_value"`
	// DefaultRoots are kits roots probed when the registry has none.
	DefaultRoots []string `yaml:"default_roots" toml:"default_roots"`
	// PackagesKey is the HKCR key whose subkeys name installed store packages.
	PackagesKey string `yaml:"packages_key" toml:"packages_key"`
	// StoreAppsRoot is where store packages are installed.
	StoreAppsRoot string `yaml:"store_apps_root" toml:"store_apps_root"`
	// PackageMatch must appear in a package name for it to be a candidate.
	PackageMatch string `yaml:"package_match" toml:"package_match"`
	// PackageExclude must not appear in a candidate package name.
	PackageExclude string `yaml:"package_exclude" toml:"package_exclude"`
	// CacheRoot is the parent of the cache directory. Empty means the user cache dir.
	CacheRoot string `yaml:"cache_root" toml:"cache_root"`
	// CacheName is the cache directory's name under CacheRoot.
	CacheName string `yaml:"cache_name" toml:"cache_name"`
	// AlwaysCacheStore loads store installs from the cache without trying them in place.
	AlwaysCacheStore bool `yaml:"always_cache_store" toml:"always_cache_store"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		OverrideEnv:   "WINDBG_DIR",
		KitsRootKey:   `SOFTWARE\Microsoft\Windows Kits\Installed Roots`,
		KitsRootValue: "KitsRoot10",
		DefaultRoots: []string{
			`C:\Program Files\Windows Kits\10`,
			`C:\Program Files (x86)\Windows Kits\10`,
		},
		PackagesKey:    `Local Settings\Software\Microsoft\Windows\CurrentVersion\AppModel\PackageRepository\Packages`,
		StoreAppsRoot:  `C:\Program Files\WindowsApps`,
		PackageMatch:   "WinDbg",
		PackageExclude: "_neutral_",
		CacheName:      "pybag_cache",
	}
}

// Validate ensures the configuration is usable.
func (c Config) Validate() error {
	switch {
	case c.KitsRootKey == "" || c.KitsRootValue == "":
		return errors.New("kits root key and value are required")
	case c.PackagesKey == "":
		return errors.New("packages key is required")
	case c.StoreAppsRoot == "":
		return errors.New("store apps root is required")
	case c.PackageMatch == "":
		return errors.New("package match is required")
	case c.CacheName == "":
		return errors.New("cache name is required")
	case strings.ContainsAny(c.CacheName, `/\`):
		return errors.Errorf("cache name %q must not contain a path separator", c.CacheName)
	}
	return nil
}

// CacheDirRoot returns CacheRoot, falling back to the per-user local cache
// directory (%LOCALAPPDATA% on Windows).
func (c Config) CacheDirRoot() (string, error) {
	if c.CacheRoot != "" {
		return c.CacheRoot, nil
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", errors.Wrap(err, "locating user cache directory")
	}
	return dir, nil
}

// Load reads a YAML or TOML file over the defaults. The format is chosen by extension.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "reading config")
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &cfg)
	case ".toml":
		err = toml.Unmarshal(b, &cfg)
	default:
		return cfg, errors.Errorf("unsupported config format %q", filepath.Ext(path))
	}
	if err != nil {
		return cfg, errors.Wrapf(err, "parsing %s", path)
	}
	return cfg, cfg.Validate()
}

// Resolve loads path if set, else the file named by FileEnv if set, else the defaults.
func Resolve(path string) (Config, error) {
	if path == "" {
		path = os.Getenv(FileEnv)
	}
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}
