// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package winreg provides read-only access to the Windows registry behind an
// interface so that callers can be exercised against a fake on any platform.
package winreg

import (
	"fmt"

	"github.com/pkg/errors"
)

// Root identifies one of the predefined registry hives.
type Root int

const (
	ClassesRoot Root = iota
	LocalMachine
	CurrentUser
)

func (r Root) String() string {
	switch r {
	case ClassesRoot:
		return "HKCR"
	case LocalMachine:
		return "HKLM"
	case CurrentUser:
		return "HKCU"
	default:
		return fmt.Sprintf("Root(%d)", int(r))
	}
}

var (
	// ErrNotExist is returned when a key or value is absent.
	ErrNotExist = errors.New("registry key or value does not exist")
	// ErrNoMoreItems is returned by Key.SubkeyName once the index passes the last subkey.
	ErrNoMoreItems = errors.New("no more registry items")
	// ErrUnsupported is returned on platforms without a registry.
	ErrUnsupported = errors.New("registry is not supported on this platform")
)

// Registry opens keys for reading.
type Registry interface {
	OpenKey(root Root, path string) (Key, error)
}

// Key is an open registry key.
type Key interface {
	// StringValue reads a REG_SZ or REG_EXPAND_SZ value. Expandable values are expanded.
	StringValue(name string) (string, error)
	// SubkeyName returns the name of the subkey at index, or ErrNoMoreItems.
	SubkeyName(index uint32) (string, error)
	Close() error
}

// Native returns the Registry of the host operating system.
func Native() Registry {
	return nativeRegistry{}
}
