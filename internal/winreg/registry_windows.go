// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

//go:build windows

package winreg

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

// maxKeyNameLen is the registry's limit on key name length, in UTF-16 code units.
const maxKeyNameLen = 255

type nativeRegistry struct{}

func (r Root) hive() (registry.Key, error) {
	switch r {
	case ClassesRoot:
		return registry.CLASSES_ROOT, nil
	case LocalMachine:
		return registry.LOCAL_MACHINE, nil
	case CurrentUser:
		return registry.CURRENT_USER, nil
	}
	return 0, errors.Errorf("unknown registry root %v", r)
}

func (nativeRegistry) OpenKey(root Root, path string) (Key, error) {
	hive, err := root.hive()
	if err != nil {
		return nil, err
	}
	k, err := registry.OpenKey(hive, path, registry.QUERY_VALUE|registry.ENUMERATE_SUB_KEYS)
	if errors.Is(err, registry.ErrNotExist) {
		return nil, errors.Wrapf(ErrNotExist, "opening %v\\%s", root, path)
	} else if err != nil {
		return nil, errors.Wrapf(err, "opening %v\\%s", root, path)
	}
	return &nativeKey{k: k, name: root.String() + `\` + path}, nil
}

type nativeKey struct {
	k    registry.Key
	name string
}

func (n *nativeKey) StringValue(name string) (string, error) {
	val, typ, err := n.k.GetStringValue(name)
	if errors.Is(err, registry.ErrNotExist) {
		return "", errors.Wrapf(ErrNotExist, "reading %s\\%s", n.name, name)
	} else if err != nil {
		return "", errors.Wrapf(err, "reading %s\\%s", n.name, name)
	}
	if typ == registry.EXPAND_SZ {
		expanded, err := registry.ExpandString(val)
		if err != nil {
			return "", errors.Wrapf(err, "expanding %s\\%s", n.name, name)
		}
		return expanded, nil
	}
	return val, nil
}

func (n *nativeKey) SubkeyName(index uint32) (string, error) {
	buf := make([]uint16, maxKeyNameLen+1)
	size := uint32(len(buf))
	err := windows.RegEnumKeyEx(windows.Handle(n.k), index, &buf[0], &size, nil, nil, nil, nil)
	if errors.Is(err, windows.ERROR_NO_MORE_ITEMS) {
		return "", ErrNoMoreItems
	} else if err != nil {
		return "", errors.Wrapf(err, "enumerating %s[%d]", n.name, index)
	}
	return windows.UTF16ToString(buf[:size]), nil
}

func (n *nativeKey) Close() error {
	return n.k.Close()
}
