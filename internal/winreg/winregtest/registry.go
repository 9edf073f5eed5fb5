// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package winregtest provides an in-memory winreg.Registry for tests.
package winregtest

import (
	"sync"

	"github.com/google/dbgboot/internal/winreg"
	"github.com/pkg/errors"
)

type keyID struct {
	root winreg.Root
	path string
}

type key struct {
	values  map[string]string
	subkeys []string
}

// Registry is a fake registry. The zero value is an empty registry.
type Registry struct {
	mu   sync.Mutex
	keys map[keyID]*key
	// Opened records every OpenKey call in the form "<root>\<path>".
	Opened []string
	// Err, if set, is returned by every OpenKey call.
	Err error
}

func (r *Registry) ensure(root winreg.Root, path string) *key {
	if r.keys == nil {
		r.keys = make(map[keyID]*key)
	}
	id := keyID{root, path}
	k, ok := r.keys[id]
	if !ok {
		k = &key{values: make(map[string]string)}
		r.keys[id] = k
	}
	return k
}

// SetValue creates the key if necessary and sets a string value on it.
func (r *Registry) SetValue(root winreg.Root, path, name, value string) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure(root, path).values[name] = value
	return r
}

// AddSubkeys creates the key if necessary and appends subkeys in enumeration order.
func (r *Registry) AddSubkeys(root winreg.Root, path string, names ...string) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := r.ensure(root, path)
	k.subkeys = append(k.subkeys, names...)
	return r
}

// OpenKey implements winreg.Registry.
func (r *Registry) OpenKey(root winreg.Root, path string) (winreg.Key, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Opened = append(r.Opened, root.String()+`\`+path)
	if r.Err != nil {
		return nil, r.Err
	}
	k, ok := r.keys[keyID{root, path}]
	if !ok {
		return nil, errors.Wrapf(winreg.ErrNotExist, "opening %v\\%s", root, path)
	}
	// Snapshot so later mutation does not affect an open key.
	snap := &key{values: make(map[string]string, len(k.values)), subkeys: append([]string(nil), k.subkeys...)}
	for n, v := range k.values {
		snap.values[n] = v
	}
	return &openKey{key: snap}, nil
}

type openKey struct {
	*key
	closed bool
}

func (k *openKey) StringValue(name string) (string, error) {
	if k.closed {
		return "", errors.New("key closed")
	}
	v, ok := k.values[name]
	if !ok {
		return "", errors.Wrapf(winreg.ErrNotExist, "reading value %s", name)
	}
	return v, nil
}

func (k *openKey) SubkeyName(index uint32) (string, error) {
	if k.closed {
		return "", errors.New("key closed")
	}
	if int(index) >= len(k.subkeys) {
		return "", winreg.ErrNoMoreItems
	}
	return k.subkeys[index], nil
}

func (k *openKey) Close() error {
	k.closed = true
	return nil
}

var _ winreg.Registry = &Registry{}
