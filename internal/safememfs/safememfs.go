// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package safememfs provides a thread-safe in-memory billy filesystem whose
// file locks exclude each other, standing in for osfs in concurrency tests.
package safememfs

import (
	"os"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
)

// locks holds one mutex per locked path. Entries are never removed.
type locks struct {
	mu    sync.Mutex
	paths map[string]*sync.Mutex
}

func (l *locks) get(path string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.paths[path]
	if !ok {
		m = &sync.Mutex{}
		l.paths[path] = m
	}
	return m
}

// SafeMemory serialises access to a memfs.Memory.
type SafeMemory struct {
	fs billy.Filesystem
	// mu guards the memfs maps. File contents are guarded by the memfs file itself.
	mu    *sync.Mutex
	locks *locks
	root  string
}

// New creates a new thread-safe in-memory filesystem.
func New() *SafeMemory {
	return &SafeMemory{
		fs:    memfs.New(),
		mu:    &sync.Mutex{},
		locks: &locks{paths: make(map[string]*sync.Mutex)},
		root:  "/",
	}
}

func (s *SafeMemory) Chroot(path string) (billy.Filesystem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	newFs, err := s.fs.Chroot(path)
	if err != nil {
		return nil, err
	}
	return &SafeMemory{fs: newFs, mu: s.mu, locks: s.locks, root: s.fs.Join(s.root, path)}, nil
}

func (s *SafeMemory) Root() string {
	return s.root
}

func (s *SafeMemory) OpenFile(filename string, flag int, perm os.FileMode) (billy.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.fs.OpenFile(filename, flag, perm)
	if err != nil {
		return nil, err
	}
	return &file{File: f, lock: s.locks.get(s.fs.Join(s.root, filename))}, nil
}

func (s *SafeMemory) Create(filename string) (billy.File, error) {
	return s.OpenFile(filename, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0666)
}

func (s *SafeMemory) Open(filename string) (billy.File, error) {
	return s.OpenFile(filename, os.O_RDONLY, 0)
}

func (s *SafeMemory) MkdirAll(path string, perm os.FileMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fs.MkdirAll(path, perm)
}

func (s *SafeMemory) Rename(from, to string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fs.Rename(from, to)
}

func (s *SafeMemory) Remove(filename string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fs.Remove(filename)
}

func (s *SafeMemory) Symlink(target, link string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fs.Symlink(target, link)
}

func (s *SafeMemory) TempFile(dir, prefix string) (billy.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.fs.TempFile(dir, prefix)
	if err != nil {
		return nil, err
	}
	return &file{File: f, lock: s.locks.get(s.fs.Join(s.root, f.Name()))}, nil
}

func (s *SafeMemory) Stat(filename string) (os.FileInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fs.Stat(filename)
}

func (s *SafeMemory) Lstat(filename string) (os.FileInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fs.Lstat(filename)
}

func (s *SafeMemory) ReadDir(path string) ([]os.FileInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fs.ReadDir(path)
}

func (s *SafeMemory) Readlink(link string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fs.Readlink(link)
}

func (s *SafeMemory) Join(elem ...string) string {
	return s.fs.Join(elem...)
}

// file makes Lock and Unlock exclusive across every handle to the same path.
type file struct {
	billy.File
	lock *sync.Mutex
}

func (f *file) Lock() error {
	f.lock.Lock()
	return nil
}

func (f *file) Unlock() error {
	f.lock.Unlock()
	return nil
}

var _ billy.Filesystem = (*SafeMemory)(nil)
