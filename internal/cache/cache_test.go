// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestCoalescing_GetOrSetDel(t *testing.T) {
	var c Coalescing[string, uintptr]
	val, err := c.GetOrSet("dbghelp.dll", func() (uintptr, error) { return 42, nil })
	if err != nil {
		t.Fatalf("GetOrSet() failed: %v", err)
	}
	if val != 42 {
		t.Fatalf("GetOrSet() returned %v, want 42", val)
	}
	val, err = c.Get("dbghelp.dll")
	if err != nil || val != 42 {
		t.Fatalf("Get() = %v, %v; want 42, nil", val, err)
	}
	if keys := c.Keys(); len(keys) != 1 || keys[0] != "dbghelp.dll" {
		t.Fatalf("Keys() = %v", keys)
	}
	c.Del("dbghelp.dll")
	if _, err := c.Get("dbghelp.dll"); err != ErrNotExist {
		t.Fatalf("Get() after Del error = %v, want ErrNotExist", err)
	}
}

func TestCoalescing_ErrorIsForgotten(t *testing.T) {
	var c Coalescing[string, int]
	foo := errors.New("foo")
	if _, err := c.GetOrSet("key", func() (int, error) { return 0, foo }); err != foo {
		t.Fatalf("GetOrSet() error = %v, want foo", err)
	}
	if _, err := c.Get("key"); err != ErrNotExist {
		t.Fatalf("Get() error = %v, want ErrNotExist", err)
	}
	val, err := c.GetOrSet("key", func() (int, error) { return 7, nil })
	if err != nil || val != 7 {
		t.Fatalf("GetOrSet() retry = %v, %v; want 7, nil", val, err)
	}
}

func TestCoalescing_ConcurrentFillsRunOnce(t *testing.T) {
	var c Coalescing[string, string]
	const count = 5
	var called atomic.Int32
	results := make(chan string, count)
	for range count {
		go func() {
			val, err := c.GetOrSet("key", func() (string, error) {
				called.Add(1)
				time.Sleep(100 * time.Millisecond)
				return "value", nil
			})
			if err != nil {
				results <- ""
			} else {
				results <- val
			}
		}()
	}
	for range count {
		if got := <-results; got != "value" {
			t.Fatalf("result = %q, want %q", got, "value")
		}
	}
	if n := called.Load(); n != 1 {
		t.Fatalf("fetch called %d times, want 1", n)
	}
}
