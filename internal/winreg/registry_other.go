// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

//go:build !windows

package winreg

import "github.com/pkg/errors"

type nativeRegistry struct{}

func (nativeRegistry) OpenKey(root Root, path string) (Key, error) {
	return nil, errors.Wrapf(ErrUnsupported, "opening %v\\%s", root, path)
}
