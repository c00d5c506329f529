// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package tools

import (
	coreerrors "github.com/kraklabs/ipuaro/internal/errors"
)

func requiredString(params map[string]any, name string) (string, error) {
	v, ok := params[name]
	if !ok {
		return "", coreerrors.Newf(coreerrors.KindValidation, "missing required parameter %q", name)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", coreerrors.Newf(coreerrors.KindValidation, "parameter %q must be a non-empty string", name)
	}
	return s, nil
}

func optionalString(params map[string]any, name, def string) string {
	v, ok := params[name]
	if !ok {
		return def
	}
	s, ok := v.(string)
	if !ok {
		return def
	}
	return s
}

func optionalBool(params map[string]any, name string, def bool) bool {
	v, ok := params[name]
	if !ok {
		return def
	}
	b, ok := v.(bool)
	if !ok {
		return def
	}
	return b
}

// optionalInt accepts both int and float64, since params typically arrive
// decoded from JSON where every number is a float64.
func optionalInt(params map[string]any, name string, def int) int {
	v, ok := params[name]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return def
	}
}

func requiredInt(params map[string]any, name string) (int, error) {
	v, ok := params[name]
	if !ok {
		return 0, coreerrors.Newf(coreerrors.KindValidation, "missing required parameter %q", name)
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	default:
		return 0, coreerrors.Newf(coreerrors.KindValidation, "parameter %q must be a number", name)
	}
}

func validateEnum(params map[string]any, name string, allowed []string) error {
	v, ok := params[name]
	if !ok {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return coreerrors.Newf(coreerrors.KindValidation, "parameter %q must be a string", name)
	}
	for _, a := range allowed {
		if s == a {
			return nil
		}
	}
	return coreerrors.Newf(coreerrors.KindValidation, "parameter %q must be one of %v, got %q", name, allowed, s)
}
