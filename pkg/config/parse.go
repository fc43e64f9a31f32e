package config

import (
	"math"
	"strconv"
	"strings"
)

// parseBool reads a boolean variable. Recognized truthy tokens are
// "true", "1", "yes", "on"; falsy tokens are "false", "0". Matching is
// case-insensitive after trimming surrounding whitespace. Any other value,
// or an unset variable, yields def. This parser never fails: operators
// toggling flags should not be able to break startup with a typo.
func parseBool(src Source, name string, def bool) bool {
	raw, ok := src.Lookup(name)
	if !ok {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0":
		return false
	default:
		return def
	}
}

// parseInt reads a non-negative integer variable. Unset or empty values
// yield def. Unlike parseBool, a malformed non-empty value is a hard
// failure: silently defaulting a port or a byte limit hides operator
// mistakes.
func parseInt(src Source, name string, def int) (int, error) {
	raw, ok := src.Lookup(name)
	if !ok || raw == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f >= math.MaxInt {
		return 0, invalidf(name, "value %q must be a non-negative finite number", raw)
	}
	if f != math.Trunc(f) {
		return 0, invalidf(name, "value %q must be an integer", raw)
	}
	return int(f), nil
}

// parseString reads a string variable verbatim, without trimming.
// Unset or empty values yield def.
func parseString(src Source, name, def string) string {
	raw, ok := src.Lookup(name)
	if !ok || raw == "" {
		return def
	}
	return raw
}

// caseFold selects the normalization applied to list tokens.
type caseFold int

const (
	foldLower caseFold = iota
	foldUpper
)

// parseList reads a comma-separated list: tokens are trimmed, empty tokens
// dropped, and survivors case-folded. When nothing survives, def is
// returned; a nil def marks the variable as mandatory and fails the build.
func parseList(src Source, name string, def []string, fold caseFold) ([]string, error) {
	raw, _ := src.Lookup(name)

	var out []string
	for _, tok := range strings.Split(raw, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if fold == foldUpper {
			tok = strings.ToUpper(tok)
		} else {
			tok = strings.ToLower(tok)
		}
		out = append(out, tok)
	}

	if len(out) == 0 {
		if def == nil {
			return nil, missingf(name, "at least one entry is required (comma-separated)")
		}
		return def, nil
	}
	return out, nil
}
