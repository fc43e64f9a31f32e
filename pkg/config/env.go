package config

import "os"

// Source supplies raw environment values to the configuration builder.
// Lookup returns the value for a variable name and whether it was set.
// Injecting the source keeps the build deterministic under test without
// mutating shared process state.
type Source interface {
	Lookup(name string) (string, bool)
}

// OSEnv reads variables from the process environment.
type OSEnv struct{}

// Lookup returns the process environment value for name.
func (OSEnv) Lookup(name string) (string, bool) {
	return os.LookupEnv(name)
}

// Map is an in-memory Source for tests.
type Map map[string]string

// Lookup returns the mapped value for name.
func (m Map) Lookup(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}
