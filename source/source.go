package source

import "os"

// Source is a named key/value configuration data source. Read is a pure
// lookup; the bool reports whether the key is present.
type Source interface {
	Name() string
	Read(key string) (string, bool)
}

// Env reads from the process environment.
type Env struct{}

// Name identifies the source.
func (Env) Name() string { return "environment" }

// Read looks the key up in the process environment.
func (Env) Read(key string) (string, bool) {
	return os.LookupEnv(key)
}

// Map is an in-memory source, mainly for tests.
type Map struct {
	Label  string
	Values map[string]string
}

// Name identifies the source.
func (m Map) Name() string {
	if m.Label == "" {
		return "map"
	}
	return m.Label
}

// Read looks the key up in the backing map.
func (m Map) Read(key string) (string, bool) {
	v, ok := m.Values[key]
	return v, ok
}
