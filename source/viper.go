package source

import (
	"github.com/spf13/viper"
)

// Viper exposes a viper instance as a Source so file-backed configuration
// (YAML, JSON, TOML) participates in loading alongside the environment.
type Viper struct {
	v *viper.Viper
}

// NewViper wraps an already-configured viper instance.
func NewViper(v *viper.Viper) *Viper {
	return &Viper{v: v}
}

// NewViperFile builds a Source from a single config file.
func NewViperFile(path string) (*Viper, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	return &Viper{v: v}, nil
}

// Name identifies the source.
func (*Viper) Name() string { return "viper" }

// Read looks the key up in the viper instance. Nested keys use viper's
// dotted-path convention.
func (s *Viper) Read(key string) (string, bool) {
	if !s.v.IsSet(key) {
		return "", false
	}
	return s.v.GetString(key), true
}
