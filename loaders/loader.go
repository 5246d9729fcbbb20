package loaders

import (
	"context"
	"reflect"

	"github.com/kbukum/dependkit/adapt"
	"github.com/kbukum/dependkit/errors"
	"github.com/kbukum/dependkit/logger"
	"github.com/kbukum/dependkit/restructure"
	"github.com/kbukum/dependkit/schema"
	"github.com/kbukum/dependkit/source"
)

// Loader produces a typed value from an external configuration source.
// Load runs the full pipeline; LoadRaw exposes the raw, unvalidated read so
// callers can inspect what the source actually held.
type Loader interface {
	Load(ctx context.Context) (any, error)
	LoadRaw(ctx context.Context) (any, error)

	// TargetType is the Go type the loader produces.
	TargetType() reflect.Type

	// Schema is the structural description of the target type.
	Schema() (*schema.Schema, error)
}

// config carries the options shared by all loaders.
type config struct {
	src        source.Source
	adapter    adapt.Adapter
	log        *logger.Logger
	defaultVal any
	hasDefault bool
	defaultTag string
}

func newConfig(opts []Option) *config {
	c := &config{
		src:     source.Env{},
		adapter: adapt.Default(),
		log:     logger.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Option configures a loader.
type Option func(*config)

// From sets the configuration source to read; the process environment is
// the default.
func From(src source.Source) Option {
	return func(c *config) { c.src = src }
}

// WithAdapter overrides the validation adapter.
func WithAdapter(a adapt.Adapter) Option {
	return func(c *config) { c.adapter = a }
}

// WithLogger attaches a logger for debug output.
func WithLogger(l *logger.Logger) Option {
	return func(c *config) { c.log = l }
}

// WithDefault sets the value returned when the source holds nothing for the
// loader's keys. The value must be assignable to the loader's target type.
func WithDefault(v any) Option {
	return func(c *config) {
		c.defaultVal = v
		c.hasDefault = true
	}
}

// WithDefaultDiscriminant sets the discriminant value assumed when a union
// loader finds no discriminant key in the source.
func WithDefaultDiscriminant(tag string) Option {
	return func(c *config) { c.defaultTag = tag }
}

// run is the load algorithm shared by every loader: read raw data, fall back
// to the configured default when the read is empty, restructure against the
// target schema, then validate into a typed value. A raw-read failure is
// wrapped naming the target type; validation failures propagate unchanged.
func run(ctx context.Context, l Loader, cfg *config) (any, error) {
	raw, err := l.LoadRaw(ctx)
	if err != nil {
		cfg.log.Debug("raw load failed", logger.Fields(
			logger.FieldSource, cfg.src.Name(),
			logger.FieldType, l.TargetType().String(),
			logger.FieldError, err,
		))
		return nil, errors.Source(cfg.src.Name(), l.TargetType().String(), err)
	}

	if isEmpty(raw) && cfg.hasDefault {
		cfg.log.Debug("source empty, using default", logger.Fields(
			logger.FieldType, l.TargetType().String(),
		))
		return cfg.defaultVal, nil
	}

	s, err := l.Schema()
	if err != nil {
		return nil, err
	}

	shaped := restructure.Restructure(raw, s)
	return cfg.adapter.Decode(shaped, l.TargetType())
}

// isEmpty reports whether a raw read produced nothing usable, which is when
// the default value applies.
func isEmpty(raw any) bool {
	switch v := raw.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case map[string]any:
		return len(v) == 0
	}
	return false
}

func targetTypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
