package depend

import (
	"context"
	"fmt"

	"github.com/kbukum/dependkit/errors"
)

// Resolve resolves a descriptor with the process-wide injector.
func Resolve(d *Descriptor) (any, error) {
	return Default().Resolve(d)
}

// ResolveCtx resolves a descriptor with the process-wide injector, threading
// ctx into context-aware factories and loaders.
func ResolveCtx(ctx context.Context, d *Descriptor) (any, error) {
	return Default().ResolveCtx(ctx, d)
}

// Load is the one-shot depends-plus-resolve convenience: it builds a
// descriptor for the source and resolves it immediately.
func Load(source any, opts ...Option) (any, error) {
	return Resolve(Depends(source, opts...))
}

// LoadCtx is Load with a caller context.
func LoadCtx(ctx context.Context, source any, opts ...Option) (any, error) {
	return ResolveCtx(ctx, Depends(source, opts...))
}

// Bind associates descriptors with fn's parameters on the process-wide
// injector.
func Bind(fn any, deps ...*Descriptor) *BoundFunc {
	return Default().Bind(fn, deps...)
}

// Fill resolves the dependency-annotated fields of a struct pointer with the
// process-wide injector.
func Fill(ctx context.Context, target any, binds ...FieldBind) error {
	return Default().Fill(ctx, target, binds...)
}

// NewScope opens a resource scope on the process-wide injector.
func NewScope() *Scope {
	return Default().NewScope()
}

// ResolveAs resolves a descriptor and asserts the result to T.
func ResolveAs[T any](d *Descriptor) (T, error) {
	return ResolveAsCtx[T](context.Background(), d)
}

// ResolveAsCtx resolves a descriptor with ctx and asserts the result to T.
func ResolveAsCtx[T any](ctx context.Context, d *Descriptor) (T, error) {
	var zero T
	value, err := Default().ResolveCtx(ctx, d)
	if err != nil {
		return zero, err
	}
	typed, ok := value.(T)
	if !ok {
		return zero, errors.InvalidBinding(fmt.Sprintf(
			"dependency %s resolved to %T, want %T", d.Name(), value, zero))
	}
	return typed, nil
}

// LoadAs is the one-shot Load with the result asserted to T.
func LoadAs[T any](source any, opts ...Option) (T, error) {
	return ResolveAs[T](Depends(source, opts...))
}
