// Package restructure reshapes raw configuration data to match a type's
// structural description before decoding: discriminator wrappers are
// flattened at every nesting level and underscore-named fields are merged
// from nested maps.
//
// The pass is pure and idempotent; applying it to already-flat data is a
// no-op.
package restructure
