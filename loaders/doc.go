// Package loaders turns external configuration sources into typed values.
//
// Every loader follows the same pipeline: read raw data from a source, fall
// back to a configured default when the source holds nothing, restructure the
// raw shape against the target type's schema, then validate and coerce it
// into the target type. Value loads one key; Object assembles a struct or
// discriminated union from per-field keys, reading the discriminant first
// when the target is a union.
package loaders
