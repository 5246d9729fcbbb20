// Package adapt is the boundary to the validation engine: given a type's
// structural description it validates and coerces raw data into a typed
// value.
//
// The default implementation decodes with go-viper/mapstructure (weak
// typing, `default` tag application, JSON-encoded strings for list and map
// members) and enforces `validate` tags with go-playground/validator.
//
// Foreign struct tagging styles plug in through the Convention bridge;
// types matching no convention decode by field name, and members whose
// shape cannot be described are accepted as any.
package adapt
