package adapt

import (
	"reflect"

	"github.com/kbukum/dependkit/schema"
)

// Adapter is the validation-engine capability the core consumes: given a
// type's structural description, it validates and coerces raw data into a
// typed value.
type Adapter interface {
	// Decode validates and coerces raw data into a value of the target type.
	Decode(data any, target reflect.Type) (any, error)

	// Describe returns the structural description of the type.
	Describe(t reflect.Type) (*schema.Schema, error)

	// Supported reports whether the adapter can decode into the type.
	Supported(t reflect.Type) bool
}

var defaultAdapter = New()

// Default returns the shared adapter instance.
func Default() Adapter { return defaultAdapter }
