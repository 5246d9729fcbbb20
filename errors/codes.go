package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Resolution errors (programmer errors: the dependency graph is misconfigured)
const (
	// ErrCodeResolution indicates a dependency's factory or loader failed.
	ErrCodeResolution ErrorCode = "RESOLUTION_FAILED"
	// ErrCodeUnsupportedType indicates no validation path exists for a type
	// and no adaptation bridge could produce one.
	ErrCodeUnsupportedType ErrorCode = "UNSUPPORTED_TYPE"
	// ErrCodeAlias indicates no naming overlap exists across the candidate
	// types of a discriminated union when one is required.
	ErrCodeAlias ErrorCode = "ALIAS_ERROR"
	// ErrCodeInvalidBinding indicates a callable or struct was bound to the
	// injector in a way it cannot satisfy (bad signature, missing descriptor).
	ErrCodeInvalidBinding ErrorCode = "INVALID_BINDING"
)

// Data errors (the external configuration source carried bad data)
const (
	// ErrCodeValidation indicates raw data does not conform to the target
	// type's structural description.
	ErrCodeValidation ErrorCode = "VALIDATION_FAILED"
	// ErrCodeDiscriminator indicates a discriminated union had zero matching
	// candidates, or the discriminant value could not be read.
	ErrCodeDiscriminator ErrorCode = "DISCRIMINATOR_ERROR"
	// ErrCodeSource indicates a configuration source failed to produce data.
	ErrCodeSource ErrorCode = "SOURCE_ERROR"
)

var dataCodes = map[ErrorCode]bool{
	ErrCodeValidation:    true,
	ErrCodeDiscriminator: true,
	ErrCodeSource:        true,
}

// IsDataCode reports whether the code describes bad external data rather
// than a misconfigured dependency graph.
func IsDataCode(code ErrorCode) bool {
	return dataCodes[code]
}
