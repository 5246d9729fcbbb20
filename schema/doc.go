// Package schema produces queryable structural descriptions of Go types:
// field names and nested shapes for structs, element shapes for lists and
// maps, and candidate shapes for discriminated unions.
//
// Go interfaces carry no variant list at runtime, so discriminated unions
// are declared once with DefineUnion before the first Describe call:
//
//	schema.MustDefineUnion[Store]("type", StoreA{}, StoreB{})
//
// Each candidate must carry the discriminant field with a concrete
// `default` tag; that value is the tag selecting the candidate.
package schema
