// Package depend is a dependency-resolution runtime: descriptors declare how
// to obtain a value, the resolver turns them into instances, and the
// injector wires them into functions and structs.
//
// A descriptor's source may be a plain struct type, a factory func, a
// configuration loader, or another bound function. Factories come in three
// shapes, with an optional leading context.Context on each:
//
//	func() *DB
//	func() (*DB, error)
//	func() (*DB, depend.ReleaseFunc, error)
//
// The third shape yields a resource: its ReleaseFunc (which must be declared
// as the depend.ReleaseFunc type) runs after the consuming call finishes,
// observing the consumer's outcome. Descriptors marked Persist resolve
// through the singleton cache, so every call site sharing a cache key shares
// one instance.
//
//	db := depend.Depends(openDB, depend.Persist())
//	handler := depend.Bind(handleRequest, db)
//	out, err := handler.Call()
package depend
