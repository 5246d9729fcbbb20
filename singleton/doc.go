// Package singleton is the instance cache behind persistent dependency
// resolution. A Registry holds at most one instance per cache key: the first
// resolution runs the factory under a per-key lock, every later resolution
// of the same key returns the identical instance. The cache is an explicit
// object so tests construct a fresh one instead of sharing process state.
package singleton
