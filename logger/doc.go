// Package logger provides structured logging for dependkit built on zerolog.
//
// Library components default to a no-op logger; supply one to see cache
// hits, resource teardown, and loader activity at debug level.
//
//	log := logger.NewDefault("my-service")
//	r := depend.NewResolver(depend.WithLogger(log))
package logger
