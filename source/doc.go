// Package source defines named key/value configuration sources consumed by
// loaders: the process environment, in-memory maps for tests, .env files
// via godotenv, and file-backed configuration via viper.
package source
