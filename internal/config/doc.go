// Package config loads simulation settings from JSON.
//
// The file at DefaultConfigPath is the single source of truth for defaults
// shipped with the repository; every field may be omitted, in which case the
// matching Get* accessor supplies the built-in value.
package config
