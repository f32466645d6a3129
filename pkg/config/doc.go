// Package config defines the rulectx configuration document, its defaults,
// and its loader. Configuration is a versioned YAML document validated
// against an embedded JSON schema before anything is loaded from it.
package config
