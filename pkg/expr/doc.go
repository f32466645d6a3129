// Package expr provides a shared CEL environment for detection rules,
// including path helper functions and glob matching.
package expr
