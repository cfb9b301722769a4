// Package errors provides the structured error type used across initkit.
// Every error carries a machine-readable code so callers can branch on
// the failure class without string matching.
package errors
