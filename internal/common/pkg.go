// Package common holds small helpers shared by the internal packages.
package common

// UnknownStr is rendered by enum String methods for out-of-range values.
const UnknownStr = "unknown"
