// Package uid provides identifier generators behind small interfaces so
// callers (and tests) do not depend on a concrete id scheme.
package uid

// StringID generates string identifiers.
type StringID interface {
	Generate() string
}
