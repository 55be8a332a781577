// Package errtype defines the transformer's error taxonomy (spec §7): four
// sentinel causes, each wrapped with github.com/pkg/errors so callers keep
// a stack trace while still being able to switch on the underlying cause
// with errors.Cause.
package errtype

import "github.com/pkg/errors"

// Sentinel causes. Compare against these with errors.Cause(err) == errtype.X,
// never by string matching.
var (
	// ErrConfig marks an invalid or contradictory Configuration bag.
	ErrConfig = errors.New("covinstrument: invalid configuration")

	// ErrUnsupportedConstruct marks an input AST shape the transformer
	// deliberately declines to instrument (spec §7, §9 staged features).
	ErrUnsupportedConstruct = errors.New("covinstrument: unsupported construct")

	// ErrPositionLookup marks a failure translating a byte span to a
	// line/column pair via the Position service.
	ErrPositionLookup = errors.New("covinstrument: position lookup failed")

	// ErrSerialization marks a failure encoding a CoverageMap or a
	// preamble literal.
	ErrSerialization = errors.New("covinstrument: serialization failed")
)

// ConfigError wraps ErrConfig with context about which setting was invalid.
func ConfigError(format string, args ...interface{}) error {
	return errors.Wrapf(ErrConfig, format, args...)
}

// UnsupportedConstruct wraps ErrUnsupportedConstruct with the construct name
// and, where available, its source location.
func UnsupportedConstruct(what string, where string) error {
	if where == "" {
		return errors.Wrap(ErrUnsupportedConstruct, what)
	}
	return errors.Wrapf(ErrUnsupportedConstruct, "%s at %s", what, where)
}

// PositionLookupFailure wraps ErrPositionLookup so errors.Cause still
// bottoms out at the sentinel, with the underlying source.Service error
// folded into the message.
func PositionLookupFailure(cause error, context string) error {
	return errors.Wrapf(ErrPositionLookup, "%s: %v", context, cause)
}

// SerializationFailure wraps ErrSerialization, with the underlying encoding
// error folded into the message.
func SerializationFailure(cause error, context string) error {
	return errors.Wrapf(ErrSerialization, "%s: %v", context, cause)
}

// Is reports whether err's cause chain bottoms out at sentinel.
func Is(err, sentinel error) bool {
	return errors.Cause(err) == sentinel || err == sentinel
}
