package parse

import "github.com/mesh-intelligence/stixkit/pkg/types"

// DefaultMaxDepth bounds resolved-object nesting when no override is given.
const DefaultMaxDepth = 64

// config collects the per-call parsing knobs.
type config struct {
	version        types.SpecVersion // "" means infer from content, then latest
	allowCustom    bool
	maxDepth       int
	strictVersions bool
}

func defaultConfig() config {
	return config{
		allowCustom: true,
		maxDepth:    DefaultMaxDepth,
	}
}

// Option adjusts the behavior of a single parse call.
type Option func(*config)

// WithVersion pins the effective specification version. It takes precedence
// over a spec_version marker on the root record; a conflicting root marker
// is not an error. Every nested record in the call resolves against this
// version.
func WithVersion(v types.SpecVersion) Option {
	return func(c *config) { c.version = v }
}

// RejectUnknownTypes disables unknown-type passthrough. With this option an
// unregistered type discriminator fails the parse with UnknownTypeError
// instead of producing an opaque object.
func RejectUnknownTypes() Option {
	return func(c *config) { c.allowCustom = false }
}

// WithMaxDepth overrides the resolved-object nesting bound. Values below 1
// are ignored.
func WithMaxDepth(n int) Option {
	return func(c *config) {
		if n >= 1 {
			c.maxDepth = n
		}
	}
}

// StrictVersions makes a nested record's own spec_version marker an error
// when it disagrees with the call's effective version. Records of unknown
// types are checked before passthrough. The default is permissive: nested
// markers are kept as scalar properties and otherwise ignored.
func StrictVersions() Option {
	return func(c *config) { c.strictVersions = true }
}
