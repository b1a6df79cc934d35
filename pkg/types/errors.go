package types

import (
	"errors"
	"fmt"
	"strings"
)

// Parse and registration errors. The structured error types below unwrap to
// these sentinels, so callers can branch with errors.Is without losing the
// detail carried on the concrete type.
var (
	ErrInvalidInput     = errors.New("input is not a valid record")
	ErrUnknownType      = errors.New("unknown type")
	ErrUnknownVersion   = errors.New("unknown specification version")
	ErrVersionMismatch  = errors.New("specification version mismatch")
	ErrMissingProperty  = errors.New("missing required property")
	ErrDuplicateName    = errors.New("duplicate type name")
	ErrStructureTooDeep = errors.New("structure nested too deeply")
	ErrInvalidSchema    = errors.New("invalid object schema")
)

// UnknownTypeError reports a type discriminator with no registered schema in
// the consulted namespace and version.
type UnknownTypeError struct {
	Namespace Namespace
	TypeName  string
	Version   SpecVersion
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown type %q in %s namespace of version %s",
		e.TypeName, e.Namespace, e.Version)
}

func (e *UnknownTypeError) Unwrap() error { return ErrUnknownType }

// MissingPropertyError reports a schema-required property absent after full
// resolution.
type MissingPropertyError struct {
	TypeName string
	Property string
}

func (e *MissingPropertyError) Error() string {
	return fmt.Sprintf("%s: missing required property %q", e.TypeName, e.Property)
}

func (e *MissingPropertyError) Unwrap() error { return ErrMissingProperty }

// VersionMismatchError reports a nested record whose own version marker
// disagrees with the effective version of the parse call.
type VersionMismatchError struct {
	TypeName string
	Want     SpecVersion
	Got      string
}

func (e *VersionMismatchError) Error() string {
	return fmt.Sprintf("%s: spec_version %q conflicts with effective version %s",
		e.TypeName, e.Got, e.Want)
}

func (e *VersionMismatchError) Unwrap() error { return ErrVersionMismatch }

// DuplicateNameError reports a registration colliding with an existing name
// in the same namespace and version. The existing registration is kept.
type DuplicateNameError struct {
	Namespace Namespace
	Version   SpecVersion
	TypeName  string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("type %q already registered in %s namespace of version %s",
		e.TypeName, e.Namespace, e.Version)
}

func (e *DuplicateNameError) Unwrap() error { return ErrDuplicateName }

// StructureTooDeepError reports input nested past the configured bound.
type StructureTooDeepError struct {
	Limit int
}

func (e *StructureTooDeepError) Error() string {
	return fmt.Sprintf("structure exceeds maximum nesting depth %d", e.Limit)
}

func (e *StructureTooDeepError) Unwrap() error { return ErrStructureTooDeep }

// BuildError wraps a failure inside a nested collection with the structural
// path (type name chain plus field names and indexes) where it occurred.
type BuildError struct {
	Path []string
	Err  error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("at %s: %v", strings.Join(e.Path, "/"), e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }
