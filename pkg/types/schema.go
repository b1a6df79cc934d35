package types

// FieldKind describes how a declared property participates in recursive
// resolution. Scalar values pass through the parser untouched; the nested
// kinds are resolved element by element against a namespace.
type FieldKind int

const (
	// KindScalar copies the raw decoded value verbatim.
	KindScalar FieldKind = iota

	// KindObject resolves the value as a single nested record.
	KindObject

	// KindList resolves each element of a sequence independently. Elements
	// may be of different registered types.
	KindList

	// KindMap resolves each value of a string-keyed collection
	// independently, preserving the keys.
	KindMap
)

// validFieldKinds is the set of recognized field kinds.
var validFieldKinds = map[FieldKind]bool{
	KindScalar: true,
	KindObject: true,
	KindList:   true,
	KindMap:    true,
}

// Valid reports whether k is a recognized field kind.
func (k FieldKind) Valid() bool {
	return validFieldKinds[k]
}

// PropertySpec declares one property of an ObjectSchema: its name, whether
// content must carry it, and how its value is built. For the nested kinds,
// Namespace names the type space nested records resolve against.
type PropertySpec struct {
	Name      string
	Required  bool
	Kind      FieldKind
	Namespace Namespace // resolution namespace for nested kinds; unused for KindScalar
}

// Constructor produces a domain value from a fully built property mapping.
// It runs after every declared field has been resolved and the required-
// property check has passed.
type Constructor func(props map[string]any) (any, error)

// ObjectSchema is the immutable declared shape of one registered type.
type ObjectSchema struct {
	TypeName   string
	Properties []PropertySpec
	Construct  Constructor // optional; nil leaves the TypedObject as-is
}

// Property returns the declared spec for name, if any.
func (s *ObjectSchema) Property(name string) (PropertySpec, bool) {
	for _, p := range s.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return PropertySpec{}, false
}

// Validate checks that the schema is well-formed: a non-empty type name,
// unique property names, recognized field kinds, and a valid namespace on
// every nested property.
func (s *ObjectSchema) Validate() error {
	if s.TypeName == "" {
		return ErrInvalidSchema
	}
	seen := make(map[string]bool, len(s.Properties))
	for _, p := range s.Properties {
		if p.Name == "" || seen[p.Name] {
			return ErrInvalidSchema
		}
		seen[p.Name] = true
		if !p.Kind.Valid() {
			return ErrInvalidSchema
		}
		if p.Kind != KindScalar && !p.Namespace.Valid() {
			return ErrInvalidSchema
		}
	}
	return nil
}
