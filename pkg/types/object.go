package types

// TypedObject is one node of a parsed tree. Property values are scalars,
// *TypedObject for nested records, []*TypedObject for heterogeneous
// collections, or map[string]*TypedObject for keyed collections. A
// TypedObject is never mutated after the parser returns it; trees are
// freely shareable across goroutines.
type TypedObject struct {
	Type       string
	Version    SpecVersion
	Opaque     bool // true when produced by unknown-type passthrough
	Properties map[string]any

	// Value holds the domain object produced by the schema's Constructor,
	// when one was registered. Nil otherwise.
	Value any
}

// Get returns the value of a property and whether it was present.
func (o *TypedObject) Get(name string) (any, bool) {
	v, ok := o.Properties[name]
	return v, ok
}

// ID returns the object's identifier property, or "" when absent or not a
// string.
func (o *TypedObject) ID() string {
	if v, ok := o.Properties[IDField]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetString returns a string-valued property, or "" when absent or of a
// different type.
func (o *TypedObject) GetString(name string) string {
	if v, ok := o.Properties[name]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// ToMap reconstructs the generic mapping the object was built from,
// recursing into nested objects and collections. The result is a fresh tree
// suitable for encoding; mutating it does not affect the TypedObject.
func (o *TypedObject) ToMap() map[string]any {
	m := make(map[string]any, len(o.Properties))
	for name, v := range o.Properties {
		m[name] = valueToGeneric(v)
	}
	return m
}

func valueToGeneric(v any) any {
	switch t := v.(type) {
	case *TypedObject:
		return t.ToMap()
	case []*TypedObject:
		out := make([]any, len(t))
		for i, el := range t {
			out[i] = el.ToMap()
		}
		return out
	case map[string]*TypedObject:
		out := make(map[string]any, len(t))
		for k, el := range t {
			out[k] = el.ToMap()
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, el := range t {
			out[i] = valueToGeneric(el)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, el := range t {
			out[k] = valueToGeneric(el)
		}
		return out
	default:
		return v
	}
}
