package parse

import (
	"fmt"
	"sort"

	"github.com/mesh-intelligence/stixkit/pkg/registry"
	"github.com/mesh-intelligence/stixkit/pkg/types"
)

// builder walks decoded mappings depth-first, resolving each record against
// the registry and the single effective version of the call.
type builder struct {
	reg     *registry.Registry
	version types.SpecVersion
	cfg     config
}

// resolve locates the schema for one record and builds it. The namespace is
// supplied by the caller from the declaring property spec; it is structural
// context, never inferred from the record's shape. fallbackName is the
// discriminator to use for records that carry no type field of their own:
// the extensions map key, or a marking definition's definition_type.
func (b *builder) resolve(m map[string]any, ns types.Namespace, fallbackName string, depth int, path []string) (*types.TypedObject, error) {
	typeName := fallbackName
	if v, ok := m[types.TypeField]; ok {
		s, ok := v.(string)
		if !ok {
			return nil, wrapPath(path, fmt.Errorf("%w: type is not a string", types.ErrInvalidInput))
		}
		typeName = s
	}
	if typeName == "" {
		return nil, wrapPath(path, fmt.Errorf("%w: record has no type field", types.ErrInvalidInput))
	}

	// Nested records carrying their own version marker: permissive by
	// default, an error under StrictVersions. Checked before schema lookup
	// so unknown-type passthrough records are held to the same rule. The
	// root's marker was already consumed by version selection.
	if b.cfg.strictVersions && depth > 1 {
		if marker, ok := m[types.VersionField].(string); ok && marker != string(b.version) {
			return nil, wrapPath(append(path, typeName), &types.VersionMismatchError{
				TypeName: typeName,
				Want:     b.version,
				Got:      marker,
			})
		}
	}

	schema, ok := b.reg.Lookup(b.version, ns, typeName)
	if !ok {
		if b.cfg.allowCustom {
			return b.passthrough(typeName, m), nil
		}
		if elsewhere := b.reg.VersionsWithType(ns, typeName); len(elsewhere) > 0 {
			return nil, wrapPath(path, &types.VersionMismatchError{
				TypeName: typeName,
				Want:     b.version,
				Got:      string(elsewhere[0]),
			})
		}
		return nil, wrapPath(path, &types.UnknownTypeError{
			Namespace: ns,
			TypeName:  typeName,
			Version:   b.version,
		})
	}

	return b.build(schema, m, depth, append(path, typeName))
}

// passthrough produces an opaque object for a type introduced after this
// registry was seeded. Every input field is kept as a scalar; nothing is
// recursed, so forward-compatible consumers can carry the content without
// understanding it.
func (b *builder) passthrough(typeName string, m map[string]any) *types.TypedObject {
	props := make(map[string]any, len(m))
	for k, v := range m {
		props[k] = v
	}
	return &types.TypedObject{
		Type:       typeName,
		Version:    b.version,
		Opaque:     true,
		Properties: props,
	}
}

// build walks a schema's declared fields over the raw mapping, recursing
// into nested kinds, then enforces required-property completeness. Fields
// present in the input but absent from the schema are preserved as opaque
// scalar properties.
func (b *builder) build(schema *types.ObjectSchema, m map[string]any, depth int, path []string) (*types.TypedObject, error) {
	if depth > b.cfg.maxDepth {
		return nil, wrapPath(path, &types.StructureTooDeepError{Limit: b.cfg.maxDepth})
	}

	props := make(map[string]any, len(m))
	for _, p := range schema.Properties {
		raw, present := m[p.Name]
		if !present {
			continue
		}

		switch p.Kind {
		case types.KindScalar:
			props[p.Name] = raw

		case types.KindObject:
			child, err := b.buildNested(raw, p, m, depth, append(path, p.Name))
			if err != nil {
				return nil, err
			}
			props[p.Name] = child

		case types.KindList:
			seq, ok := raw.([]any)
			if !ok {
				return nil, wrapPath(append(path, p.Name),
					fmt.Errorf("%w: %s is not a sequence", types.ErrInvalidInput, p.Name))
			}
			list := make([]*types.TypedObject, len(seq))
			for i, el := range seq {
				elPath := append(path, fmt.Sprintf("%s[%d]", p.Name, i))
				child, err := b.buildNested(el, p, m, depth, elPath)
				if err != nil {
					return nil, err
				}
				list[i] = child
			}
			props[p.Name] = list

		case types.KindMap:
			mm, ok := raw.(map[string]any)
			if !ok {
				return nil, wrapPath(append(path, p.Name),
					fmt.Errorf("%w: %s is not a mapping", types.ErrInvalidInput, p.Name))
			}
			keys := make([]string, 0, len(mm))
			for k := range mm {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			keyed := make(map[string]*types.TypedObject, len(mm))
			for _, k := range keys {
				elPath := append(path, fmt.Sprintf("%s[%s]", p.Name, k))
				child, err := b.buildKeyed(mm[k], p, k, depth, elPath)
				if err != nil {
					return nil, err
				}
				keyed[k] = child
			}
			props[p.Name] = keyed
		}
	}

	for _, p := range schema.Properties {
		if p.Required {
			if _, ok := props[p.Name]; !ok {
				return nil, wrapPath(path, &types.MissingPropertyError{
					TypeName: schema.TypeName,
					Property: p.Name,
				})
			}
		}
	}

	// Forward compatibility: custom properties ride along untouched.
	for k, v := range m {
		if _, declared := schema.Property(k); !declared {
			props[k] = v
		}
	}

	obj := &types.TypedObject{
		Type:       schema.TypeName,
		Version:    b.version,
		Properties: props,
	}
	if schema.Construct != nil {
		val, err := schema.Construct(props)
		if err != nil {
			return nil, wrapPath(path, err)
		}
		obj.Value = val
	}
	return obj, nil
}

// buildNested resolves one nested record from a KindObject or KindList
// field. Marking definition payloads carry no type field; the parent's
// definition_type names them.
func (b *builder) buildNested(raw any, p types.PropertySpec, parent map[string]any, depth int, path []string) (*types.TypedObject, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, wrapPath(path, fmt.Errorf("%w: element is not a mapping", types.ErrInvalidInput))
	}
	fallback := ""
	if p.Namespace == types.NamespaceMarkings {
		fallback, _ = parent["definition_type"].(string)
	}
	return b.resolve(m, p.Namespace, fallback, depth+1, path)
}

// buildKeyed resolves one element of a keyed collection. When the element
// carries no type field, the map key is the discriminator; this is how
// observable extensions are named.
func (b *builder) buildKeyed(raw any, p types.PropertySpec, key string, depth int, path []string) (*types.TypedObject, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, wrapPath(path, fmt.Errorf("%w: element is not a mapping", types.ErrInvalidInput))
	}
	return b.resolve(m, p.Namespace, key, depth+1, path)
}

// wrapPath attaches the structural path to an error once, at the point of
// failure. Errors already carrying a path pass through unchanged, so the
// top-level caller sees the full chain without re-traversal.
func wrapPath(path []string, err error) error {
	if len(path) == 0 {
		return err
	}
	if _, ok := err.(*types.BuildError); ok {
		return err
	}
	p := make([]string, len(path))
	copy(p, path)
	return &types.BuildError{Path: p, Err: err}
}
