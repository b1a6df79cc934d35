// Package registry maps (specification version, namespace, type name)
// triples to object schemas. A Registry is an explicitly constructed value,
// not ambient state; tests build their own so registrations stay hermetic.
package registry

import (
	"sync"

	"github.com/mesh-intelligence/stixkit/pkg/types"
)

// Handle identifies a completed custom registration.
type Handle struct {
	Namespace types.Namespace
	Version   types.SpecVersion
	TypeName  string
}

// table holds the four namespace mappings of one specification version.
type table struct {
	spaces map[types.Namespace]map[string]*types.ObjectSchema
}

func newTable() *table {
	t := &table{spaces: make(map[types.Namespace]map[string]*types.ObjectSchema, 4)}
	for _, ns := range types.Namespaces() {
		t.spaces[ns] = make(map[string]*types.ObjectSchema)
	}
	return t
}

// Registry holds one table per supported specification version.
//
// Lookups may run concurrently with each other and with parse calls.
// Registrations take the write lock, so a parse call beginning after a
// registration returns always observes it.
type Registry struct {
	mu       sync.RWMutex
	versions map[types.SpecVersion]*table
}

// New returns a registry seeded with the built-in STIX 2.0 and 2.1 types in
// all four namespaces.
func New() *Registry {
	r := NewEmpty()
	seedBuiltin(r)
	return r
}

// NewEmpty returns a registry with every version present but no types
// registered. Intended for tests and fully custom profiles.
func NewEmpty() *Registry {
	r := &Registry{versions: make(map[types.SpecVersion]*table)}
	for _, v := range types.Versions() {
		r.versions[v] = newTable()
	}
	return r
}

// Lookup returns the schema registered for typeName in the given version and
// namespace, and whether one exists.
func (r *Registry) Lookup(version types.SpecVersion, ns types.Namespace, typeName string) (*types.ObjectSchema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.versions[version]
	if !ok {
		return nil, false
	}
	space, ok := t.spaces[ns]
	if !ok {
		return nil, false
	}
	s, ok := space[typeName]
	return s, ok
}

// Register inserts a custom schema into one namespace of one version.
// Built-in and previously registered names are never overwritten: a
// collision returns DuplicateNameError and leaves the registry unchanged.
// Other versions are unaffected; property requirements legitimately differ
// between specification revisions, so a schema registered for one version
// says nothing about another.
func (r *Registry) Register(ns types.Namespace, version types.SpecVersion, schema *types.ObjectSchema) (Handle, error) {
	if !version.Valid() {
		return Handle{}, types.ErrUnknownVersion
	}
	if !ns.Valid() {
		return Handle{}, types.ErrInvalidSchema
	}
	if err := schema.Validate(); err != nil {
		return Handle{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	space := r.versions[version].spaces[ns]
	if _, exists := space[schema.TypeName]; exists {
		return Handle{}, &types.DuplicateNameError{
			Namespace: ns,
			Version:   version,
			TypeName:  schema.TypeName,
		}
	}
	space[schema.TypeName] = schema

	return Handle{Namespace: ns, Version: version, TypeName: schema.TypeName}, nil
}

// TypeNames returns the registered names in one namespace of one version.
// Intended for diagnostics; order is unspecified.
func (r *Registry) TypeNames(version types.SpecVersion, ns types.Namespace) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.versions[version]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(t.spaces[ns]))
	for name := range t.spaces[ns] {
		names = append(names, name)
	}
	return names
}

// VersionsWithType returns the versions in which typeName is registered in
// the given namespace, oldest first. Used to distinguish an unknown type
// from a type known only in a different version.
func (r *Registry) VersionsWithType(ns types.Namespace, typeName string) []types.SpecVersion {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var found []types.SpecVersion
	for _, v := range types.Versions() {
		if _, ok := r.versions[v].spaces[ns][typeName]; ok {
			found = append(found, v)
		}
	}
	return found
}

// mustRegister seeds one built-in schema. Collisions among built-ins are a
// programming error caught at process start.
func mustRegister(r *Registry, ns types.Namespace, version types.SpecVersion, schema *types.ObjectSchema) {
	if _, err := r.Register(ns, version, schema); err != nil {
		panic("registry: seeding built-in type " + schema.TypeName + ": " + err.Error())
	}
}
