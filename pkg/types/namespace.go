package types

// Namespace selects one of the four independent type-name spaces within a
// specification version. Which namespace applies to a record is a property
// of where the record occurs structurally, never guessed from its shape.
type Namespace string

const (
	// NamespaceObjects holds core objects: SDOs, SROs, bundle,
	// language-content. Root records always resolve here.
	NamespaceObjects Namespace = "objects"

	// NamespaceObservables holds observable sub-objects carried inside
	// observed-data.
	NamespaceObservables Namespace = "observables"

	// NamespaceMarkings holds marking definition payload types.
	NamespaceMarkings Namespace = "markings"

	// NamespaceExtensions holds observable extension types.
	NamespaceExtensions Namespace = "extensions"
)

// validNamespaces is the set of recognized namespaces.
var validNamespaces = map[Namespace]bool{
	NamespaceObjects:     true,
	NamespaceObservables: true,
	NamespaceMarkings:    true,
	NamespaceExtensions:  true,
}

// Namespaces returns all four namespaces in a stable order.
func Namespaces() []Namespace {
	return []Namespace{
		NamespaceObjects,
		NamespaceObservables,
		NamespaceMarkings,
		NamespaceExtensions,
	}
}

// Valid reports whether n is a recognized namespace.
func (n Namespace) Valid() bool {
	return validNamespaces[n]
}
