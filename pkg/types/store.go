package types

import "errors"

// Store defines backend-agnostic persistence for parsed objects. Callers
// attach to a backend, add and query TypedObjects, and detach when done.
type Store interface {
	// Attach connects the store to the backend described by config.
	// Creates the DataDir if it does not exist. Returns ErrAlreadyAttached
	// if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls
	// succeed. After Detach, operations return ErrStoreDetached.
	Detach() error

	// Add persists an object and returns its identifier. When the object
	// carries no id property, one is generated from its type name.
	Add(obj *TypedObject) (string, error)

	// Get retrieves the object with the given identifier.
	// Returns ErrObjectNotFound if no object exists with that id.
	Get(id string) (*TypedObject, error)

	// Query returns all objects matching the filter. Supported filter keys:
	// "type" (string), "spec_version" (string), "limit" (int). An empty
	// filter returns every stored object.
	Query(filter map[string]any) ([]*TypedObject, error)

	// Delete removes the object with the given identifier.
	// Returns ErrObjectNotFound if no object exists with that id.
	Delete(id string) error
}

// Store lifecycle and operation errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
	ErrObjectNotFound  = errors.New("object not found")
	ErrInvalidObject   = errors.New("invalid object")
	ErrInvalidFilter   = errors.New("invalid filter value type")
)
