// Package sqlite provides the public factory for the SQLite object store.
// Implementation details stay internal; callers program against types.Store.
package sqlite

import (
	"github.com/mesh-intelligence/stixkit/internal/sqlite"
	"github.com/mesh-intelligence/stixkit/pkg/registry"
	"github.com/mesh-intelligence/stixkit/pkg/types"
)

// NewBackend creates a detached SQLite store that resolves stored objects
// against reg. Call Attach with a Config before use.
//
// Example:
//
//	store := sqlite.NewBackend(registry.New())
//	err := store.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".satchel-db",
//	})
//	defer store.Detach()
func NewBackend(reg *registry.Registry) types.Store {
	return sqlite.NewBackend(reg)
}
