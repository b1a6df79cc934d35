// Package sqlite implements the object store on SQLite with a JSONL mirror.
// The database file is disposable: every Attach rebuilds it from the JSONL
// mirror, which is the durable record.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/stixkit/pkg/parse"
	"github.com/mesh-intelligence/stixkit/pkg/registry"
	"github.com/mesh-intelligence/stixkit/pkg/types"
)

// dbFile is the SQLite database filename inside the data directory.
const dbFile = "satchel.db"

// Backend is the SQLite implementation of types.Store. Stored payloads are
// generic JSON; reads resolve them back into typed form through the registry
// the backend was constructed with, pinned to each object's recorded version.
type Backend struct {
	mu       sync.Mutex
	attached bool
	config   types.Config
	dataDir  string
	db       *sql.DB
	reg      *registry.Registry
}

// NewBackend creates a detached Backend that resolves stored objects against
// reg.
func NewBackend(reg *registry.Registry) *Backend {
	return &Backend{reg: reg}
}

// Attach opens the database under config.DataDir, creating the directory if
// needed. The database file is recreated from the JSONL mirror so schema
// changes never require migration.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}
	if config.Backend != types.BackendSQLite {
		return fmt.Errorf("%w: %s", types.ErrBackendUnknown, config.Backend)
	}
	if config.DataDir == "" {
		return fmt.Errorf("data directory must not be empty")
	}
	if err := os.MkdirAll(config.DataDir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(config.DataDir, dbFile)
	if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing stale database: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return fmt.Errorf("creating schema: %w", err)
		}
	}

	b.db = db
	b.config = config
	b.dataDir = config.DataDir
	b.attached = true

	if err := b.loadMirror(); err != nil {
		b.db.Close()
		b.db = nil
		b.attached = false
		return err
	}
	return nil
}

// Detach closes the database. Idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	err := b.db.Close()
	b.db = nil
	b.attached = false
	if err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	return nil
}

// Add persists obj and returns its identifier. Objects without an id get one
// generated from their type name.
func (b *Backend) Add(obj *types.TypedObject) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return "", types.ErrStoreDetached
	}
	if obj == nil || obj.Type == "" {
		return "", types.ErrInvalidObject
	}

	id := obj.ID()
	if id == "" {
		id = fmt.Sprintf("%s--%s", obj.Type, uuid.New())
	}

	payload := obj.ToMap()
	payload[types.IDField] = id
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%w: %v", types.ErrInvalidObject, err)
	}

	addedAt := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = b.db.Exec(
		`INSERT INTO objects (object_id, type, spec_version, payload, added_at) VALUES (?, ?, ?, ?, ?)`,
		id, obj.Type, string(obj.Version), string(raw), addedAt,
	)
	if err != nil {
		return "", fmt.Errorf("inserting object %s: %w", id, err)
	}

	if err := b.syncMirror(); err != nil {
		return "", err
	}
	return id, nil
}

// Get retrieves one object by identifier and resolves it back into typed
// form under the version it was stored with.
func (b *Backend) Get(id string) (*types.TypedObject, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}

	var payload, version string
	err := b.db.QueryRow(
		`SELECT payload, spec_version FROM objects WHERE object_id = ?`, id,
	).Scan(&payload, &version)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", types.ErrObjectNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying object %s: %w", id, err)
	}
	return b.revive(payload, version)
}

// Query returns stored objects matching the filter. Supported keys are
// "type", "spec_version" and "limit"; anything else, or a value of the wrong
// type, is ErrInvalidFilter.
func (b *Backend) Query(filter map[string]any) ([]*types.TypedObject, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}

	query := `SELECT payload, spec_version FROM objects`
	var args []any
	var conds []string
	limit := -1

	for k, v := range filter {
		switch k {
		case "type":
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("%w: type must be a string", types.ErrInvalidFilter)
			}
			conds = append(conds, "type = ?")
			args = append(args, s)
		case "spec_version":
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("%w: spec_version must be a string", types.ErrInvalidFilter)
			}
			conds = append(conds, "spec_version = ?")
			args = append(args, s)
		case "limit":
			n, ok := v.(int)
			if !ok {
				return nil, fmt.Errorf("%w: limit must be an int", types.ErrInvalidFilter)
			}
			limit = n
		default:
			return nil, fmt.Errorf("%w: unsupported filter key %q", types.ErrInvalidFilter, k)
		}
	}

	for i, c := range conds {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += " ORDER BY added_at, object_id"
	if limit >= 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := b.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying objects: %w", err)
	}
	defer rows.Close()

	var out []*types.TypedObject
	for rows.Next() {
		var payload, version string
		if err := rows.Scan(&payload, &version); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		obj, err := b.revive(payload, version)
		if err != nil {
			return nil, err
		}
		out = append(out, obj)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return out, nil
}

// Delete removes one object by identifier.
func (b *Backend) Delete(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}

	res, err := b.db.Exec(`DELETE FROM objects WHERE object_id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting object %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting object %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", types.ErrObjectNotFound, id)
	}
	return b.syncMirror()
}

// revive turns a stored payload back into a TypedObject through the parser,
// pinned to the version recorded at Add time. Unknown types stay opaque, so
// content stored before a custom registration still reads back.
func (b *Backend) revive(payload, version string) (*types.TypedObject, error) {
	var m map[string]any
	if err := json.Unmarshal([]byte(payload), &m); err != nil {
		return nil, fmt.Errorf("decoding stored payload: %w", err)
	}
	obj, err := parse.ParseValue(b.reg, m, parse.WithVersion(types.SpecVersion(version)))
	if err != nil {
		return nil, fmt.Errorf("resolving stored payload: %w", err)
	}
	return obj, nil
}

// loadMirror replays objects.jsonl into the fresh database. Each line's
// envelope supplies the version and insertion time the objects table
// recorded; the payload is never consulted for either. Called with the lock
// held during Attach.
func (b *Backend) loadMirror() error {
	path := filepath.Join(b.dataDir, objectsFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	records, err := readJSONL(path)
	if err != nil {
		return err
	}
	for _, line := range records {
		var rec mirrorRecord
		if err := json.Unmarshal(line, &rec); err != nil || len(rec.Payload) == 0 {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal(rec.Payload, &m); err != nil {
			continue
		}
		id, _ := m[types.IDField].(string)
		typeName, _ := m[types.TypeField].(string)
		if id == "" || typeName == "" {
			continue
		}
		version := rec.SpecVersion
		if version == "" {
			version = string(types.LatestVersion)
		}
		addedAt := rec.AddedAt
		if addedAt == "" {
			addedAt = time.Now().UTC().Format(time.RFC3339Nano)
		}
		_, err := b.db.Exec(
			`INSERT OR REPLACE INTO objects (object_id, type, spec_version, payload, added_at) VALUES (?, ?, ?, ?, ?)`,
			id, typeName, version, string(rec.Payload), addedAt,
		)
		if err != nil {
			return fmt.Errorf("replaying object %s: %w", id, err)
		}
	}
	return nil
}

// syncMirror rewrites objects.jsonl from the current table contents. Called
// with the lock held after every mutation.
func (b *Backend) syncMirror() error {
	rows, err := b.db.Query(`SELECT payload, spec_version, added_at FROM objects ORDER BY added_at, object_id`)
	if err != nil {
		return fmt.Errorf("reading objects for mirror: %w", err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		var payload, version, addedAt string
		if err := rows.Scan(&payload, &version, &addedAt); err != nil {
			return fmt.Errorf("scanning payload: %w", err)
		}
		line, err := json.Marshal(mirrorRecord{
			SpecVersion: version,
			AddedAt:     addedAt,
			Payload:     json.RawMessage(payload),
		})
		if err != nil {
			return fmt.Errorf("encoding mirror record: %w", err)
		}
		records = append(records, line)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating payloads: %w", err)
	}
	return writeJSONL(filepath.Join(b.dataDir, objectsFile), records)
}
