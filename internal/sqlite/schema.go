package sqlite

// Schema DDL for the object store.
const (
	createObjects = `CREATE TABLE objects (
    object_id TEXT PRIMARY KEY,
    type TEXT NOT NULL,
    spec_version TEXT NOT NULL,
    payload TEXT NOT NULL,
    added_at TEXT NOT NULL
);`
)

// Index DDL for common queries.
const (
	idxObjectsType    = `CREATE INDEX idx_objects_type ON objects(type);`
	idxObjectsVersion = `CREATE INDEX idx_objects_version ON objects(spec_version);`
)

// schemaDDL lists all CREATE statements in execution order.
var schemaDDL = []string{
	createObjects,
	idxObjectsType,
	idxObjectsVersion,
}
