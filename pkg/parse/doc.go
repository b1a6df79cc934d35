// Package parse reconstructs typed object trees from decoded STIX content.
// Parse accepts raw JSON text or an already-decoded generic value, resolves
// the root against the objects namespace of the effective specification
// version, and recurses into nested collections, applying the same
// resolution at every level. A parse call is all-or-nothing: the first
// failure aborts the whole call and no partial tree is returned.
package parse
