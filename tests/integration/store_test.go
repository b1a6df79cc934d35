// Store integration tests: parse, persist, reload.
package integration

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/stixkit/internal/sqlite"
	"github.com/mesh-intelligence/stixkit/pkg/parse"
	"github.com/mesh-intelligence/stixkit/pkg/registry"
	"github.com/mesh-intelligence/stixkit/pkg/types"
)

func TestStoreRoundTripThroughParser(t *testing.T) {
	reg := registry.New()
	dataDir := t.TempDir()
	cfg := types.Config{Backend: types.BackendSQLite, DataDir: dataDir}

	backend := sqlite.NewBackend(reg)
	require.NoError(t, backend.Attach(cfg))

	obj, err := parse.Parse(reg, []byte(`{
		"type": "malware",
		"spec_version": "2.1",
		"id": "malware--31b940d4-6f7f-459a-80ea-9c1f17b58abc",
		"created": "2026-05-01T00:00:00.000Z",
		"modified": "2026-05-01T00:00:00.000Z",
		"name": "Cryptolocker",
		"is_family": true
	}`))
	require.NoError(t, err)

	id, err := backend.Add(obj)
	require.NoError(t, err)
	require.NoError(t, backend.Detach())

	// A fresh backend over the same data directory sees the object.
	reloaded := sqlite.NewBackend(reg)
	require.NoError(t, reloaded.Attach(cfg))
	defer reloaded.Detach()

	got, err := reloaded.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "malware", got.Type)
	assert.Equal(t, types.Version21, got.Version)
	assert.Equal(t, "Cryptolocker", got.GetString("name"))
	assert.False(t, got.Opaque)
}

func TestStoreMirrorCarriesVersionEnvelope(t *testing.T) {
	reg := registry.New()
	dataDir := t.TempDir()
	cfg := types.Config{Backend: types.BackendSQLite, DataDir: dataDir}

	backend := sqlite.NewBackend(reg)
	require.NoError(t, backend.Attach(cfg))
	defer backend.Detach()

	obj, err := parse.ParseValue(reg, map[string]any{
		"type":           "identity",
		"spec_version":   "2.1",
		"id":             "identity--3bcb59f1-8b67-4d34-9894-ca9bb570bd0d",
		"created":        "2026-02-01T00:00:00.000Z",
		"modified":       "2026-02-01T00:00:00.000Z",
		"name":           "ACME Threat Research",
		"identity_class": "organization",
	})
	require.NoError(t, err)

	_, err = backend.Add(obj)
	require.NoError(t, err)

	// Each JSONL line is an envelope of the stored version plus the
	// reconstructed object, readable without any registry or database.
	records := ReadJSONLFile[map[string]any](t, filepath.Join(dataDir, "objects.jsonl"))
	require.Len(t, records, 1)
	assert.Equal(t, "2.1", records[0]["spec_version"])
	payload, ok := records[0]["payload"].(map[string]any)
	require.True(t, ok, "mirror line has no payload mapping")
	assert.Equal(t, "identity", payload["type"])
	assert.Equal(t, "ACME Threat Research", payload["name"])
}

func TestStoreVersionPinning(t *testing.T) {
	reg := registry.New()
	cfg := types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}

	backend := sqlite.NewBackend(reg)
	require.NoError(t, backend.Attach(cfg))

	// A 2.0 bundle member stored individually: no spec_version property of
	// its own, no pattern_type. It must revive under 2.0, not the latest
	// version, even across a restart.
	obj, err := parse.ParseValue(reg, map[string]any{
		"type":       "indicator",
		"id":         "indicator--0b7d35b1-3a9a-4a69-9b44-2e2e7d13c3b0",
		"created":    "2026-01-12T09:30:00.000Z",
		"modified":   "2026-01-12T09:30:00.000Z",
		"pattern":    "[url:value = 'http://example.com/malicious']",
		"valid_from": "2026-01-12T09:30:00Z",
	}, parse.WithVersion(types.Version20))
	require.NoError(t, err)

	id, err := backend.Add(obj)
	require.NoError(t, err)

	got, err := backend.Get(id)
	require.NoError(t, err)
	assert.Equal(t, types.Version20, got.Version)

	require.NoError(t, backend.Detach())

	reloaded := sqlite.NewBackend(reg)
	require.NoError(t, reloaded.Attach(cfg))
	defer reloaded.Detach()

	got, err = reloaded.Get(id)
	require.NoError(t, err)
	assert.Equal(t, types.Version20, got.Version)
	assert.False(t, got.Opaque)

	matches, err := reloaded.Query(map[string]any{"spec_version": "2.0"})
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}
