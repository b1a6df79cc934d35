package sqlite

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/stixkit/pkg/parse"
	"github.com/mesh-intelligence/stixkit/pkg/registry"
	"github.com/mesh-intelligence/stixkit/pkg/types"
)

func testConfig(t *testing.T) types.Config {
	t.Helper()
	return types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}
}

func attachedBackend(t *testing.T, reg *registry.Registry) (*Backend, types.Config) {
	t.Helper()
	b := NewBackend(reg)
	cfg := testConfig(t)
	if err := b.Attach(cfg); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	t.Cleanup(func() { b.Detach() })
	return b, cfg
}

func indicator(t *testing.T, reg *registry.Registry, id string) *types.TypedObject {
	t.Helper()
	if id == "" {
		id = fmt.Sprintf("indicator--%s", uuid.New())
	}
	m := map[string]any{
		"type":         "indicator",
		"spec_version": "2.1",
		"id":           id,
		"created":      "2026-01-12T09:30:00.000Z",
		"modified":     "2026-01-12T09:30:00.000Z",
		"pattern":      "[ipv4-addr:value = '198.51.100.1']",
		"pattern_type": "stix",
		"valid_from":   "2026-01-12T09:30:00Z",
	}
	obj, err := parse.ParseValue(reg, m)
	if err != nil {
		t.Fatalf("building indicator: %v", err)
	}
	return obj
}

func TestLifecycle(t *testing.T) {
	reg := registry.New()
	b := NewBackend(reg)

	if _, err := b.Add(indicator(t, reg, "")); !errors.Is(err, types.ErrStoreDetached) {
		t.Errorf("Add while detached: %v", err)
	}
	if _, err := b.Get("indicator--x"); !errors.Is(err, types.ErrStoreDetached) {
		t.Errorf("Get while detached: %v", err)
	}
	if _, err := b.Query(nil); !errors.Is(err, types.ErrStoreDetached) {
		t.Errorf("Query while detached: %v", err)
	}
	if err := b.Delete("indicator--x"); !errors.Is(err, types.ErrStoreDetached) {
		t.Errorf("Delete while detached: %v", err)
	}

	cfg := testConfig(t)
	if err := b.Attach(cfg); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if err := b.Attach(cfg); !errors.Is(err, types.ErrAlreadyAttached) {
		t.Errorf("second Attach: %v", err)
	}
	if err := b.Detach(); err != nil {
		t.Fatalf("Detach: %v", err)
	}
	if err := b.Detach(); err != nil {
		t.Errorf("repeated Detach: %v", err)
	}
}

func TestAttachRejectsBadConfig(t *testing.T) {
	b := NewBackend(registry.New())
	if err := b.Attach(types.Config{DataDir: t.TempDir()}); !errors.Is(err, types.ErrBackendEmpty) {
		t.Errorf("empty backend: %v", err)
	}
	if err := b.Attach(types.Config{Backend: "etcd", DataDir: t.TempDir()}); !errors.Is(err, types.ErrBackendUnknown) {
		t.Errorf("unknown backend: %v", err)
	}
}

func TestAddGetRoundTrip(t *testing.T) {
	reg := registry.New()
	b, _ := attachedBackend(t, reg)

	const id = "indicator--8e2e2d2b-17d4-4cbf-938f-98ee46b3cd3f"
	got, err := b.Add(indicator(t, reg, id))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if got != id {
		t.Errorf("Add returned %q, want %q", got, id)
	}

	obj, err := b.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if obj.Type != "indicator" || obj.Version != types.Version21 {
		t.Errorf("retrieved %q/%q", obj.Type, obj.Version)
	}
	if p := obj.GetString("pattern"); p != "[ipv4-addr:value = '198.51.100.1']" {
		t.Errorf("pattern = %q", p)
	}
	if obj.Opaque {
		t.Error("registered type revived as opaque")
	}
}

func TestAddGeneratesID(t *testing.T) {
	reg := registry.New()
	b, _ := attachedBackend(t, reg)

	// Built directly rather than through ParseValue: the builtin 2.1
	// indicator schema requires id, so a parsed object always has one.
	obj := &types.TypedObject{
		Type:    "indicator",
		Version: types.Version21,
		Properties: map[string]any{
			"type":         "indicator",
			"spec_version": "2.1",
			"created":      "2026-01-12T09:30:00.000Z",
			"modified":     "2026-01-12T09:30:00.000Z",
			"pattern":      "[ipv4-addr:value = '198.51.100.1']",
			"pattern_type": "stix",
			"valid_from":   "2026-01-12T09:30:00Z",
		},
	}
	id, err := b.Add(obj)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if !strings.HasPrefix(id, "indicator--") {
		t.Errorf("generated id %q lacks type prefix", id)
	}
	if _, err := b.Get(id); err != nil {
		t.Errorf("Get generated id: %v", err)
	}
}

func TestAddRejectsInvalidObject(t *testing.T) {
	b, _ := attachedBackend(t, registry.New())
	if _, err := b.Add(nil); !errors.Is(err, types.ErrInvalidObject) {
		t.Errorf("nil object: %v", err)
	}
	if _, err := b.Add(&types.TypedObject{}); !errors.Is(err, types.ErrInvalidObject) {
		t.Errorf("untyped object: %v", err)
	}
}

func TestQueryFilters(t *testing.T) {
	reg := registry.New()
	b, _ := attachedBackend(t, reg)

	if _, err := b.Add(indicator(t, reg, "")); err != nil {
		t.Fatalf("Add indicator: %v", err)
	}
	identity, err := parse.ParseValue(reg, map[string]any{
		"type":           "identity",
		"spec_version":   "2.1",
		"id":             fmt.Sprintf("identity--%s", uuid.New()),
		"created":        "2026-02-01T00:00:00.000Z",
		"modified":       "2026-02-01T00:00:00.000Z",
		"name":           "ACME Threat Research",
		"identity_class": "organization",
	})
	if err != nil {
		t.Fatalf("building identity: %v", err)
	}
	if _, err := b.Add(identity); err != nil {
		t.Fatalf("Add identity: %v", err)
	}

	all, err := b.Query(nil)
	if err != nil {
		t.Fatalf("Query all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("Query all returned %d objects", len(all))
	}

	indicators, err := b.Query(map[string]any{"type": "indicator"})
	if err != nil {
		t.Fatalf("Query by type: %v", err)
	}
	if len(indicators) != 1 || indicators[0].Type != "indicator" {
		t.Errorf("type filter returned %d objects", len(indicators))
	}

	limited, err := b.Query(map[string]any{"limit": 1})
	if err != nil {
		t.Fatalf("Query with limit: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("limit 1 returned %d objects", len(limited))
	}

	if _, err := b.Query(map[string]any{"type": 7}); !errors.Is(err, types.ErrInvalidFilter) {
		t.Errorf("non-string type filter: %v", err)
	}
	if _, err := b.Query(map[string]any{"severity": "high"}); !errors.Is(err, types.ErrInvalidFilter) {
		t.Errorf("unsupported filter key: %v", err)
	}
}

func TestDelete(t *testing.T) {
	reg := registry.New()
	b, _ := attachedBackend(t, reg)

	id, err := b.Add(indicator(t, reg, ""))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := b.Delete(id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := b.Get(id); !errors.Is(err, types.ErrObjectNotFound) {
		t.Errorf("Get after delete: %v", err)
	}
	if err := b.Delete(id); !errors.Is(err, types.ErrObjectNotFound) {
		t.Errorf("repeated delete: %v", err)
	}
}

func TestMirrorSurvivesReattach(t *testing.T) {
	reg := registry.New()
	b := NewBackend(reg)
	cfg := testConfig(t)
	if err := b.Attach(cfg); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	id, err := b.Add(indicator(t, reg, ""))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := b.Detach(); err != nil {
		t.Fatalf("Detach: %v", err)
	}

	fresh := NewBackend(reg)
	if err := fresh.Attach(cfg); err != nil {
		t.Fatalf("re-Attach: %v", err)
	}
	defer fresh.Detach()

	obj, err := fresh.Get(id)
	if err != nil {
		t.Fatalf("Get after reload: %v", err)
	}
	if obj.Type != "indicator" {
		t.Errorf("reloaded type = %q", obj.Type)
	}
}

func TestVersionPinnedAcrossReattach(t *testing.T) {
	reg := registry.New()
	b := NewBackend(reg)
	cfg := testConfig(t)
	if err := b.Attach(cfg); err != nil {
		t.Fatalf("Attach: %v", err)
	}

	// A 2.0 bundle member carries no spec_version property of its own; the
	// version lives only in the call. Under 2.1 this record is incomplete
	// (no pattern_type), so replaying it at the wrong version would fail.
	obj, err := parse.ParseValue(reg, map[string]any{
		"type":       "indicator",
		"id":         "indicator--0b7d35b1-3a9a-4a69-9b44-2e2e7d13c3b0",
		"created":    "2026-01-12T09:30:00.000Z",
		"modified":   "2026-01-12T09:30:00.000Z",
		"pattern":    "[url:value = 'http://example.com/malicious']",
		"valid_from": "2026-01-12T09:30:00Z",
	}, parse.WithVersion(types.Version20))
	if err != nil {
		t.Fatalf("building 2.0 indicator: %v", err)
	}

	id, err := b.Add(obj)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := b.Detach(); err != nil {
		t.Fatalf("Detach: %v", err)
	}

	fresh := NewBackend(reg)
	if err := fresh.Attach(cfg); err != nil {
		t.Fatalf("re-Attach: %v", err)
	}
	defer fresh.Detach()

	got, err := fresh.Get(id)
	if err != nil {
		t.Fatalf("Get after reload: %v", err)
	}
	if got.Version != types.Version20 {
		t.Errorf("reloaded version = %q, want 2.0", got.Version)
	}
	if got.Opaque {
		t.Error("reloaded indicator is opaque")
	}

	matches, err := fresh.Query(map[string]any{"spec_version": "2.0"})
	if err != nil {
		t.Fatalf("Query after reload: %v", err)
	}
	if len(matches) != 1 {
		t.Errorf("spec_version filter found %d objects after reload, want 1", len(matches))
	}
}

func TestOpaqueObjectSurvivesStore(t *testing.T) {
	reg := registry.New()
	b, _ := attachedBackend(t, reg)

	custom, err := parse.ParseValue(reg, map[string]any{
		"type": "x-acme-widget",
		"name": "widget",
	})
	if err != nil {
		t.Fatalf("building custom object: %v", err)
	}
	id, err := b.Add(custom)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	obj, err := b.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !obj.Opaque {
		t.Error("unregistered type did not revive opaque")
	}
	if obj.GetString("name") != "widget" {
		t.Errorf("name = %q", obj.GetString("name"))
	}
}
