package parse

import (
	"encoding/json"
	"fmt"

	"github.com/mesh-intelligence/stixkit/pkg/registry"
	"github.com/mesh-intelligence/stixkit/pkg/types"
)

// Parse decodes raw JSON text and builds the typed object tree. The root
// record always resolves against the objects namespace.
func Parse(reg *registry.Registry, raw []byte, opts ...Option) (*types.TypedObject, error) {
	var root any
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidInput, err)
	}
	return ParseValue(reg, root, opts...)
}

// ParseValue builds the typed object tree from an already-decoded generic
// value, as produced by the JSON decoder: mappings, sequences, and scalars.
func ParseValue(reg *registry.Registry, value any, opts ...Option) (*types.TypedObject, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	m, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: root is not a mapping", types.ErrInvalidInput)
	}

	version, err := effectiveVersion(cfg, m)
	if err != nil {
		return nil, err
	}

	b := &builder{reg: reg, version: version, cfg: cfg}
	return b.resolve(m, types.NamespaceObjects, "", 1, nil)
}

// effectiveVersion picks the version governing the whole call: the explicit
// option wins, then the root's spec_version marker, then the latest.
func effectiveVersion(cfg config, root map[string]any) (types.SpecVersion, error) {
	if cfg.version != "" {
		if !cfg.version.Valid() {
			return "", types.ErrUnknownVersion
		}
		return cfg.version, nil
	}
	if marker, ok := root[types.VersionField]; ok {
		s, ok := marker.(string)
		if !ok {
			return "", fmt.Errorf("%w: spec_version is not a string", types.ErrInvalidInput)
		}
		return types.ParseSpecVersion(s)
	}
	return types.LatestVersion, nil
}
