package types

// SpecVersion identifies one revision of the STIX specification. The set of
// available versions is fixed at compile time; only the types registered
// within a version change at runtime.
type SpecVersion string

// Supported specification versions, oldest first.
const (
	Version20 SpecVersion = "2.0"
	Version21 SpecVersion = "2.1"
)

// LatestVersion is the version used when neither the caller nor the content
// names one.
const LatestVersion = Version21

// Well-known field names on decoded records.
const (
	TypeField    = "type"
	VersionField = "spec_version"
	IDField      = "id"
)

// specVersionOrder gives each version its position in release order.
var specVersionOrder = map[SpecVersion]int{
	Version20: 0,
	Version21: 1,
}

// Versions returns all supported specification versions, oldest first.
func Versions() []SpecVersion {
	return []SpecVersion{Version20, Version21}
}

// Valid reports whether v is a supported specification version.
func (v SpecVersion) Valid() bool {
	_, ok := specVersionOrder[v]
	return ok
}

// Compare orders two versions by release: negative when v is older than o,
// zero when equal, positive when newer. Both versions must be valid.
func (v SpecVersion) Compare(o SpecVersion) int {
	return specVersionOrder[v] - specVersionOrder[o]
}

// ParseSpecVersion converts a version marker string into a SpecVersion.
// Returns ErrUnknownVersion for anything outside the supported set.
func ParseSpecVersion(s string) (SpecVersion, error) {
	v := SpecVersion(s)
	if !v.Valid() {
		return "", ErrUnknownVersion
	}
	return v, nil
}
