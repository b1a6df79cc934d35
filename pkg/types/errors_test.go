package types

import (
	"errors"
	"strings"
	"testing"
)

func TestStructuredErrorsUnwrap(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"unknown type", &UnknownTypeError{Namespace: NamespaceObjects, TypeName: "x", Version: Version21}, ErrUnknownType},
		{"missing property", &MissingPropertyError{TypeName: "indicator", Property: "pattern"}, ErrMissingProperty},
		{"version mismatch", &VersionMismatchError{TypeName: "indicator", Want: Version21, Got: "2.0"}, ErrVersionMismatch},
		{"too deep", &StructureTooDeepError{Limit: 8}, ErrStructureTooDeep},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("errors.Is(%v, sentinel) = false", tt.err)
			}
		})
	}
}

func TestBuildErrorCarriesPathAndCause(t *testing.T) {
	cause := &MissingPropertyError{TypeName: "ipv4-addr", Property: "value"}
	err := &BuildError{Path: []string{"bundle", "objects[2]", "observed-data", "objects[0]"}, Err: cause}

	if !errors.Is(err, ErrMissingProperty) {
		t.Error("BuildError does not unwrap to its cause's sentinel")
	}
	msg := err.Error()
	if !strings.Contains(msg, "objects[2]") || !strings.Contains(msg, "value") {
		t.Errorf("BuildError message missing path or cause: %q", msg)
	}
}
