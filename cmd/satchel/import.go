// Import command parses a content file and stores the resolved objects.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/stixkit/pkg/parse"
	"github.com/mesh-intelligence/stixkit/pkg/types"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Parse a content file and store its objects",
	Long: `Import parses a JSON file against the type registry and stores the
resolved objects. A bundle is unpacked and each contained object stored
individually; any other root object is stored as-is.

Parsing is all-or-nothing: if any object in the file fails to resolve,
nothing is stored.

Example:
  satchel import feed.json
  satchel import feed.json --spec-version 2.0
  satchel import feed.json --reject-unknown --strict-versions
  cat feed.json | satchel import -`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	addParseFlags(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	raw, err := readInput(args[0])
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	opts, err := parseOptions()
	if err != nil {
		return err
	}

	root, err := parse.Parse(typeRegistry, raw, opts...)
	if err != nil {
		return fmt.Errorf("parse content: %w", err)
	}

	backend, err := attachBackend()
	if err != nil {
		return err
	}
	defer backend.Detach()

	objects := unpackBundle(root)
	for _, obj := range objects {
		id, err := backend.Add(obj)
		if err != nil {
			return fmt.Errorf("store object: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), id)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d object(s)\n", len(objects))
	return nil
}

// unpackBundle returns a bundle's contained objects, or the root itself for
// any other type.
func unpackBundle(root *types.TypedObject) []*types.TypedObject {
	if root.Type != "bundle" {
		return []*types.TypedObject{root}
	}
	raw, ok := root.Get("objects")
	if !ok {
		return nil
	}
	list, ok := raw.([]*types.TypedObject)
	if !ok {
		return nil
	}
	return list
}
