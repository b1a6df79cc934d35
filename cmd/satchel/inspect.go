// Inspect command parses a content file and prints the result without
// storing anything.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/stixkit/pkg/parse"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Parse a content file and print the resolved objects",
	Long: `Inspect parses a JSON file against the type registry and prints what it
resolved, one line per object. Use --json for the full reconstructed
content. Nothing is stored.

Example:
  satchel inspect feed.json
  satchel inspect feed.json --json
  satchel inspect feed.json --reject-unknown`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	addParseFlags(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
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

	if flagJSON {
		return printObject(root)
	}
	for _, obj := range unpackBundle(root) {
		printSummary(obj)
	}
	return nil
}
