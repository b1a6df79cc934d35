// Shared helpers for satchel CLI commands.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/stixkit/internal/sqlite"
	"github.com/mesh-intelligence/stixkit/pkg/parse"
	"github.com/mesh-intelligence/stixkit/pkg/registry"
	"github.com/mesh-intelligence/stixkit/pkg/types"
)

// typeRegistry is the shared registry for all commands. Seeded with the
// built-in catalog; a future plugin mechanism would register custom types
// here before command dispatch.
var typeRegistry = registry.New()

// Parse behavior flags shared by import and inspect.
var (
	flagSpecVersion    string
	flagRejectUnknown  bool
	flagMaxDepth       int
	flagStrictVersions bool
)

// addParseFlags registers the parse behavior flags on a command.
func addParseFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagSpecVersion, "spec-version", "", "force a spec version (2.0 or 2.1) instead of inferring from content")
	cmd.Flags().BoolVar(&flagRejectUnknown, "reject-unknown", false, "fail on types absent from the registry instead of passing them through")
	cmd.Flags().IntVar(&flagMaxDepth, "max-depth", 0, "maximum nesting depth (default 64)")
	cmd.Flags().BoolVar(&flagStrictVersions, "strict-versions", false, "fail when nested objects declare a conflicting spec_version")
}

// parseOptions translates the parse flags into parser options.
func parseOptions() ([]parse.Option, error) {
	var opts []parse.Option
	if flagSpecVersion != "" {
		v, err := types.ParseSpecVersion(flagSpecVersion)
		if err != nil {
			return nil, err
		}
		opts = append(opts, parse.WithVersion(v))
	}
	if flagRejectUnknown {
		opts = append(opts, parse.RejectUnknownTypes())
	}
	if flagMaxDepth > 0 {
		opts = append(opts, parse.WithMaxDepth(flagMaxDepth))
	}
	if flagStrictVersions {
		opts = append(opts, parse.StrictVersions())
	}
	return opts, nil
}

// attachBackend resolves the data directory, creates a SQLite backend bound
// to the shared registry, and attaches it. The caller must defer Detach.
func attachBackend() (*sqlite.Backend, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	cfg := types.Config{
		Backend: types.BackendSQLite,
		DataDir: dataDir,
	}

	backend := sqlite.NewBackend(typeRegistry)
	if err := backend.Attach(cfg); err != nil {
		return nil, fmt.Errorf("attach backend: %w", err)
	}

	return backend, nil
}

// readInput reads a content file, or stdin when path is "-".
func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// printObject writes one object as indented JSON or a short summary line,
// depending on the --json flag.
func printObject(obj *types.TypedObject) error {
	if flagJSON {
		out, err := json.MarshalIndent(obj.ToMap(), "", "  ")
		if err != nil {
			return fmt.Errorf("marshal object: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}
	printSummary(obj)
	return nil
}

// printSummary prints one object's identity line in human-readable form.
func printSummary(obj *types.TypedObject) {
	marker := ""
	if obj.Opaque {
		marker = " (opaque)"
	}
	id := obj.ID()
	if id == "" {
		id = "-"
	}
	fmt.Printf("%-24s %-6s %s%s\n", obj.Type, obj.Version, id, marker)
}
