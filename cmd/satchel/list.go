// List command queries stored objects with optional filtering.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	flagListType    string
	flagListVersion string
	flagListLimit   int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored objects",
	Long: `List prints the stored objects, optionally filtered by type and spec
version.

Example:
  satchel list
  satchel list --type indicator
  satchel list --type malware --of-version 2.0 --limit 10`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&flagListType, "type", "", "only objects of this type")
	listCmd.Flags().StringVar(&flagListVersion, "of-version", "", "only objects stored under this spec version")
	listCmd.Flags().IntVar(&flagListLimit, "limit", 0, "return at most this many objects")
}

func runList(cmd *cobra.Command, args []string) error {
	backend, err := attachBackend()
	if err != nil {
		return err
	}
	defer backend.Detach()

	filter := make(map[string]any)
	if flagListType != "" {
		filter["type"] = flagListType
	}
	if flagListVersion != "" {
		filter["spec_version"] = flagListVersion
	}
	if flagListLimit > 0 {
		filter["limit"] = flagListLimit
	}

	objects, err := backend.Query(filter)
	if err != nil {
		return fmt.Errorf("query objects: %w", err)
	}

	for _, obj := range objects {
		if err := printObject(obj); err != nil {
			return err
		}
	}
	if !flagJSON {
		fmt.Fprintf(cmd.OutOrStdout(), "%d object(s)\n", len(objects))
	}
	return nil
}
