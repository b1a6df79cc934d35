// Get command retrieves a stored object by identifier.
package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/stixkit/pkg/types"
)

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Retrieve a stored object by id",
	Long: `Get retrieves one object by its identifier.

Example:
  satchel get indicator--8e2e2d2b-17d4-4cbf-938f-98ee46b3cd3f
  satchel get indicator--8e2e2d2b-17d4-4cbf-938f-98ee46b3cd3f --json`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	id := args[0]

	backend, err := attachBackend()
	if err != nil {
		return err
	}
	defer backend.Detach()

	obj, err := backend.Get(id)
	if err != nil {
		if errors.Is(err, types.ErrObjectNotFound) {
			return fmt.Errorf("object %q not found", id)
		}
		return fmt.Errorf("get object: %w", err)
	}
	return printObject(obj)
}
