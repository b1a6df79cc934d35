// Delete command removes a stored object by identifier.
package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/stixkit/pkg/types"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored object by id",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	id := args[0]

	backend, err := attachBackend()
	if err != nil {
		return err
	}
	defer backend.Detach()

	if err := backend.Delete(id); err != nil {
		if errors.Is(err, types.ErrObjectNotFound) {
			return fmt.Errorf("object %q not found", id)
		}
		return fmt.Errorf("delete object: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "deleted", id)
	return nil
}
