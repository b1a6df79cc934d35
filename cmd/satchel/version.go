// Version command for the satchel CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/stixkit/pkg/stixkit"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the satchel version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("satchel", stixkit.Version)
	},
}
