// Package main provides the satchel CLI, a command-line front end for
// parsing and storing threat-intelligence content.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUserError)
	}
}
