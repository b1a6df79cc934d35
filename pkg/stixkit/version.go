// Package stixkit carries module-level metadata.
package stixkit

// Version is the module version reported by the satchel CLI.
const Version = "0.1.0"
