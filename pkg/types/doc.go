// Package types defines the specification versions, namespaces, schema
// shapes, parsed-object representation, and standard error types shared by
// the stixkit registry, parser, and storage backends.
package types
