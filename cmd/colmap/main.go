// Package main provides the CLI entrypoint for colmap.
//
// colmap maps the keys of a JSON payload onto the columns of a SQL table:
//   - Extracts column names from a CREATE TABLE statement
//   - Matches keys by normalized fuzzy similarity
//   - Falls back to embedding similarity for keys without a close lexical match
//   - Serves the same operations over HTTP
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdin).Execute(); err != nil {
		os.Exit(1)
	}
}
