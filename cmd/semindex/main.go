// Command semindex is the CLI entry point for the latent-semantic
// indexing engine: build, svd, query, stats, doc and serve all live
// in internal/cli; this file only wires process exit codes.
package main

import "github.com/mcjwsn/semindex/internal/cli"

func main() {
	cli.Run()
}
