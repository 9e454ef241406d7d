// Package cmd provides the ftidx command-line tool: a thin operational
// surface over the indexing and garbage-collection core in core/ftindex,
// for driving a schema + document batch through ingest and GC without a
// host process.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ftidx",
	Short: "ftidx - indexing and garbage-collection core for a full-text engine",
	Long: `ftidx drives the document-ingestion and garbage-collection core of a
full-text indexing engine from the command line: load a field schema and a
batch of documents, ingest them, and inspect or exercise the background
collector that reclaims space from deleted documents.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
