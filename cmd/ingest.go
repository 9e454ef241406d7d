package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kvsearch/ftidx/core/ftindex"
	"github.com/kvsearch/ftidx/core/ftindex/ingest"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	ingestSchemaPath string
	ingestDocsPath   string
	ingestDelete     string
	ingestVerbose    bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest a document batch against a field schema",
	Long: `Ingest loads a --schema YAML file and a --docs newline-delimited JSON
file, submits every document through the indexing core, and prints a summary
of what landed in the inverted, numeric, and tag indexes.

Example:
  ftidx ingest --schema schema.yaml --docs docs.ndjson`,
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.Flags().StringVar(&ingestSchemaPath, "schema", "", "path to the field schema YAML file (required)")
	ingestCmd.Flags().StringVar(&ingestDocsPath, "docs", "", "path to the newline-delimited JSON document batch (required)")
	ingestCmd.Flags().StringVar(&ingestDelete, "delete", "", "comma-separated document keys to delete after ingest")
	ingestCmd.Flags().BoolVarP(&ingestVerbose, "verbose", "v", false, "log debug-level host activity")
	_ = ingestCmd.MarkFlagRequired("schema")
	_ = ingestCmd.MarkFlagRequired("docs")
}

func runIngest(cmd *cobra.Command, args []string) error {
	spec, err := loadSchema(ingestSchemaPath)
	if err != nil {
		return err
	}
	docs, err := loadDocs(ingestDocsPath)
	if err != nil {
		return err
	}

	cfg := ftindex.DefaultConfig()
	host := newLocalHost(ingestVerbose)
	p := ingest.NewPipeline(spec, cfg, host)
	defer p.Close()

	start := time.Now()
	if err := submitAll(cmd.Context(), p, docs, cfg.WorkerPoolSize); err != nil {
		return err
	}

	deleted := 0
	for _, key := range splitKeys(ingestDelete) {
		if err := p.Delete(key); err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "delete %q: %v\n", key, err)
			continue
		}
		deleted++
	}
	elapsed := time.Since(start)

	fmt.Fprintf(cmd.OutOrStdout(), "spec %q: ingested %d documents, deleted %d, in %s\n",
		spec.Name, len(docs), deleted, elapsed)
	fmt.Fprintf(cmd.OutOrStdout(), "  live documents:     %d\n", spec.Meta.Count())
	fmt.Fprintf(cmd.OutOrStdout(), "  distinct terms:     %d\n", spec.Terms.Len())
	fmt.Fprintf(cmd.OutOrStdout(), "  numeric fields:     %s\n", strings.Join(spec.Numeric.Fields(), ", "))
	fmt.Fprintf(cmd.OutOrStdout(), "  tag fields:         %s\n", strings.Join(spec.Tags.Fields(), ", "))
	fmt.Fprintf(cmd.OutOrStdout(), "  records (stats):    %d\n", spec.Stats.NumRecords())
	return nil
}

// submitAll submits docs concurrently, bounded by workerCount goroutines,
// exercising the same pipeline entry point a production caller would use
// from many connections at once.
func submitAll(ctx context.Context, p *ingest.Pipeline, docs []ftindex.Document, workerCount int) error {
	if workerCount <= 0 {
		workerCount = 4
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerCount)
	for _, doc := range docs {
		doc := doc
		g.Go(func() error {
			return p.Submit(gctx, doc, ingest.Options{})
		})
	}
	return g.Wait()
}

func splitKeys(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
