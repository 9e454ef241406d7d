package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kvsearch/ftidx/core/ftindex"
	"github.com/kvsearch/ftidx/core/ftindex/gc"
	"github.com/kvsearch/ftidx/core/ftindex/ingest"
	"github.com/spf13/cobra"
)

var (
	gcSchemaPath string
	gcDocsPath   string
	gcDelete     string
	gcPasses     int
)

var gcCmd = &cobra.Command{
	Use:   "gc",
	Short: "Exercise the garbage collector against an ingested batch",
	Long: `gc loads a schema and document batch the same way ingest does, deletes the
requested keys to create reclaimable postings, then drives the collector
through one or more passes.

Subcommands:
  run    - run N collector passes, reporting hz and removals per pass
  stats  - run N passes silently and print the final GC stats snapshot`,
}

var gcRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one or more GC passes and report each pass's outcome",
	RunE:  runGCRun,
}

var gcStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Run GC passes and print the final stats snapshot as JSON",
	RunE:  runGCStats,
}

func init() {
	rootCmd.AddCommand(gcCmd)
	gcCmd.AddCommand(gcRunCmd)
	gcCmd.AddCommand(gcStatsCmd)

	for _, c := range []*cobra.Command{gcRunCmd, gcStatsCmd} {
		c.Flags().StringVar(&gcSchemaPath, "schema", "", "path to the field schema YAML file (required)")
		c.Flags().StringVar(&gcDocsPath, "docs", "", "path to the newline-delimited JSON document batch (required)")
		c.Flags().StringVar(&gcDelete, "delete", "", "comma-separated document keys to delete before collecting")
		c.Flags().IntVar(&gcPasses, "passes", 1, "number of collector passes to run")
		_ = c.MarkFlagRequired("schema")
		_ = c.MarkFlagRequired("docs")
	}
}

// prepareGCTarget loads the schema and documents, ingests them, applies
// the requested deletes, and returns a collector bound to the resulting
// spec via a resolver that always returns the same in-process instance.
func prepareGCTarget(ctx context.Context, schemaPath, docsPath, deleteList string) (*ftindex.IndexSpec, *gc.GarbageCollector, error) {
	spec, err := loadSchema(schemaPath)
	if err != nil {
		return nil, nil, err
	}
	docs, err := loadDocs(docsPath)
	if err != nil {
		return nil, nil, err
	}

	cfg := ftindex.DefaultConfig()
	host := newLocalHost(false)
	p := ingest.NewPipeline(spec, cfg, host)
	defer p.Close()

	if err := submitAll(ctx, p, docs, cfg.WorkerPoolSize); err != nil {
		return nil, nil, err
	}
	for _, key := range splitKeys(deleteList) {
		_ = p.Delete(key)
	}

	resolve := func(name string) (*ftindex.IndexSpec, bool) {
		if name == spec.Name {
			return spec, true
		}
		return nil, false
	}
	return spec, gc.NewGarbageCollector(host, resolve, spec.Name, spec.UniqueID, cfg), nil
}

func runGCRun(cmd *cobra.Command, args []string) error {
	_, collector, err := prepareGCTarget(cmd.Context(), gcSchemaPath, gcDocsPath, gcDelete)
	if err != nil {
		return err
	}

	for i := 1; i <= gcPasses; i++ {
		removed, err := collector.RunOnce(cmd.Context())
		if err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "pass %d: stopped: %v\n", i, err)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "pass %d: removed=%v hz=%.4f\n", i, removed, collector.Hz())
	}
	return nil
}

func runGCStats(cmd *cobra.Command, args []string) error {
	_, collector, err := prepareGCTarget(cmd.Context(), gcSchemaPath, gcDocsPath, gcDelete)
	if err != nil {
		return err
	}

	for i := 0; i < gcPasses; i++ {
		if _, err := collector.RunOnce(cmd.Context()); err != nil {
			break
		}
	}

	snap, ok := collector.Snapshot()
	if !ok {
		return fmt.Errorf("gc: target spec is gone")
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}
