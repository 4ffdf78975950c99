// Package core has the orchestration logic for extraction and aggregation passes.
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/bugcensus/core/agg"
	"github.com/huangsam/bugcensus/core/extract"
	"github.com/huangsam/bugcensus/internal/contract"
	"github.com/huangsam/bugcensus/internal/corpus"
	"github.com/huangsam/bugcensus/internal/outwriter"
	"github.com/huangsam/bugcensus/internal/parquet"
)

// ExecutorFunc defines the function signature for executing a command.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error

// ExecuteExtract walks the corpus, writes the flat table and prints the tally.
// It serves as the main entry point for the 'extract' command.
func ExecuteExtract(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	if !shouldSuppressHeader(ctx) {
		contract.LogInfo("Extracting annotations", map[string]any{
			"root":            cfg.CorpusRoot,
			"annotation_file": cfg.AnnotationFile,
			"table_file":      cfg.TableFile,
		})
	}

	walker, err := corpus.NewWalker(cfg.CorpusRoot,
		corpus.WithAnnotationFile(cfg.AnnotationFile),
		corpus.WithExcludes(cfg.Excludes...),
	)
	if err != nil {
		return err
	}

	tracker := beginRun(mgr, cfg, time.Now())
	var opts []extract.Option
	if sink := tracker.sink(); sink != nil {
		opts = append(opts, extract.WithSink(sink))
	}

	res, err := extract.New(walker, opts...).Run(ctx)
	tracker.end(time.Now(), res.Tally)
	if err != nil {
		return fmt.Errorf("extraction interrupted after %d commits: %w", res.Tally.Seen(), err)
	}

	ow := outwriter.NewOutWriter(outputFrom(ctx))
	if err := ow.WriteTable(cfg.TableFile, res.Records); err != nil {
		return err
	}
	if cfg.ParquetFile != "" {
		if err := parquet.WriteAnnotationsParquet(parquet.ConvertRecords(res.Records), cfg.ParquetFile); err != nil {
			return fmt.Errorf("failed to write parquet table: %w", err)
		}
		contract.LogInfo("Wrote parquet table", map[string]any{"path": cfg.ParquetFile, "records": len(res.Records)})
	}
	return ow.WriteSummary(cfg.CorpusRoot, res.Tally, res.Duration)
}

// ExecuteAggregate loads the flat table and writes every selected view.
// A missing table is returned as agg.ErrInputMissing and no views are produced.
// It serves as the main entry point for the 'aggregate' command.
func ExecuteAggregate(ctx context.Context, cfg *contract.Config, _ contract.StoreManager) error {
	if !shouldSuppressHeader(ctx) {
		contract.LogInfo("Aggregating table", map[string]any{
			"table_file": cfg.TableFile,
			"views_dir":  cfg.ViewsDir,
		})
	}

	specs, err := agg.SelectViews(cfg.Views)
	if err != nil {
		return err
	}

	table, err := agg.LoadTable(cfg.TableFile)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	views := agg.ComputeAll(table, specs)
	if err := outwriter.NewOutWriter(outputFrom(ctx)).WriteViews(views, cfg); err != nil {
		return err
	}
	contract.LogInfo("Aggregation complete", map[string]any{"records": table.Len(), "views": len(views)})
	return nil
}

// ExecuteRun performs extraction followed by aggregation over the written table.
// It serves as the main entry point for the 'run' command.
func ExecuteRun(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	if _, err := agg.SelectViews(cfg.Views); err != nil {
		return err
	}
	if err := ExecuteExtract(ctx, cfg, mgr); err != nil {
		return err
	}
	return ExecuteAggregate(withSuppressHeader(ctx), cfg, mgr)
}

// ExecuteCensus counts the non-excluded directories of the corpus and prints commits per repository.
// It serves as the main entry point for the 'census' command.
func ExecuteCensus(ctx context.Context, cfg *contract.Config, _ contract.StoreManager) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	walker, err := corpus.NewWalker(cfg.CorpusRoot, corpus.WithExcludes(cfg.Excludes...))
	if err != nil {
		return err
	}
	result, err := walker.Census()
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter(outputFrom(ctx)).WriteCensus(result, cfg)
}

// ExecuteViewsList prints the catalogue of available views.
// It serves as the main entry point for the 'views' command.
func ExecuteViewsList(ctx context.Context, cfg *contract.Config, _ contract.StoreManager) error {
	return outwriter.NewOutWriter(outputFrom(ctx)).WriteCatalogue(agg.Describe(), cfg)
}
