// Command strata extracts document outlines in batch.
//
// Inputs are files or directories; directories are walked recursively
// for supported extensions (.pdf, .docx, .md, .markdown, .html, .htm).
// Each input produces <stem>.json next to it, or under the -o
// directory when given.
//
// Usage:
//
//	strata [flags] <file-or-dir>...
//
// Examples:
//
//	strata report.pdf
//	strata -o out -jobs 4 -report batch.xlsx docs/
//	strata -preset thorough -trace runs.db -validate specs/
package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/strucdoc/strata/export"
	"github.com/strucdoc/strata/govern"
	"github.com/strucdoc/strata/internal/config"
	"github.com/strucdoc/strata/outline"
	"github.com/strucdoc/strata/source"
	"github.com/strucdoc/strata/trace"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to a YAML config file")
		outDir     = flag.String("o", "", "Output directory (default: next to each input)")
		jobs       = flag.Int("jobs", 6, "Number of files processed concurrently")
		reportPath = flag.String("report", "", "Write an XLSX batch report to this path")
		tracePath  = flag.String("trace", "", "Record runs to this SQLite database")
		validate   = flag.Bool("validate", false, "Check each emitted outline against the output schema")
		preset     = flag.String("preset", "", "Engine preset: balanced, fast or thorough")
		workers    = flag.Int("workers", 0, "Page workers per file (overrides the preset)")
		verbose    = flag.Bool("v", false, "Debug logging")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "strata:", err)
		os.Exit(1)
	}

	// Flags are the last layer.
	if *preset != "" {
		cfg.Engine.Preset = *preset
	}
	if *workers > 0 {
		cfg.Engine.Workers = *workers
	}
	if *tracePath != "" {
		cfg.Trace.Path = *tracePath
	}
	if *verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "strata:", err)
		os.Exit(1)
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(log)

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: strata [flags] <file-or-dir>...")
		flag.PrintDefaults()
		os.Exit(2)
	}

	files, err := collectInputs(flag.Args())
	if err != nil {
		log.Error("input scan failed", "error", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		log.Error("no supported inputs found")
		os.Exit(1)
	}

	if *outDir != "" {
		if err := os.MkdirAll(*outDir, 0o755); err != nil {
			log.Error("create output directory", "error", err)
			os.Exit(1)
		}
	}

	var store *trace.Store
	if cfg.Trace.Path != "" {
		db, err := trace.Open(cfg.Trace.Path)
		if err != nil {
			log.Error("open trace store", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		store = trace.NewStore(db)
		if err := store.Init(); err != nil {
			log.Error("init trace store", "error", err)
			os.Exit(1)
		}
		defer store.Close()
	}

	engineCfg := cfg.Engine.EngineOptions()
	engineCfg.Logger = log
	governorCfg := cfg.Governor.GovernorOptions()
	governorCfg.Logger = log

	b := &batch{
		engine:   outline.NewWithConfig(engineCfg),
		governor: govern.NewWithConfig(governorCfg),
		store:    store,
		log:      log,
		outDir:   *outDir,
		validate: *validate,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	records := b.run(ctx, files, *jobs)

	if *reportPath != "" {
		if err := export.WriteReport(*reportPath, records, log); err != nil {
			log.Error("write report", "error", err)
			os.Exit(1)
		}
	}

	failed := 0
	for _, rec := range records {
		if rec.Err != "" {
			failed++
		}
	}
	log.Info("batch finished", "inputs", len(records), "failed", failed)
	if failed > 0 {
		os.Exit(1)
	}
}

type batch struct {
	engine   *outline.Engine
	governor *govern.Governor
	store    *trace.Store
	log      *slog.Logger
	outDir   string
	validate bool
}

// run processes files with bounded concurrency and returns one record
// per file that was started before cancellation.
func (b *batch) run(ctx context.Context, files []string, jobs int) []export.RunRecord {
	if jobs < 1 {
		jobs = 1
	}
	sem := make(chan struct{}, jobs)
	var wg sync.WaitGroup
	results := make([]export.RunRecord, len(files))

	cancelled := false
	for i, path := range files {
		if ctx.Err() != nil {
			break
		}
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			cancelled = true
		}
		if cancelled {
			break
		}
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = b.processFile(ctx, path)
		}(i, path)
	}
	wg.Wait()

	records := results[:0:0]
	for _, rec := range results {
		if rec.Input != "" {
			records = append(records, rec)
		}
	}
	return records
}

func (b *batch) processFile(ctx context.Context, path string) export.RunRecord {
	gctx, stop := b.governor.Guard(ctx)
	defer stop()

	src, err := source.ForFile(path)
	if err != nil {
		b.log.Error("unsupported input", "input", path, "error", err)
		return b.failed(path, err)
	}

	pages, err := src.Load(gctx, path)
	if err != nil {
		b.log.Error("load failed", "input", path, "error", err)
		return b.failed(path, err)
	}

	res := b.engine.Extract(gctx, pages)

	data, err := export.MarshalOutline(res.Outline)
	if err != nil {
		b.log.Error("encode failed", "input", path, "error", err)
		return b.failed(path, err)
	}
	if b.validate {
		if err := export.ValidateJSON(data); err != nil {
			b.log.Error("schema validation failed", "input", path, "error", err)
			return b.failed(path, err)
		}
	}

	outPath := b.outputPath(path)
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		b.log.Error("write failed", "input", path, "error", err)
		return b.failed(path, err)
	}

	if b.store != nil {
		b.store.RecordAsync(trace.NewRun(path, res))
	}
	b.log.Info("outline written",
		"input", path,
		"output", outPath,
		"entries", len(res.Outline.Entries),
		"conditions", res.Conditions.String(),
		"elapsed", res.Stats.Elapsed,
	)
	return export.NewRunRecord(path, res)
}

func (b *batch) failed(path string, err error) export.RunRecord {
	if b.store != nil {
		b.store.RecordAsync(trace.FailedRun(path, err))
	}
	return export.FailedRunRecord(path, err)
}

func (b *batch) outputPath(input string) string {
	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + ".json"
	if b.outDir != "" {
		return filepath.Join(b.outDir, stem)
	}
	return filepath.Join(filepath.Dir(input), stem)
}

// collectInputs expands files and directories into the list of
// supported input files, in walk order.
func collectInputs(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && source.IsSupported(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}
