// Package main is the docfinder CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/intecdocs/docfinder/internal/classify"
	"github.com/intecdocs/docfinder/internal/config"
	"github.com/intecdocs/docfinder/internal/ingest"
	"github.com/intecdocs/docfinder/internal/interpret"
	"github.com/intecdocs/docfinder/internal/metrics"
	"github.com/intecdocs/docfinder/internal/query"
	"github.com/intecdocs/docfinder/internal/report"
	"github.com/intecdocs/docfinder/internal/search"
	"github.com/intecdocs/docfinder/internal/server"
	"github.com/intecdocs/docfinder/internal/stats"
	"github.com/intecdocs/docfinder/internal/store"
	"github.com/intecdocs/docfinder/internal/watcher"
	"github.com/intecdocs/docfinder/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/docfinder/config.yaml"

// loadConfig loads config from path. When path is the default, a config.yaml
// in the current directory takes precedence, so running from the project dir
// picks up the project's config.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	switch command := os.Args[1]; command {
	case "server":
		runServer()
	case "ingest":
		runIngest()
	case "search":
		runSearch()
	case "query":
		runQuery()
	case "stats":
		runStats()
	case "version", "--version", "-v":
		fmt.Printf("docfinder version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// openStore builds the configured record store and initializes it.
func openStore(cfg *config.Config, logger *zap.Logger) (store.Store, error) {
	var st store.Store
	switch cfg.Storage.Backend {
	case "", "json":
		st = store.NewJSONStore(cfg.Storage.IndexPath, store.WithLogger(logger))
	case "sqlite":
		sq, err := store.NewSQLiteStore(cfg.Storage.SQLitePath, store.WithSQLiteLogger(logger))
		if err != nil {
			return nil, err
		}
		st = sq
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
	if err := st.Init(context.Background()); err != nil {
		return nil, err
	}
	return st, nil
}

// buildInterpreter wires the configured interpreter backend. The LLM backend
// always gets the rule engine as fallback so interpretation never fails, and
// is prompted with the live catalog so record-borne categories reach the model.
func buildInterpreter(cfg *config.Config, st store.Store, logger *zap.Logger) interpret.Interpreter {
	rules := interpret.NewRuleInterpreter()
	if cfg.Interpreter.Backend != "deepseek" {
		return rules
	}
	llm := interpret.NewLLMInterpreter(
		cfg.Interpreter.BaseURL,
		cfg.Interpreter.Model,
		os.Getenv(cfg.Interpreter.APIKeyEnv),
		time.Duration(cfg.Interpreter.TimeoutSeconds)*time.Second,
		func(ctx context.Context) []string { return classify.CatalogFrom(st.Load(ctx)) },
		interpret.WithLLMLogger(logger),
	)
	return interpret.NewFallbackInterpreter(llm, rules, logger)
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	_ = godotenv.Load()

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.String("storage_backend", cfg.Storage.Backend),
		zap.Bool("debug", debugMode),
	)

	st, err := openStore(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open store", zap.Error(err))
	}
	defer st.Close()

	intake := ingest.NewService(st, ingest.NewDiskWriter(cfg.Storage.FilesDir), ingest.WithLogger(logger))
	m := metrics.New()

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	var watch *watcher.Watcher
	if len(cfg.Intake.Directories) > 0 {
		watchOpts := []watcher.Option{}
		if debugMode {
			watchOpts = append(watchOpts, watcher.WithLogger(logger))
		}
		watch = watcher.New(cfg.Intake.Directories, cfg.Intake.Extensions, func(path string) {
			record, err := intake.IngestFile(context.Background(), path)
			if err != nil {
				logger.Warn("hot-folder ingest failed", zap.String("path", path), zap.Error(err))
				return
			}
			m.RecordIngest(record.Category, record.ExtractionFailed)
		}, watchOpts...)
		if err := watch.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
		watch.SyncExistingFiles()
	}

	srv := server.NewServer(intake, st, buildInterpreter(cfg, st, logger), m, cfg, logger)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	if watch != nil {
		watch.Stop()
	}
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// setupDirect builds the pieces the offline subcommands need.
func setupDirect(configPath string) (*config.Config, store.Store, *zap.Logger) {
	_ = godotenv.Load()
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	st, err := openStore(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open store", zap.Error(err))
	}
	return cfg, st, logger
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func runIngest() {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])
	if fs.NArg() < 1 {
		fmt.Println("Usage: docfinder ingest [flags] <file> [file...]")
		os.Exit(1)
	}

	cfg, st, logger := setupDirect(*configPath)
	defer st.Close()
	defer logger.Sync()

	intake := ingest.NewService(st, ingest.NewDiskWriter(cfg.Storage.FilesDir), ingest.WithLogger(logger))
	files := make([]ingest.BatchFile, 0, fs.NArg())
	for _, path := range fs.Args() {
		content, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot read %s: %v\n", path, err)
			os.Exit(1)
		}
		files = append(files, ingest.BatchFile{Name: filepath.Base(path), Content: content})
	}
	printJSON(intake.IngestBatch(context.Background(), files))
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])
	if fs.NArg() < 1 {
		fmt.Println("Usage: docfinder search [flags] <term>")
		os.Exit(1)
	}

	_, st, logger := setupDirect(*configPath)
	defer st.Close()
	defer logger.Sync()

	term := strings.TrimSpace(strings.Join(fs.Args(), " "))
	hits := search.Search(st.Load(context.Background()), term)
	printJSON(map[string]any{"query": term, "results": hits, "total": len(hits)})
}

func runQuery() {
	fs := flag.NewFlagSet("query", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])
	if fs.NArg() < 1 {
		fmt.Println("Usage: docfinder query [flags] <natural-language query>")
		os.Exit(1)
	}

	cfg, st, logger := setupDirect(*configPath)
	defer st.Close()
	defer logger.Sync()

	q := strings.TrimSpace(strings.Join(fs.Args(), " "))
	params, err := buildInterpreter(cfg, st, logger).Interpret(context.Background(), q)
	if err != nil {
		logger.Fatal("Interpretation failed", zap.Error(err))
	}
	hits := query.Run(st.Load(context.Background()), params)
	printJSON(map[string]any{"parameters": params, "results": hits, "total": len(hits)})
}

func runStats() {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	export := fs.String("export", "", "write a full report to this file (.xlsx for a workbook, otherwise JSON)")
	_ = fs.Parse(os.Args[2:])

	_, st, logger := setupDirect(*configPath)
	defer st.Close()
	defer logger.Sync()

	index := st.Load(context.Background())
	if *export != "" {
		if err := report.Build(index, time.Now()).WriteFile(*export); err != nil {
			logger.Fatal("Report export failed", zap.Error(err))
		}
		fmt.Printf("Report written to %s\n", *export)
	}
	printJSON(stats.Compute(index))
}

func printUsage() {
	fmt.Println(`docfinder - document intake and retrieval service

Usage:
  docfinder server [-config path] [-debug]     start the HTTP API and hot-folder intake
  docfinder ingest [-config path] <file>...    ingest files directly into the store
  docfinder search [-config path] <term>       relevance search over the index
  docfinder query  [-config path] <sentence>   interpret a sentence and run it as a query
  docfinder stats  [-config path] [-export f]  print collection statistics, optionally exporting a report
  docfinder version                            print version`)
}
