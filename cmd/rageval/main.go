// Package main provides the rageval command-line interface
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ragstack/rageval/pkg/cache"
	"github.com/ragstack/rageval/pkg/config"
	"github.com/ragstack/rageval/pkg/embedders"
	"github.com/ragstack/rageval/pkg/eval"
	"github.com/ragstack/rageval/pkg/interfaces"
	"github.com/ragstack/rageval/pkg/logger"
	"github.com/ragstack/rageval/pkg/metrics"
	"github.com/ragstack/rageval/pkg/storage"
	"github.com/ragstack/rageval/pkg/types"
)

const appVersion = "1.0.0"

var (
	configFile  = flag.String("config", "", "Path to configuration file (YAML or JSON)")
	datasetFile = flag.String("dataset", "", "Path to dataset JSON file (required)")
	outputFile  = flag.String("output", "", "Write the result JSON to this file instead of stdout")
	logLevel    = flag.String("log-level", "info", "Log level: debug, info, warn, error")
	workers     = flag.Int("workers", 0, "Sample worker count (0 = GOMAXPROCS)")
	noCache     = flag.Bool("no-cache", false, "Bypass the result cache for this run")
	version     = flag.Bool("version", false, "Show version information")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("rageval v%s\n", appVersion)
		fmt.Println("Retrieval evaluation engine for RAG pipelines")
		os.Exit(0)
	}

	log := logger.NewConsoleLogger(*logLevel)

	if *datasetFile == "" {
		log.Fatal("missing required flag: -dataset", nil)
	}

	cfg := config.DefaultEvaluationConfig()
	if *configFile != "" {
		loaded, err := config.LoadFromFile(*configFile)
		if err != nil {
			log.Fatal("failed to load configuration", err)
		}
		cfg = loaded
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Warn("received signal, cancelling run", map[string]interface{}{"signal": sig.String()})
		cancel()
	}()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("evaluation failed", err)
	}
}

func run(ctx context.Context, cfg *config.EvaluationConfig, log interfaces.Logger) error {
	ds, err := eval.LoadDataset(*datasetFile)
	if err != nil {
		return err
	}

	resultCache, err := cache.NewResultCache(&cfg.Cache, log)
	if err != nil {
		return err
	}
	if resultCache != nil {
		defer resultCache.Close()
	}

	cacheKey := cache.Key(ds.Fingerprint(), cfg.Fingerprint())
	if resultCache != nil && !*noCache {
		cached, err := resultCache.Get(ctx, cacheKey)
		if err != nil {
			log.Warn("cache lookup failed, evaluating", map[string]interface{}{"error": err.Error()})
		} else if cached != nil {
			log.Info("serving cached result", map[string]interface{}{"run_id": cached.RunID})
			return writeResult(cached)
		}
	}

	embedder, err := embedders.NewEmbedder(cfg.Embedder)
	if err != nil {
		return err
	}
	if embedder != nil {
		defer embedder.Close()
	}

	evaluator, err := eval.NewEvaluator(cfg, embedder, log, metrics.NewNoOpMetrics())
	if err != nil {
		return err
	}

	result := evaluator.Evaluate(ctx, ds)

	if resultCache != nil && result.Success {
		if err := resultCache.Set(ctx, cacheKey, result); err != nil {
			log.Warn("cache write failed", map[string]interface{}{"error": err.Error()})
		}
	}

	history, err := storage.OpenHistoryStore(&cfg.History, log)
	if err != nil {
		log.Warn("history store unavailable", map[string]interface{}{"error": err.Error()})
	} else if history != nil {
		defer history.Close()
		if err := history.Store(ctx, result); err != nil {
			log.Warn("failed to persist run", map[string]interface{}{"error": err.Error()})
		}
	}

	return writeResult(result)
}

// writeResult emits the result JSON to the output file or stdout
func writeResult(result *types.EvaluationResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if *outputFile != "" {
		return os.WriteFile(*outputFile, data, 0o644)
	}
	_, err = os.Stdout.Write(data)
	return err
}
