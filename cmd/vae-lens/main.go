package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"vae-lens/internal/config"
	"vae-lens/internal/evaluator"
)

func main() {
	cfgPath := flag.String("config", "configs/eval.yaml", "Path to YAML config")
	dataRoot := flag.String("data-root", "", "Override data roots with a single root")
	batchSize := flag.Int("batch-size", 0, "Batch size")
	latentDim := flag.Int("latent-dim", 0, "Latent dimensions")
	topK := flag.Int("top-k", 0, "Number of best and worst samples to report")
	seed := flag.Int64("seed", 0, "PRNG seed")
	logEvery := flag.Int("log-every", 0, "Log every N batches")
	history := flag.String("history", "", "YAML loss history to summarise")

	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	cfg.ApplyOverrides(config.Overrides{
		DataRoot:  *dataRoot,
		BatchSize: *batchSize,
		LatentDim: *latentDim,
		TopK:      *topK,
		Seed:      *seed,
		LogEvery:  *logEvery,
		History:   *history,
	})

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runCfg := evaluator.RunConfig{
		Roots:     cfg.DataRoots,
		BatchSize: cfg.BatchSize,
		Channels:  cfg.Channels,
		Height:    cfg.Height,
		Width:     cfg.Width,
		LatentDim: cfg.LatentDim,
		TopK:      cfg.TopK,
		Samples:   cfg.Samples,
		Seed:      cfg.Seed,
		LogEvery:  cfg.LogEvery,
		History:   cfg.History,
	}

	if _, err := evaluator.Run(ctx, runCfg); err != nil {
		log.Fatalf("evaluation failed: %v", err)
	}
}
