package evaluator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"time"

	"vae-lens/internal/dataset"
	"vae-lens/internal/latent"
	"vae-lens/internal/metrics"
	"vae-lens/internal/model"
	"vae-lens/internal/objective"
	"vae-lens/internal/ranking"
)

// RunConfig captures the knobs required by an evaluation run.
type RunConfig struct {
	Roots     []string
	BatchSize int
	Channels  int
	Height    int
	Width     int
	LatentDim int
	TopK      int
	Samples   int
	Seed      int64
	LogEvery  int
	History   string
}

// Result collects everything an evaluation run reports.
type Result struct {
	Samples   int
	TotalLoss float64
	Summary   latent.Summary
	Report    ranking.Report
	Generated model.Batch
	History   *metrics.History
}

// Run loads the shards under cfg.Roots and evaluates a freshly seeded,
// untrained LinearVAE against them. The numbers it reports exercise the
// evaluation pipeline end to end; they say nothing about a trained model.
func Run(ctx context.Context, cfg RunConfig) (Result, error) {
	if len(cfg.Roots) == 0 {
		return Result{}, errors.New("evaluator: no data roots")
	}
	if cfg.TopK <= 0 {
		cfg.TopK = ranking.DefaultK
	}
	if cfg.LogEvery <= 0 {
		cfg.LogEvery = 50
	}

	shards, err := dataset.DiscoverShards(cfg.Roots...)
	if err != nil {
		return Result{}, err
	}
	if len(shards) == 0 {
		return Result{}, fmt.Errorf("evaluator: no shards under %v", cfg.Roots)
	}
	log.Printf("roots=%d shards=%d", len(cfg.Roots), len(shards))

	src, err := dataset.Load(ctx, shards, dataset.LoadOptions{
		BatchSize: cfg.BatchSize,
		Channels:  cfg.Channels,
		Height:    cfg.Height,
		Width:     cfg.Width,
	})
	if err != nil {
		return Result{}, err
	}
	log.Printf("batches=%d samples=%d", src.Batches(), src.Len())

	mdl := model.NewLinearVAE(cfg.Channels, cfg.Height, cfg.Width, cfg.LatentDim, cfg.Seed)
	res := Result{Samples: src.Len()}

	res.TotalLoss, err = scorePass(ctx, mdl, src, cfg.LogEvery)
	if err != nil {
		return Result{}, err
	}
	log.Printf("objective samples=%d total_loss=%.4f", res.Samples, res.TotalLoss)

	latents, err := latent.Collect(ctx, mdl, src, cfg.LogEvery)
	if err != nil {
		return Result{}, fmt.Errorf("collect latents: %w", err)
	}
	res.Summary = latent.Summarize(latents)
	log.Printf("latent samples=%d dim=%d healthy=%t", res.Summary.Count, latents.Dim, res.Summary.Healthy(0.1))
	log.Printf("latent %s", res.Summary)

	res.Report, err = ranking.Evaluate(ctx, mdl, src, objective.Loss, cfg.TopK, cfg.LogEvery)
	if err != nil {
		return Result{}, fmt.Errorf("rank samples: %w", err)
	}
	logRanking("best", res.Report.Ranking.Best, res.Report.Losses)
	logRanking("worst", res.Report.Ranking.Worst, res.Report.Losses)

	if cfg.Samples > 0 {
		rng := rand.New(rand.NewSource(cfg.Seed))
		res.Generated, err = latent.Sample(mdl, cfg.Samples, rng)
		if err != nil {
			return Result{}, err
		}
		log.Printf("generated samples=%d shape=%v", res.Generated.N, res.Generated.Shape())
	}

	if cfg.History != "" {
		res.History, err = metrics.LoadHistory(cfg.History)
		if err != nil {
			return Result{}, err
		}
		epoch, best, err := res.History.Best()
		if err != nil {
			return Result{}, err
		}
		log.Printf("history epochs=%d best_epoch=%d best_val_loss=%.4f", res.History.Epochs(), epoch, best)
	}

	return res, nil
}

// scorePass computes the batch objective over src and returns its sum.
func scorePass(ctx context.Context, m model.Model, src dataset.Source, logEvery int) (float64, error) {
	defer model.Inference(m)()
	src.Reset()

	var (
		window metrics.Window
		total  float64
	)
	for step := 1; ; step++ {
		startData := time.Now()
		batch, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, err
		}
		if batch.N == 0 {
			continue
		}
		dataTime := time.Since(startData)

		startCompute := time.Now()
		recon, mu, logvar, err := m.Forward(batch)
		if err != nil {
			return 0, fmt.Errorf("forward batch %d: %w", step, err)
		}
		terms, err := objective.Evaluate(recon, batch, mu, logvar)
		if err != nil {
			return 0, fmt.Errorf("objective batch %d: %w", step, err)
		}
		computeTime := time.Since(startCompute)

		total += terms.Total
		window.Record(batch.N, dataTime, computeTime, terms.Total)

		if step%logEvery == 0 {
			logSnapshot(step, window.Snapshot(), terms)
		}
	}
	return total, nil
}

func logSnapshot(step int, snap metrics.Snapshot, last objective.Terms) {
	log.Printf("step=%d images_per_sec=%.1f data_ms=%.2f compute_ms=%.2f loss_per_sample=%.4f recon=%.4f kl=%.4f",
		step,
		snap.ImagesPerSec,
		snap.AvgDataMS,
		snap.AvgComputeMS,
		snap.LossPerSample,
		last.Reconstruction,
		last.KL,
	)
}

func logRanking(label string, indices []int, losses []float64) {
	for rank, idx := range indices {
		log.Printf("%s rank=%d index=%d loss=%.4f", label, rank, idx, losses[idx])
	}
}
