package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/deformed-cactus/chessOpenings/app"
	"github.com/deformed-cactus/chessOpenings/app/config"
	"github.com/deformed-cactus/chessOpenings/app/models"
)

func main() {
	opening := flag.String("opening", "", "opening name, e.g. catalan")
	candidates := flag.Int("candidates", 0, "candidate moves to walk (default from config)")
	depth := flag.Int("depth", 0, "plies to walk per candidate (default from config)")
	threshold := flag.Int("threshold", 0, "criticality margin in centipawns (default from config)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	config.SetupLogger(cfg.Logs)

	if *opening == "" {
		fmt.Fprintf(os.Stderr, "usage: explore -opening <name>\nknown openings: %s\n", strings.Join(app.OpeningNames(), ", "))
		os.Exit(2)
	}

	req := app.AnalysisRequest{
		Opening:        *opening,
		CandidateCount: cfg.Analysis.CandidateCount,
		VariationDepth: cfg.Analysis.VariationDepth,
		ThresholdCP:    cfg.Analysis.ThresholdCP,
		Search: models.SearchOptions{
			Depth:      cfg.Engine.Depth,
			MoveTimeMS: cfg.Engine.MoveTime,
			UseDepth:   cfg.Engine.DepthOrTime,
		},
	}
	if *candidates > 0 {
		req.CandidateCount = *candidates
	}
	if *depth > 0 {
		req.VariationDepth = *depth
	}
	if *threshold > 0 {
		req.ThresholdCP = *threshold
	}

	if cfg.Analysis.SnapshotDir != "" {
		renderer, err := app.NewSVGRenderer(cfg.Analysis.SnapshotDir)
		if err != nil {
			log.Warn().Err(err).Msg("snapshot dir unavailable, skipping rendering")
		} else {
			req.Snapshot = renderer.Snapshot
		}
	}

	start := time.Now()
	pool, err := app.NewEnginePool(app.PoolConfig{
		EnginePath: cfg.Engine.Path,
		Size:       cfg.Engine.PoolSize,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start engine pool")
	}
	defer pool.Close()

	explorer := app.NewLichessExplorer(cfg.Explorer.URL)

	spinner := app.NewSpinner("Analyzing variations... ")
	spinner.Start()
	reports, err := app.AnalyzeOpening(context.Background(), pool, explorer, req)
	spinner.Stop()
	if err != nil {
		log.Fatal().Err(err).Msg("analysis failed")
	}
	if len(reports) == 0 {
		fmt.Println("No candidate moves found for variations.")
		return
	}

	fmt.Println("\nSummary of analyzed variations:")
	for i, rep := range reports {
		sans := make([]string, 0, len(rep.Moves))
		for _, m := range rep.Moves {
			sans = append(sans, m.MoveSAN)
		}
		fmt.Printf("Variation %d: %s\n", i+1, strings.Join(sans, " "))
		for _, m := range rep.Moves {
			label := "Flexible"
			if m.IsCritical {
				label = "CRITICAL"
			}
			fmt.Printf("  Move %s: %s (score diff %d centipawns)\n", m.MoveSAN, label, m.MarginCP)
		}
		fmt.Printf("Total critical moves: %d\n", rep.CriticalCount)
		fmt.Println("Explanation:", rep.Explanation)
		fmt.Println(strings.Repeat("-", 40))
	}
	fmt.Printf("Took %s\n", time.Since(start))
}
