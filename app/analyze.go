package app

import (
	"context"
	"fmt"
	"time"

	"github.com/notnil/chess"
	"github.com/rs/zerolog/log"

	"github.com/deformed-cactus/chessOpenings/app/config"
	"github.com/deformed-cactus/chessOpenings/app/models"
)

// AnalysisRequest bundles everything one opening analysis run needs.
type AnalysisRequest struct {
	Opening        string
	CandidateCount int
	VariationDepth int
	ThresholdCP    int
	Search         models.SearchOptions
	Snapshot       Snapshot
	JobID          string
}

// AnalyzeOpening plays the named opening line, selects candidate
// continuations, and walks each one. An empty report list means the
// position offered nothing to analyze, not a failure; an error only
// comes back when the opening itself cannot be resolved or played.
func AnalyzeOpening(ctx context.Context, eng Analyzer, exp Explorer, req AnalysisRequest) ([]models.VariationReport, error) {
	sans, err := ResolveOpening(req.Opening)
	if err != nil {
		return nil, err
	}
	game, err := PlayLine(sans)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", req.Opening, err)
	}
	pos := game.Position()
	log.Info().Str("opening", req.Opening).Str("fen", pos.String()).Msg("opening line reached")

	candidates := SelectCandidates(ctx, eng, exp, pos, req.CandidateCount, req.Search)
	if len(candidates) == 0 {
		log.Info().Str("opening", req.Opening).Msg("no candidate moves found")
		return nil, nil
	}

	reports := make([]models.VariationReport, 0, len(candidates))
	for i, cand := range candidates {
		log.Info().
			Int("variation", i+1).
			Str("move", cand.SAN).
			Str("source", string(cand.Source)).
			Msg("walking variation")

		rec := WalkVariation(ctx, eng, pos, cand.Move, WalkOptions{
			MaxDepth:    req.VariationDepth,
			ThresholdCP: req.ThresholdCP,
			Search:      req.Search,
			Snapshot:    req.Snapshot,
		})
		reports = append(reports, buildReport(ctx, eng, req, cand, pos, rec))
	}
	return reports, nil
}

func buildReport(ctx context.Context, eng Analyzer, req AnalysisRequest, cand CandidateMove, startPos *chess.Position, rec VariationRecord) models.VariationReport {
	rep := models.VariationReport{
		Opening:       req.Opening,
		FirstMoveSAN:  cand.SAN,
		Source:        string(cand.Source),
		CriticalCount: rec.CriticalCount,
		FinalFEN:      rec.Final.String(),
		Explanation:   PlanExplanation(ctx, eng, rec.Final, req.Search),
		JobID:         req.JobID,
	}

	mover := startPos.Turn()
	for i, wm := range rec.Moves {
		color := "w"
		if mover == chess.Black {
			color = "b"
		}
		mover = mover.Other()

		rep.Moves = append(rep.Moves, models.MoveReport{
			Ply:        i + 1,
			MoveUCI:    chess.UCINotation{}.Encode(nil, wm.Move),
			MoveSAN:    wm.SAN,
			Color:      color,
			IsCritical: wm.Verdict.IsCritical,
			MarginCP:   wm.Verdict.MarginCP,
		})
	}
	return rep
}

// requestFromJob applies a job message's overrides over config defaults.
func requestFromJob(cfg *config.Config, job models.JobMessage) AnalysisRequest {
	req := AnalysisRequest{
		Opening:        job.Opening,
		CandidateCount: cfg.Analysis.CandidateCount,
		VariationDepth: cfg.Analysis.VariationDepth,
		ThresholdCP:    cfg.Analysis.ThresholdCP,
		JobID:          job.JobID,
		Search: models.SearchOptions{
			Depth:      cfg.Engine.Depth,
			MoveTimeMS: cfg.Engine.MoveTime,
			UseDepth:   cfg.Engine.DepthOrTime,
		},
	}
	if job.CandidateCount > 0 {
		req.CandidateCount = job.CandidateCount
	}
	if job.VariationDepth > 0 {
		req.VariationDepth = job.VariationDepth
	}
	if job.ThresholdCP > 0 {
		req.ThresholdCP = job.ThresholdCP
	}
	if job.EngineDepth > 0 {
		req.Search.Depth = job.EngineDepth
	}
	if job.EngineMoveTime > 0 {
		req.Search.MoveTimeMS = job.EngineMoveTime
	}
	if job.EngineUseDepth {
		req.Search.UseDepth = true
	}
	return req
}

// ProcessJob handles one queued analysis request end to end: resolve
// the opening, walk every candidate, persist the reports.
func ProcessJob(ctx context.Context, cfg *config.Config, pool *EnginePool, job models.JobMessage) error {
	start := time.Now()
	req := requestFromJob(cfg, job)

	if cfg.Analysis.SnapshotDir != "" {
		renderer, err := NewSVGRenderer(cfg.Analysis.SnapshotDir)
		if err != nil {
			log.Warn().Err(err).Str("dir", cfg.Analysis.SnapshotDir).Msg("snapshot dir unavailable, skipping rendering")
		} else {
			req.Snapshot = renderer.Snapshot
		}
	}

	reports, err := AnalyzeOpening(ctx, pool, NewLichessExplorer(cfg.Explorer.URL), req)
	if err != nil {
		if markErr := MarkJobFailed(ctx, job.JobID); markErr != nil {
			log.Warn().Err(markErr).Str("job_id", job.JobID).Msg("failed to mark job failed")
		}
		return err
	}

	if err := SaveReports(ctx, reports); err != nil {
		return err
	}
	if err := MarkJobDone(ctx, job.JobID, len(reports)); err != nil {
		log.Warn().Err(err).Str("job_id", job.JobID).Msg("failed to mark job done")
	}

	log.Info().
		Str("opening", job.Opening).
		Str("job_id", job.JobID).
		Int("variations", len(reports)).
		Dur("took", time.Since(start)).
		Msg("job complete")
	return nil
}
