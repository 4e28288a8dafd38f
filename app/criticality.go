package app

import (
	"context"

	"github.com/notnil/chess"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/deformed-cactus/chessOpenings/app/models"
)

// CriticalityVerdict says whether a move was effectively forced and by
// how much it beats the best legal alternative.
type CriticalityVerdict struct {
	IsCritical bool `json:"is_critical"`
	MarginCP   int  `json:"margin_cp"`
}

// sizedAnalyzer is satisfied by analyzers that can serve more than one
// search at a time, like *EnginePool.
type sizedAnalyzer interface {
	Size() int
}

func analyzerWidth(eng Analyzer) int {
	if s, ok := eng.(sizedAnalyzer); ok && s.Size() > 1 {
		return s.Size()
	}
	return 1
}

// EvaluateCriticality scores move against every legal alternative in
// pos (the position before the move) and reports whether it wins by at
// least thresholdCP centipawns of White-POV evaluation.
//
// A move with no legal alternative returns (false, 0): with nothing to
// compare against, the margin is undefined, and we keep the historical
// convention of not flagging it.
//
// Every alternative costs one full engine search, so this is the
// dominant cost of a walk. Alternatives are independent and fan out
// across the engine pool; a failed analysis contributes a neutral
// score instead of aborting the comparison.
func EvaluateCriticality(ctx context.Context, eng Analyzer, pos *chess.Position, move *chess.Move, thresholdCP int, opts models.SearchOptions) CriticalityVerdict {
	chosenScore := scorePosition(ctx, eng, pos.Update(move), opts)

	var alternatives []*chess.Move
	for _, alt := range pos.ValidMoves() {
		if sameMove(alt, move) {
			continue
		}
		alternatives = append(alternatives, alt)
	}
	if len(alternatives) == 0 {
		return CriticalityVerdict{}
	}

	scores := make([]int, len(alternatives))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(analyzerWidth(eng))
	for i, alt := range alternatives {
		i, alt := i, alt
		g.Go(func() error {
			scores[i] = scorePosition(gctx, eng, pos.Update(alt), opts)
			return nil
		})
	}
	_ = g.Wait() // workers never error; failed searches already degraded to 0

	bestAlternative := scores[0]
	for _, s := range scores[1:] {
		if s > bestAlternative {
			bestAlternative = s
		}
	}

	margin := chosenScore - bestAlternative
	return CriticalityVerdict{
		IsCritical: margin >= thresholdCP,
		MarginCP:   margin,
	}
}

// scorePosition runs one single-line search and returns the position's
// White-POV score, degrading to neutral on any engine fault so one bad
// call never sinks a comparison.
func scorePosition(ctx context.Context, eng Analyzer, pos *chess.Position, opts models.SearchOptions) int {
	opts.MultiPV = 1
	lines, err := eng.Analyze(ctx, pos.String(), opts)
	if err != nil || len(lines) == 0 {
		if err != nil {
			log.Debug().Err(err).Str("fen", pos.String()).Msg("analysis failed, scoring neutral")
		}
		return 0
	}
	return WhitePerspective(lines[0].Score, pos.Turn())
}
