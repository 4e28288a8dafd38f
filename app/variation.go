package app

import (
	"context"
	"fmt"

	"github.com/notnil/chess"
	"github.com/rs/zerolog/log"

	"github.com/deformed-cactus/chessOpenings/app/models"
)

// WalkedMove is one recorded ply of a variation walk.
type WalkedMove struct {
	Move    *chess.Move
	SAN     string
	Verdict CriticalityVerdict
}

// VariationRecord is the outcome of walking one candidate line.
type VariationRecord struct {
	Moves         []WalkedMove
	CriticalCount int
	Final         *chess.Position
}

// Snapshot renders a visual artifact for a position reached during a
// walk. The walker logs failures and moves on.
type Snapshot func(pos *chess.Position, name string) error

// WalkOptions bounds one variation walk.
type WalkOptions struct {
	MaxDepth    int
	ThresholdCP int
	Search      models.SearchOptions
	Snapshot    Snapshot
}

// WalkVariation plays firstMove from pos and then follows the engine's
// principal variation, scoring every ply for criticality. The walk
// ends after MaxDepth plies, when the engine offers no continuation
// (checkmate, stalemate, or a fault), or when the engine becomes
// unreachable; whatever was recorded up to that point comes back as a
// valid record.
func WalkVariation(ctx context.Context, eng Analyzer, pos *chess.Position, firstMove *chess.Move, opts WalkOptions) VariationRecord {
	rec := VariationRecord{Final: pos}
	move := firstMove
	firstSAN := chess.AlgebraicNotation{}.Encode(pos, firstMove)

	for ply := 0; ply < opts.MaxDepth; ply++ {
		verdict := EvaluateCriticality(ctx, eng, pos, move, opts.ThresholdCP, opts.Search)
		san := chess.AlgebraicNotation{}.Encode(pos, move)
		rec.Moves = append(rec.Moves, WalkedMove{Move: move, SAN: san, Verdict: verdict})

		pos = pos.Update(move)
		rec.Final = pos

		if opts.Snapshot != nil {
			name := fmt.Sprintf("variation_%s_step_%d.svg", firstSAN, ply+1)
			if err := opts.Snapshot(pos, name); err != nil {
				log.Warn().Err(err).Str("snapshot", name).Msg("snapshot failed")
			}
		}

		if ply+1 >= opts.MaxDepth {
			break
		}

		next, ok := nextFromPV(ctx, eng, pos, opts.Search)
		if !ok {
			break
		}
		move = next
	}

	for _, wm := range rec.Moves {
		if wm.Verdict.IsCritical {
			rec.CriticalCount++
		}
	}
	return rec
}

// nextFromPV asks the engine for its best continuation from pos. An
// empty principal variation or an unreachable engine both mean the
// walk has nowhere left to go.
func nextFromPV(ctx context.Context, eng Analyzer, pos *chess.Position, opts models.SearchOptions) (*chess.Move, bool) {
	opts.MultiPV = 1
	lines, err := eng.Analyze(ctx, pos.String(), opts)
	if err != nil {
		log.Warn().Err(err).Str("fen", pos.String()).Msg("no continuation from engine, stopping walk")
		return nil, false
	}
	if len(lines) == 0 || len(lines[0].PV) == 0 {
		return nil, false
	}
	next, err := chess.UCINotation{}.Decode(pos, lines[0].PV[0])
	if err != nil {
		log.Warn().Err(err).Str("move", lines[0].PV[0]).Msg("engine suggested an unparseable move, stopping walk")
		return nil, false
	}
	return next, true
}
