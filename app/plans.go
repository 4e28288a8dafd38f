package app

import (
	"context"

	"github.com/notnil/chess"

	"github.com/deformed-cactus/chessOpenings/app/models"
)

const (
	planUnclear = "The position is unclear. Both sides should focus on completing development " +
		"and coordinating their pieces."
	planWhiteBetter = "White appears to hold an advantage. White's plan may include expanding central control, " +
		"activating pieces for a kingside or central attack, and exploiting weaknesses. " +
		"Black should focus on completing development, challenging White's center, and seeking counterplay " +
		"(for example, through queenside expansion or piece exchanges)."
	planBlackBetter = "Black appears to have an advantage. Black's plan may include counterattacking, " +
		"exploiting weaknesses in White's structure, and consolidating the position. " +
		"White should look to complete development quickly and create tactical opportunities to restore balance."
	planBalanced = "The position is relatively balanced. Both sides should complete development, " +
		"fight for central control, and prepare for potential transitions into a favorable middlegame."
)

// PlanExplanation produces a short textual summary of the plans for
// both sides from a static threshold lookup on the position's score.
func PlanExplanation(ctx context.Context, eng Analyzer, pos *chess.Position, opts models.SearchOptions) string {
	opts.MultiPV = 1
	lines, err := eng.Analyze(ctx, pos.String(), opts)
	if err != nil || len(lines) == 0 {
		return planUnclear
	}
	score := WhitePerspective(lines[0].Score, pos.Turn())

	switch {
	case score > 100:
		return planWhiteBetter
	case score < -100:
		return planBlackBetter
	default:
		return planBalanced
	}
}
