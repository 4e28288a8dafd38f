package app

import (
	"github.com/notnil/chess"

	"github.com/deformed-cactus/chessOpenings/app/models"
)

// MateScore caps mate-in-N evaluations so they stay comparable to
// ordinary centipawn values. A mate in 3 for the side to move maps to
// 9997; nearer mates compare higher.
const MateScore = 10000

// WhitePerspective converts an engine score, which UCI reports from the
// side to move's point of view, into a fixed White-POV centipawn value.
// A missing score (failed or empty analysis) converts to 0 so callers
// can keep comparing.
func WhitePerspective(score models.UCIScore, turn chess.Color) int {
	var cp int
	switch {
	case score.Mate != nil:
		m := *score.Mate
		if m > 0 {
			cp = MateScore - m
		} else {
			cp = -MateScore - m
		}
	case score.CP != nil:
		cp = *score.CP
	default:
		return 0
	}

	if turn == chess.Black {
		cp = -cp
	}
	return cp
}
