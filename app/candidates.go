package app

import (
	"context"
	"sort"

	"github.com/notnil/chess"
	"github.com/rs/zerolog/log"

	"github.com/deformed-cactus/chessOpenings/app/models"
)

// CandidateSource tags where a candidate move came from.
type CandidateSource string

const (
	SourceDatabase CandidateSource = "database"
	SourceEngine   CandidateSource = "engine"
)

// CandidateMove is a legal continuation plus its provenance.
type CandidateMove struct {
	Move   *chess.Move
	SAN    string
	Source CandidateSource
	Games  int // total master games; database candidates only
	Rank   int // multipv rank; engine candidates only
}

// sameMove compares moves structurally: squares and promotion piece,
// never notation.
func sameMove(a, b *chess.Move) bool {
	return a.S1() == b.S1() && a.S2() == b.S2() && a.Promo() == b.Promo()
}

// SelectCandidates merges master-database moves with engine multi-PV
// suggestions into at most n unique candidates for pos. Database moves
// come first, ordered by how often masters played them; engine lines
// fill any remainder. A failing source only shrinks the result, and an
// empty result means nothing to analyze, not an error.
func SelectCandidates(ctx context.Context, eng Analyzer, exp Explorer, pos *chess.Position, n int, opts models.SearchOptions) []CandidateMove {
	if n <= 0 {
		return nil
	}

	var out []CandidateMove
	if exp != nil {
		resp, err := exp.Lookup(ctx, pos.String())
		if err != nil {
			log.Warn().Err(err).Msg("explorer lookup failed, falling back to engine")
		} else {
			moves := append([]models.ExplorerMove(nil), resp.Moves...)
			sort.SliceStable(moves, func(i, j int) bool {
				return moves[i].TotalGames() > moves[j].TotalGames()
			})
			for _, em := range moves {
				if len(out) >= n {
					break
				}
				m, err := chess.AlgebraicNotation{}.Decode(pos, em.SAN)
				if err != nil {
					// illegal or malformed database move, drop it
					continue
				}
				out = append(out, CandidateMove{
					Move:   m,
					SAN:    em.SAN,
					Source: SourceDatabase,
					Games:  em.TotalGames(),
				})
			}
		}
	}

	if len(out) < n && eng != nil {
		searchOpts := opts
		searchOpts.MultiPV = n
		lines, err := eng.Analyze(ctx, pos.String(), searchOpts)
		if err != nil {
			log.Warn().Err(err).Msg("engine candidate search failed")
		}
		for _, line := range lines {
			if len(out) >= n {
				break
			}
			if len(line.PV) == 0 {
				continue
			}
			m, err := chess.UCINotation{}.Decode(pos, line.PV[0])
			if err != nil {
				continue
			}
			dup := false
			for _, c := range out {
				if sameMove(c.Move, m) {
					dup = true
					break
				}
			}
			if dup {
				continue
			}
			out = append(out, CandidateMove{
				Move:   m,
				SAN:    chess.AlgebraicNotation{}.Encode(pos, m),
				Source: SourceEngine,
				Rank:   line.MultiPV,
			})
		}
	}

	if len(out) > n {
		out = out[:n]
	}
	return out
}
