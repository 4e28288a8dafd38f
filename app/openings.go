package app

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/notnil/chess"
)

// Opening lines in SAN, keyed by lowercase name. Expand as needed.
var openingBook = map[string][]string{
	"catalan": {"d4", "Nf6", "c4", "e6", "Nf3", "d5", "g3", "Be7", "Bg2", "O-O", "O-O", "dxc4", "Qc2", "a6", "a4", "Nc6", "Qxc4", "Qd5"},
}

var ErrOpeningNotFound = errors.New("opening not found")

// OpeningNames returns the known opening names, sorted.
func OpeningNames() []string {
	names := make([]string, 0, len(openingBook))
	for name := range openingBook {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveOpening returns the SAN move sequence for a named opening line
// (case-insensitive).
func ResolveOpening(name string) ([]string, error) {
	moves, ok := openingBook[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q (try one of: %s)", ErrOpeningNotFound, name, strings.Join(OpeningNames(), ", "))
	}
	return moves, nil
}

// PlayLine applies a SAN move sequence to a fresh game and returns it.
func PlayLine(moves []string) (*chess.Game, error) {
	g := chess.NewGame()
	for _, san := range moves {
		if err := g.MoveStr(san); err != nil {
			return nil, fmt.Errorf("move %q: %w", san, err)
		}
	}
	return g, nil
}
