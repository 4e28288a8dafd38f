package app

import (
	"os"
	"path/filepath"

	"github.com/notnil/chess"
	"github.com/notnil/chess/image"
)

// SVGRenderer writes board snapshots as SVG files under one directory.
type SVGRenderer struct {
	Dir string
}

func NewSVGRenderer(dir string) (*SVGRenderer, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &SVGRenderer{Dir: dir}, nil
}

// Snapshot renders one position to <dir>/<name>.
func (r *SVGRenderer) Snapshot(pos *chess.Position, name string) error {
	f, err := os.Create(filepath.Join(r.Dir, name))
	if err != nil {
		return err
	}
	if err := image.SVG(f, pos.Board()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
