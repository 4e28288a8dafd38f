//starts the engine process, speaks UCI over stdin/stdout, and exposes Analyze.

package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/deformed-cactus/chessOpenings/app/models"
)

// Analyzer is the slice of the engine surface the analysis code needs.
// *UCIEngine and *EnginePool both satisfy it.
type Analyzer interface {
	Analyze(ctx context.Context, fen string, opts models.SearchOptions) ([]models.EngineLine, error)
}

type UCIEngine struct {
	cmd     *exec.Cmd
	in      *bufio.Writer
	out     *bufio.Scanner
	mu      sync.Mutex
	ready   bool
	multiPV int // last MultiPV value sent via setoption
}

func NewUCIEngine(path string) (*UCIEngine, error) {
	cmd := exec.Command(path)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}

	e := &UCIEngine{
		cmd: cmd,
		in:  bufio.NewWriter(stdin),
		out: bufio.NewScanner(stdout),
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	// Handshake: "uci" -> wait for "uciok"; also "isready" -> "readyok"
	if err := e.send("uci"); err != nil {
		return nil, err
	}
	for e.out.Scan() {
		line := e.out.Text()
		if line == "uciok" {
			break
		}
	}
	if err := e.send("isready"); err != nil {
		return nil, err
	}
	for e.out.Scan() {
		if e.out.Text() == "readyok" {
			break
		}
	}
	e.ready = true
	e.multiPV = 1
	return e, nil
}

func (e *UCIEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	_ = e.send("quit")
	return e.cmd.Wait()
}

func (e *UCIEngine) NewGame() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready {
		return errors.New("engine not ready")
	}
	if err := e.send("ucinewgame"); err != nil {
		return err
	}
	if err := e.send("isready"); err != nil {
		return err
	}
	for e.out.Scan() {
		if e.out.Text() == "readyok" {
			break
		}
	}
	return nil
}

// Analyze evaluates one position and returns the engine's lines, best
// first. With MultiPV > 1 the engine reports that many ranked lines;
// otherwise a single line comes back. Use either a fixed depth or
// movetime; movetime is predictable across hardware.
func (e *UCIEngine) Analyze(ctx context.Context, fen string, opts models.SearchOptions) ([]models.EngineLine, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.ready {
		return nil, errors.New("engine not ready")
	}

	multiPV := opts.MultiPV
	if multiPV < 1 {
		multiPV = 1
	}
	if multiPV != e.multiPV {
		if err := e.send(fmt.Sprintf("setoption name MultiPV value %d", multiPV)); err != nil {
			return nil, err
		}
		e.multiPV = multiPV
	}

	// Load position
	if err := e.send(fmt.Sprintf("position fen %s", fen)); err != nil {
		return nil, err
	}

	if opts.UseDepth {
		depth := opts.Depth
		if depth <= 0 {
			depth = 12
		}
		if err := e.send(fmt.Sprintf("go depth %d", depth)); err != nil {
			return nil, err
		}
	} else {
		moveTime := opts.MoveTimeMS
		if moveTime <= 0 {
			moveTime = 500
		}
		if err := e.send(fmt.Sprintf("go movetime %d", moveTime)); err != nil {
			return nil, err
		}
	}

	// One slot per multipv rank; later info lines for the same rank
	// overwrite earlier, shallower ones.
	lines := map[int]*models.EngineLine{}

	// Read until "bestmove ..." or context cancels
	readDone := make(chan error, 1)
	go func() {
		for e.out.Scan() {
			line := e.out.Text()
			// Examples we parse:
			// info depth 18 ... score cp 23 ... pv e2e4 e7e5
			// info depth 20 multipv 2 ... score mate 3 ... pv d2d4
			// bestmove e2e4
			if strings.HasPrefix(line, "info ") {
				parseInfoLine(line, lines)
			} else if strings.HasPrefix(line, "bestmove ") {
				break
			}
		}
		readDone <- e.out.Err()
	}()

	var err error
	select {
	case <-ctx.Done():
		_ = e.send("stop")
		select {
		case err = <-readDone:
		case <-time.After(500 * time.Millisecond):
			err = ctx.Err()
		}
	case err = <-readDone:
	}
	if err != nil && err != bufio.ErrBufferFull {
		return nil, err
	}

	out := make([]models.EngineLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MultiPV < out[j].MultiPV })
	return out, nil
}

// parseInfoLine extracts the multipv rank, score, and pv from one UCI
// info line and records it in lines. Lines without a score are ignored.
func parseInfoLine(line string, lines map[int]*models.EngineLine) {
	i := strings.Index(line, " score ")
	if i == -1 {
		return
	}

	rank := 1
	if j := strings.Index(line, " multipv "); j != -1 {
		_, _ = fmt.Sscanf(line[j+1:], "multipv %d", &rank)
	}

	entry := &models.EngineLine{MultiPV: rank}

	// score cp N  OR score mate N
	scorePart := line[i+1:]
	if strings.HasPrefix(scorePart, "score cp ") {
		var cp int
		_, _ = fmt.Sscanf(scorePart, "score cp %d", &cp)
		entry.Score.CP = &cp
	} else if strings.HasPrefix(scorePart, "score mate ") {
		var m int
		_, _ = fmt.Sscanf(scorePart, "score mate %d", &m)
		entry.Score.Mate = &m
	} else {
		return
	}

	if k := strings.Index(line, " pv "); k != -1 {
		entry.PV = strings.Fields(line[k+4:])
	}

	lines[rank] = entry
}

func (e *UCIEngine) send(cmd string) error {
	_, err := fmt.Fprintln(e.in, cmd)
	if err != nil {
		return err
	}
	return e.in.Flush()
}
