package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/deformed-cactus/chessOpenings/app/models"
)

func newTestEngine(outputLines []string) (*UCIEngine, *strings.Builder) {
	pr, pw := io.Pipe()
	go func() {
		for _, line := range outputLines {
			_, _ = fmt.Fprintln(pw, line)
		}
		_ = pw.Close()
	}()

	var sb strings.Builder
	eng := &UCIEngine{
		in:      bufio.NewWriter(&sb),
		out:     bufio.NewScanner(pr),
		ready:   true,
		multiPV: 1,
	}
	return eng, &sb
}

func TestAnalyzeUsesMovetimeAndParsesScore(t *testing.T) {
	eng, sb := newTestEngine([]string{
		"info depth 10 score cp 23 pv e2e4 e7e5",
		"bestmove e2e4",
	})

	lines, err := eng.Analyze(context.Background(), "test-fen", models.SearchOptions{MoveTimeMS: 75})
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].Score.CP == nil || *lines[0].Score.CP != 23 {
		t.Fatalf("unexpected score: %+v", lines[0].Score)
	}
	if len(lines[0].PV) != 2 || lines[0].PV[0] != "e2e4" {
		t.Fatalf("unexpected pv: %v", lines[0].PV)
	}

	sent := sb.String()
	if !strings.Contains(sent, "position fen test-fen") {
		t.Fatalf("Analyze did not send position command: %q", sent)
	}
	if !strings.Contains(sent, "go movetime 75") {
		t.Fatalf("Analyze did not use movetime: %q", sent)
	}
	if strings.Contains(sent, "setoption name MultiPV") {
		t.Fatalf("single-line mode should not reconfigure MultiPV: %q", sent)
	}
}

func TestAnalyzeUsesDepthWhenConfigured(t *testing.T) {
	eng, sb := newTestEngine([]string{"bestmove e2e4"})
	if _, err := eng.Analyze(context.Background(), "fen-depth", models.SearchOptions{UseDepth: true, Depth: 12}); err != nil {
		t.Fatalf("Analyze error: %v", err)
	}
	if !strings.Contains(sb.String(), "go depth 12") {
		t.Fatalf("Analyze should send depth command, got %q", sb.String())
	}
}

func TestAnalyzeMultiPV(t *testing.T) {
	eng, sb := newTestEngine([]string{
		"info depth 8 multipv 1 score cp 10 pv e2e4",
		"info depth 8 multipv 2 score cp 2 pv d2d4 g8f6",
		"info depth 10 multipv 1 score cp 23 pv e2e4 e7e5",
		"bestmove e2e4",
	})

	lines, err := eng.Analyze(context.Background(), "fen-multi", models.SearchOptions{MoveTimeMS: 50, MultiPV: 2})
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	// deeper info lines overwrite shallower ones per rank
	if lines[0].MultiPV != 1 || *lines[0].Score.CP != 23 {
		t.Fatalf("unexpected first line: %+v", lines[0])
	}
	if lines[1].MultiPV != 2 || *lines[1].Score.CP != 2 || lines[1].PV[0] != "d2d4" {
		t.Fatalf("unexpected second line: %+v", lines[1])
	}
	if !strings.Contains(sb.String(), "setoption name MultiPV value 2") {
		t.Fatalf("Analyze did not configure MultiPV: %q", sb.String())
	}
}

func TestAnalyzeParsesMateScore(t *testing.T) {
	eng, _ := newTestEngine([]string{
		"info depth 12 score mate 3 pv h5f7",
		"bestmove h5f7",
	})

	lines, err := eng.Analyze(context.Background(), "fen-mate", models.SearchOptions{MoveTimeMS: 50})
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}
	if len(lines) != 1 || lines[0].Score.Mate == nil || *lines[0].Score.Mate != 3 {
		t.Fatalf("unexpected mate score: %+v", lines)
	}
	if lines[0].Score.CP != nil {
		t.Fatalf("mate line should not carry a cp score: %+v", lines[0].Score)
	}
}

func TestAnalyzeNotReady(t *testing.T) {
	eng := &UCIEngine{}
	if _, err := eng.Analyze(context.Background(), "fen", models.SearchOptions{MoveTimeMS: 10}); err == nil {
		t.Fatalf("Analyze should fail when engine not ready")
	}
}

func TestNewGameSendsCommands(t *testing.T) {
	pr, pw := io.Pipe()
	go func() {
		_, _ = fmt.Fprintln(pw, "readyok")
		_ = pw.Close()
	}()

	var sb strings.Builder
	eng := &UCIEngine{in: bufio.NewWriter(&sb), out: bufio.NewScanner(pr), ready: true, multiPV: 1}
	if err := eng.NewGame(); err != nil {
		t.Fatalf("NewGame error: %v", err)
	}
	sent := sb.String()
	if !strings.Contains(sent, "ucinewgame") || !strings.Contains(sent, "isready") {
		t.Fatalf("NewGame did not send expected commands: %q", sent)
	}
}
