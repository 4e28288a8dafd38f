package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/notnil/chess"

	"github.com/deformed-cactus/chessOpenings/app/models"
)

func TestPlanExplanationThresholds(t *testing.T) {
	pos := chess.NewGame().Position() // White to move

	cases := []struct {
		name string
		cp   int
		want string
	}{
		{"white advantage", 150, "White appears to hold an advantage"},
		{"black advantage", -150, "Black appears to have an advantage"},
		{"balanced", 40, "relatively balanced"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			eng := &scriptedEngine{def: cpLine(tc.cp)}
			got := PlanExplanation(context.Background(), eng, pos, models.SearchOptions{MoveTimeMS: 10})
			if !strings.Contains(got, tc.want) {
				t.Fatalf("explanation %q should contain %q", got, tc.want)
			}
		})
	}
}

func TestPlanExplanationUnclearOnEngineFault(t *testing.T) {
	pos := chess.NewGame().Position()
	eng := &scriptedEngine{err: errors.New("engine gone")}
	got := PlanExplanation(context.Background(), eng, pos, models.SearchOptions{MoveTimeMS: 10})
	if !strings.Contains(got, "unclear") {
		t.Fatalf("expected unclear explanation, got %q", got)
	}
}
