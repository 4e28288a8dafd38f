package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLichessExplorerLookup(t *testing.T) {
	var gotFEN string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotFEN = r.URL.Query().Get("fen")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"white":5,"draws":3,"black":2,"moves":[{"uci":"e2e4","san":"e4","white":5,"draws":3,"black":2}]}`))
	}))
	defer srv.Close()

	exp := NewLichessExplorer(srv.URL)
	resp, err := exp.Lookup(context.Background(), "some fen string")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if gotFEN != "some fen string" {
		t.Fatalf("fen not passed through: %q", gotFEN)
	}
	if len(resp.Moves) != 1 || resp.Moves[0].SAN != "e4" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if resp.Moves[0].TotalGames() != 10 {
		t.Fatalf("expected 10 total games, got %d", resp.Moves[0].TotalGames())
	}
}

func TestLichessExplorerRetriesServerErrors(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	exp := NewLichessExplorer(srv.URL)
	if _, err := exp.Lookup(context.Background(), "fen"); err == nil {
		t.Fatalf("expected error from persistent 500s")
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestLichessExplorerClientErrorIsImmediate(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	exp := NewLichessExplorer(srv.URL)
	if _, err := exp.Lookup(context.Background(), "fen"); err == nil {
		t.Fatalf("expected error from 404")
	}
	if attempts != 1 {
		t.Fatalf("404 should not be retried, got %d attempts", attempts)
	}
}
