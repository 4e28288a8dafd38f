package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/deformed-cactus/chessOpenings/app/models"
)

// Explorer is the opening-popularity port: which moves masters have
// played from a position, with outcome counts. Unknown positions come
// back with an empty move list, not an error.
type Explorer interface {
	Lookup(ctx context.Context, fen string) (models.ExplorerResponse, error)
}

const defaultExplorerURL = "https://explorer.lichess.ovh/masters"

var httpc = &http.Client{Timeout: 15 * time.Second}

// LichessExplorer queries the Lichess masters database over HTTP.
type LichessExplorer struct {
	BaseURL string
	Client  *http.Client
}

func NewLichessExplorer(baseURL string) *LichessExplorer {
	if baseURL == "" {
		baseURL = defaultExplorerURL
	}
	return &LichessExplorer{BaseURL: baseURL, Client: httpc}
}

func (e *LichessExplorer) Lookup(ctx context.Context, fen string) (models.ExplorerResponse, error) {
	u := fmt.Sprintf("%s?fen=%s", e.BaseURL, url.QueryEscape(fen))
	var resp models.ExplorerResponse
	if err := e.getJSON(ctx, u, &resp); err != nil {
		return models.ExplorerResponse{}, err
	}
	return resp, nil
}

type httpError struct {
	Status int
	Body   string
}

func (e httpError) Error() string { return fmt.Sprintf("http %d: %s", e.Status, e.Body) }

func (e *LichessExplorer) getJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return err
	}
	// Friendly UA per Lichess API guidelines
	req.Header.Set("User-Agent", "chessOpenings/0.1")

	client := e.Client
	if client == nil {
		client = httpc
	}

	// basic retry for 429/5xx
	var last httpError
	for attempt := 0; attempt < 3; attempt++ {
		res, err := client.Do(req)
		if err != nil {
			return err
		}
		body, readErr := io.ReadAll(res.Body)
		res.Body.Close()
		if readErr != nil {
			return readErr
		}

		if res.StatusCode == http.StatusOK {
			return json.Unmarshal(body, v)
		}

		last = httpError{Status: res.StatusCode, Body: string(body)}
		if res.StatusCode != http.StatusTooManyRequests && res.StatusCode < 500 {
			return last
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt+1) * 250 * time.Millisecond):
		}
	}
	return last
}
