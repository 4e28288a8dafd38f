package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/deformed-cactus/chessOpenings/app/models"
)

// PoolConfig configures the engine pool.
type PoolConfig struct {
	EnginePath string
	Size       int // number of engine processes; 0 means 1
}

// EnginePool owns a fixed set of engine processes. A single process
// cannot serve overlapping searches, so callers lease an engine per
// call; the pool itself satisfies Analyzer by leasing one engine for
// the duration of each Analyze.
type EnginePool struct {
	engines chan *UCIEngine
	all     []*UCIEngine
	size    int
}

func NewEnginePool(cfg PoolConfig) (*EnginePool, error) {
	if cfg.Size <= 0 {
		cfg.Size = 1
	}
	p := &EnginePool{
		engines: make(chan *UCIEngine, cfg.Size),
		size:    cfg.Size,
	}
	for i := 0; i < cfg.Size; i++ {
		eng, err := NewUCIEngine(cfg.EnginePath)
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("engine %d: %w", i, err)
		}
		_ = eng.NewGame()
		p.all = append(p.all, eng)
		p.engines <- eng
	}
	log.Info().Int("size", cfg.Size).Str("path", cfg.EnginePath).Msg("engine pool ready")
	return p, nil
}

// Acquire leases an engine, waiting until one frees up or ctx ends.
func (p *EnginePool) Acquire(ctx context.Context) (*UCIEngine, error) {
	select {
	case eng := <-p.engines:
		return eng, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release returns a leased engine to the pool.
func (p *EnginePool) Release(eng *UCIEngine) {
	p.engines <- eng
}

// Size reports how many searches the pool can run at once.
func (p *EnginePool) Size() int {
	return p.size
}

func (p *EnginePool) Analyze(ctx context.Context, fen string, opts models.SearchOptions) ([]models.EngineLine, error) {
	eng, err := p.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer p.Release(eng)
	return eng.Analyze(ctx, fen, opts)
}

// Close shuts down every engine process. Leased engines are closed too,
// so finish outstanding calls first.
func (p *EnginePool) Close() {
	for _, eng := range p.all {
		if err := eng.Close(); err != nil {
			log.Warn().Err(err).Msg("engine close failed")
		}
	}
}
