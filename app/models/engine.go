package models

// UCIScore is one evaluation as reported on an engine info line.
type UCIScore struct {
	// Exactly one of these will be set:
	CP   *int `json:"cp,omitempty"`   // centipawns, positive means advantage for side to move
	Mate *int `json:"mate,omitempty"` // in N, sign indicates who is mating (+ means side to move mates)
}

// EngineLine is one ranked line from a (possibly multi-PV) search.
type EngineLine struct {
	MultiPV int      `json:"multipv"` // 1-based rank, 1 is the engine's preferred line
	Score   UCIScore `json:"score"`
	PV      []string `json:"pv"` // UCI moves, best continuation first
}

// SearchOptions drives how we query Stockfish for a position.
type SearchOptions struct {
	Depth      int  `json:"depth"`
	MoveTimeMS int  `json:"move_time_ms"`
	UseDepth   bool `json:"use_depth"` // if false, use movetime
	MultiPV    int  `json:"multipv"`   // 0 or 1 means single-line mode
}
