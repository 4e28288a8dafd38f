package models

// What we return to the frontend and store in DB (trimmed & consistent DTO)

// MoveReport is one walked ply: the move in both notations plus its verdict.
type MoveReport struct {
	Ply        int    `json:"ply"` // 1-based
	MoveUCI    string `json:"move_uci"`
	MoveSAN    string `json:"move_san"`
	Color      string `json:"color"` // "w" or "b"
	IsCritical bool   `json:"is_critical"`
	MarginCP   int    `json:"margin_cp"`
}

// VariationReport is the stored form of one finished variation walk.
type VariationReport struct {
	Opening       string       `json:"opening"`
	FirstMoveSAN  string       `json:"first_move_san"`
	Source        string       `json:"source"` // "database" or "engine"
	Moves         []MoveReport `json:"moves"`
	CriticalCount int          `json:"critical_count"`
	FinalFEN      string       `json:"final_fen"`
	Explanation   string       `json:"explanation"`
	JobID         string       `json:"job_id,omitempty"`
}
