package models

// JobMessage is one queued opening-analysis request.
type JobMessage struct {
	Opening        string `json:"opening"`
	CandidateCount int    `json:"candidate_count"`
	VariationDepth int    `json:"variation_depth"`
	ThresholdCP    int    `json:"threshold_cp"`
	JobID          string `json:"job_id"` // for progress tracking

	// Optional engine overrides; zero values fall back to config.
	EngineDepth    int  `json:"engine_depth"`
	EngineMoveTime int  `json:"engine_move_time"`
	EngineUseDepth bool `json:"engine_use_depth"`
}
