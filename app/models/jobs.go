package models

// JobStatus summarizes an opening-analysis job.
type JobStatus struct {
	ID         string `json:"id"`
	Opening    string `json:"opening"`
	Status     string `json:"status"` // "queued", "done", "failed"
	Variations int    `json:"variations"`
}
