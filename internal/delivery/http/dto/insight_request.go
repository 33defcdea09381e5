package dto

// InsightRequest asks for extraction or matching to run in the background.
type InsightRequest struct {
	Type     string `json:"type"`
	JobID    int64  `json:"job_id,omitempty"`
	ResumeID int64  `json:"resume_id,omitempty"`
}

type InsightRequestAccepted struct {
	RequestID string `json:"request_id"`
	Type      string `json:"type"`
}
