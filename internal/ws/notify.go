package ws

import (
	"encoding/json"
	"time"

	"talent-match/internal/domain/insight"
)

const EventMatchComputed = "match_computed"

type MatchComputedEvent struct {
	Type      string `json:"type"`
	JobID     int64  `json:"job_id"`
	ResumeID  int64  `json:"resume_id"`
	Overall   string `json:"overall"`
	JobTitle  string `json:"job_title,omitempty"`
	Candidate string `json:"candidate,omitempty"`
	Timestamp string `json:"timestamp"`
}

func newMatchComputedEvent(view insight.MatchView) MatchComputedEvent {
	return MatchComputedEvent{
		Type:      EventMatchComputed,
		JobID:     view.Index.JobID,
		ResumeID:  view.Index.ResumeID,
		Overall:   view.Index.Overall.StringFixed(2),
		JobTitle:  view.Job.Title,
		Candidate: view.Resume.CandidateName,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// MatchComputed publishes a persisted match to local subscribers of its job.
func (h *Hub) MatchComputed(view insight.MatchView) {
	if h == nil {
		return
	}
	evt := newMatchComputedEvent(view)
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	h.Publish(evt.JobID, b)
}
