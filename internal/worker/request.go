package worker

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	TypeJobRequirements = "job_requirements"
	TypeResumeInsights  = "resume_insights"
	TypeMatch           = "match"
)

var ErrInvalidRequest = errors.New("invalid insight request")

// Request is one unit of background work carried over the queue.
type Request struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	JobID    int64  `json:"job_id,omitempty"`
	ResumeID int64  `json:"resume_id,omitempty"`
}

func (r Request) Validate() error {
	switch r.Type {
	case TypeJobRequirements:
		if r.JobID <= 0 {
			return fmt.Errorf("%w: job_id required", ErrInvalidRequest)
		}
	case TypeResumeInsights:
		if r.ResumeID <= 0 {
			return fmt.Errorf("%w: resume_id required", ErrInvalidRequest)
		}
	case TypeMatch:
		if r.JobID <= 0 || r.ResumeID <= 0 {
			return fmt.Errorf("%w: job_id and resume_id required", ErrInvalidRequest)
		}
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidRequest, r.Type)
	}
	return nil
}

func DecodeRequest(body []byte) (Request, error) {
	var r Request
	if err := json.Unmarshal(body, &r); err != nil {
		return Request{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	r.Type = strings.ToLower(strings.TrimSpace(r.Type))
	if err := r.Validate(); err != nil {
		return Request{}, err
	}
	return r, nil
}
