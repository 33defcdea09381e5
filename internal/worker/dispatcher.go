package worker

import (
	"context"
	"log"

	"talent-match/internal/usecase"
)

// Dispatcher runs a decoded request against the engine.
type Dispatcher struct {
	extraction usecase.ExtractionUsecase
	matching   usecase.MatchingUsecase
	log        *log.Logger
}

func NewDispatcher(extraction usecase.ExtractionUsecase, matching usecase.MatchingUsecase, logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.Default()
	}
	return &Dispatcher{extraction: extraction, matching: matching, log: logger}
}

func (d *Dispatcher) Dispatch(ctx context.Context, req Request) error {
	if err := req.Validate(); err != nil {
		return err
	}

	var err error
	switch req.Type {
	case TypeJobRequirements:
		_, err = d.extraction.ExtractJobRequirements(ctx, req.JobID)
	case TypeResumeInsights:
		_, err = d.extraction.ExtractResumeInsights(ctx, req.ResumeID)
	case TypeMatch:
		_, err = d.matching.ComputeMatch(ctx, req.JobID, req.ResumeID)
	}
	if err != nil {
		d.log.Printf("component=worker request_id=%s type=%s job_id=%d resume_id=%d status=error err=%v",
			req.ID, req.Type, req.JobID, req.ResumeID, err)
		return err
	}
	d.log.Printf("component=worker request_id=%s type=%s job_id=%d resume_id=%d status=ok",
		req.ID, req.Type, req.JobID, req.ResumeID)
	return nil
}
