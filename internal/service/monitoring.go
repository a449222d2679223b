package service

import (
	"context"

	"autoprint/internal/models"
)

// MonitoringService exposes the mirror and ties polling to the UI view
// session: polling runs while a view is active.
type MonitoringService struct {
	poller *Poller
	mirror *Mirror
}

func NewMonitoringService(poller *Poller, mirror *Mirror) *MonitoringService {
	return &MonitoringService{poller: poller, mirror: mirror}
}

func (s *MonitoringService) Snapshot() models.Snapshot { return s.mirror.Snapshot() }

func (s *MonitoringService) StartPolling() { s.poller.Start() }

func (s *MonitoringService) StopPolling() { s.poller.Stop() }

func (s *MonitoringService) Polling() bool { return s.poller.Running() }

// RefreshState runs one out-of-band poll.
func (s *MonitoringService) RefreshState(ctx context.Context) error {
	return s.poller.Refresh(ctx)
}

// JobService submits and cancels the draft held by Drafts.
type JobService struct {
	drafts    *Drafts
	scheduler *Scheduler
	canceller *Canceller
	errs      *FieldErrorsStore
}

func NewJobService(drafts *Drafts, scheduler *Scheduler, canceller *Canceller, errs *FieldErrorsStore) *JobService {
	return &JobService{drafts: drafts, scheduler: scheduler, canceller: canceller, errs: errs}
}

// SubmitJob sends the current draft.
func (s *JobService) SubmitJob(ctx context.Context) (models.ScheduledJob, error) {
	return s.scheduler.Submit(ctx, s.drafts.CurrentDraft())
}

func (s *JobService) CancelJob(ctx context.Context) error { return s.canceller.Cancel(ctx) }

func (s *JobService) FieldErrors() models.FieldErrors { return s.errs.Get() }
