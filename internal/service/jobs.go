package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"autoprint/internal/logger"
	"autoprint/internal/models"
	"autoprint/internal/repository"

	"github.com/google/uuid"
)

// FieldErrorsStore keeps the latest field-scoped validation messages.
type FieldErrorsStore struct {
	mu   sync.RWMutex
	errs models.FieldErrors
}

// Reset clears both slots.
func (s *FieldErrorsStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs = models.FieldErrors{}
}

// Apply replaces the slots with exactly the reported errors and returns the
// parameters that do not name a known field.
func (s *FieldErrorsStore) Apply(list []models.FieldError) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs = models.FieldErrors{}
	var unknown []string
	for _, fe := range list {
		if !s.errs.Set(fe.Parameter, fe.Message) {
			unknown = append(unknown, fe.Parameter)
		}
	}
	return unknown
}

func (s *FieldErrorsStore) Get() models.FieldErrors {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := models.FieldErrors{}
	if s.errs.Time != nil {
		v := *s.errs.Time
		out.Time = &v
	}
	if s.errs.File != nil {
		v := *s.errs.File
		out.File = &v
	}
	return out
}

// Scheduler submits drafts to the controller.
type Scheduler struct {
	repo    repository.JobRepo
	mirror  *Mirror
	errs    *FieldErrorsStore
	timeout time.Duration
	log     *logger.Logger
	guard   inFlight
}

func NewScheduler(repo repository.JobRepo, mirror *Mirror, errs *FieldErrorsStore, timeout time.Duration, log *logger.Logger) *Scheduler {
	return &Scheduler{repo: repo, mirror: mirror, errs: errs, timeout: timeout, log: logger.OrNop(log)}
}

// Submit sends draft as a scheduleJob request.
//
// On success the field errors are cleared and the returned job is mirrored.
// A *repository.ValidationError replaces the field errors and leaves the
// mirror alone. Any other failure changes nothing locally.
func (s *Scheduler) Submit(ctx context.Context, draft models.JobDraft) (models.ScheduledJob, error) {
	trigger := draft.Trigger
	if trigger == "" {
		trigger = models.TriggerStart
	}
	if !trigger.Valid() {
		return models.ScheduledJob{}, ErrInvalidTrigger
	}
	if !s.guard.acquire() {
		return models.ScheduledJob{}, ErrBusy
	}
	defer s.guard.release()

	reqID := uuid.NewString()
	req := repository.ScheduleRequest{
		File:              draft.File,
		Folder:            draft.Folder,
		TimeEpochMs:       draft.StartTimeEpochMs,
		TurnOffAfterPrint: draft.TurnOffAfterPrint,
		Trigger:           trigger,
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	job, err := s.repo.ScheduleJob(ctx, req)
	if err != nil {
		var ve *repository.ValidationError
		if errors.As(err, &ve) {
			if unknown := s.errs.Apply(ve.Errors); len(unknown) > 0 {
				s.log.Warnw("validation_unknown_fields", "request_id", reqID, "params", unknown)
			}
			s.log.Infow("job_rejected", "request_id", reqID, "err", err)
			return models.ScheduledJob{}, err
		}
		s.log.Errorw("job_schedule_failed", "request_id", reqID, "err", err)
		return models.ScheduledJob{}, err
	}

	s.errs.Reset()
	s.mirror.SetJob(job)
	s.log.Infow("job_scheduled", "request_id", reqID, "file", job.File, "folder", job.Folder,
		"start_time_ms", job.StartTimeEpochMs, "turn_off_after_print", job.TurnOffAfterPrint)
	return job, nil
}

// Canceller removes the scheduled job on the controller.
type Canceller struct {
	repo    repository.JobRepo
	mirror  *Mirror
	errs    *FieldErrorsStore
	timeout time.Duration
	log     *logger.Logger
	guard   inFlight
}

func NewCanceller(repo repository.JobRepo, mirror *Mirror, errs *FieldErrorsStore, timeout time.Duration, log *logger.Logger) *Canceller {
	return &Canceller{repo: repo, mirror: mirror, errs: errs, timeout: timeout, log: logger.OrNop(log)}
}

// Cancel clears the mirrored job and field errors once the controller accepts
// the request, whatever the answer body holds.
func (c *Canceller) Cancel(ctx context.Context) error {
	if !c.guard.acquire() {
		return ErrBusy
	}
	defer c.guard.release()

	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.repo.CancelJob(ctx); err != nil {
		c.log.Errorw("job_cancel_failed", "err", err)
		return err
	}
	c.mirror.ClearJob()
	c.errs.Reset()
	c.log.Infow("job_cancelled")
	return nil
}
