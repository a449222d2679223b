package service

import (
	"context"
	"errors"
	"testing"

	"autoprint/internal/models"
	"autoprint/internal/repository"
)

func newTestScheduler(repo *jobRepoStub) (*Scheduler, *Mirror, *FieldErrorsStore) {
	m := NewMirror()
	errs := &FieldErrorsStore{}
	return NewScheduler(repo, m, errs, 0, nil), m, errs
}

func TestScheduler_SubmitSuccessAdoptsSnapshotAndClearsErrors(t *testing.T) {
	repo := &jobRepoStub{scheduleFn: func(ctx context.Context, req repository.ScheduleRequest) (models.ScheduledJob, error) {
		return models.ScheduledJob{File: "a.gco", Folder: "x", StartTimeEpochMs: 1700000000000, TurnOffAfterPrint: true}, nil
	}}
	s, m, errs := newTestScheduler(repo)
	errs.Apply([]models.FieldError{{Parameter: "time", Message: "old"}})

	job, err := s.Submit(context.Background(), models.JobDraft{
		File: "a.gco", Folder: "/x", StartTimeEpochMs: 1700000000000, TurnOffAfterPrint: true,
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if job.File != "a.gco" {
		t.Fatalf("job = %+v", job)
	}
	if got := errs.Get(); !got.Empty() {
		t.Fatalf("field errors not cleared: %+v", got)
	}
	snap := m.Snapshot()
	if snap.Job == nil || *snap.Job != job {
		t.Fatalf("mirror job = %+v, want %+v", snap.Job, job)
	}
	if repo.requests[0].Trigger != models.TriggerStart {
		t.Fatalf("empty trigger should default to start, got %q", repo.requests[0].Trigger)
	}
}

func TestScheduler_ValidationSetsExactlyReportedSlots(t *testing.T) {
	repo := &jobRepoStub{scheduleFn: func(ctx context.Context, req repository.ScheduleRequest) (models.ScheduledJob, error) {
		return models.ScheduledJob{}, &repository.ValidationError{Errors: []models.FieldError{
			{Parameter: "file", Message: "required"},
			{Parameter: "color", Message: "ignored"},
		}}
	}}
	s, m, errs := newTestScheduler(repo)
	errs.Apply([]models.FieldError{{Parameter: "time", Message: "stale"}})
	m.SetJob(models.ScheduledJob{File: "keep.gco"})

	_, err := s.Submit(context.Background(), models.JobDraft{})
	var ve *repository.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want *ValidationError", err)
	}

	got := errs.Get()
	if got.File == nil || *got.File != "required" {
		t.Fatalf("file slot = %v, want required", got.File)
	}
	if got.Time != nil {
		t.Fatalf("time slot should be cleared, got %q", *got.Time)
	}
	if snap := m.Snapshot(); snap.Job == nil || snap.Job.File != "keep.gco" {
		t.Fatalf("mirror must be untouched, got %+v", snap.Job)
	}
}

func TestScheduler_TransportFailureChangesNothing(t *testing.T) {
	repo := &jobRepoStub{scheduleFn: func(ctx context.Context, req repository.ScheduleRequest) (models.ScheduledJob, error) {
		return models.ScheduledJob{}, &repository.TransportError{Op: "scheduleJob", Err: errors.New("connection refused")}
	}}
	s, m, errs := newTestScheduler(repo)
	errs.Apply([]models.FieldError{{Parameter: "time", Message: "in the past"}})

	_, err := s.Submit(context.Background(), models.JobDraft{File: "a.gco"})
	var te *repository.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want *TransportError", err)
	}
	if got := errs.Get(); got.Time == nil || *got.Time != "in the past" {
		t.Fatalf("field errors changed: %+v", got)
	}
	if m.Snapshot().Job != nil {
		t.Fatalf("mirror job should stay empty")
	}
}

func TestScheduler_SecondSubmitWhileInFlightIsBusy(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	repo := &jobRepoStub{scheduleFn: func(ctx context.Context, req repository.ScheduleRequest) (models.ScheduledJob, error) {
		close(entered)
		<-release
		return models.ScheduledJob{File: req.File}, nil
	}}
	s, _, _ := newTestScheduler(repo)

	done := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background(), models.JobDraft{File: "a.gco"})
		done <- err
	}()
	<-entered

	if _, err := s.Submit(context.Background(), models.JobDraft{File: "b.gco"}); !errors.Is(err, ErrBusy) {
		t.Fatalf("second submit err = %v, want ErrBusy", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if len(repo.requests) != 1 {
		t.Fatalf("expected one request, got %d", len(repo.requests))
	}
}

func TestScheduler_InvalidTriggerIsRejectedLocally(t *testing.T) {
	repo := &jobRepoStub{}
	s, _, _ := newTestScheduler(repo)

	_, err := s.Submit(context.Background(), models.JobDraft{Trigger: "later"})
	if !errors.Is(err, ErrInvalidTrigger) {
		t.Fatalf("err = %v, want ErrInvalidTrigger", err)
	}
	if len(repo.requests) != 0 {
		t.Fatalf("no request expected")
	}
}

func TestCanceller_SuccessClearsJobAndErrors(t *testing.T) {
	repo := &jobRepoStub{}
	m := NewMirror()
	errs := &FieldErrorsStore{}
	m.SetJob(models.ScheduledJob{File: "a.gco"})
	errs.Apply([]models.FieldError{{Parameter: "file", Message: "missing"}})

	c := NewCanceller(repo, m, errs, 0, nil)
	if err := c.Cancel(context.Background()); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if m.Snapshot().Job != nil {
		t.Fatalf("job should be cleared")
	}
	if !errs.Get().Empty() {
		t.Fatalf("field errors should be cleared")
	}
}

func TestCanceller_FailureLeavesState(t *testing.T) {
	repo := &jobRepoStub{cancelFn: func(ctx context.Context) error { return errors.New("timeout") }}
	m := NewMirror()
	m.SetJob(models.ScheduledJob{File: "a.gco"})

	c := NewCanceller(repo, m, &FieldErrorsStore{}, 0, nil)
	if err := c.Cancel(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
	if m.Snapshot().Job == nil {
		t.Fatalf("job should remain after failed cancel")
	}
}
