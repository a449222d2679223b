package service

import (
	"context"
	"sync"

	"autoprint/internal/models"
	"autoprint/internal/repository"
)

// ---- Test doubles ----

// deviceRepoStub is a minimal stub for repository.DeviceRepo.
type deviceRepoStub struct {
	mu       sync.Mutex
	fetchFn  func(ctx context.Context) (repository.StateReport, error)
	sendFn   func(ctx context.Context, cmd repository.Command) error
	fetches  int
	commands []repository.Command
}

func (s *deviceRepoStub) FetchState(ctx context.Context) (repository.StateReport, error) {
	s.mu.Lock()
	s.fetches++
	fn := s.fetchFn
	s.mu.Unlock()
	if fn == nil {
		return repository.StateReport{}, nil
	}
	return fn(ctx)
}

func (s *deviceRepoStub) SendCommand(ctx context.Context, cmd repository.Command) error {
	s.mu.Lock()
	s.commands = append(s.commands, cmd)
	fn := s.sendFn
	s.mu.Unlock()
	if fn == nil {
		return nil
	}
	return fn(ctx, cmd)
}

func (s *deviceRepoStub) fetchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetches
}

// jobRepoStub is a minimal stub for repository.JobRepo.
type jobRepoStub struct {
	scheduleFn func(ctx context.Context, req repository.ScheduleRequest) (models.ScheduledJob, error)
	cancelFn   func(ctx context.Context) error
	requests   []repository.ScheduleRequest
	cancels    int
}

func (s *jobRepoStub) ScheduleJob(ctx context.Context, req repository.ScheduleRequest) (models.ScheduledJob, error) {
	s.requests = append(s.requests, req)
	return s.scheduleFn(ctx, req)
}

func (s *jobRepoStub) CancelJob(ctx context.Context) error {
	s.cancels++
	if s.cancelFn == nil {
		return nil
	}
	return s.cancelFn(ctx)
}

// fileRepoStub is a minimal stub for repository.FileRepo.
type fileRepoStub struct {
	foldersFn  func(ctx context.Context) ([]models.FileNode, error)
	locationFn func(ctx context.Context, location string) (repository.Listing, error)

	mu        sync.Mutex
	locations []string
}

func (s *fileRepoStub) ListFolders(ctx context.Context) ([]models.FileNode, error) {
	return s.foldersFn(ctx)
}

func (s *fileRepoStub) ListLocation(ctx context.Context, location string) (repository.Listing, error) {
	s.mu.Lock()
	s.locations = append(s.locations, location)
	s.mu.Unlock()
	if s.locationFn == nil {
		return repository.Listing{}, nil
	}
	return s.locationFn(ctx, location)
}

func strPtr(s string) *string { return &s }
