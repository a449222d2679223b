package service

import (
	"context"
	"reflect"
	"testing"
	"time"

	"autoprint/internal/models"
	"autoprint/internal/repository"
)

func TestService_WarmupAndSubmitDraft(t *testing.T) {
	files := &fileRepoStub{
		foldersFn: func(ctx context.Context) ([]models.FileNode, error) {
			return []models.FileNode{{Name: "cal", Path: "cal", Type: models.NodeFolder}}, nil
		},
		locationFn: func(ctx context.Context, location string) (repository.Listing, error) {
			if location == repository.StorageRoot {
				return repository.Listing{Files: []models.FileNode{{Name: "cube.gco", Type: models.NodeMachineCode}}}, nil
			}
			return repository.Listing{Children: []models.FileNode{{Name: "ring.gco", Type: models.NodeMachineCode}}}, nil
		},
	}
	jobs := &jobRepoStub{scheduleFn: func(ctx context.Context, req repository.ScheduleRequest) (models.ScheduledJob, error) {
		return models.ScheduledJob{File: req.File, Folder: "cal", StartTimeEpochMs: req.TimeEpochMs}, nil
	}}
	svc := NewService(&repository.Repository{
		DeviceRepo: &deviceRepoStub{},
		JobRepo:    jobs,
		FileRepo:   files,
	}, Options{Location: time.UTC, PollInterval: time.Hour})

	ctx := context.Background()
	svc.Warmup(ctx)

	if got := svc.FolderPaths(); !reflect.DeepEqual(got, []string{"/", "/cal"}) {
		t.Fatalf("folders = %v", got)
	}
	if got := svc.FileList(); got.Pending || !reflect.DeepEqual(got.Files, []string{"cube.gco"}) {
		t.Fatalf("root files = %+v", got)
	}

	if _, err := svc.BrowseSelect(ctx, "cal/ring.gco"); err != nil {
		t.Fatalf("BrowseSelect: %v", err)
	}
	job, err := svc.SubmitJob(ctx)
	if err != nil {
		t.Fatalf("SubmitJob: %v", err)
	}
	if job.File != "ring.gco" || jobs.requests[0].Folder != "/cal" {
		t.Fatalf("job = %+v, request = %+v", job, jobs.requests[0])
	}
	if snap := svc.Snapshot(); snap.Job == nil || snap.Job.File != "ring.gco" {
		t.Fatalf("snapshot job = %+v", snap.Job)
	}

	if err := svc.CancelJob(ctx); err != nil {
		t.Fatalf("CancelJob: %v", err)
	}
	if svc.Snapshot().Job != nil {
		t.Fatalf("job should be cleared after cancel")
	}
}

func TestService_PollingLifecycle(t *testing.T) {
	svc := NewService(&repository.Repository{
		DeviceRepo: &deviceRepoStub{},
		JobRepo:    &jobRepoStub{},
		FileRepo:   &fileRepoStub{},
	}, Options{PollInterval: 10 * time.Millisecond})

	svc.StartPolling()
	if !svc.Polling() {
		t.Fatalf("expected polling")
	}
	svc.StopPolling()
	if svc.Polling() {
		t.Fatalf("expected stopped")
	}
}
