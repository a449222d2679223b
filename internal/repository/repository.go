package repository

import (
	"context"

	"autoprint/internal/models"
	"autoprint/internal/repository/octoprint"
)

// Command is a zero-argument device command understood by the controller plugin.
type Command string

const (
	CommandStartUp        Command = "startUpPrinter"
	CommandShutDown       Command = "shutDownPrinter"
	CommandCancelShutDown Command = "cancelShutDown"
	CommandToggleLight    Command = "toggleLight"
)

// StateReport is one answer of the controller's state query.
// Job is nil when the controller reports no scheduled job.
type StateReport struct {
	State models.DeviceState
	Job   *models.ScheduledJob
}

// ScheduleRequest is the payload of a scheduleJob submission.
type ScheduleRequest struct {
	File              string
	Folder            string
	TimeEpochMs       int64
	TurnOffAfterPrint bool
	Trigger           models.Trigger
}

// Listing is a non-recursive listing of one storage location. The controller
// answers with top-level files for the root and children for folders.
type Listing struct {
	Files    []models.FileNode
	Children []models.FileNode
}

type DeviceRepo interface {
	FetchState(ctx context.Context) (StateReport, error)
	SendCommand(ctx context.Context, cmd Command) error
}

type JobRepo interface {
	ScheduleJob(ctx context.Context, req ScheduleRequest) (models.ScheduledJob, error)
	CancelJob(ctx context.Context) error
}

type FileRepo interface {
	ListFolders(ctx context.Context) ([]models.FileNode, error)
	ListLocation(ctx context.Context, location string) (Listing, error)
}

// Remote is the subset of the controller transport the repositories need.
type Remote interface {
	GetJSON(ctx context.Context, path string, out any) error
	PostJSON(ctx context.Context, path string, body any, out any) error
}

var _ Remote = (*octoprint.Client)(nil)

type Repository struct {
	DeviceRepo DeviceRepo
	JobRepo    JobRepo
	FileRepo   FileRepo
}

func NewRepository(remote Remote) *Repository {
	return &Repository{
		DeviceRepo: NewDeviceHTTP(remote),
		JobRepo:    NewJobHTTP(remote),
		FileRepo:   NewFileHTTP(remote),
	}
}
