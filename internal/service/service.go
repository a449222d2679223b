package service

import (
	"context"
	"time"

	"autoprint/internal/logger"
	"autoprint/internal/models"
	"autoprint/internal/repository"
)

type Authorization interface {
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (string, error)
}

// Monitoring exposes the mirrored controller state and the polling lifecycle.
type Monitoring interface {
	Snapshot() models.Snapshot
	StartPolling()
	StopPolling()
	Polling() bool
	RefreshState(ctx context.Context) error
}

// Device exposes the zero-argument power and light commands.
type Device interface {
	StartUp(ctx context.Context) error
	ShutDown(ctx context.Context) error
	CancelShutDown(ctx context.Context) error
	ToggleLight(ctx context.Context) error
}

type Folders interface {
	FolderPaths() []string
	RefreshFolders(ctx context.Context) error
}

type Files interface {
	FileList() models.FileList
}

// Draft exposes the operator's unsaved job.
type Draft interface {
	CurrentDraft() models.JobDraft
	UpdateDraft(ctx context.Context, patch models.DraftPatch) (models.JobDraft, error)
	BrowseSelect(ctx context.Context, storagePath string) (models.JobDraft, error)
	ClearFolder() models.JobDraft
}

// Jobs submits or cancels the scheduled job and reports field errors.
type Jobs interface {
	SubmitJob(ctx context.Context) (models.ScheduledJob, error)
	CancelJob(ctx context.Context) error
	FieldErrors() models.FieldErrors
}

// Service aggregates all sub-services.
type Service struct {
	Authorization
	Monitoring
	Device
	Folders
	Files
	Draft
	Jobs

	Clock *TimeAdapter

	folders *FolderService
	drafts  *Drafts
	log     *logger.Logger
}

// Options carries the runtime settings of the core services.
type Options struct {
	PollInterval   time.Duration
	RequestTimeout time.Duration
	Location       *time.Location
	Auth           AuthOptions
	Logger         *logger.Logger
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, opts Options) *Service {
	log := logger.OrNop(opts.Logger)
	clock := NewTimeAdapter(opts.Location)

	mirror := NewMirror()
	errs := &FieldErrorsStore{}
	poller := NewPoller(repos.DeviceRepo, mirror, opts.PollInterval, opts.RequestTimeout, log.Named("poller"))
	folders := NewFolderService(repos.FileRepo, opts.RequestTimeout, log.Named("folders"))
	files := NewFileResolver(repos.FileRepo, opts.RequestTimeout, log.Named("files"))
	drafts := NewDrafts(clock, files, log.Named("drafts"))
	scheduler := NewScheduler(repos.JobRepo, mirror, errs, opts.RequestTimeout, log.Named("jobs"))
	canceller := NewCanceller(repos.JobRepo, mirror, errs, opts.RequestTimeout, log.Named("jobs"))

	return &Service{
		Authorization: NewAuthService(opts.Auth),
		Monitoring:    NewMonitoringService(poller, mirror),
		Device:        NewCommands(repos.DeviceRepo, poller, opts.RequestTimeout, log.Named("device")),
		Folders:       folders,
		Files:         files,
		Draft:         drafts,
		Jobs:          NewJobService(drafts, scheduler, canceller, errs),
		Clock:         clock,
		folders:       folders,
		drafts:        drafts,
		log:           log,
	}
}

// Warmup loads the folder list and the root folder's files. Failures are
// logged; the service stays usable with the defaults.
func (s *Service) Warmup(ctx context.Context) {
	if err := s.folders.RefreshFolders(ctx); err != nil {
		s.log.Warnw("folder_refresh_failed", "err", err)
	}
	s.drafts.Reselect(ctx)
}
