package simulator

import (
	"context"
	"errors"
	"path"
	"strings"
	"sync"
	"time"

	"autoprint/internal/logger"
	"autoprint/internal/models"

	"github.com/google/uuid"
)

// Parameters the simulator reports validation errors against.
const (
	paramFile        = "file"
	paramTime        = "time"
	paramStartFinish = "startFinish"
)

// Options configures a Simulator.
type Options struct {
	// Cooldown is how long the printer stays powered after shutDownPrinter.
	Cooldown time.Duration
	// PrintSpeedup divides the estimated print time of a started job.
	PrintSpeedup float64
	Entries      []Entry
	Logger       *logger.Logger
	Now          func() time.Time
}

// Job is the scheduled job as held by the simulated controller.
type Job struct {
	ID                string
	File              string
	Folder            string
	Time              time.Time // requested start or finish
	StartTime         time.Time
	TurnOffAfterPrint bool
	Trigger           models.Trigger
}

// ScheduleRequest is a decoded scheduleJob command.
type ScheduleRequest struct {
	File              string
	Folder            string
	TimeMs            int64
	TurnOffAfterPrint bool
	Trigger           models.Trigger
}

type printRun struct {
	file    string
	until   time.Time
	turnOff bool
}

// Simulator is an in-memory device controller: power and light relays, a
// shutdown cooldown, one scheduled job and a seeded file storage.
type Simulator struct {
	cooldown time.Duration
	speedup  float64
	store    *storage
	log      *logger.Logger
	now      func() time.Time

	mu            sync.Mutex
	printer       bool
	light         bool
	cooldownUntil time.Time
	printing      *printRun
	job           *Job
}

// ErrTooEarly is returned when a job would have to start in the past.
var ErrTooEarly = errors.New("start time is in the past")

func New(opts Options) *Simulator {
	entries := opts.Entries
	if entries == nil {
		entries = DefaultEntries
	}
	speedup := opts.PrintSpeedup
	if speedup <= 0 {
		speedup = 1
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Simulator{
		cooldown: opts.Cooldown,
		speedup:  speedup,
		store:    newStorage(entries),
		log:      logger.OrNop(opts.Logger),
		now:      now,
	}
}

// State returns the current relays, cooldown and print flags.
func (s *Simulator) State() models.DeviceState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Simulator) stateLocked() models.DeviceState {
	return models.DeviceState{
		Printer:         s.printer,
		Light:           s.light,
		Cooldown:        !s.cooldownUntil.IsZero(),
		Connected:       s.printer,
		PrintInProgress: s.printing != nil,
	}
}

// CurrentJob returns a copy of the scheduled job, or nil.
func (s *Simulator) CurrentJob() *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.job == nil {
		return nil
	}
	j := *s.job
	return &j
}

// StartUp switches printer and light on and aborts a pending shutdown.
func (s *Simulator) StartUp() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.powerOnLocked()
	s.log.Infow("sim_startup")
}

func (s *Simulator) powerOnLocked() {
	s.printer = true
	s.light = true
	s.cooldownUntil = time.Time{}
}

// ShutDown enters the cooldown; printer and light go off when it ends.
func (s *Simulator) ShutDown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shutDownLocked(s.now())
}

func (s *Simulator) shutDownLocked(now time.Time) {
	s.printing = nil
	if !s.printer && !s.light {
		return
	}
	if s.cooldown <= 0 {
		s.powerOffLocked()
		return
	}
	s.cooldownUntil = now.Add(s.cooldown)
	s.log.Infow("sim_cooldown_started", "until", s.cooldownUntil)
}

func (s *Simulator) powerOffLocked() {
	s.printer = false
	s.light = false
	s.cooldownUntil = time.Time{}
	s.log.Infow("sim_powered_off")
}

// CancelShutDown aborts a running cooldown.
func (s *Simulator) CancelShutDown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.cooldownUntil.IsZero() {
		s.cooldownUntil = time.Time{}
		s.log.Infow("sim_cooldown_cancelled")
	}
}

// ToggleLight flips the light relay.
func (s *Simulator) ToggleLight() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.light = !s.light
	s.log.Infow("sim_light_toggled", "light", s.light)
}

// Schedule validates req and replaces any existing job. Rejections are
// returned as field errors against file, time or startFinish.
func (s *Simulator) Schedule(req ScheduleRequest) (Job, []models.FieldError) {
	var errs []models.FieldError
	trigger := req.Trigger
	if trigger == "" {
		trigger = models.TriggerStart
	}
	if !trigger.Valid() {
		errs = append(errs, models.FieldError{Parameter: paramStartFinish, Message: "must be start or finish"})
	}

	folder := strings.Trim(req.Folder, "/")
	var entry Entry
	switch {
	case strings.TrimSpace(req.File) == "":
		errs = append(errs, models.FieldError{Parameter: paramFile, Message: "required"})
	default:
		e, ok := s.store.lookup(path.Join(folder, req.File))
		if !ok || fileType(e.Path) != models.NodeMachineCode {
			errs = append(errs, models.FieldError{Parameter: paramFile, Message: "file not found"})
		}
		entry = e
	}

	if req.TimeMs <= 0 {
		errs = append(errs, models.FieldError{Parameter: paramTime, Message: "required"})
	}
	if len(errs) > 0 {
		return Job{}, errs
	}

	at := time.UnixMilli(req.TimeMs)
	start, err := startTime(at, trigger, entry.EstimatedPrintTime, s.now())
	if err != nil {
		return Job{}, []models.FieldError{{Parameter: paramTime, Message: err.Error()}}
	}

	job := Job{
		ID:                uuid.NewString(),
		File:              req.File,
		Folder:            folder,
		Time:              at,
		StartTime:         start,
		TurnOffAfterPrint: req.TurnOffAfterPrint,
		Trigger:           trigger,
	}

	s.mu.Lock()
	s.job = &job
	s.mu.Unlock()

	s.log.Infow("sim_job_scheduled", "job_id", job.ID, "file", path.Join(folder, job.File),
		"start", job.StartTime, "trigger", string(trigger))
	return job, nil
}

// startTime moves a finish-triggered job back by its estimated print time,
// rounded up to the next full minute.
func startTime(at time.Time, trigger models.Trigger, estimate time.Duration, now time.Time) (time.Time, error) {
	start := at
	if trigger == models.TriggerFinish {
		secs := int64(estimate / time.Second)
		secs += 60 - secs%60
		start = at.Add(-time.Duration(secs) * time.Second)
	}
	if start.Before(now) {
		return time.Time{}, ErrTooEarly
	}
	return start, nil
}

// Cancel drops the scheduled job. It reports whether one existed.
func (s *Simulator) Cancel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	had := s.job != nil
	s.job = nil
	if had {
		s.log.Infow("sim_job_cancelled")
	}
	return had
}

// Step advances the simulation to now.
func (s *Simulator) Step(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.cooldownUntil.IsZero() && !now.Before(s.cooldownUntil) {
		s.powerOffLocked()
	}

	if s.printing != nil && !now.Before(s.printing.until) {
		run := s.printing
		s.printing = nil
		s.log.Infow("sim_print_finished", "file", run.file)
		if run.turnOff {
			s.shutDownLocked(now)
		}
	}

	if s.job != nil && !now.Before(s.job.StartTime) {
		job := s.job
		s.job = nil
		s.powerOnLocked()
		file := path.Join(job.Folder, job.File)
		e, _ := s.store.lookup(file)
		s.printing = &printRun{
			file:    file,
			until:   now.Add(time.Duration(float64(e.EstimatedPrintTime) / s.speedup)),
			turnOff: job.TurnOffAfterPrint,
		}
		s.log.Infow("sim_print_started", "job_id", job.ID, "file", file, "until", s.printing.until)
	}
}

// Run ticks at the given interval until ctx is canceled.
func (s *Simulator) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Step(s.now())
		}
	}
}
