package repository

import (
	"context"

	"autoprint/internal/models"
)

type JobHTTP struct {
	remote Remote
}

func NewJobHTTP(remote Remote) *JobHTTP {
	return &JobHTTP{remote: remote}
}

var _ JobRepo = (*JobHTTP)(nil)

// ScheduleJob submits req. It returns *ValidationError when the controller
// rejects individual fields and *TransportError for everything else.
func (r *JobHTTP) ScheduleJob(ctx context.Context, req ScheduleRequest) (models.ScheduledJob, error) {
	body := scheduleWire{
		Command:           commandScheduleJob,
		File:              req.File,
		Folder:            NormalizeFolder(req.Folder),
		Time:              req.TimeEpochMs,
		TurnOffAfterPrint: req.TurnOffAfterPrint,
		StartFinish:       req.Trigger,
	}

	var out jobWire
	if err := r.remote.PostJSON(ctx, pluginPath, body, &out); err != nil {
		if ve := decodeValidation(err); ve != nil {
			return models.ScheduledJob{}, ve
		}
		return models.ScheduledJob{}, wrapTransport(string(commandScheduleJob), err)
	}
	return mergeSnapshot(out, body), nil
}

// mergeSnapshot fills fields the controller left out of its answer from the
// submitted payload.
func mergeSnapshot(out jobWire, sent scheduleWire) models.ScheduledJob {
	job := out.toModel()
	if out.File == "" {
		job.File = sent.File
	}
	if out.Folder == nil {
		job.Folder = sent.Folder
	}
	if out.StartTime == 0 {
		job.StartTimeEpochMs = sent.Time
	}
	if _, ok := out.turnOff(); !ok {
		job.TurnOffAfterPrint = sent.TurnOffAfterPrint
	}
	return job
}

// CancelJob asks the controller to drop the scheduled job. Any 2xx answer,
// whatever its payload, counts as success.
func (r *JobHTTP) CancelJob(ctx context.Context) error {
	err := r.remote.PostJSON(ctx, pluginPath, commandWire{Command: commandCancelJob}, nil)
	return wrapTransport(string(commandCancelJob), err)
}
