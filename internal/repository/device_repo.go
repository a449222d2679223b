package repository

import (
	"context"

	"autoprint/internal/models"
)

type DeviceHTTP struct {
	remote Remote
}

func NewDeviceHTTP(remote Remote) *DeviceHTTP {
	return &DeviceHTTP{remote: remote}
}

var _ DeviceRepo = (*DeviceHTTP)(nil)

// FetchState queries device and job state. A missing, null or file-less
// scheduledJob means the controller holds no job.
func (r *DeviceHTTP) FetchState(ctx context.Context) (StateReport, error) {
	var env stateEnvelope
	if err := r.remote.GetJSON(ctx, pluginPath, &env); err != nil {
		return StateReport{}, wrapTransport("fetch state", err)
	}

	rep := StateReport{
		State: models.DeviceState{
			Printer:         env.State.Printer,
			Light:           env.State.Light,
			Cooldown:        env.State.Cooldown,
			Connected:       env.State.Connected,
			PrintInProgress: env.State.PrintInProgress,
		},
	}
	if env.ScheduledJob != nil && env.ScheduledJob.File != "" {
		job := env.ScheduledJob.toModel()
		rep.Job = &job
	}
	return rep, nil
}

// SendCommand posts a zero-argument command.
func (r *DeviceHTTP) SendCommand(ctx context.Context, cmd Command) error {
	err := r.remote.PostJSON(ctx, pluginPath, commandWire{Command: cmd}, nil)
	return wrapTransport(string(cmd), err)
}
