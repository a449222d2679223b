package service

import (
	"context"
	"time"

	"autoprint/internal/logger"
	"autoprint/internal/repository"

	"github.com/google/uuid"
)

// Commands sends the zero-argument device commands. A successful command is
// followed by one immediate state refresh; the mirror is never edited ahead
// of the controller's answer.
type Commands struct {
	repo    repository.DeviceRepo
	poller  *Poller
	timeout time.Duration
	log     *logger.Logger
	guard   inFlight
}

func NewCommands(repo repository.DeviceRepo, poller *Poller, timeout time.Duration, log *logger.Logger) *Commands {
	return &Commands{repo: repo, poller: poller, timeout: timeout, log: logger.OrNop(log)}
}

func (c *Commands) StartUp(ctx context.Context) error {
	return c.send(ctx, repository.CommandStartUp)
}

func (c *Commands) ShutDown(ctx context.Context) error {
	return c.send(ctx, repository.CommandShutDown)
}

func (c *Commands) CancelShutDown(ctx context.Context) error {
	return c.send(ctx, repository.CommandCancelShutDown)
}

func (c *Commands) ToggleLight(ctx context.Context) error {
	return c.send(ctx, repository.CommandToggleLight)
}

func (c *Commands) send(ctx context.Context, cmd repository.Command) error {
	if !c.guard.acquire() {
		return ErrBusy
	}
	defer c.guard.release()

	reqID := uuid.NewString()
	cctx, cancel := withTimeout(ctx, c.timeout)
	err := c.repo.SendCommand(cctx, cmd)
	cancel()
	if err != nil {
		c.log.Errorw("device_command_failed", "request_id", reqID, "command", string(cmd), "err", err)
		return err
	}
	c.log.Infow("device_command_sent", "request_id", reqID, "command", string(cmd))

	if err := c.poller.Refresh(ctx); err != nil {
		c.log.Debugw("post_command_refresh_failed", "request_id", reqID, "command", string(cmd), "err", err)
	}
	return nil
}
