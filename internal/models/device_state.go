package models

import "time"

// DeviceState is a point-in-time snapshot of the device controller.
type DeviceState struct {
	Printer         bool `json:"printer"`
	Light           bool `json:"light"`
	Cooldown        bool `json:"cooldown"`
	Connected       bool `json:"connected"`
	PrintInProgress bool `json:"print_in_progress"`
}

// Snapshot is the mirrored remote state as seen by the UI layer.
// It may lag the controller by up to one poll interval.
type Snapshot struct {
	State     DeviceState   `json:"state"`
	Job       *ScheduledJob `json:"scheduled_job"`
	UpdatedAt time.Time     `json:"updated_at"`
}
