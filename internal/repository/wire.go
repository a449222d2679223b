package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"autoprint/internal/models"
)

const (
	pluginPath = "/api/plugin/autoprint"
	filesPath  = "/api/files"
)

// epochMillis accepts 1700000000000, 1700000000000.0 and "1700000000000".
type epochMillis int64

func (m *epochMillis) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*m = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		b = []byte(s)
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("epoch millis %q: %w", string(b), err)
	}
	*m = epochMillis(math.Round(f))
	return nil
}

type deviceStateWire struct {
	Printer         bool `json:"printer"`
	Light           bool `json:"light"`
	Cooldown        bool `json:"cooldown"`
	Connected       bool `json:"connected"`
	PrintInProgress bool `json:"printInProgress"`
}

// jobWire is the controller's job snapshot. Older plugin versions send
// turnOffAfter instead of turnOffAfterPrint; both map to TurnOffAfterPrint.
type jobWire struct {
	File              string      `json:"file"`
	Folder            *string     `json:"folder"`
	StartTime         epochMillis `json:"startTime"`
	TurnOffAfterPrint *bool       `json:"turnOffAfterPrint"`
	TurnOffAfter      *bool       `json:"turnOffAfter"`
}

func (j *jobWire) turnOff() (bool, bool) {
	switch {
	case j.TurnOffAfterPrint != nil:
		return *j.TurnOffAfterPrint, true
	case j.TurnOffAfter != nil:
		return *j.TurnOffAfter, true
	}
	return false, false
}

func (j *jobWire) toModel() models.ScheduledJob {
	off, _ := j.turnOff()
	folder := ""
	if j.Folder != nil {
		folder = NormalizeFolder(*j.Folder)
	}
	return models.ScheduledJob{
		File:              j.File,
		Folder:            folder,
		StartTimeEpochMs:  int64(j.StartTime),
		TurnOffAfterPrint: off,
	}
}

type stateEnvelope struct {
	State        deviceStateWire `json:"state"`
	ScheduledJob *jobWire        `json:"scheduledJob"`
}

type commandWire struct {
	Command Command `json:"command"`
}

type scheduleWire struct {
	Command           Command        `json:"command"`
	File              string         `json:"file"`
	Folder            string         `json:"folder"`
	Time              int64          `json:"time"`
	TurnOffAfterPrint bool           `json:"turnOffAfterPrint"`
	StartFinish       models.Trigger `json:"startFinish"`
}

const (
	commandScheduleJob Command = "scheduleJob"
	commandCancelJob   Command = "cancelJob"
)

type filesEnvelope struct {
	Files    []models.FileNode `json:"files"`
	Children []models.FileNode `json:"children"`
}

// NormalizeFolder strips leading separators; "" is the storage root.
func NormalizeFolder(folder string) string {
	return strings.TrimLeft(folder, "/")
}
