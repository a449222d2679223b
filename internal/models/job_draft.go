package models

// Trigger ties the optional power-down to either job start or job finish.
type Trigger string

const (
	TriggerStart  Trigger = "start"
	TriggerFinish Trigger = "finish"
)

// Valid reports whether t is one of the known triggers.
func (t Trigger) Valid() bool {
	return t == TriggerStart || t == TriggerFinish
}

// JobDraft is the unsaved job configuration being edited by the operator.
// Folder is "/" or "/a/b"; empty means no folder is selected.
type JobDraft struct {
	File              string  `json:"file"`
	Folder            string  `json:"folder"`
	StartTimeEpochMs  int64   `json:"start_time_ms"`
	TurnOffAfterPrint bool    `json:"turn_off_after_print"`
	Trigger           Trigger `json:"trigger"`
}

// DraftPatch carries partial draft updates; nil fields are left alone.
type DraftPatch struct {
	File              *string  `json:"file,omitempty"`
	Folder            *string  `json:"folder,omitempty"`
	StartTimeEpochMs  *int64   `json:"start_time_ms,omitempty"`
	TimeDisplay       *string  `json:"time_display,omitempty"`
	TurnOffAfterPrint *bool    `json:"turn_off_after_print,omitempty"`
	Trigger           *Trigger `json:"trigger,omitempty"`
}
