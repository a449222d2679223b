package models

// ScheduledJob is the single deferred job known to the controller.
// Folder has no leading separator; "" is the storage root.
type ScheduledJob struct {
	File              string `json:"file"`
	Folder            string `json:"folder"`
	StartTimeEpochMs  int64  `json:"start_time_ms"`
	TurnOffAfterPrint bool   `json:"turn_off_after_print"`
}
