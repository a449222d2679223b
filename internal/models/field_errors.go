package models

// Field names the controller may attach validation messages to.
const (
	FieldTime = "time"
	FieldFile = "file"
)

// FieldError is one field-scoped validation failure reported by the controller.
type FieldError struct {
	Parameter string `json:"parameter"`
	Message   string `json:"message"`
}

// FieldErrors holds at most one message per schedulable field.
// A nil slot means the field has no error.
type FieldErrors struct {
	Time *string `json:"time"`
	File *string `json:"file"`
}

// Set stores msg in the slot named by param. It returns false for unknown fields.
func (f *FieldErrors) Set(param, msg string) bool {
	m := msg
	switch param {
	case FieldTime:
		f.Time = &m
	case FieldFile:
		f.File = &m
	default:
		return false
	}
	return true
}

// Empty reports whether no slot carries a message.
func (f FieldErrors) Empty() bool {
	return f.Time == nil && f.File == nil
}
