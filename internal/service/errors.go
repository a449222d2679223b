package service

import (
	"errors"
	"sync/atomic"
)

var (
	// ErrBusy is returned when the same action is already in flight.
	ErrBusy = errors.New("another request of this kind is still in progress")
	// ErrStaleSelection means the folder selection changed while its listing was in flight.
	ErrStaleSelection = errors.New("folder selection changed before listing arrived")
	ErrInvalidTime    = errors.New("invalid time")
	ErrInvalidTrigger = errors.New("invalid trigger: must be start or finish")
	ErrInvalidPath    = errors.New("invalid file path")
)

// inFlight rejects overlapping calls of one orchestrator.
type inFlight struct {
	busy atomic.Bool
}

func (g *inFlight) acquire() bool { return g.busy.CompareAndSwap(false, true) }
func (g *inFlight) release()      { g.busy.Store(false) }
