package service

import (
	"sync"
	"time"

	"autoprint/internal/models"
)

// Ticket is taken before a state query is issued and handed back with its answer.
type Ticket struct {
	seq    uint64
	jobGen uint64
}

// Mirror is the local copy of the controller's device and job state.
// The poller replaces it wholesale; schedule and cancel adopt or clear the job.
type Mirror struct {
	mu sync.RWMutex

	state     models.DeviceState
	job       *models.ScheduledJob
	updatedAt time.Time

	issued  uint64 // last ticket handed out
	applied uint64 // ticket of the last applied answer
	jobGen  uint64 // bumped by explicit job writes
}

func NewMirror() *Mirror {
	return &Mirror{}
}

// Ticket reserves a position for a state answer about to be requested.
func (m *Mirror) Ticket() Ticket {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.issued++
	return Ticket{seq: m.issued, jobGen: m.jobGen}
}

// Replace applies a state answer. Answers older than one already applied are
// dropped. The job part is skipped when a schedule or cancel landed after the
// query was issued, since that write is newer than the answer.
func (m *Mirror) Replace(t Ticket, state models.DeviceState, job *models.ScheduledJob) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.seq <= m.applied {
		return false
	}
	m.applied = t.seq
	m.state = state
	if t.jobGen == m.jobGen {
		m.job = cloneJob(job)
	}
	m.updatedAt = time.Now().UTC()
	return true
}

// SetJob adopts a snapshot returned by a successful schedule.
func (m *Mirror) SetJob(job models.ScheduledJob) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobGen++
	m.job = &job
}

// ClearJob drops the mirrored job after a successful cancel.
func (m *Mirror) ClearJob() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobGen++
	m.job = nil
}

// Snapshot returns a copy safe to hand to the UI layer.
func (m *Mirror) Snapshot() models.Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return models.Snapshot{
		State:     m.state,
		Job:       cloneJob(m.job),
		UpdatedAt: m.updatedAt,
	}
}

func cloneJob(j *models.ScheduledJob) *models.ScheduledJob {
	if j == nil {
		return nil
	}
	c := *j
	return &c
}
