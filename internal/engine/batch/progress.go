package batch

import (
	"sync"
	"time"
)

// percentMultiplier is used to convert a ratio to percentage (0-100).
const percentMultiplier = 100

// Progress tracks finished jobs. It is safe for concurrent use.
type Progress struct {
	total     int
	completed int
	failed    int
	startTime time.Time
	lastTime  time.Time

	mu sync.RWMutex
}

// NewProgress creates a tracker for total jobs.
func NewProgress(total int) *Progress {
	now := time.Now()
	return &Progress{total: total, startTime: now, lastTime: now}
}

// Add records one finished job.
func (p *Progress) Add(succeeded bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.completed++
	if !succeeded {
		p.failed++
	}
	p.lastTime = time.Now()
}

// Snapshot returns a copy of the current state.
func (p *Progress) Snapshot() ProgressSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	s := ProgressSnapshot{
		Total:          p.total,
		Completed:      p.completed,
		Failed:         p.failed,
		StartTime:      p.startTime,
		LastUpdateTime: p.lastTime,
		ElapsedTime:    time.Since(p.startTime),
	}
	if p.total > 0 {
		s.PercentComplete = float64(p.completed) / float64(p.total) * percentMultiplier
	}
	if p.completed > 0 {
		perJob := s.ElapsedTime / time.Duration(p.completed)
		s.EstimatedRemaining = perJob * time.Duration(p.total-p.completed)
	}
	return s
}

// ProgressSnapshot is an immutable view of a Progress.
type ProgressSnapshot struct {
	Total              int
	Completed          int
	Failed             int
	StartTime          time.Time
	LastUpdateTime     time.Time
	PercentComplete    float64
	ElapsedTime        time.Duration
	EstimatedRemaining time.Duration
}

// IsComplete reports whether every job has finished.
func (s ProgressSnapshot) IsComplete() bool {
	return s.Completed >= s.Total
}
