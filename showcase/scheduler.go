package showcase

import (
	"sync"
	"time"
)

// Scheduler runs a tick once per host frame until stopped. It is the frame
// loop of a live showcase: each callback is one tick followed by a request for
// the next frame.
type Scheduler struct {
	host Host
	tick func(dt time.Duration)

	mu      sync.Mutex
	pending FrameID
	last    time.Time
	running bool
}

func NewScheduler(host Host, tick func(dt time.Duration)) *Scheduler {
	return &Scheduler{host: host, tick: tick}
}

// Start requests the first frame. The request handle is recorded before any
// tick can run, so Stop always has something to cancel.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.last = time.Time{}
	s.pending = s.host.RequestFrame(s.frame)
}

// Stop cancels the pending frame. A callback the host already dequeued
// returns without ticking.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	s.host.CancelFrame(s.pending)
	s.pending = 0
}

func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Scheduler) frame(now time.Time) {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	var dt time.Duration
	if !s.last.IsZero() {
		dt = now.Sub(s.last)
	}
	s.last = now
	s.mu.Unlock()

	s.tick(dt)

	s.mu.Lock()
	defer s.mu.Unlock()
	// The tick may have stopped the scheduler (destroy from inside a frame).
	if s.running {
		s.pending = s.host.RequestFrame(s.frame)
	}
}
