package session

import (
	"sync"
	"time"
)

// MemorySink records updates in-memory for tests. A completion is an update
// carrying Running=false.
type MemorySink struct {
	mu          sync.Mutex
	updates     []Update
	completions int
}

func NewMemorySink() *MemorySink { return &MemorySink{} }

func (s *MemorySink) Publish(u Update) {
	s.mu.Lock()
	s.updates = append(s.updates, u)
	if u.Running != nil && !*u.Running {
		s.completions++
	}
	s.mu.Unlock()
}

// Updates returns a copy of every recorded update.
func (s *MemorySink) Updates() []Update {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Update, len(s.updates))
	copy(out, s.updates)
	return out
}

// Outputs returns every published output value in order.
func (s *MemorySink) Outputs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, u := range s.updates {
		if u.Output != nil {
			out = append(out, *u.Output)
		}
	}
	return out
}

// LastOutput returns the most recent output value.
func (s *MemorySink) LastOutput() string {
	outs := s.Outputs()
	if len(outs) == 0 {
		return ""
	}
	return outs[len(outs)-1]
}

// LastStatus returns the most recent status value.
func (s *MemorySink) LastStatus() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.updates) - 1; i >= 0; i-- {
		if s.updates[i].Status != nil {
			return *s.updates[i].Status
		}
	}
	return ""
}

// Completions reports how many sessions have finished.
func (s *MemorySink) Completions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completions
}

// WaitCompletions waits until at least n sessions finished.
func (s *MemorySink) WaitCompletions(n int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if s.Completions() >= n {
			return true
		}
		time.Sleep(time.Millisecond)
	}
	return s.Completions() >= n
}
