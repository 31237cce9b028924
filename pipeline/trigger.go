package pipeline

import "sync"

// Trigger counts winning observations per watched label and decides when a
// streak is complete. It owns the only state in the frame loop; the
// notification itself is dispatched elsewhere so a slow endpoint never
// stalls counting.
type Trigger struct {
	mu     sync.Mutex
	streak int
	counts map[string]int
}

// NewTrigger watches the given labels, firing after streak winning
// observations of one of them.
func NewTrigger(watched []string, streak int) *Trigger {
	counts := make(map[string]int, len(watched))
	for _, label := range watched {
		counts[label] = 0
	}

	return &Trigger{
		streak: streak,
		counts: counts,
	}
}

// Observe records one frame's winning label. It returns true exactly when
// label's count reaches the streak length; the count resets to 0 in the same
// call, so the next observation starts a fresh streak. Labels outside the
// watched set leave every counter unchanged.
func (t *Trigger) Observe(label string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	count, watched := t.counts[label]
	if !watched {
		return false
	}

	count++
	if count >= t.streak {
		t.counts[label] = 0
		return true
	}

	t.counts[label] = count
	return false
}

// Count reports the current streak for label.
func (t *Trigger) Count(label string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counts[label]
}

// Watched reports whether label is being counted at all.
func (t *Trigger) Watched(label string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.counts[label]
	return ok
}
