package inference

import (
	"sync"

	"gocv.io/x/gocv"
)

type fakeService struct {
	mu     sync.Mutex
	script [][]float32
	next   int
}

// NewFake replays the given probability vectors round-robin. Used by tests
// and by the synthetic framer in dev mode.
func NewFake(script [][]float32) IService {
	return &fakeService{
		script: script,
	}
}

func (svc *fakeService) NewSession() (Session, error) {
	return &fakeSession{svc: svc}, nil
}

func (svc *fakeService) CanSkipFrame(_ int) bool {
	return false
}

type fakeSession struct {
	svc *fakeService
}

func (s *fakeSession) Invoke(_ gocv.Mat) ([]float32, error) {
	s.svc.mu.Lock()
	defer s.svc.mu.Unlock()

	if len(s.svc.script) == 0 {
		return []float32{}, nil
	}

	probs := s.svc.script[s.svc.next%len(s.svc.script)]
	s.svc.next++
	return probs, nil
}

func (s *fakeSession) Close() error {
	return nil
}
