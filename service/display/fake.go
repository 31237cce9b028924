package display

import "sync"

type fakeService struct {
	mu      sync.Mutex
	winners []string
}

func NewFake() IService {
	return &fakeService{}
}

func (svc *fakeService) Show(_ string, winner string, _ string) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.winners = append(svc.winners, winner)
}

// Shown reports the winners displayed so far, empty string for frames with
// no winner.
func Shown(svc IService) []string {
	fake, ok := svc.(*fakeService)
	if !ok {
		return nil
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()
	out := make([]string, len(fake.winners))
	copy(out, fake.winners)
	return out
}
