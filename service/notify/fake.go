package notify

import (
	"context"
	"sync"
)

type fakeService struct {
	mu     sync.Mutex
	labels []string
	err    error
}

func NewFake() IService {
	return &fakeService{}
}

// NewFailingFake returns a sink whose calls all fail with err.
func NewFailingFake(err error) IService {
	return &fakeService{err: err}
}

func (svc *fakeService) Get(_ context.Context, label string) (Outcome, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	svc.labels = append(svc.labels, label)
	if svc.err != nil {
		return Outcome{}, svc.err
	}
	return Outcome{Status: "200 OK", Code: 200}, nil
}

// Notified reports the labels delivered so far, in order.
func Notified(svc IService) []string {
	fake, ok := svc.(*fakeService)
	if !ok {
		return nil
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()
	out := make([]string, len(fake.labels))
	copy(out, fake.labels)
	return out
}
