package labels

type fakeService struct {
	Labels []string
}

func NewFake(labels []string) IService {
	return &fakeService{
		Labels: labels,
	}
}

func (svc *fakeService) Load() ([]string, error) {
	return svc.Labels, nil
}
