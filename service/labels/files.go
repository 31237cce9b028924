package labels

import (
	"os"
	"strings"

	"github.com/mdobak/go-xerrors"

	"github.com/lienswings/laundry-watch/service/config"
)

type filesService struct {
	CfgSvc config.IService
}

// NewFiles reads labels from the line-delimited file named by the classifier
// parameters, one label per line.
func NewFiles(cfgsvc config.IService) IService {
	return &filesService{
		CfgSvc: cfgsvc,
	}
}

func (svc *filesService) Load() ([]string, error) {
	path := svc.CfgSvc.GetClassifierParameters().LabelsPath
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, xerrors.New(err.Error())
	}

	labels := []string{}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		labels = append(labels, line)
	}

	return labels, nil
}
