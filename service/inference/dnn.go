package inference

import (
	"image"
	"os"

	"github.com/mdobak/go-xerrors"
	"gocv.io/x/gocv"

	"github.com/lienswings/laundry-watch/service/config"
)

type dnnService struct {
	CfgSvc config.IService
}

// NewDNN runs the converted MobileNet-style classification model through the
// OpenCV DNN module.
func NewDNN(cfgsvc config.IService) IService {
	return &dnnService{
		CfgSvc: cfgsvc,
	}
}

func (svc *dnnService) NewSession() (Session, error) {
	params := svc.CfgSvc.GetClassifierParameters()

	if _, err := os.Stat(params.ModelPath); os.IsNotExist(err) {
		return nil, xerrors.New("no classification model exists at " + params.ModelPath)
	}

	// WARNING: net is not thread-safe!!!
	// So one must be created per worker
	net := gocv.ReadNet(params.ModelPath, "")
	if net.Empty() {
		return nil, xerrors.New("error reading classification model")
	}

	if err := net.SetPreferableBackend(gocv.NetBackendDefault); err != nil {
		net.Close()
		return nil, xerrors.New(err.Error())
	}

	if err := net.SetPreferableTarget(gocv.NetTargetCPU); err != nil {
		net.Close()
		return nil, xerrors.New(err.Error())
	}

	return &dnnSession{
		net:    net,
		params: params,
	}, nil
}

func (svc *dnnService) CanSkipFrame(_ int) bool {
	return false
}

type dnnSession struct {
	net    gocv.Net
	params config.ClassifierParameters
}

func (s *dnnSession) Invoke(img gocv.Mat) ([]float32, error) {
	if img.Empty() {
		return nil, xerrors.New("empty frame")
	}

	blob := gocv.BlobFromImage(img,
		1.0/float64(s.params.InputStd),
		image.Pt(s.params.InputWidth, s.params.InputHeight),
		gocv.NewScalar(float64(s.params.InputMean), float64(s.params.InputMean), float64(s.params.InputMean), 0),
		true, false)
	defer blob.Close()

	s.net.SetInput(blob, "")

	output := s.net.Forward("")
	defer output.Close()

	data, err := output.DataPtrFloat32()
	if err != nil {
		return nil, xerrors.New(err.Error())
	}

	// The output mat is freed on Close, so hand back a copy
	probs := make([]float32, len(data))
	copy(probs, data)

	return probs, nil
}

func (s *dnnSession) Close() error {
	return s.net.Close()
}
