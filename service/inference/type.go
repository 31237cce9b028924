package inference

import "gocv.io/x/gocv"

// Session runs the classification model for one worker and yields one
// probability vector per frame, index-aligned with the label set.
// Sessions are not safe for concurrent use; create one per worker.
type Session interface {
	Invoke(img gocv.Mat) ([]float32, error)
	Close() error
}

// There should be more input to CanSkipFrame than just frames
type IService interface {
	NewSession() (Session, error)
	CanSkipFrame(frames int) bool
}
