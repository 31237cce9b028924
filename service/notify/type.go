package notify

import (
	"context"
	"time"
)

// Outcome is the opaque result of one notification call. The pipeline logs
// it; it never branches on the contents.
type Outcome struct {
	Status  string        `json:"status"`
	Code    int           `json:"code"`
	Elapsed time.Duration `json:"elapsed"`
}

// IService delivers a fired label to the remote notification endpoint.
type IService interface {
	Get(ctx context.Context, label string) (Outcome, error)
}
