package model

import (
	"fmt"
	"runtime/debug"
)

type CustomError struct {
	Processor  string                 `json:"processor"`
	Inner      error                  `json:"innerError"`
	Message    string                 `json:"message"`
	StackTrace string                 `json:"stackTrace"`
	Misc       map[string]interface{} `json:"misc"`
}

func GenError(proc string, err error, misc map[string]interface{}, messagef string, args ...interface{}) CustomError {
	return CustomError{
		Processor:  proc,
		Inner:      err,
		Message:    fmt.Sprintf(messagef, args...),
		StackTrace: string(debug.Stack()),
		Misc:       misc,
	}
}

// ShapeMismatchError indicates that an inference result vector does not line
// up with the label set. It is recoverable: the offending frame is skipped.
type ShapeMismatchError struct {
	Labels int `json:"labels"`
	Probs  int `json:"probs"`
}

func (e ShapeMismatchError) Error() string {
	return fmt.Sprintf("result shape mismatch: %d probabilities vs %d labels", e.Probs, e.Labels)
}

// RankedLabel is one classification read-out: a label and the confidence the
// model assigned to it for a single frame.
type RankedLabel struct {
	Label      string  `json:"label"`
	Confidence float32 `json:"confidence"`
}

type Machine struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	SourceURL     string   `json:"sourceUrl"`
	FramerType    string   `json:"framerType"`
	WatchedLabels []string `json:"watchedLabels"` // Overrides the configured watch list when set
	Excluded      bool     `json:"excluded"`
	WatcherID     string   `json:"watcherId"`     // The watcher id that is currently observing this machine
	StartupTime   int64    `json:"startupTime"`   // The startup time of the watcher
	LastHeartBeat int64    `json:"lastHeartbeat"` // The last heartbeat time of the watcher
	Uptime        int64    `json:"uptime"`        // The uptime of the watcher
}

type NotifierStats struct {
	Name          string `json:"name"`
	Notifications int    `json:"notifications"`
	Errors        int    `json:"errors"`
	Uptime        int64  `json:"uptime"`
	Timestamp     int64  `json:"timestamp"`
}

type StreamerStats struct {
	Name        string  `json:"name"`
	Worker      int     `json:"worker"`
	Machine     string  `json:"machine"`
	FPS         int     `json:"fps"`
	Frames      int     `json:"frames"`
	Errors      int     `json:"errors"`
	Fires       int     `json:"fires"`
	Uptime      int64   `json:"uptime"`
	AvgProcTime float64 `json:"avgProcTime"`
	Timestamp   int64   `json:"timestamp"`
}

type FramerStats struct {
	Name          string `json:"name"`
	Machine       string `json:"machine"`
	FPS           int    `json:"fps"`
	Frames        int    `json:"frames"`
	SkippedFrames int    `json:"skippedFrames"`
	Errors        int    `json:"errors"`
	Uptime        int64  `json:"uptime"`
	Timestamp     int64  `json:"timestamp"`
}

type WatcherStats struct {
	ID        string `json:"id"`      // Watcher ID
	Machine   string `json:"machine"` // Machine name
	Uptime    int64  `json:"uptime"`  // Uptime of the watcher
	Timestamp int64  `json:"timestamp"`
}

type WatchersManagerStats struct {
	TotalOrphanedRequests               int64   `json:"orphanedRequests"`
	TotalOrphanedRequestSubscriptions   int64   `json:"orphanedRequestSubscriptions"`
	TotalOrphanedRequestUnsubscriptions int64   `json:"orphanedRequestUnsubscriptions"`
	TotalRunningWatchers                int64   `json:"runningWatchers"`
	TotalRunningWatchersUptime          int64   `json:"runningWatchersUptime"`
	AvgRunningWatchersPerMin            float64 `json:"avgRunningWatchersPerMin"`
	Timestamp                           int64   `json:"timestamp"`
}
