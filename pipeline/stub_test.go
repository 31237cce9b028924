package pipeline

import (
	"github.com/lienswings/laundry-watch/service/config"
)

// stubConfig keeps the pipeline tests independent of env vars and files.
type stubConfig struct {
	workers         int
	streak          int
	watched         []string
	threshold       float32
	topK            int
	maxFrames       int
	showFPS         bool
	snapshotsFolder string
}

func (c *stubConfig) GetModeMaxShutdownTime() int                { return 1 }
func (c *stubConfig) GetInputFolder() string                     { return "" }
func (c *stubConfig) GetMachinesInputFile() string               { return "" }
func (c *stubConfig) GetSnapshotsFolder() string                 { return c.snapshotsFolder }
func (c *stubConfig) GetMaxWatchersPerPod() int                  { return 1 }
func (c *stubConfig) GetWatcherPeriodicTimeout() int             { return 30 }
func (c *stubConfig) GetWatchersManagerPeriodicTimeout() int     { return 30 }
func (c *stubConfig) GetWatchersMonitorPeriodicTimeout() int     { return 30 }
func (c *stubConfig) GetWatchersMonitorMaxOrphanedMachines() int { return 10 }
func (c *stubConfig) GetStreamerMaxWorkers() int                 { return c.workers }
func (c *stubConfig) GetNotifierPeriodicTimeout() int            { return 60 }

func (c *stubConfig) GetClassifierParameters() config.ClassifierParameters {
	return config.ClassifierParameters{
		Threshold: c.threshold,
		TopK:      c.topK,
	}
}

func (c *stubConfig) GetNotifierParameters() config.NotifierParameters {
	return config.NotifierParameters{}
}

func (c *stubConfig) GetWatchedLabels() []string { return c.watched }
func (c *stubConfig) GetStreakLength() int       { return c.streak }
func (c *stubConfig) GetMaxFrames() int          { return c.maxFrames }
func (c *stubConfig) GetShowFPS() bool           { return c.showFPS }
