package labels

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lienswings/laundry-watch/service/config"
)

type stubConfig struct {
	labelsPath string
}

func (c *stubConfig) GetModeMaxShutdownTime() int                { return 1 }
func (c *stubConfig) GetInputFolder() string                     { return "" }
func (c *stubConfig) GetMachinesInputFile() string               { return "" }
func (c *stubConfig) GetSnapshotsFolder() string                 { return "" }
func (c *stubConfig) GetMaxWatchersPerPod() int                  { return 1 }
func (c *stubConfig) GetWatcherPeriodicTimeout() int             { return 30 }
func (c *stubConfig) GetWatchersManagerPeriodicTimeout() int     { return 30 }
func (c *stubConfig) GetWatchersMonitorPeriodicTimeout() int     { return 30 }
func (c *stubConfig) GetWatchersMonitorMaxOrphanedMachines() int { return 10 }
func (c *stubConfig) GetStreamerMaxWorkers() int                 { return 1 }
func (c *stubConfig) GetNotifierPeriodicTimeout() int            { return 60 }
func (c *stubConfig) GetClassifierParameters() config.ClassifierParameters {
	return config.ClassifierParameters{LabelsPath: c.labelsPath}
}
func (c *stubConfig) GetNotifierParameters() config.NotifierParameters {
	return config.NotifierParameters{}
}
func (c *stubConfig) GetWatchedLabels() []string { return nil }
func (c *stubConfig) GetStreakLength() int       { return 10 }
func (c *stubConfig) GetMaxFrames() int          { return 0 }
func (c *stubConfig) GetShowFPS() bool           { return false }

func TestLoadPreservesOrderAndTrims(t *testing.T) {
	path := filepath.Join(t.TempDir(), "laundry.labels")
	require.NoError(t, os.WriteFile(path, []byte("sensing\n rinse \n\nidle\n"), 0644))

	svc := NewFiles(&stubConfig{labelsPath: path})

	labels, err := svc.Load()
	require.NoError(t, err)
	require.Equal(t, []string{"sensing", "rinse", "idle"}, labels)
}

func TestLoadMissingFile(t *testing.T) {
	svc := NewFiles(&stubConfig{labelsPath: filepath.Join(t.TempDir(), "nope.labels")})

	_, err := svc.Load()
	require.Error(t, err)
}
