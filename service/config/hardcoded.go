package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type hardcodedService struct {
}

// NewHardCoded returns a config service with sensible defaults. Individual
// values can be overridden through environment variables (loaded from a .env
// file in dev mode).
func NewHardCoded() IService {
	return &hardcodedService{}
}

func (svc *hardcodedService) GetModeMaxShutdownTime() int {
	return envInt("MODE_MAX_SHUTDOWN_TIME", 5)
}

func (svc *hardcodedService) GetInputFolder() string {
	return envString("INPUT_FOLDER", "./settings")
}

func (svc *hardcodedService) GetMachinesInputFile() string {
	return fmt.Sprintf("%s/machines.json", svc.GetInputFolder())
}

func (svc *hardcodedService) GetSnapshotsFolder() string {
	return envString("SNAPSHOTS_FOLDER", "./snapshots")
}

func (svc *hardcodedService) GetMaxWatchersPerPod() int {
	return envInt("MAX_WATCHERS_PER_POD", 1)
}

func (svc *hardcodedService) GetWatcherPeriodicTimeout() int {
	return envInt("WATCHER_PERIODIC_TIMEOUT", 30)
}

func (svc *hardcodedService) GetWatchersManagerPeriodicTimeout() int {
	return envInt("WATCHERS_MANAGER_PERIODIC_TIMEOUT", 30)
}

func (svc *hardcodedService) GetWatchersMonitorPeriodicTimeout() int {
	return envInt("WATCHERS_MONITOR_PERIODIC_TIMEOUT", 30)
}

func (svc *hardcodedService) GetWatchersMonitorMaxOrphanedMachines() int {
	return envInt("WATCHERS_MONITOR_MAX_ORPHANED_MACHINES", 10)
}

func (svc *hardcodedService) GetStreamerMaxWorkers() int {
	return envInt("STREAMER_MAX_WORKERS", 3)
}

func (svc *hardcodedService) GetNotifierPeriodicTimeout() int {
	return envInt("NOTIFIER_PERIODIC_TIMEOUT", 5*60)
}

func (svc *hardcodedService) GetClassifierParameters() ClassifierParameters {
	return ClassifierParameters{
		ModelPath:   envString("CLASSIFIER_MODEL_PATH", "./mobilenet/laundry.onnx"),
		LabelsPath:  envString("CLASSIFIER_LABELS_PATH", "./mobilenet/laundry.labels"),
		InputWidth:  envInt("CLASSIFIER_INPUT_WIDTH", 160),
		InputHeight: envInt("CLASSIFIER_INPUT_HEIGHT", 160),
		InputMean:   envFloat("CLASSIFIER_INPUT_MEAN", 128.0),
		InputStd:    envFloat("CLASSIFIER_INPUT_STD", 128.0),
		Threshold:   envFloat("CLASSIFIER_THRESHOLD", 0.1),
		TopK:        envInt("CLASSIFIER_TOP_K", 3),
		Logging:     envBool("CLASSIFIER_LOGGING", false),
	}
}

func (svc *hardcodedService) GetNotifierParameters() NotifierParameters {
	return NotifierParameters{
		Endpoint:             envString("NOTIFIER_ENDPOINT", "https://localhost:8080"),
		TimeoutSeconds:       envInt("NOTIFIER_TIMEOUT", 10),
		DismissWarningCookie: envString("NOTIFIER_DISMISS_WARNING_COOKIE", "cs50_ws_dismiss_warning"),
		CookieMaxAge:         int64(envInt("NOTIFIER_COOKIE_MAX_AGE", 5356800000)),
		CookiePath:           envString("NOTIFIER_COOKIE_PATH", "/"),
		CookieSameSite:       envString("NOTIFIER_COOKIE_SAMESITE", "None"),
		CookieSecure:         envBool("NOTIFIER_COOKIE_SECURE", true),
	}
}

func (svc *hardcodedService) GetWatchedLabels() []string {
	watched := envString("WATCHED_LABELS", "sensing,rinse")
	labels := []string{}
	for _, label := range strings.Split(watched, ",") {
		label = strings.TrimSpace(label)
		if label != "" {
			labels = append(labels, label)
		}
	}
	return labels
}

func (svc *hardcodedService) GetStreakLength() int {
	return envInt("STREAK_LENGTH", 10)
}

func (svc *hardcodedService) GetMaxFrames() int {
	// 0 means run until cancelled
	return envInt("MAX_FRAMES", 0)
}

func (svc *hardcodedService) GetShowFPS() bool {
	return envBool("SHOW_FPS", false)
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func envFloat(key string, fallback float32) float32 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 32)
	if err != nil {
		return fallback
	}
	return float32(f)
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
