package config

// ClassifierParameters holds everything the classification streamer needs:
// the model and label resources plus the interpretation knobs.
type ClassifierParameters struct {
	ModelPath   string
	LabelsPath  string
	InputWidth  int
	InputHeight int
	InputMean   float32
	InputStd    float32
	Threshold   float32
	TopK        int
	Logging     bool
}

// NotifierParameters describes the notification sink: the base endpoint (the
// fired label is appended as the path) and the cookie attributes the sink
// expects on every request.
type NotifierParameters struct {
	Endpoint             string
	TimeoutSeconds       int
	DismissWarningCookie string
	CookieMaxAge         int64
	CookiePath           string
	CookieSameSite       string
	CookieSecure         bool
}

type IService interface {
	GetModeMaxShutdownTime() int
	GetInputFolder() string
	GetMachinesInputFile() string
	GetSnapshotsFolder() string
	GetMaxWatchersPerPod() int
	GetWatcherPeriodicTimeout() int
	GetWatchersManagerPeriodicTimeout() int
	GetWatchersMonitorPeriodicTimeout() int
	GetWatchersMonitorMaxOrphanedMachines() int
	GetStreamerMaxWorkers() int
	GetNotifierPeriodicTimeout() int
	GetClassifierParameters() ClassifierParameters
	GetNotifierParameters() NotifierParameters
	GetWatchedLabels() []string
	GetStreakLength() int
	GetMaxFrames() int
	GetShowFPS() bool
}
