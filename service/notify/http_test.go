package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lienswings/laundry-watch/service/config"
)

type stubConfig struct {
	params config.NotifierParameters
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
	return config.ClassifierParameters{}
}
func (c *stubConfig) GetNotifierParameters() config.NotifierParameters { return c.params }
func (c *stubConfig) GetWatchedLabels() []string                       { return nil }
func (c *stubConfig) GetStreakLength() int                             { return 10 }
func (c *stubConfig) GetMaxFrames() int                                { return 0 }
func (c *stubConfig) GetShowFPS() bool                                 { return false }

func TestHTTPGetHitsPerLabelURLWithCookie(t *testing.T) {
	var gotPath string
	var gotCookieHeader string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotCookieHeader = r.Header.Get("Cookie")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	svc := NewHTTP(&stubConfig{params: config.NotifierParameters{
		Endpoint:             server.URL,
		TimeoutSeconds:       5,
		DismissWarningCookie: "cs50_ws_dismiss_warning",
		CookieMaxAge:         5356800000,
		CookiePath:           "/",
		CookieSameSite:       "None",
		CookieSecure:         true,
	}})

	outcome, err := svc.Get(context.Background(), "sensing")
	require.NoError(t, err)
	require.Equal(t, "/sensing", gotPath)
	require.Equal(t, http.StatusOK, outcome.Code)

	// Every configured attribute rides the wire as its own pair
	require.Contains(t, gotCookieHeader, "cs50_ws_dismiss_warning=1")
	require.Contains(t, gotCookieHeader, "max-age=5356800000")
	require.Contains(t, gotCookieHeader, "path=/")
	require.Contains(t, gotCookieHeader, "samesite=None")
	require.Contains(t, gotCookieHeader, "secure=")
}

func TestHTTPGetInsecureOmitsSecurePair(t *testing.T) {
	var gotCookieHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCookieHeader = r.Header.Get("Cookie")
	}))
	defer server.Close()

	svc := NewHTTP(&stubConfig{params: config.NotifierParameters{
		Endpoint:             server.URL,
		TimeoutSeconds:       5,
		DismissWarningCookie: "cs50_ws_dismiss_warning",
		CookieMaxAge:         5356800000,
		CookiePath:           "/",
		CookieSameSite:       "Lax",
	}})

	_, err := svc.Get(context.Background(), "rinse")
	require.NoError(t, err)
	require.Contains(t, gotCookieHeader, "cs50_ws_dismiss_warning=1")
	require.NotContains(t, gotCookieHeader, "secure")
}

func TestHTTPGetTrimsTrailingEndpointSlash(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
	}))
	defer server.Close()

	svc := NewHTTP(&stubConfig{params: config.NotifierParameters{
		Endpoint:             server.URL + "/",
		TimeoutSeconds:       5,
		DismissWarningCookie: "cs50_ws_dismiss_warning",
	}})

	_, err := svc.Get(context.Background(), "rinse")
	require.NoError(t, err)
	require.Equal(t, "/rinse", gotPath)
}

func TestHTTPGetNonSuccessIsTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	svc := NewHTTP(&stubConfig{params: config.NotifierParameters{
		Endpoint:             server.URL,
		TimeoutSeconds:       5,
		DismissWarningCookie: "cs50_ws_dismiss_warning",
	}})

	outcome, err := svc.Get(context.Background(), "sensing")
	require.Error(t, err)
	// The outcome still reports what the endpoint said
	require.Equal(t, http.StatusBadGateway, outcome.Code)
}

func TestHTTPGetConnectionRefused(t *testing.T) {
	svc := NewHTTP(&stubConfig{params: config.NotifierParameters{
		Endpoint:             "http://127.0.0.1:1",
		TimeoutSeconds:       1,
		DismissWarningCookie: "cs50_ws_dismiss_warning",
	}})

	_, err := svc.Get(context.Background(), "sensing")
	require.Error(t, err)
}
