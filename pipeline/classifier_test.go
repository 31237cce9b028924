package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"github.com/lienswings/laundry-watch/model"
	"github.com/lienswings/laundry-watch/service/display"
	"github.com/lienswings/laundry-watch/service/inference"
	"github.com/lienswings/laundry-watch/service/labels"
)

func classifierHarness(t *testing.T, cfg *stubConfig, script [][]float32) (chan FrameData, chan AlertData, chan interface{}, display.IService, context.CancelFunc) {
	t.Helper()

	canxCtx, canxFn := context.WithCancel(context.Background())

	displaySvc := display.NewFake()
	svcs := ServicesFactory{
		CfgSvc:       cfg,
		LabelSvc:     labels.NewFake([]string{"sensing", "rinse", "idle"}),
		InferenceSvc: inference.NewFake(script),
		DisplaySvc:   displaySvc,
	}

	errorStream := make(chan interface{}, 100)
	statsStream := make(chan interface{}, 100)
	alertStream := make(chan AlertData, 100)

	in := Classifier(canxCtx, svcs, model.Machine{ID: "m1", Name: "basement"}, errorStream, statsStream, alertStream)

	return in, alertStream, errorStream, displaySvc, canxFn
}

func feedFrames(in chan FrameData, n int) {
	for i := 0; i < n; i++ {
		img := gocv.NewMatWithSize(4, 4, gocv.MatTypeCV8UC3)
		in <- FrameData{Mat: img, Timestamp: time.Now()}
	}
}

func TestClassifierFiresAfterStreak(t *testing.T) {
	cfg := &stubConfig{workers: 1, streak: 3, watched: []string{"sensing"}, threshold: 0.1, topK: 3}
	in, alertStream, errorStream, displaySvc, canxFn := classifierHarness(t, cfg, [][]float32{
		{0.9, 0.05, 0.05},
	})
	defer canxFn()

	feedFrames(in, 3)

	select {
	case alert := <-alertStream:
		require.Equal(t, "sensing", alert.Label)
		require.Equal(t, 3, alert.Streak)
		require.InDelta(t, 0.9, float64(alert.Confidence), 1e-6)
		alert.Mat.Close()
	case <-time.After(2 * time.Second):
		t.Fatal("expected an alert after the streak completed")
	}

	// Two more winning frames do not re-fire; the streak starts over
	feedFrames(in, 2)
	require.Eventually(t, func() bool {
		return len(display.Shown(displaySvc)) == 5
	}, 2*time.Second, 10*time.Millisecond)
	require.Empty(t, alertStream)
	require.Empty(t, errorStream)
}

func TestClassifierDropsAlertsUnderBackpressure(t *testing.T) {
	cfg := &stubConfig{workers: 1, streak: 1, watched: []string{"sensing"}, threshold: 0.1, topK: 3}

	canxCtx, canxFn := context.WithCancel(context.Background())
	defer canxFn()

	displaySvc := display.NewFake()
	svcs := ServicesFactory{
		CfgSvc:       cfg,
		LabelSvc:     labels.NewFake([]string{"sensing", "rinse", "idle"}),
		InferenceSvc: inference.NewFake([][]float32{{0.9, 0.05, 0.05}}),
		DisplaySvc:   displaySvc,
	}

	errorStream := make(chan interface{}, 100)
	statsStream := make(chan interface{}, 100)
	// Nobody drains this, so every completed streak hits the full-stream path
	alertStream := make(chan AlertData)

	in := Classifier(canxCtx, svcs, model.Machine{ID: "m1", Name: "basement"}, errorStream, statsStream, alertStream)

	// Each frame fires with streak=1; the dropped alerts must not wedge the worker
	feedFrames(in, 3)

	require.Eventually(t, func() bool {
		return len(display.Shown(displaySvc)) == 3
	}, 2*time.Second, 10*time.Millisecond)

	for _, winner := range display.Shown(displaySvc) {
		require.Equal(t, "sensing", winner)
	}
	require.Empty(t, errorStream)
}

func TestClassifierSkipsMismatchedFrames(t *testing.T) {
	cfg := &stubConfig{workers: 1, streak: 1, watched: []string{"sensing"}, threshold: 0.1, topK: 3}
	// Two probabilities against three labels
	in, alertStream, errorStream, _, canxFn := classifierHarness(t, cfg, [][]float32{
		{0.9, 0.05},
	})
	defer canxFn()

	feedFrames(in, 1)

	select {
	case e := <-errorStream:
		custom, ok := e.(model.CustomError)
		require.True(t, ok)
		var shapeErr model.ShapeMismatchError
		require.ErrorAs(t, custom.Inner, &shapeErr)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a shape mismatch on the error stream")
	}

	require.Empty(t, alertStream)
}

func TestClassifierQuietFramesTouchNothing(t *testing.T) {
	cfg := &stubConfig{workers: 1, streak: 1, watched: []string{"sensing"}, threshold: 0.1, topK: 3}
	in, alertStream, errorStream, displaySvc, canxFn := classifierHarness(t, cfg, [][]float32{
		{0.05, 0.05, 0.05},
	})
	defer canxFn()

	feedFrames(in, 4)

	require.Eventually(t, func() bool {
		return len(display.Shown(displaySvc)) == 4
	}, 2*time.Second, 10*time.Millisecond)

	// No winner on any frame, so nothing fired even with streak=1
	for _, winner := range display.Shown(displaySvc) {
		require.Equal(t, "", winner)
	}
	require.Empty(t, alertStream)
	require.Empty(t, errorStream)
}
