package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/natefinch/lumberjack"
	"gocv.io/x/gocv"

	"github.com/lienswings/laundry-watch/model"
	"github.com/lienswings/laundry-watch/service/inference"
	"github.com/lienswings/laundry-watch/service/lgr"
)

// Global logger instance
var detectionLogger = &lumberjack.Logger{
	Filename:   "detections.log",
	MaxSize:    10, // MB
	MaxBackups: 5,
	MaxAge:     7,    // days
	Compress:   true, // compress old logs
}

// Classifier runs the classification model on every frame, ranks the result,
// feeds the winning label into the streak trigger and hands completed streaks
// to the alert stream. Shape mismatches skip the frame and leave every
// counter untouched.
func Classifier(canx context.Context, svcs ServicesFactory, machine model.Machine, errorStream chan interface{}, statsStream chan interface{}, alertStream chan AlertData) chan FrameData {
	in := make(chan FrameData, 100)

	go func() {
		defer close(in)

		params := svcs.CfgSvc.GetClassifierParameters()

		lgr.Logger.Info("classifier starting...",
			slog.String("machine", machine.Name),
			slog.String("model", params.ModelPath),
			slog.String("openCV", gocv.Version()),
		)

		labelSet, err := svcs.LabelSvc.Load()
		if err != nil {
			errorStream <- model.GenError("watcher_classifier",
				err,
				map[string]interface{}{},
				"error loading label set")
			return
		}

		watched := machine.WatchedLabels
		if len(watched) == 0 {
			watched = svcs.CfgSvc.GetWatchedLabels()
		}
		trigger := NewTrigger(watched, svcs.CfgSvc.GetStreakLength())

		proc := func(frame FrameData, sess inference.Session, frames int, fps float64) (fired bool, errored bool) {
			defer frame.Mat.Close()
			defer func() {
				if r := recover(); r != nil {
					lgr.Logger.Error("classifier recovered from panic", slog.Any("panic", r))
				}
			}()

			if frame.Mat.Empty() {
				lgr.Logger.Debug("skipping empty frame due to decode error")
				return false, false
			}

			probs, err := sess.Invoke(frame.Mat)
			if err != nil {
				errorStream <- model.GenError("watcher_classifier",
					err,
					map[string]interface{}{},
					"error invoking classification model")
				return false, true
			}

			ranked, err := Rank(probs, labelSet, params.Threshold, params.TopK)
			if err != nil {
				// Recoverable: drop the frame, counters stay as they are
				errorStream <- model.GenError("watcher_classifier",
					err,
					map[string]interface{}{"frame": frames},
					"skipping frame: %s", err.Error())
				return false, true
			}

			message := Message(ranked, params.Threshold, params.TopK)
			if svcs.CfgSvc.GetShowFPS() {
				message += fmt.Sprintf("\nWith %.1f FPS.", fps)
			}

			winner, ok, _ := Winner(probs, labelSet, params.Threshold)
			winnerLabel := ""
			if ok {
				winnerLabel = winner.Label
			}
			svcs.DisplaySvc.Show(machine.Name, winnerLabel, message)

			if params.Logging && len(ranked) > 0 {
				logDetections(machine.Name, ranked)
			}

			// A quiet frame or an unwatched winner advances nothing
			if !ok || !trigger.Observe(winner.Label) {
				return false, false
			}

			lgr.Logger.Info(
				"streak complete",
				slog.String("machine", machine.Name),
				slog.String("label", winner.Label),
				slog.Int("streak", svcs.CfgSvc.GetStreakLength()),
				slog.Float64("confidence", float64(winner.Confidence)),
			)

			snapshot := frame.Mat.Clone()
			select {
			case alertStream <- AlertData{
				Mat:        snapshot,
				Machine:    machine,
				Label:      winner.Label,
				Confidence: winner.Confidence,
				Streak:     svcs.CfgSvc.GetStreakLength(),
				Timestamp:  time.Now(),
			}:
			default:
				// The clone is ours to release when nobody takes it
				snapshot.Close()
				lgr.Logger.Warn("alertStream full, dropping alert")
			}

			return true, false
		}

		// Launch worker processes that compete on emptying/processing frames
		for i := 0; i < svcs.CfgSvc.GetStreamerMaxWorkers(); i++ {
			worker := i
			go func(worker int, in chan FrameData) {
				sess, err := svcs.InferenceSvc.NewSession()
				if err != nil {
					errorStream <- model.GenError("watcher_classifier",
						err,
						map[string]interface{}{},
						"worker %d: error creating inference session", worker)
					return
				}
				defer sess.Close()

				frames := 0
				beginTime := time.Now()
				errors := 0
				fires := 0
				var totalInferenceTime time.Duration

				defer func() {
					uptime := int64(time.Since(beginTime).Seconds())
					fps := 1
					if uptime > 0 {
						fps = int(float64(frames) / float64(uptime))
						if fps == 0 {
							fps = 1
						}
					}

					var avgProcTime float64
					if frames > 0 {
						avgProcTime = totalInferenceTime.Seconds() / float64(frames)
					}

					statsStream <- model.StreamerStats{
						Name:        "classifier",
						Worker:      worker,
						Machine:     machine.Name,
						Frames:      frames,
						Errors:      errors,
						Fires:       fires,
						Uptime:      uptime,
						FPS:         fps,
						AvgProcTime: avgProcTime,
					}
				}()

				for f := range in {
					select {
					case <-canx.Done():
						lgr.Logger.Info(
							"classifier worker context cancelled",
							slog.Int("worker", worker),
						)
						return
					default:
						startInference := time.Now()
						elapsed := time.Since(beginTime).Seconds()
						fps := 0.0
						if elapsed > 0 {
							fps = float64(frames) / elapsed
						}

						fired, errored := proc(f, sess, frames, fps)
						frames++
						if fired {
							fires++
						}
						if errored {
							errors++
						}
						totalInferenceTime += time.Since(startInference)
					}
				}
			}(worker, in)
		}

		<-canx.Done()
		// Give some time to the framer to recognize the context is cancelled
		time.Sleep(waitBeforeCancel)
		lgr.Logger.Info("classifier context cancelled")
	}()

	return in
}

func logDetections(machineName string, ranked []model.RankedLabel) {
	entry := map[string]interface{}{
		"time":       time.Now().Format(time.RFC3339),
		"machine":    machineName,
		"detections": ranked,
	}

	jsonData, err := json.MarshalIndent(entry, "", "  ") // pretty-print
	if err != nil {
		lgr.Logger.Error("error marshaling detections", slog.Any("error", err))
		return
	}

	if _, err := detectionLogger.Write(append(jsonData, '\n')); err != nil {
		lgr.Logger.Error("error writing to detection log file", slog.Any("error", err))
	}
}
