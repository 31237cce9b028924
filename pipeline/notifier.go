package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gocv.io/x/gocv"

	"github.com/lienswings/laundry-watch/model"
	"github.com/lienswings/laundry-watch/service/lgr"
)

// NotifyAlerter drains the alert stream and delivers each completed streak to
// the notification endpoint. The channel handoff keeps the blocking HTTP call
// off the frame loop: a slow endpoint delays notifications, never counting.
// The outcome of a call is logged and nothing more; a failed delivery is not
// retried, the next full streak re-fires naturally.
func NotifyAlerter(canx context.Context, svcs ServicesFactory, errorStream chan interface{}, statsStream chan interface{}) chan AlertData {
	in := make(chan AlertData, 100)

	go func() {
		defer close(in)

		var startTime = time.Now().Unix()
		stats := model.NotifierStats{
			Name: "notifyAlerter",
		}

		proc := func(alert AlertData) {
			defer alert.Mat.Close()

			// Keep the alerted frame as an image for later inspection
			if folder := svcs.CfgSvc.GetSnapshotsFolder(); folder != "" && !alert.Mat.Empty() {
				gocv.IMWrite(fmt.Sprintf("%s/%s_alerted_frame_%d.jpg",
					folder, alert.Machine.ID, time.Now().Unix()), alert.Mat)
			}

			outcome, err := svcs.NotifySvc.Get(canx, alert.Label)
			if err != nil {
				stats.Errors++
				errorStream <- model.GenError("notify_alerter",
					err,
					map[string]interface{}{"label": alert.Label, "machine": alert.Machine.Name},
					"error delivering notification for label %s", alert.Label)
				return
			}

			stats.Notifications++
			lgr.Logger.Info(
				"notification delivered",
				slog.String("machine", alert.Machine.Name),
				slog.String("label", alert.Label),
				slog.Int("streak", alert.Streak),
				slog.Float64("confidence", float64(alert.Confidence)),
				slog.String("status", outcome.Status),
				slog.Duration("elapsed", outcome.Elapsed),
				slog.Time("timestamp", alert.Timestamp),
			)
		}

		for {
			select {
			case <-canx.Done():
				lgr.Logger.Info(
					"notify alerter context cancelled",
				)
				return

			case <-time.After(time.Duration(time.Duration(svcs.CfgSvc.GetNotifierPeriodicTimeout()) * time.Second)):
				stats.Uptime = time.Now().Unix() - startTime
				statsStream <- stats

			case alert := <-in:
				proc(alert)
			}
		}
	}()

	return in
}
