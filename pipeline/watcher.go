package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lienswings/laundry-watch/model"
	"github.com/lienswings/laundry-watch/service/lgr"
)

// WARNING: this gives streamers time to notice the cancellation before the
// framer stops feeding them
const waitBeforeCancel = 2 * time.Second

// Streamer processes
var streamerProcs = map[string]Streamer{}

func RegisterStreamer(name string, streamer Streamer) {
	if _, ok := streamerProcs[name]; ok {
		lgr.Logger.Warn("streamer already registered", slog.String("name", name))
		return
	}
	streamerProcs[name] = streamer
}

// Watcher observes one machine: it wires the framer to the registered
// streamers and keeps the machine's heartbeat fresh until cancelled.
func Watcher(canxCtx context.Context,
	svcs ServicesFactory,
	errorStream chan interface{},
	statsStream chan interface{},
	alertStream chan AlertData,
	machine model.Machine,
	streamNames []string) error {
	watcherID := uuid.NewString()
	lgr.Logger.Info(
		"watcher starting....",
		slog.String("watcherID", watcherID),
		slog.String("machine", machine.Name),
		slog.String("framerType", machine.FramerType),
		slog.String("source", machine.SourceURL),
		slog.String("streamers", fmt.Sprintf("%v", streamNames)),
	)

	var watcherStartTime = time.Now().Unix()
	watcherStats := model.WatcherStats{
		ID:      watcherID,
		Machine: machine.Name,
		Uptime:  watcherStartTime,
	}

	// Update the machine watcher id
	err := svcs.MachineSvc.UpdateMachineWatcherID(machine.ID, watcherID)
	if err != nil {
		return fmt.Errorf("error updating machine watcher id: %w", err)
	}

	// Setup the stream channels
	streamChannels := []chan FrameData{}
	for _, name := range streamNames {
		streamer, ok := streamerProcs[name]
		if !ok {
			return fmt.Errorf("streamer %s not found", name)
		}
		streamChannels = append(streamChannels, streamer(canxCtx, svcs, machine, errorStream, statsStream, alertStream))
	}

	// Start the watcher frame capturer
	framer(canxCtx, svcs, machine, errorStream, statsStream, streamChannels)

	// Monitor cancellations and update heartbeats
	for {
		select {
		case <-canxCtx.Done():
			lgr.Logger.Info(
				"watcher context cancelled",
			)
			return nil

		case <-time.After(time.Duration(time.Duration(svcs.CfgSvc.GetWatcherPeriodicTimeout()) * time.Second)):
			// Update the heartbeat so that the watchers monitor knows this
			// machine does not need to be re-scheduled
			err := svcs.MachineSvc.UpdateMachineWatcherHeartbeat(machine.ID)
			if err != nil {
				lgr.Logger.Error(
					"error updating machine watcher heartbeat",
					slog.Any("error", err),
				)
			}

			watcherStats.Uptime = time.Now().Unix() - watcherStartTime
			statsStream <- watcherStats
		}
	}
}
