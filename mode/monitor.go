package mode

import (
	"context"
	"log/slog"
	"time"

	"github.com/lienswings/laundry-watch/model"
	"github.com/lienswings/laundry-watch/pipeline"
	"github.com/lienswings/laundry-watch/service/lgr"
)

// The watchers monitor is responsible for detecting unwatched machines
// and publishing them so they can be picked up by the watchers manager
func Monitor(canxCtx context.Context, svcs pipeline.ServicesFactory, _ []string, _ pipeline.Alerter) error {
	// Create an error stream
	errorStream := make(chan interface{})
	defer close(errorStream)

	// Wait for cancellation or timeout
	for {
		select {
		case <-canxCtx.Done():
			lgr.Logger.Info(
				"watchers monitor context cancelled",
			)
			goto resume

		case <-time.After(time.Duration(time.Duration(svcs.CfgSvc.GetWatchersMonitorPeriodicTimeout()) * time.Second)):
			// Retrieve unwatched machines
			unwatched, err := svcs.MachineSvc.RetrieveUnwatchedMachines(svcs.CfgSvc.GetWatchersMonitorMaxOrphanedMachines())
			if err != nil {
				errorStream <- model.GenError("watchers_monitor",
					err,
					map[string]interface{}{},
					"error retrieving unwatched machines")
				continue
			}

			// Publish unwatched machines through the orphan service
			err = svcs.OrphanSvc.Publish(unwatched)
			if err != nil {
				errorStream <- model.GenError("watchers_monitor",
					err,
					map[string]interface{}{},
					"error publishing through orphan service")
				continue
			}

		case e := <-errorStream:
			procError(svcs.MachineSvc, e)
		}
	}

	// Wait in a non-blocking way for the shutdown duration for all the go
	// routines to exit. This is needed because the go routines may need to
	// report errors as they are exiting
resume:
	lgr.Logger.Info(
		"watchers monitor is waiting for all go routines to exit",
	)

	timer := time.NewTimer(time.Duration(svcs.CfgSvc.GetModeMaxShutdownTime()) * time.Second)
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
			// Timer expired, proceed with shutdown
			lgr.Logger.Info(
				"watchers monitor shutdown waiting period expired. Exiting now",
				slog.Duration("period", time.Duration(svcs.CfgSvc.GetModeMaxShutdownTime())*time.Second),
			)

			return nil

		case e := <-errorStream:
			procError(svcs.MachineSvc, e)
		}
	}
}
