package mode

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/lienswings/laundry-watch/model"
	"github.com/lienswings/laundry-watch/pipeline"
	"github.com/lienswings/laundry-watch/service/lgr"
)

type watcher struct {
	Machine model.Machine
	CanxFn  context.CancelFunc
}

// The watchers manager is responsible for running the watchers
func Manager(canxCtx context.Context, svcs pipeline.ServicesFactory, streamerNames []string, alerter pipeline.Alerter) error {
	// Subscribe to the orphan service to receive unwatched machines
	orphanStream, err := svcs.OrphanSvc.Subscribe()
	if err != nil {
		return err
	}

	// Create an error stream
	errorStream := make(chan interface{})
	defer close(errorStream)

	// Create watchers manager stats stream
	statsStream := make(chan interface{})
	defer close(statsStream)

	// Create an alerter stream
	// Alerter functions must comply with Alerter signature (check pipeline/type.go)
	// So you can use any other alerter but the base library provides the
	// notification one
	alertStream := alerter(canxCtx, svcs, errorStream, statsStream)

	// Store running watchers and manager stats in memory
	var managerStartTime = time.Now().Unix()
	var runningWatchers = map[string]watcher{}

	managerStats := model.WatchersManagerStats{
		TotalRunningWatchersUptime: managerStartTime,
	}

	// Wait for cancellation, timeout or unwatched machines
	for {
		select {
		case <-canxCtx.Done():
			lgr.Logger.Info(
				"watchers manager context cancelled",
			)
			goto resume

		case orphanedMachines := <-orphanStream:
			managerStats.TotalOrphanedRequests++
			unAccomodatedMachines := []model.Machine{}

			// Run each machine's watcher using the configured streamers
			for _, machine := range orphanedMachines {
				if len(runningWatchers) >= svcs.CfgSvc.GetMaxWatchersPerPod() {
					unAccomodatedMachines = append(unAccomodatedMachines, machine)
					continue
				}

				// Create a child context for the watcher
				// to allow us to cancel a watcher
				// without cancelling the main context
				watcherCanxCtx, watcherCanxFn := context.WithCancel(canxCtx)

				go func(machine model.Machine) {
					err := pipeline.Watcher(watcherCanxCtx, svcs, errorStream, statsStream, alertStream, machine, streamerNames)
					if err != nil {
						procError(svcs.MachineSvc, model.GenError("watchers_manager",
							err,
							map[string]interface{}{},
							"error starting watcher for machine: %s",
							machine.Name))
					}
				}(machine)

				// Store the watcher in memory
				runningWatchers[machine.ID] = watcher{
					Machine: machine,
					CanxFn:  watcherCanxFn,
				}
			}

			// If there are unaccommodated machines, let it be known
			if len(unAccomodatedMachines) > 0 {
				lgr.Logger.Debug(
					"watchers pod could not accommodate these machines.",
					slog.Int("runningWatchers", len(runningWatchers)),
					slog.Int("maxWatchersPerPod", svcs.CfgSvc.GetMaxWatchersPerPod()),
					slog.Int("unAccomodatedWatchers", len(unAccomodatedMachines)),
				)
			}

			if len(runningWatchers) >= svcs.CfgSvc.GetMaxWatchersPerPod() {
				managerStats.TotalOrphanedRequestUnsubscriptions++
				// Unsubscribe from the orphan service so that we don't get
				// more machines. We want to make sure that we don't consume
				// events that may deprive other watcher pods from getting
				// machine requests
				err = svcs.OrphanSvc.Unsubscribe()
				if err != nil {
					procError(svcs.MachineSvc, model.GenError("watchers_manager",
						err,
						map[string]interface{}{},
						"error unsubscribing from orphan service"))
				}
			}

		case <-time.After(time.Duration(time.Duration(svcs.CfgSvc.GetWatchersManagerPeriodicTimeout()) * time.Second)):
			// Monitor my running watchers to see if they need to be stopped
			// (due to exclusion)
			runningWatcherIDs := make([]string, 0, len(runningWatchers))
			for id := range runningWatchers {
				runningWatcherIDs = append(runningWatcherIDs, id)
			}

			// Retrieve machines from the machine service
			registry, err := svcs.MachineSvc.RetrieveMachinesByIDs(runningWatcherIDs)
			if err != nil {
				procError(svcs.MachineSvc, model.GenError("watchers_manager",
					err,
					map[string]interface{}{},
					"error retrieving machines by IDs from the machine service"))
				continue
			}

			// Centralize the exclusion logic in the manager as opposed to
			// having each watcher monitor its own commands
			for _, machine := range registry {
				if machine.Excluded {
					lgr.Logger.Debug(
						"machine is in exclusion list",
						slog.String("machineID", machine.ID),
					)
					removeWatcher(runningWatchers, machine.ID)
				}
			}

			if len(runningWatchers) < svcs.CfgSvc.GetMaxWatchersPerPod() {
				// We have room again so re-subscribe to the orphan service
				managerStats.TotalOrphanedRequestSubscriptions++
				_, err = svcs.OrphanSvc.Subscribe()
				if err != nil {
					procError(svcs.MachineSvc, model.GenError("watchers_manager",
						err,
						map[string]interface{}{},
						"error subscribing to orphan service"))
				}
			}

			managerStats.TotalRunningWatchersUptime = time.Now().Unix() - managerStartTime
			managerStats.TotalRunningWatchers += int64(len(runningWatchers))
			if managerStats.TotalRunningWatchersUptime > 0 {
				uptimeInMinutes := float64(managerStats.TotalRunningWatchersUptime) / 60.0
				managerStats.AvgRunningWatchersPerMin = float64(managerStats.TotalRunningWatchers) / uptimeInMinutes
			} else {
				managerStats.AvgRunningWatchersPerMin = 0.0 // Avoid division by zero
			}

			procStats(svcs.MachineSvc, managerStats)

		case s := <-statsStream:
			procStats(svcs.MachineSvc, s)

		case e := <-errorStream:
			procError(svcs.MachineSvc, e)
		}
	}

	// Wait in a non-blocking way for the shutdown duration for all the go
	// routines to exit. This is needed because the go routines may need to
	// report errors as they are exiting
resume:
	lgr.Logger.Info(
		"watchers manager is waiting for all go routines to exit",
	)

	timer := time.NewTimer(time.Duration(svcs.CfgSvc.GetModeMaxShutdownTime()) * time.Second)
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
			// Timer expired, proceed with shutdown
			lgr.Logger.Info(
				"watchers manager shutdown waiting period expired. Exiting now",
				slog.Duration("period", time.Duration(svcs.CfgSvc.GetModeMaxShutdownTime())*time.Second),
			)

			return nil

		case s := <-statsStream:
			procStats(svcs.MachineSvc, s)

		case e := <-errorStream:
			procError(svcs.MachineSvc, e)
		}
	}
}

// Remove a specific watcher, or a random one when id is empty
func removeWatcher(runningWatchers map[string]watcher, id string) {
	if id == "" {
		keys := make([]string, 0, len(runningWatchers))
		for key := range runningWatchers {
			keys = append(keys, key)
		}

		if len(keys) == 0 {
			return
		}

		id = keys[rand.Intn(len(keys))]
	}

	w, ok := runningWatchers[id]
	if !ok {
		return
	}

	// Cancel the watcher's context
	w.CanxFn()
	delete(runningWatchers, id)

	lgr.Logger.Debug(
		"removed a watcher",
		slog.String("machineID", id),
	)
}
