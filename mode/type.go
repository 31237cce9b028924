package mode

import (
	"context"
	"log/slog"

	"github.com/lienswings/laundry-watch/model"
	"github.com/lienswings/laundry-watch/pipeline"
	"github.com/lienswings/laundry-watch/service/lgr"
	"github.com/lienswings/laundry-watch/service/machines"
)

type Processor func(canxCtx context.Context,
	svcs pipeline.ServicesFactory,
	streamerNames []string,
	alerter pipeline.Alerter) error

func procStats(machinesvc machines.IService, stats interface{}) {
	switch stats := stats.(type) {
	case model.WatchersManagerStats:
		procWatchersManagerStats(machinesvc, stats)
	case model.WatcherStats:
		procWatcherStats(machinesvc, stats)
	case model.FramerStats:
		procFramerStats(machinesvc, stats)
	case model.StreamerStats:
		procStreamerStats(machinesvc, stats)
	case model.NotifierStats:
		procNotifierStats(machinesvc, stats)
	default:
		lgr.Logger.Error(
			"unknown stats type",
			slog.Any("stats", stats),
		)
	}
}

func procWatchersManagerStats(machinesvc machines.IService, stats model.WatchersManagerStats) {
	err := machinesvc.NewWatchersManagerStats(stats)
	if err != nil {
		lgr.Logger.Error(
			"failed to store watchers manager stats",
			slog.Any("stats", stats),
			slog.Any("error", err),
		)
	}
}

func procWatcherStats(machinesvc machines.IService, stats model.WatcherStats) {
	err := machinesvc.NewWatcherStats(stats)
	if err != nil {
		lgr.Logger.Error(
			"failed to store watcher stats",
			slog.Any("stats", stats),
			slog.Any("error", err),
		)
	}
}

func procFramerStats(machinesvc machines.IService, stats model.FramerStats) {
	err := machinesvc.NewFramerStats(stats)
	if err != nil {
		lgr.Logger.Error(
			"failed to store framer stats",
			slog.Any("stats", stats),
			slog.Any("error", err),
		)
	}
}

func procStreamerStats(machinesvc machines.IService, stats model.StreamerStats) {
	err := machinesvc.NewStreamerStats(stats)
	if err != nil {
		lgr.Logger.Error(
			"failed to store streamer stats",
			slog.Any("stats", stats),
			slog.Any("error", err),
		)
	}
}

func procNotifierStats(machinesvc machines.IService, stats model.NotifierStats) {
	err := machinesvc.NewNotifierStats(stats)
	if err != nil {
		lgr.Logger.Error(
			"failed to store notifier stats",
			slog.Any("stats", stats),
			slog.Any("error", err),
		)
	}
}

func procError(machinesvc machines.IService, err interface{}) {
	errTemp := machinesvc.NewError(err)
	if errTemp != nil {
		lgr.Logger.Error(
			"failed to store error",
			slog.Any("error", errTemp),
		)
	}
}
