package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/xerrors"

	"github.com/lienswings/laundry-watch/mode"
	"github.com/lienswings/laundry-watch/pipeline"
	"github.com/lienswings/laundry-watch/service/config"
	"github.com/lienswings/laundry-watch/service/display"
	"github.com/lienswings/laundry-watch/service/inference"
	"github.com/lienswings/laundry-watch/service/labels"
	"github.com/lienswings/laundry-watch/service/lgr"
	"github.com/lienswings/laundry-watch/service/machines"
	"github.com/lienswings/laundry-watch/service/notify"
	"github.com/lienswings/laundry-watch/service/orphan"
)

const (
	// WARNING: this has to be bigger than the mode processor shutdown time
	waitOnShutdown = 8 * time.Second
)

var modeProcessors = map[string]mode.Processor{
	"manager": mode.Manager,
	"monitor": mode.Monitor,
}

func main() {
	rootCtx := context.Background()
	canxCtx, canxFn := context.WithCancel(rootCtx)

	// Hook up a signal handler to cancel the context
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		lgr.Logger.Info(
			"received kill signal",
			slog.Any("signal", sig),
		)
		canxFn()
	}()

	// Load env vars if we are in DEV mode
	if os.Getenv("RUN_TIME_ENV") == "dev" || os.Getenv("RUN_TIME_ENV") == "" {
		lgr.Logger.Info("loading env vars from .env file")
		err := godotenv.Load()
		if err != nil {
			lgr.Logger.Error("error loading .env file", slog.Any("error", xerrors.New(err.Error())))
			panic("error loading .env file")
		}
	}

	modeType := "manager"
	args := os.Args[1:]
	if len(args) > 0 {
		modeType = args[0]
	}

	modeProc, ok := modeProcessors[modeType]
	if !ok {
		lgr.Logger.Error("invalid mode", slog.String("mode", modeType))
		panic("invalid mode")
	}

	// Create the services needed for the mode processor
	// They can be overridden by the mode processor with different implementations
	// Config service
	cfgSvc := config.NewHardCoded()
	// Machine registry service
	machineSvc := machines.NewFilesDB(cfgSvc)
	// Orphan service
	orphanSvc := orphan.NewTimed(canxCtx, cfgSvc, machineSvc)
	// Label source
	labelSvc := labels.NewFiles(cfgSvc)
	// Inference service (a scripted fake in synthetic mode)
	var inferenceSvc inference.IService
	if os.Getenv("INFERENCE_TYPE") == "fake" {
		inferenceSvc = inference.NewFake([][]float32{
			{0.05, 0.05, 0.05},
			{0.85, 0.10, 0.05},
		})
	} else {
		inferenceSvc = inference.NewDNN(cfgSvc)
	}
	// Notification sink
	notifySvc := notify.NewHTTP(cfgSvc)
	// Presentation sink
	displaySvc := display.NewConsole()

	svcs := pipeline.ServicesFactory{
		CfgSvc:       cfgSvc,
		MachineSvc:   machineSvc,
		OrphanSvc:    orphanSvc,
		LabelSvc:     labelSvc,
		InferenceSvc: inferenceSvc,
		NotifySvc:    notifySvc,
		DisplaySvc:   displaySvc,
	}

	// Create mode processor result
	modeProcResult := make(chan error)
	defer close(modeProcResult)

	// Register the streamers we want the watchers to run
	pipeline.RegisterStreamer("classifier", pipeline.Classifier)
	streamerNames := []string{"classifier"}

	// Start the mode processor with the notification alerter
	go func() {
		modeProcResult <- modeProc(canxCtx, svcs, streamerNames, pipeline.NotifyAlerter)
	}()

	// Wait for cancellation, mode proc or error
	for {
		select {
		case <-canxCtx.Done():
			lgr.Logger.Info(
				"watchers pod context cancelled",
			)
			goto resume

		case err := <-modeProcResult:
			if err != nil {
				lgr.Logger.Info(
					"watchers pod mode processor exited",
					slog.Any("error", xerrors.New(err.Error())),
				)
			}
			goto resume
		}
	}

	// Wait in a non-blocking way for `waitOnShutdown` for all the go routines to exit
	// This is needed because the go routines may need to report errors as they are exiting
resume:
	// Cancel the context if not already cancelled
	if canxCtx.Err() == nil {
		// Force cancel the context
		canxFn()
	}

	lgr.Logger.Info(
		"watchers pod is waiting for all go routines to exit",
	)

	// The only way to exit the main function is to wait for the shutdown
	// duration
	timer := time.NewTimer(waitOnShutdown)
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
			// Timer expired, proceed with shutdown
			lgr.Logger.Info(
				"watchers pod shutdown waiting period expired. Exiting now",
				slog.Duration("period", waitOnShutdown),
			)

			return

		case err := <-modeProcResult:
			if err != nil {
				lgr.Logger.Info(
					"watchers pod mode processor exited",
					slog.Any("error", xerrors.New(err.Error())),
				)
			}
		}
	}
}
