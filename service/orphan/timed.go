package orphan

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/xerrors"

	"github.com/lienswings/laundry-watch/model"
	"github.com/lienswings/laundry-watch/service/config"
	"github.com/lienswings/laundry-watch/service/lgr"
	"github.com/lienswings/laundry-watch/service/machines"
)

type timedService struct {
	CanxCtx        context.Context
	SubsCtx        context.Context
	SubsCancel     context.CancelFunc
	MachineChannel chan []model.Machine
	CfgSvc         config.IService
	MachineSvc     machines.IService
	Machines       []model.Machine
}

// NewTimed delivers one unwatched machine on its subscribed channel every
// few seconds, cycling through the registry.
func NewTimed(canxCtx context.Context, cfgSvc config.IService, machineSvc machines.IService) IService {
	registry, err := machineSvc.RetrieveMachines()
	if err != nil {
		lgr.Logger.Error(
			"error retrieving machines",
			slog.Any("error", xerrors.New(err.Error())),
		)
		panic("error retrieving machines")
	}

	return &timedService{
		CfgSvc:     cfgSvc,
		MachineSvc: machineSvc,
		CanxCtx:    canxCtx,
		Machines:   registry,
	}
}

func (svc *timedService) Publish(_ []model.Machine) error {
	// This cannot be implemented in this service
	return nil
}

func (svc *timedService) Subscribe() (<-chan []model.Machine, error) {
	if svc.SubsCtx != nil {
		lgr.Logger.Error(
			"orphan timed service. Already subscribed to machines. Unsubscribe first",
			slog.Any("Subs Context", svc.SubsCtx),
		)
		return nil, xerrors.New("orphan timed service. child context is not nil. Unsubscribe first")
	}

	// Create a channel to send unwatched machines that need watchers.
	// This is created the first time we subscribe. Regardless of how many
	// times we subscribe/unsubscribe, there is only ever one channel.
	if svc.MachineChannel == nil {
		svc.MachineChannel = make(chan []model.Machine)
	}

	// Child context so a subscription can be cancelled without tearing down
	// the service
	subsContext, subsCancel := context.WithCancel(svc.CanxCtx)
	svc.SubsCtx = subsContext
	svc.SubsCancel = subsCancel

	go func() {
		defer svc.cleanup()

		machineIndex := 0

		for {
			select {
			case <-svc.CanxCtx.Done():
				lgr.Logger.Info(
					"orphan timed service context cancelled",
				)
				return
			case <-svc.SubsCtx.Done():
				lgr.Logger.Info(
					"orphan timed service subscription cancelled",
				)
				return
			case <-time.After(time.Duration(5 * time.Second)):
				if machineIndex >= len(svc.Machines) {
					machineIndex = 0
				}

				svc.MachineChannel <- []model.Machine{svc.Machines[machineIndex]}
				machineIndex++
			}
		}
	}()

	return svc.MachineChannel, nil
}

func (svc *timedService) Unsubscribe() error {
	if svc.SubsCtx == nil {
		return xerrors.New("Not subscribed yet. Subscribe first")
	}

	svc.cleanup()
	return nil
}

func (svc *timedService) Finalize() {
	if svc.MachineChannel != nil {
		close(svc.MachineChannel)
		svc.MachineChannel = nil
	}
}

func (svc *timedService) cleanup() {
	if svc.SubsCancel != nil {
		svc.SubsCancel()
		svc.SubsCtx = nil
		svc.SubsCancel = nil
	}
}
