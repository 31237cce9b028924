package machines

import "github.com/lienswings/laundry-watch/model"

type IService interface {
	RetrieveMachines() ([]model.Machine, error)
	RetrieveMachineByID(id string) (model.Machine, error)
	RetrieveMachinesByIDs(ids []string) ([]model.Machine, error)
	RetrieveUnwatchedMachines(max int) ([]model.Machine, error)
	UpdateMachineExcluded(id string, excluded bool) error
	UpdateMachineWatcherID(machineID, watcherID string) error
	UpdateMachineWatcherHeartbeat(id string) error

	NewError(err interface{}) error
	NewWatchersManagerStats(stats model.WatchersManagerStats) error
	NewWatcherStats(stats model.WatcherStats) error
	NewFramerStats(stats model.FramerStats) error
	NewStreamerStats(stats model.StreamerStats) error
	NewNotifierStats(stats model.NotifierStats) error
}
