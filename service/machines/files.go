package machines

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/lienswings/laundry-watch/model"
	"github.com/lienswings/laundry-watch/service/config"
)

// A watcher is considered dead when its heartbeat is older than this
const staleHeartbeat = 5 * 60

type filesDBService struct {
	CfgSvc config.IService
}

// NewFilesDB keeps the machine registry in a JSON file under the input
// folder, with stats and errors appended as JSON documents next to it.
func NewFilesDB(cfgsvc config.IService) IService {
	return &filesDBService{
		CfgSvc: cfgsvc,
	}
}

func (svc *filesDBService) RetrieveMachines() ([]model.Machine, error) {
	machines := []model.Machine{}

	input := svc.CfgSvc.GetMachinesInputFile()
	data, err := os.ReadFile(input)
	if err != nil {
		return machines, err
	}

	err = json.Unmarshal(data, &machines)
	if err != nil {
		return machines, err
	}

	return machines, nil
}

func (svc *filesDBService) RetrieveMachineByID(id string) (model.Machine, error) {
	machines, err := svc.RetrieveMachines()
	if err != nil {
		return model.Machine{}, err
	}

	for _, machine := range machines {
		if machine.ID == id {
			return machine, nil
		}
	}

	return model.Machine{}, nil
}

func (svc *filesDBService) RetrieveMachinesByIDs(ids []string) ([]model.Machine, error) {
	machines, err := svc.RetrieveMachines()
	if err != nil {
		return nil, err
	}

	var result []model.Machine
	for _, machine := range machines {
		for _, id := range ids {
			if machine.ID == id {
				result = append(result, machine)
			}
		}
	}

	return result, nil
}

func (svc *filesDBService) RetrieveUnwatchedMachines(max int) ([]model.Machine, error) {
	machines, err := svc.RetrieveMachines()
	if err != nil {
		return nil, err
	}

	var result []model.Machine
	now := time.Now().Unix()
	for _, machine := range machines {
		if machine.WatcherID == "" || now-machine.LastHeartBeat > staleHeartbeat {
			result = append(result, machine)
			if len(result) >= max {
				break
			}
		}
	}

	return result, nil
}

func (svc *filesDBService) UpdateMachineExcluded(id string, excluded bool) error {
	machines, err := svc.RetrieveMachines()
	if err != nil {
		return err
	}

	for i, machine := range machines {
		if machine.ID == id {
			machines[i].Excluded = excluded
			break
		}
	}

	return svc.writeMachines(machines)
}

func (svc *filesDBService) UpdateMachineWatcherID(machineID, watcherID string) error {
	machines, err := svc.RetrieveMachines()
	if err != nil {
		return err
	}

	for i, machine := range machines {
		if machine.ID == machineID {
			machines[i].WatcherID = watcherID
			machines[i].StartupTime = time.Now().Unix()
			machines[i].LastHeartBeat = time.Now().Unix()
			machines[i].Uptime = machines[i].LastHeartBeat - machines[i].StartupTime
			break
		}
	}

	return svc.writeMachines(machines)
}

func (svc *filesDBService) UpdateMachineWatcherHeartbeat(id string) error {
	machines, err := svc.RetrieveMachines()
	if err != nil {
		return err
	}

	for i, machine := range machines {
		if machine.ID == id {
			machines[i].LastHeartBeat = time.Now().Unix()
			machines[i].Uptime = machines[i].LastHeartBeat - machines[i].StartupTime
			break
		}
	}

	return svc.writeMachines(machines)
}

func (svc *filesDBService) writeMachines(machines []model.Machine) error {
	data, err := json.MarshalIndent(machines, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(svc.CfgSvc.GetMachinesInputFile(), data, 0644)
}

func (svc *filesDBService) NewError(err interface{}) error {
	// Determine if the error is custom
	var customErr model.CustomError
	switch e := err.(type) {
	case model.CustomError:
		customErr = e
	case error:
		customErr.Processor = "N/A"
		customErr.Inner = e
		customErr.Message = e.Error()
		customErr.StackTrace = "N/A"
	default:
		// Whatever landed on the stream still gets recorded
		customErr.Processor = "N/A"
		customErr.Inner = fmt.Errorf("%v", err)
		customErr.Message = customErr.Inner.Error()
		customErr.StackTrace = "N/A"
	}

	errorData := struct {
		Timestamp  int64                  `json:"timestamp"`
		Processor  string                 `json:"processor"`
		Inner      string                 `json:"innerError"`
		Message    string                 `json:"message"`
		StackTrace string                 `json:"stackTrace"`
		Misc       map[string]interface{} `json:"misc"`
	}{
		Timestamp:  time.Now().Unix(),
		Processor:  customErr.Processor,
		Inner:      customErr.Inner.Error(),
		Message:    customErr.Message,
		StackTrace: customErr.StackTrace,
		Misc:       customErr.Misc,
	}
	return newEntity(errorData, "errors", svc.CfgSvc)
}

func (svc *filesDBService) NewWatchersManagerStats(stats model.WatchersManagerStats) error {
	stats.Timestamp = time.Now().Unix()
	return newEntity(stats, "watchers-manager-stats", svc.CfgSvc)
}

func (svc *filesDBService) NewWatcherStats(stats model.WatcherStats) error {
	stats.Timestamp = time.Now().Unix()
	return newEntity(stats, "watcher-stats", svc.CfgSvc)
}

func (svc *filesDBService) NewFramerStats(stats model.FramerStats) error {
	stats.Timestamp = time.Now().Unix()
	return newEntity(stats, "framer-stats", svc.CfgSvc)
}

func (svc *filesDBService) NewStreamerStats(stats model.StreamerStats) error {
	stats.Timestamp = time.Now().Unix()
	return newEntity(stats, "streamer-stats", svc.CfgSvc)
}

func (svc *filesDBService) NewNotifierStats(stats model.NotifierStats) error {
	stats.Timestamp = time.Now().Unix()
	return newEntity(stats, "notifier-stats", svc.CfgSvc)
}

func newEntity[T any](entity T, filename string, cfgsvc config.IService) error {
	entities, err := retrieveEntities[T](filename, cfgsvc)
	if err != nil {
		return err
	}

	entities = append(entities, entity)

	data, err := json.MarshalIndent(entities, "", "  ")
	if err != nil {
		return err
	}

	output := fmt.Sprintf("%s/%s.json", cfgsvc.GetInputFolder(), filename)
	return os.WriteFile(output, data, 0644)
}

func retrieveEntities[T any](filename string, cfgsvc config.IService) ([]T, error) {
	entities := []T{}

	data, err := os.ReadFile(fmt.Sprintf("%s/%s.json", cfgsvc.GetInputFolder(), filename))
	if err != nil {
		// File not found, start a fresh collection
		return entities, nil
	}

	err = json.Unmarshal(data, &entities)
	if err != nil {
		return nil, err
	}

	return entities, nil
}
