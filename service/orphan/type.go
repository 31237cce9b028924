package orphan

import "github.com/lienswings/laundry-watch/model"

// IService distributes machines that have no live watcher.
type IService interface {
	Publish(machines []model.Machine) error
	Subscribe() (<-chan []model.Machine, error)
	Unsubscribe() error
}
