package pipeline

import (
	"context"
	"time"

	"gocv.io/x/gocv"

	"github.com/lienswings/laundry-watch/model"
	"github.com/lienswings/laundry-watch/service/config"
	"github.com/lienswings/laundry-watch/service/display"
	"github.com/lienswings/laundry-watch/service/inference"
	"github.com/lienswings/laundry-watch/service/labels"
	"github.com/lienswings/laundry-watch/service/machines"
	"github.com/lienswings/laundry-watch/service/notify"
	"github.com/lienswings/laundry-watch/service/orphan"
)

type FrameData struct {
	Mat       gocv.Mat
	Timestamp time.Time
}

type AlertData struct {
	Mat        gocv.Mat
	Machine    model.Machine
	Label      string
	Confidence float32
	Streak     int
	Timestamp  time.Time
}

type ServicesFactory struct {
	CfgSvc       config.IService
	MachineSvc   machines.IService
	OrphanSvc    orphan.IService
	LabelSvc     labels.IService
	InferenceSvc inference.IService
	NotifySvc    notify.IService
	DisplaySvc   display.IService
}

// Signature of streamer function
type Streamer func(canx context.Context, svcs ServicesFactory, machine model.Machine, errorStream chan interface{}, statsStream chan interface{}, alertStream chan AlertData) chan FrameData

// Signature of alerter function
type Alerter func(canx context.Context, svcs ServicesFactory, errorStream chan interface{}, statsStream chan interface{}) chan AlertData
