package pipeline

import (
	"context"
	"time"

	"gocv.io/x/gocv"

	"github.com/lienswings/laundry-watch/model"
	"github.com/lienswings/laundry-watch/service/lgr"
)

func framer(canxCtx context.Context, svcs ServicesFactory, machine model.Machine, errorStream chan interface{}, statsStream chan interface{}, streamChannels []chan FrameData) {
	if machine.FramerType == "synthetic" {
		go syntheticFramer(canxCtx, svcs, machine, errorStream, statsStream, streamChannels)
		return
	}

	go cameraFramer(canxCtx, svcs, machine, errorStream, statsStream, streamChannels)
}

func cameraFramer(canxCtx context.Context, svcs ServicesFactory, machine model.Machine, errorStream chan interface{}, statsStream chan interface{}, streamChannels []chan FrameData) {
	camera, err := gocv.OpenVideoCapture(machine.SourceURL)
	if err != nil {
		errorStream <- model.GenError("watcher_camera_framer",
			err,
			map[string]interface{}{},
			"error opening camera stream")
		return
	}
	defer camera.Close()

	var startTime = time.Now().Unix()
	var frames = 0
	var skippedFrames = 0
	var errors = 0
	maxFrames := svcs.CfgSvc.GetMaxFrames()

	defer func() {
		uptime := time.Now().Unix() - startTime
		fps := 0
		if uptime > 0 {
			fps = int(float64(frames) / float64(uptime))
		}
		statsStream <- model.FramerStats{
			Name:          "cameraFramer",
			Machine:       machine.Name,
			Frames:        frames,
			SkippedFrames: skippedFrames,
			Errors:        errors,
			Uptime:        uptime,
			FPS:           fps,
		}
	}()

	// Capture frames, route captured frames to streamers and monitor cancellations
	for {
		select {
		case <-canxCtx.Done():
			lgr.Logger.Info(
				"cameraFramer context cancelled",
			)
			return

		default:
			// A zero cap means run until cancelled
			if maxFrames > 0 && frames >= maxFrames {
				lgr.Logger.Info(
					"cameraFramer reached the frame cap",
				)
				return
			}

			img := gocv.NewMat()
			if ok := camera.Read(&img); !ok || img.Empty() {
				errors++
				img.Close() // Crucial to close the image to avoid memory leaks
				continue
			}

			frames++
			// Determine if we should skip the frame
			if svcs.InferenceSvc.CanSkipFrame(frames) {
				skippedFrames++
				img.Close() // Crucial to close the image to avoid memory leaks
				continue
			}

			for _, streamChan := range streamChannels {
				// WARNING: We need an extra check to make sure we don't send on a closed channel
				select {
				case <-canxCtx.Done():
					// Context canceled, stop sending
					lgr.Logger.Info("cameraFramer context cancelled while sending!!")
					img.Close() // Crucial to close the image to avoid memory leaks
					return
				case streamChan <- FrameData{Mat: img.Clone(), Timestamp: time.Now()}:
					// Successfully sent to the channel
				}
			}

			img.Close() // Crucial to close the image to avoid memory leaks
		}
	}
}

func syntheticFramer(canxCtx context.Context, svcs ServicesFactory, machine model.Machine, _ chan interface{}, statsStream chan interface{}, streamChannels []chan FrameData) {
	var startTime = time.Now().Unix()
	var frames = 0
	var skippedFrames = 0
	var errors = 0
	maxFrames := svcs.CfgSvc.GetMaxFrames()

	defer func() {
		uptime := time.Now().Unix() - startTime
		fps := 0
		if uptime > 0 {
			fps = int(float64(frames) / float64(uptime))
		}
		statsStream <- model.FramerStats{
			Name:          "syntheticFramer",
			Machine:       machine.Name,
			Frames:        frames,
			SkippedFrames: skippedFrames,
			Errors:        errors,
			Uptime:        uptime,
			FPS:           fps,
		}
	}()

	// Generate frames, route them to streamers and monitor cancellations
	for {
		select {
		case <-canxCtx.Done():
			lgr.Logger.Info(
				"syntheticFramer context cancelled",
			)
			return
		default:
			if maxFrames > 0 && frames >= maxFrames {
				lgr.Logger.Info(
					"syntheticFramer reached the frame cap",
				)
				return
			}

			frames++
			// Determine if we should skip the frame
			if svcs.InferenceSvc.CanSkipFrame(frames) {
				skippedFrames++
				continue
			}

			// Generate a blank frame; the fake inference service supplies the scores
			img := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
			for _, streamChan := range streamChannels {
				// WARNING: We need an extra check to make sure we don't send on a closed channel
				select {
				case <-canxCtx.Done():
					// Context canceled, stop sending
					lgr.Logger.Info("syntheticFramer context cancelled while sending!!")
					img.Close() // Crucial to close the image to avoid memory leaks
					return
				case streamChan <- FrameData{Mat: img.Clone(), Timestamp: time.Now()}:
					// Successfully sent to the channel
				}
			}

			img.Close() // Crucial to close the image to avoid memory leaks
		}
	}
}
