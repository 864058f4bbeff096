// Command arwifi projects a live Wi-Fi signal board onto a surface framed by
// four ArUco markers in the camera view.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"wifi-ar/internal/app"
	"wifi-ar/internal/capture"
	"wifi-ar/internal/compositor"
	"wifi-ar/internal/config"
	"wifi-ar/internal/markers"
	"wifi-ar/internal/opencv"
	"wifi-ar/internal/overlay"
	wifi "wifi-ar/internal/signal"
	"wifi-ar/internal/version"
	"wifi-ar/pkg/colorutil"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config (default "+config.DefaultPath()+")")
	device := flag.Int("device", -1, "Camera device id (overrides config)")
	still := flag.String("still", "", "Use a still image instead of the camera")
	platform := flag.String("platform", "", "Scan platform: auto, linux, darwin or windows (overrides config)")
	verbose := flag.Bool("v", false, "Log every frame")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("arwifi"))
		return
	}

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s", version.String("arwifi"))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Config: %v", err)
	}
	if *device >= 0 {
		cfg.Camera.Device = *device
	}
	if *platform != "" {
		cfg.Signal.Platform = *platform
	}

	if err := run(cfg, *still, *verbose); err != nil {
		log.Fatal(err)
	}
}

func run(cfg *config.Config, still string, verbose bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	frameLog := log.Default()
	if !verbose {
		frameLog = log.New(io.Discard, "", 0)
	}

	frames, err := openSource(cfg, still)
	if err != nil {
		return err
	}
	defer frames.Close()

	detector := opencv.NewAruco()
	defer detector.Close()

	signals, stopSignals, err := openSignals(ctx, cfg, frameLog)
	if err != nil {
		return err
	}
	defer stopSignals()

	opts, err := cfg.CompositorOptions()
	if err != nil {
		return err
	}
	opts.Logger = frameLog
	comp, err := compositor.New(markers.NewCache(), opts)
	if err != nil {
		return err
	}

	windows := opencv.NewWindows()
	defer windows.Close()

	session, err := app.NewSession(frames, detector, signals,
		overlay.NewRenderer(cfg.Overlay.Width, cfg.Overlay.Height), comp, windows,
		app.Options{
			QuitKey:    cfg.Display.QuitKey[0],
			MaxMisses:  cfg.Camera.MaxMisses,
			ShowInput:  cfg.Display.ShowInput,
			ShowSource: cfg.Display.ShowSource,
			Annotate: func(img *image.RGBA, obs []markers.Observation) *image.RGBA {
				return opencv.DrawMarkers(img, obs, colorutil.Green)
			},
			Logger: frameLog,
		})
	if err != nil {
		return err
	}

	session.On(app.EventCompositingBegan, func(interface{}) {
		log.Printf("All markers located; compositing")
	})
	return session.Run(ctx)
}

func openSource(cfg *config.Config, still string) (capture.Source, error) {
	if still != "" {
		log.Printf("Reading frames from %s", still)
		s, err := capture.LoadStill(still)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	log.Printf("Opening camera %d", cfg.Camera.Device)
	cam, err := opencv.OpenCamera(cfg.Camera.Device)
	if err != nil {
		return nil, err
	}
	return cam, nil
}

// openSignals returns a per-frame scanner, or a background poller when a scan
// interval is configured.
func openSignals(ctx context.Context, cfg *config.Config, frameLog *log.Logger) (wifi.Source, func(), error) {
	name := cfg.Signal.Platform
	if name == "" || strings.EqualFold(name, "auto") {
		name = runtime.GOOS
	}
	scanner, err := wifi.NewScanner(name, cfg.Signal.Timeout)
	if err != nil {
		return nil, nil, err
	}
	log.Printf("Scanning Wi-Fi with %s parser", scanner.Platform)

	if cfg.Signal.ScanInterval <= 0 {
		return &wifi.Direct{Scanner: scanner, Logger: log.Default()}, func() {}, nil
	}
	poller := wifi.NewPoller(scanner, cfg.Signal.ScanInterval, log.Default())
	poller.OnScan(func(snap wifi.Snapshot) {
		frameLog.Printf("[INFO] wifi scan: %d locked, %d unlocked", len(snap.Locked), len(snap.Unlocked))
	})
	poller.Start(ctx)
	stopPoller := func() {
		poller.Stop()
		if t := poller.Updated(); !t.IsZero() {
			log.Printf("Last Wi-Fi scan at %s", t.Format("15:04:05"))
		} else {
			log.Printf("No Wi-Fi scan succeeded")
		}
	}
	return poller, stopPoller, nil
}
