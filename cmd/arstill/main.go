// Command arstill composites the signal board onto a still photo given the four
// target corners, without a camera or marker detector.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"os"
	"strconv"
	"strings"

	"wifi-ar/internal/capture"
	"wifi-ar/internal/compositor"
	"wifi-ar/internal/homography"
	"wifi-ar/internal/markers"
	"wifi-ar/internal/mask"
	"wifi-ar/internal/overlay"
	"wifi-ar/internal/signal"
	"wifi-ar/pkg/geometry"
)

// stillOptions are the parsed command line flags.
type stillOptions struct {
	framePath string
	corners   string
	scanPath  string
	platform  string
	out       string
	width     int
	height    int
}

func main() {
	var opts stillOptions
	flag.StringVar(&opts.framePath, "f", "", "Path to the photo (png, jpeg or tiff)")
	flag.StringVar(&opts.corners, "corners", "", "Target corners TL;TR;BR;BL as x,y pairs, e.g. '10,10;300,12;310,200;8,190'")
	flag.StringVar(&opts.scanPath, "scan", "", "Saved scan output to render (optional)")
	flag.StringVar(&opts.platform, "platform", "linux", "Format of -scan: linux, darwin or windows")
	flag.StringVar(&opts.out, "o", "composite.png", "Output PNG path")
	flag.IntVar(&opts.width, "w", overlay.DefaultWidth, "Overlay width")
	flag.IntVar(&opts.height, "h", overlay.DefaultHeight, "Overlay height")
	flag.Parse()

	if opts.framePath == "" || opts.corners == "" {
		fmt.Println("Usage: arstill -f <photo> -corners 'x,y;x,y;x,y;x,y' [-scan <file> -platform <os>] [-o out.png]")
		os.Exit(1)
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if err := run(opts); err != nil {
		log.Fatal(err)
	}
}

func run(opts stillOptions) (err error) {
	dst, err := parseCorners(opts.corners)
	if err != nil {
		return fmt.Errorf("corners: %w", err)
	}

	still, err := capture.LoadStill(opts.framePath)
	if err != nil {
		return err
	}
	frame, err := still.Next()
	if err != nil {
		return err
	}

	snap := signal.NewSnapshot()
	if opts.scanPath != "" {
		p, err := signal.ParsePlatform(opts.platform)
		if err != nil {
			return fmt.Errorf("platform %q: %w", opts.platform, err)
		}
		data, err := os.ReadFile(opts.scanPath)
		if err != nil {
			return err
		}
		snap = signal.Parse(p, string(data))
	}
	source := overlay.NewRenderer(opts.width, opts.height).Render(snap)

	compOpts := compositor.DefaultOptions()
	compOpts.Logger = log.Default()
	comp, err := compositor.New(markers.NewCache(), compOpts)
	if err != nil {
		return err
	}

	res := comp.Process(frame, observations(compOpts.Required, dst), source)
	if !res.Composited() {
		return fmt.Errorf("composite failed: %w", res.Reason)
	}

	src := homography.SourceQuad(opts.width, opts.height)
	fmt.Printf("Homography: %v\n", res.Homography)
	fmt.Printf("Reprojection error: %.3g px\n", homography.ReprojectionError(res.Homography, src, res.Destination))
	fmt.Printf("Mask coverage: %.1f%%\n", 100*mask.Coverage(mask.Build(res.Destination, frame.Bounds().Size())))

	file, err := os.Create(opts.out)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", opts.out, cerr)
		}
	}()
	if err := png.Encode(file, res.Frame); err != nil {
		return fmt.Errorf("failed to write %s: %w", opts.out, err)
	}
	fmt.Printf("Wrote %s\n", opts.out)
	return nil
}

// parseCorners reads four "x,y" pairs separated by semicolons.
func parseCorners(s string) (geometry.Quad, error) {
	var q geometry.Quad
	pairs := strings.Split(s, ";")
	if len(pairs) != len(q) {
		return q, fmt.Errorf("want 4 corners, got %d", len(pairs))
	}
	for i, pair := range pairs {
		xy := strings.Split(strings.TrimSpace(pair), ",")
		if len(xy) != 2 {
			return q, fmt.Errorf("corner %d: want x,y, got %q", i, pair)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(xy[0]), 64)
		if err != nil {
			return q, fmt.Errorf("corner %d: %w", i, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(xy[1]), 64)
		if err != nil {
			return q, fmt.Errorf("corner %d: %w", i, err)
		}
		q[i] = geometry.Point2D{X: x, Y: y}
	}
	return q, nil
}

// observations fakes one detection per required marker, collapsed onto the
// target corner it stands for.
func observations(req markers.RequiredSet, dst geometry.Quad) []markers.Observation {
	obs := make([]markers.Observation, len(req))
	for i, m := range req {
		obs[i] = markers.Observation{ID: m.ID, Corners: geometry.Quad{dst[i], dst[i], dst[i], dst[i]}}
	}
	return obs
}
