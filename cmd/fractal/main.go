// fractal renders an escape-time or orbit-density image on the local CPUs and saves it as PNG.
package main

import (
	"flag"
	"fmt"
	"log"
	"runtime"
	"strconv"
	"strings"
	"time"

	fractal "github.com/lesguillemets/rgae"
	"github.com/lesguillemets/rgae/colour"
	"github.com/lesguillemets/rgae/grid"
	"github.com/lesguillemets/rgae/progress"
	"github.com/lesguillemets/rgae/render"
	"github.com/lesguillemets/rgae/sink"
)

type options struct {
	req fractal.Request

	out          string
	fromSnapshot string
	checkpoint   time.Duration
	decorate     bool
	caption      bool
	mqttBroker   string
	mqttTopic    string
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}

func parseFlags() options {
	var o options
	var view string
	flag.StringVar(&o.req.Mode, "mode", "escape-time", "escape-time | orbit-density")
	flag.StringVar(&o.req.Region, "region", "", "landmark region: "+strings.Join(fractal.RegionNames(), ", "))
	flag.StringVar(&view, "view", "", "explicit view left,top,width,height (overrides -region)")
	flag.IntVar(&o.req.ImageWidth, "width", 0, "image width in pixels")
	flag.IntVar(&o.req.ImageHeight, "height", 0, "image height in pixels")
	flag.IntVar(&o.req.MaxIterations, "maxi", 0, "iterations before a seed counts as bounded")
	flag.Float64Var(&o.req.Threshold, "threshold", 0, "divergence threshold on |z|²")
	flag.IntVar(&o.req.Workers, "workers", runtime.NumCPU(), "worker count")
	flag.IntVar(&o.req.Samples, "rr", 0, "random seeds to draw (orbit-density)")
	flag.StringVar(&o.req.Distribution, "dist", "", "seed distribution: rect | polar")
	flag.Float64Var(&o.req.PolarRadius, "radius", 0, "polar distribution radius")
	flag.Func("seed", "random seed (orbit-density, default 1)", func(v string) error {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return err
		}
		o.req.Seed = &n
		return nil
	})
	flag.StringVar(&o.req.Transfer, "transfer", "", "identity | log | power | linear | sqrt")
	flag.StringVar(&o.req.Palette, "palette", "", "palette: "+strings.Join(colour.Names(), ", "))

	flag.StringVar(&o.out, "out", "", "output PNG path")
	flag.StringVar(&o.fromSnapshot, "from-snapshot", "", "colour a saved grid snapshot instead of rendering")
	flag.DurationVar(&o.checkpoint, "checkpoint", 0, "write a grid snapshot this often while rendering (0 disables)")
	flag.BoolVar(&o.decorate, "axes", false, "draw the real and imaginary axes")
	flag.BoolVar(&o.caption, "caption", false, "draw a caption describing the run")
	flag.StringVar(&o.mqttBroker, "mqtt", "", "MQTT broker for progress messages, e.g. tcp://localhost:1883")
	flag.StringVar(&o.mqttTopic, "mqtt-topic", "rgae/progress", "MQTT progress topic")
	flag.Parse()

	if view != "" {
		var r fractal.Rect
		if _, err := fmt.Sscanf(view, "%g,%g,%g,%g", &r.Left, &r.Top, &r.Width, &r.Height); err != nil {
			log.Fatalf("FATAL: -view %q: %v", view, err)
		}
		o.req.View = &r
	}
	return o
}

func run() error {
	o := parseFlags()
	cfg, err := o.req.Config()
	if err != nil {
		return err
	}
	pal, err := colour.ByName(cfg.Palette)
	if err != nil {
		return err
	}

	var g *grid.Grid
	if o.fromSnapshot != "" {
		log.Printf("Loading grid snapshot %q...", o.fromSnapshot)
		if g, err = grid.LoadSnapshot(o.fromSnapshot); err != nil {
			return fmt.Errorf("load snapshot: %w", err)
		}
		if g.Width != cfg.View.ImgWidth || g.Height != cfg.View.ImgHeight {
			log.Printf("snapshot is %dx%d, ignoring the configured image size", g.Width, g.Height)
			cfg.View.ImgWidth, cfg.View.ImgHeight = g.Width, g.Height
		}
	} else {
		if g, err = accumulate(o, cfg); err != nil {
			return err
		}
	}

	maximum := g.Max()
	out := o.out
	if out == "" {
		out = defaultName(cfg, maximum, time.Now())
	}

	img := colour.Map(g, cfg.Transfer, pal)
	var s fractal.ImageSink = sink.PNG{}
	if o.decorate || o.caption {
		ov := &sink.Overlay{View: cfg.View, Axes: o.decorate}
		if o.caption {
			ov.Caption = sink.Caption(cfg, maximum)
		}
		s = sink.PNG{Overlay: ov}
	}

	log.Printf("Saving rendered image to %q...", out)
	if err := s.Save(img, out); err != nil {
		return err
	}
	log.Printf("Fully rendered image saved to %q (max=%d)", out, maximum)
	return nil
}

func accumulate(o options, cfg fractal.Config) (*grid.Grid, error) {
	reporters := progress.Multi{&progress.Log{Every: time.Second}}
	if o.mqttBroker != "" {
		m, err := progress.DialMQTT(o.mqttBroker, o.mqttTopic, fmt.Sprint(time.Now().Unix()))
		if err != nil {
			return nil, err
		}
		defer m.Close()
		reporters = append(reporters, m)
	}

	r := render.RendererImpl{OnProgress: reporters.Report}
	if o.checkpoint > 0 {
		path := snapshotPath(o.out)
		r.CheckpointEvery = o.checkpoint
		r.OnCheckpoint = func(g *grid.Grid) error {
			log.Printf("checkpoint: writing %q", path)
			return grid.SaveSnapshot(path, g)
		}
	}

	log.Printf("Rendering %v %v with %d workers...", cfg.Mode, cfg.View, cfg.Workers)
	start := time.Now()
	g, err := r.Accumulate(cfg)
	if err != nil {
		return nil, err
	}
	log.Printf("Rendering time %s", time.Since(start))
	return g, nil
}

func defaultName(cfg fractal.Config, maximum uint32, now time.Time) string {
	if cfg.Mode == fractal.OrbitDensity {
		return fmt.Sprintf("brot-%d-maxi%d-rr%d-max%d.png", now.Unix(), cfg.MaxIterations, cfg.Samples, maximum)
	}
	return "out.png"
}

func snapshotPath(out string) string {
	if out == "" {
		return "render.grid.zst"
	}
	return strings.TrimSuffix(out, ".png") + ".grid.zst"
}
