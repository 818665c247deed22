package main

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"log"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	fractal "github.com/lesguillemets/rgae"
	"github.com/lesguillemets/rgae/colour"
	"github.com/lesguillemets/rgae/render"
	"github.com/lesguillemets/rgae/sink"
)

// requestLimits caps the memory and time a single request may claim.
type requestLimits struct {
	Pixels        int
	Samples       int
	MaxIterations int
}

// defaultLimits keep one render within a few hundred MiB.
var defaultLimits = requestLimits{
	Pixels:        1 << 24,
	Samples:       1 << 24,
	MaxIterations: 1 << 20,
}

// renderScheduler bounds how many renders share the CPUs and how many workers each may use.
type renderScheduler struct {
	maxWorkers int
	limits     requestLimits
	slots      chan struct{}

	active int
	m      sync.Mutex
}

func newRenderScheduler(maxWorkers, renders int, limits requestLimits) *renderScheduler {
	return &renderScheduler{
		maxWorkers: maxWorkers,
		limits:     limits,
		slots:      make(chan struct{}, renders),
	}
}

// admit rejects a validated config that exceeds the server's limits.
func (rs *renderScheduler) admit(cfg fractal.Config) error {
	lim := rs.limits
	v := cfg.View
	switch {
	case v.ImgWidth > lim.Pixels || v.ImgHeight > lim.Pixels || v.ImgWidth*v.ImgHeight > lim.Pixels:
		return fmt.Errorf("%w: %dx%d image exceeds %d pixels", fractal.ErrInvalidConfig, v.ImgWidth, v.ImgHeight, lim.Pixels)
	case cfg.MaxIterations > lim.MaxIterations:
		return fmt.Errorf("%w: max iterations %d exceeds %d", fractal.ErrInvalidConfig, cfg.MaxIterations, lim.MaxIterations)
	case cfg.Mode == fractal.OrbitDensity && cfg.Samples > lim.Samples:
		return fmt.Errorf("%w: %d samples exceeds %d", fractal.ErrInvalidConfig, cfg.Samples, lim.Samples)
	}
	return nil
}

func (rs *renderScheduler) incActive() {
	rs.m.Lock()
	rs.active++
	a := rs.active
	rs.m.Unlock()

	log.Printf("renders: %d", a)
}

func (rs *renderScheduler) decActive() {
	rs.m.Lock()
	rs.active--
	a := rs.active
	rs.m.Unlock()

	log.Printf("renders: %d", a)
}

// serve renders cfg and streams the session messages to c.
// Once started a render always runs to completion, even if the client goes away.
func (rs *renderScheduler) serve(ctx context.Context, c *websocket.Conn, cfg fractal.Config) error {
	cfg.Workers = min(cfg.Workers, rs.maxWorkers)
	pal, err := colour.ByName(cfg.Palette)
	if err != nil {
		return err
	}

	select {
	case rs.slots <- struct{}{}:
	case <-ctx.Done():
		return context.Cause(ctx)
	}
	defer func() { <-rs.slots }()
	rs.incActive()
	defer rs.decActive()

	// The merge goroutine must never wait on the network: drop updates the writer cannot keep up with.
	updates := make(chan fractal.ServerMessage, 16)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for msg := range updates {
			if err := wsjson.Write(ctx, c, msg); err != nil {
				log.Printf("progress: %v", err)
				for range updates {
				}
				return
			}
		}
	}()

	r := render.RendererImpl{OnProgress: func(done, total int) {
		select {
		case updates <- fractal.ServerMessage{Type: fractal.MsgProgress, Done: done, Total: total}:
		default:
		}
	}}
	log.Printf("rendering %v %v with %d workers", cfg.Mode, cfg.View, cfg.Workers)
	g, err := r.Accumulate(cfg)
	close(updates)
	wg.Wait()
	if err != nil {
		return err
	}

	maximum := g.Max()
	var buf bytes.Buffer
	if err := png.Encode(&buf, colour.Map(g, cfg.Transfer, pal)); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}

	v := cfg.View
	result := fractal.ServerMessage{
		Type:    fractal.MsgResult,
		Maximum: maximum,
		Caption: sink.Caption(cfg, maximum),
		View:    &fractal.Rect{Left: v.Left, Top: v.Top, Width: v.Width, Height: v.Height},
	}
	if err := wsjson.Write(ctx, c, result); err != nil {
		return fmt.Errorf("send result: %w", err)
	}
	if err := c.Write(ctx, websocket.MessageBinary, buf.Bytes()); err != nil {
		return fmt.Errorf("send image: %w", err)
	}
	log.Printf("sent %d byte image (max=%d)", buf.Len(), maximum)
	return nil
}
