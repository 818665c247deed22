// cliclient is a CLI client for the render server.
// It sends a render request over websocket, logs the progress it receives and saves the image as a PNG file.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"image/png"
	"log"
	"strconv"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	fractal "github.com/lesguillemets/rgae"
	"github.com/lesguillemets/rgae/progress"
	"github.com/lesguillemets/rgae/sink"
)

// main is the entry point for the CLI client.
// It runs the client logic and logs any fatal errors.
func main() {
	log.Printf("Starting CLI client...")
	if err := run(); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}

const maxImageBytes = 256 << 20

// run connects to the render server, submits the request and saves the PNG it gets back.
// Returns an error if any step fails.
func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "render server websocket URL")
	filename := flag.String("out", "mandel.png", "output PNG path")
	axes := flag.Bool("axes", false, "draw the real and imaginary axes")
	caption := flag.Bool("caption", false, "draw the server's run caption")
	var req fractal.Request
	flag.StringVar(&req.Mode, "mode", "escape-time", "escape-time | orbit-density")
	flag.StringVar(&req.Region, "region", "", "landmark region")
	flag.IntVar(&req.ImageWidth, "width", 0, "image width in pixels")
	flag.IntVar(&req.ImageHeight, "height", 0, "image height in pixels")
	flag.IntVar(&req.MaxIterations, "maxi", 0, "iteration budget")
	flag.IntVar(&req.Samples, "rr", 0, "random seeds (orbit-density)")
	flag.Func("seed", "random seed (orbit-density, default 1)", func(v string) error {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return err
		}
		req.Seed = &n
		return nil
	})
	flag.StringVar(&req.Transfer, "transfer", "", "colour transfer function")
	flag.StringVar(&req.Palette, "palette", "", "palette")
	flag.Parse()

	// Check the request locally before bothering the server.
	if _, err := req.Config(); err != nil {
		return err
	}

	ctx := context.Background()

	// Step 1: Connect to render server
	log.Printf("Connecting to render server at %s...", *addr)
	c, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to server: %w", err)
	}
	defer c.CloseNow()
	c.SetReadLimit(maxImageBytes)

	// Step 2: Submit the request
	if err := wsjson.Write(ctx, c, req); err != nil {
		return fmt.Errorf("send request: %w", err)
	}

	// Step 3: Follow progress until the image arrives
	var result fractal.ServerMessage
	for {
		typ, data, err := c.Read(ctx)
		if err != nil {
			var ce websocket.CloseError
			if errors.As(err, &ce) {
				return fmt.Errorf("server closed the session: %s (%v)", ce.Reason, ce.Code)
			}
			return fmt.Errorf("read: %w", err)
		}
		if typ == websocket.MessageBinary {
			if err := save(data, *filename, result, *axes, *caption); err != nil {
				return err
			}
			c.Close(websocket.StatusNormalClosure, "")
			return nil
		}

		var msg fractal.ServerMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return fmt.Errorf("bad server message %q: %w", data, err)
		}
		switch msg.Type {
		case fractal.MsgProgress:
			log.Printf("finished: %f", progress.Fraction(msg.Done, msg.Total))
		case fractal.MsgResult:
			result = msg
			log.Printf("render complete: %s", msg.Caption)
		}
	}
}

// save decodes the PNG sent by the server and writes it through the image sink.
func save(data []byte, filename string, result fractal.ServerMessage, axes, caption bool) error {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to decode PNG: %w", err)
	}

	s := sink.PNG{}
	if (axes || caption) && result.View != nil {
		b := img.Bounds()
		r := result.View
		ov := &sink.Overlay{
			View: fractal.Viewport{Left: r.Left, Top: r.Top, Width: r.Width, Height: r.Height, ImgWidth: b.Dx(), ImgHeight: b.Dy()},
			Axes: axes,
		}
		if caption {
			ov.Caption = result.Caption
		}
		s.Overlay = ov
	}

	log.Printf("Saving rendered image to %q...", filename)
	if err := s.Save(img, filename); err != nil {
		return err
	}
	log.Printf("Fully rendered image saved to %q", filename)
	return nil
}
