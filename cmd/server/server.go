package main

import (
	"flag"
	"fmt"
	"log"
	"runtime"
)

// main is the entry point for the render server.
// Clients connect over websocket, send one render request and receive progress and the finished PNG.
func main() {
	if err := run(); err != nil {
		log.Fatalf("run: %+v", err)
	}
}

func run() error {
	port := flag.Int("port", 8080, "http port")
	workers := flag.Int("workers", runtime.NumCPU(), "maximum workers per render")
	renders := flag.Int("renders", 2, "renders allowed to run at once")
	limits := defaultLimits
	flag.IntVar(&limits.Pixels, "max-pixels", limits.Pixels, "largest image a request may ask for, in pixels")
	flag.IntVar(&limits.Samples, "max-samples", limits.Samples, "most orbit-density samples a request may ask for")
	flag.IntVar(&limits.MaxIterations, "max-iterations", limits.MaxIterations, "largest iteration budget a request may ask for")
	flag.Parse()

	if *workers <= 0 || *renders <= 0 {
		return fmt.Errorf("workers and renders must be positive, got %d and %d", *workers, *renders)
	}

	scheduler := newRenderScheduler(*workers, *renders, limits)
	httpServer := webServer(*port, scheduler)

	log.Printf("render server waiting for websocket connections")
	if err := httpServer.ListenAndServe(); err != nil {
		return fmt.Errorf("httpServer: %w", err)
	}
	return nil
}
