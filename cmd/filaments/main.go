package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/roman-mazur/filaments/controls"
	"github.com/roman-mazur/filaments/model"
	"github.com/roman-mazur/filaments/painter"
	"github.com/roman-mazur/filaments/painter/lang"
	"github.com/roman-mazur/filaments/ui"
)

const (
	WindowWidth  = 800
	WindowHeight = 800
	SurfaceSize  = 2048
	HttpPort     = ":17000"
)

var (
	windowWidth  = flag.Int("width", WindowWidth, "window width in pixels")
	windowHeight = flag.Int("height", WindowHeight, "window height in pixels")
	surfaceSize  = flag.Int("size", SurfaceSize, "side of the square render surface in pixels")
	addr         = flag.String("addr", HttpPort, "address of the command server, empty to disable")
)

func main() {
	flag.Parse()
	log.Println("Starting Filaments...")

	scene := model.NewScene()

	worker := painter.NewWorker()
	worker.Start()
	defer worker.Stop()
	queue := painter.NewQueue(worker, *surfaceSize, *surfaceSize)
	defer queue.Close()

	panel := controls.NewPanel(scene)
	defer panel.Close()
	visualizer := &ui.Visualizer{
		Title:  "Filaments",
		Width:  *windowWidth,
		Height: *windowHeight,
		Panel:  panel,
	}

	coalescer := painter.NewCoalescer(scene, queue, visualizer)
	sub := scene.AddObserver(coalescer.Trigger)
	defer sub.Terminate()
	visualizer.OnReady = coalescer.Trigger

	if *addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/", lang.HttpHandler(scene))
		mux.Handle("/scene", lang.SceneHandler(scene))
		server := &http.Server{Addr: *addr, Handler: mux}
		go func() {
			log.Printf("Starting HTTP server on %s", *addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatalf("HTTP server failed: %v", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				log.Printf("HTTP server shutdown: %v", err)
			}
		}()
	}

	visualizer.Main()

	// let an in-flight render finish before the worker goes away
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := coalescer.WaitIdle(ctx); err != nil {
		log.Printf("Render still in flight at exit: %v", err)
	}
	stats := coalescer.Stats()
	log.Printf("Filaments closed: %d renders, %d coalesced triggers, %d failures",
		stats.Requests, stats.Coalesced, stats.Failures)
}
