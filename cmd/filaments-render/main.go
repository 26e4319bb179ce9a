package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"time"

	"github.com/roman-mazur/filaments/model"
	"github.com/roman-mazur/filaments/painter"

	xdraw "golang.org/x/image/draw"
)

var (
	in      = flag.String("in", "", "scene JSON file, the default scene if empty")
	out     = flag.String("out", "filaments.png", "output PNG file")
	size    = flag.Int("size", 2048, "side of the square render surface in pixels")
	scale   = flag.Int("scale", 0, "side of the written image in pixels, 0 keeps the surface size")
	at      = flag.Float64("time", 0, "time parameter shearing the paths against each other")
	timeout = flag.Duration("timeout", time.Minute, "how long to wait for the render")
)

func main() {
	flag.Parse()

	format, err := loadScene(*in)
	if err != nil {
		log.Fatalf("Loading scene: %v", err)
	}

	worker := painter.NewWorker()
	worker.Start()
	defer worker.Stop()
	queue := painter.NewQueue(worker, *size, *size)
	defer queue.Close()

	var r painter.Result
	select {
	case r = <-queue.RenderAt(format, *at):
	case <-time.After(*timeout):
		log.Fatalf("Render did not finish within %v", *timeout)
	}
	if r.Err != nil {
		log.Fatalf("Render failed: %v", r.Err)
	}

	if err := writePNG(*out, flatten(r.Bitmap, *scale)); err != nil {
		log.Fatalf("Writing %s: %v", *out, err)
	}
	log.Printf("Wrote %s", *out)
}

func loadScene(path string) (model.SceneFormat, error) {
	if path == "" {
		return model.DefaultSceneFormat(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return model.SceneFormat{}, err
	}
	var format model.SceneFormat
	if err := json.Unmarshal(data, &format); err != nil {
		return model.SceneFormat{}, fmt.Errorf("decoding %s: %w", path, err)
	}
	if err := format.Validate(); err != nil {
		return model.SceneFormat{}, err
	}
	return format, nil
}

// flatten puts bitmap on an opaque black background, resampled to side x side
// pixels when side is positive.
func flatten(bitmap *image.RGBA, side int) *image.RGBA {
	bounds := bitmap.Bounds()
	if side > 0 {
		bounds = image.Rect(0, 0, side, side)
	}
	dst := image.NewRGBA(bounds)
	xdraw.Draw(dst, bounds, image.Black, image.Point{}, xdraw.Src)
	if side > 0 {
		xdraw.CatmullRom.Scale(dst, bounds, bitmap, bitmap.Bounds(), xdraw.Over, nil)
	} else {
		xdraw.Copy(dst, image.Point{}, bitmap, bitmap.Bounds(), xdraw.Over, nil)
	}
	return dst
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
