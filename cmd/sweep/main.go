package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/roman-mazur/filaments/painter/lang"
)

const url = "http://localhost:17000"

var (
	server = flag.String("url", url, "command server address")
	delay  = flag.Duration("delay", 200*time.Millisecond, "pause between steps")
	steps  = flag.Int("steps", 40, "number of steps")
	from   = flag.Float64("from", 1, "first frequency of path B")
	to     = flag.Float64("to", 21, "last frequency of path B")
	radius = flag.Float64("radius", 256, "radius of path B")
	sides  = flag.Int("n", 4, "polygon sides of path B")
)

// stepScript is the command script for step i of n.
func stepScript(i, n int) string {
	freq := *from
	if n > 1 {
		freq += (*to - *from) * float64(i) / float64(n-1)
	}
	return fmt.Sprintf("polygon 1 %d %.3f %.1f", *sides, freq, *radius)
}

func main() {
	flag.Parse()
	ctx := context.Background()

	fmt.Println("Resetting scene...")
	if err := lang.Send(ctx, http.DefaultClient, *server, "reset"); err != nil {
		log.Fatalf("Error resetting: %v", err)
	}

	fmt.Println("Sweeping path B frequency...")
	for i := 0; i < *steps; i++ {
		script := stepScript(i, *steps)
		fmt.Printf("Step %d: %s\n", i+1, script)
		if err := lang.Send(ctx, http.DefaultClient, *server, script); err != nil {
			log.Fatalf("Error on step %d: %v", i+1, err)
		}
		time.Sleep(*delay)
	}
	fmt.Println("Sweep finished.")
}
