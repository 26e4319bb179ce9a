package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/roman-mazur/filaments/painter/lang"
)

const url = "http://localhost:17000"

var presets = map[string]string{
	"default": `reset`,
	"rings": `reset
circle 0 1 900
circle 1 12 180
resolution 4096
alpha 0.05`,
	"star": `reset
polygon 0 5 2 900
polygon 1 3 7 300 16
resolution 8192
saturation 0.9
alpha 0.03`,
	"faceted": `reset
polygon 0 4 1 1024 8
polygon 1 6 11 256 4
brightness 0.6`,
}

func presetNames() string {
	var names []string
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func main() {
	server := flag.String("url", url, "command server address")
	name := flag.String("name", "rings", "preset to apply: "+presetNames())
	file := flag.String("file", "", "command script to send instead of a preset")
	flag.Parse()

	script, ok := presets[*name]
	if *file != "" {
		data, err := os.ReadFile(*file)
		if err != nil {
			log.Fatalf("Reading script: %v", err)
		}
		script, ok = string(data), true
	}
	if !ok {
		log.Fatalf("Unknown preset %q, known: %s", *name, presetNames())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	fmt.Println("Sending preset...")
	if err := lang.Send(ctx, http.DefaultClient, *server, script); err != nil {
		log.Fatalf("Error sending preset: %v", err)
	}
	fmt.Println("Done.")
}
