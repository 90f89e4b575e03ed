// Package main replays a probe track through the field engine and writes
// one sampled row per track point.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"go.ngs.io/ocean-field/internal/adapter/store"
	"go.ngs.io/ocean-field/internal/adapter/store/csv"
	"go.ngs.io/ocean-field/internal/adapter/store/roms"
	"go.ngs.io/ocean-field/internal/config"
	"go.ngs.io/ocean-field/internal/usecase"
)

func main() {
	trackPath := flag.String("track", "", "Track CSV with x,y,depth,time columns (required)")
	outPath := flag.String("out", "", "Output CSV path (default: stdout)")
	romsFile := flag.String("roms", "", "ROMS file (overrides ROMS_FILE)")
	flag.Parse()

	if *trackPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: track-sampler -track track.csv [-out samples.csv] [-roms roms_his.nc]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	if *romsFile != "" {
		cfg.ROMSFile = *romsFile
	}
	log := cfg.NewLogger()
	log.SetOutput(os.Stderr)

	track, err := csv.LoadTrack(*trackPath)
	if err != nil {
		log.Fatalf("Failed to read track: %v", err)
	}
	log.Printf("Loaded %d track points from %s", len(track), *trackPath)

	romsStore := roms.NewStore(cfg.ROMSFile, cfg.VarNames(), cfg.Origin())
	romsStore.Log = log

	// Cast to interface.
	var loader store.DatasetLoader = romsStore
	ds, err := loader.Load()
	if err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}

	engine, err := usecase.NewEngine(ds,
		usecase.WithMaxSearchRadius(cfg.MaxSearchRadius),
		usecase.WithLogger(log),
	)
	if err != nil {
		log.Fatalf("Failed to initialize engine: %v", err)
	}

	out := os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			log.Fatalf("Failed to create output: %v", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	w, err := csv.NewResultWriter(out)
	if err != nil {
		log.Fatalf("Failed to write output: %v", err)
	}

	failed := 0
	for _, q := range track {
		ok := engine.Update(q.X, q.Y, q.Depth, q.Time)
		if !ok {
			failed++
		}
		if err := w.Write(q, engine.Result(), ok); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
	}
	if err := w.Flush(); err != nil {
		log.Fatalf("Failed to write output: %v", err)
	}

	log.WithFields(logrus.Fields{
		"points": len(track),
		"failed": failed,
		"state":  engine.State(),
	}).Info("track sampled")
}
