// Package main provides the ocean field sampling HTTP server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"go.ngs.io/ocean-field/internal/adapter/geodesy"
	"go.ngs.io/ocean-field/internal/adapter/store"
	"go.ngs.io/ocean-field/internal/adapter/store/roms"
	"go.ngs.io/ocean-field/internal/config"
	httpHandler "go.ngs.io/ocean-field/internal/http"
	"go.ngs.io/ocean-field/internal/usecase"
)

const (
	version         = "0.1.0"
	shutdownTimeout = 10 * time.Second
)

func main() {
	// Parse command-line flags.
	showHelp := flag.Bool("help", false, "Show usage information")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showHelp {
		printUsage()
		return
	}

	if *showVersion {
		fmt.Printf("ocean-field version %s\n", version)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	log := cfg.NewLogger()

	log.Printf("Starting ocean field server...")
	log.Printf("Port: %s", cfg.Port)
	log.Printf("ROMS file: %s", cfg.ROMSFile)
	log.Printf("Origin: %.5f, %.5f", cfg.OriginLat, cfg.OriginLon)

	// Load dataset.
	romsStore := roms.NewStore(cfg.ROMSFile, cfg.VarNames(), cfg.Origin())
	romsStore.Log = log

	// Cast to interface.
	var loader store.DatasetLoader = romsStore
	ds, err := loader.Load()
	if err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}

	sampler, err := usecase.NewSampler(ds,
		usecase.WithMaxSearchRadius(cfg.MaxSearchRadius),
		usecase.WithLogger(log),
	)
	if err != nil {
		log.Fatalf("Failed to initialize sampler: %v", err)
	}

	geo, err := geodesy.NewConverter(cfg.Origin())
	if err != nil {
		log.Fatalf("Invalid origin: %v", err)
	}

	// Setup router.
	handler := httpHandler.NewHandler(sampler, geo, log)
	router := httpHandler.SetupRouter(handler, cfg.CORSAllowedOrigins)

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("Server listening on %s", addr)
	log.Printf("Health check: http://localhost:%s/health", cfg.Port)
	log.Printf("API endpoints:")
	log.Printf("  - GET /v1/dataset")
	log.Printf("  - GET /v1/field")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Printf("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// printUsage prints usage information.
func printUsage() {
	fmt.Printf("Ocean Field Server v%s\n\n", version)
	fmt.Println("USAGE:")
	fmt.Println("  server [flags]")
	fmt.Println()
	fmt.Println("FLAGS:")
	fmt.Println("  -help          Show this help message")
	fmt.Println("  -version       Show version information")
	fmt.Println()
	fmt.Println("ENVIRONMENT VARIABLES (also read from ./.env):")
	fmt.Println("  PORT                    Server port (default: 8080)")
	fmt.Println("  ROMS_FILE               ROMS history file (default: ./data/roms_his.nc)")
	fmt.Println("  ROMS_SCALAR_VAR         Scalar variable on the rho grid (default: temp)")
	fmt.Println("  ROMS_EAST_VAR           Vector component on the u grid (default: u)")
	fmt.Println("  ROMS_NORTH_VAR          Vector component on the v grid (default: v)")
	fmt.Println("                          Set both to empty to skip the vector field")
	fmt.Println("  ORIGIN_LAT              Latitude of the planar origin (default: 41.5)")
	fmt.Println("  ORIGIN_LON              Longitude of the planar origin (default: -70.7)")
	fmt.Println("  MAX_SEARCH_RADIUS       Nearest-node search radius in meters (default: 100000)")
	fmt.Println("  CORS_ALLOWED_ORIGINS    Comma-separated list of allowed origins (default: all origins)")
	fmt.Println("  LOG_LEVEL               trace, debug, info, warn or error (default: info)")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  # Start server with default settings")
	fmt.Println("  server")
	fmt.Println()
	fmt.Println("  # Serve salinity on a custom port")
	fmt.Println("  PORT=3000 ROMS_SCALAR_VAR=salt server")
	fmt.Println()
	fmt.Println("API ENDPOINTS:")
	fmt.Println("  GET /health                             Health check")
	fmt.Println("  GET /v1/dataset                         Grid sizes and time range")
	fmt.Println("  GET /v1/field?x=&y=&depth=&t=           Sample at planar meters and axis seconds")
	fmt.Println("  GET /v1/field?lat=&lon=&depth=&time=    Sample at a position and RFC3339 time")
	fmt.Println()
}
