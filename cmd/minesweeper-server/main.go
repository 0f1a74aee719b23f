// minesweeper-server serves matches over a JSON HTTP API.
//
// Configuration is read from the flags, whose defaults can be set with the environment
// variables MINESWEEPER_ADDR, MINESWEEPER_MAX_SESSIONS, MINESWEEPER_MAX_CELLS and
// MINESWEEPER_DEBUG. A ".env" file in the current directory, if present, is loaded first.
package main

import (
	"context"
	"flag"
	"github.com/gin-gonic/gin"
	"github.com/janpfeifer/sweepGo/internal/server"
	"github.com/janpfeifer/sweepGo/internal/ui/spinning"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
	"net/http"
	"os"
	"strconv"
	"time"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		klog.Warningf("Failed to load .env: %v", err)
	}
	var (
		flagAddr = flag.String("addr", envOr("MINESWEEPER_ADDR", ":8080"), "Address to listen to.")
		flagMax  = flag.Int("max_sessions", envIntOr("MINESWEEPER_MAX_SESSIONS", server.DefaultMaxSessions),
			"Maximum number of matches kept in memory, the oldest are evicted.")
		flagMaxCells = flag.Int("max_cells", envIntOr("MINESWEEPER_MAX_CELLS", server.DefaultMaxCells),
			"Maximum number of cells (width x height) of a match.")
		flagDebug = flag.Bool("debug", envOr("MINESWEEPER_DEBUG", "") == "true",
			"Debug mode: disclose the hazards in every reply.")
	)
	klog.InitFlags(nil)
	flag.Parse()
	if !klog.V(1).Enabled() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithCancel(context.Background())
	spinning.SafeInterrupt(cancel, 10*time.Second)
	defer cancel()

	s := server.New(server.Options{MaxSessions: *flagMax, MaxCells: *flagMaxCells, Debug: *flagDebug})
	srv := &http.Server{
		Addr:    *flagAddr,
		Handler: s.Router(),
	}
	go func() {
		klog.Infof("Listening on %s", *flagAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			klog.Fatalf("Listen failed: %v", err)
		}
	}()

	<-ctx.Done()
	klog.Infof("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		klog.Errorf("Server forced to shutdown: %v", err)
	}
	klog.Infof("Server exited")
}

func envOr(key, defaultValue string) string {
	if value, found := os.LookupEnv(key); found {
		return value
	}
	return defaultValue
}

func envIntOr(key string, defaultValue int) int {
	value, found := os.LookupEnv(key)
	if !found {
		return defaultValue
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		klog.Fatalf("Invalid %s=%q: %v", key, value, err)
	}
	return i
}
