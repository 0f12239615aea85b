package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/transit-sim/transit-sim/sim/csvlog"
	"github.com/transit-sim/transit-sim/sim/vis"
)

var (
	// serve flags
	addr         string        // Listen address
	tickInterval time.Duration // Wall time between ticks
	origins      []string      // Allowed CORS / WebSocket origins
	serveSteps   int           // Ticks to run before idling; 0 runs until stopped
)

// serveCmd runs the simulation continuously and serves snapshots over HTTP/WebSocket
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the simulation behind the visualization server",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		cfg := loadConfig(cmd)
		if logrus.GetLevel() < logrus.DebugLevel {
			gin.SetMode(gin.ReleaseMode)
		}

		writer := csvlog.New(logDir, csvlog.DefaultOptions)
		defer writer.Close()

		store := vis.NewStore()
		s, err := newSimulator(cfg, writer, store, nil)
		if err != nil {
			logrus.Fatalf("Failed to build simulator: %v", err)
		}
		if err := s.Start(nil, serveSteps); err != nil {
			logrus.Fatalf("Failed to start simulator: %v", err)
		}

		srv := vis.NewServer(store, vis.Options{AllowedOrigins: origins})
		httpSrv := &http.Server{Addr: addr, Handler: srv.Handler(), ReadHeaderTimeout: 10 * time.Second}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			logrus.Infof("Serving on %s", addr)
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logrus.Errorf("HTTP server: %v", err)
				stop()
			}
		}()

		vis.Run(ctx, s, srv, tickInterval)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			logrus.Warnf("HTTP shutdown: %v", err)
		}
		s.Metrics().Print(os.Stdout)
	},
}

func init() {
	serveCmd.Flags().StringVar(&addr, "addr", envOr(envAddr, ":8081"), "Listen address")
	serveCmd.Flags().DurationVar(&tickInterval, "tick", 500*time.Millisecond, "Wall time between ticks")
	serveCmd.Flags().StringSliceVar(&origins, "origins", splitOrigins(os.Getenv("TRANSIT_ORIGINS")), "Allowed CORS/WebSocket origins (default: any)")
	serveCmd.Flags().IntVar(&serveSteps, "steps", 0, "Ticks to run before idling (0 = until stopped)")
}

func splitOrigins(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, o := range strings.Split(v, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
