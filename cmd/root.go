package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/natefinch/lumberjack"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/transit-sim/transit-sim/sim"
	"github.com/transit-sim/transit-sim/sim/csvlog"
	"github.com/transit-sim/transit-sim/sim/trace"
)

// Environment variables read after loading .env.
const (
	envLogDir = "TRANSIT_LOG_DIR"
	envAddr   = "TRANSIT_ADDR"
	envConfig = "TRANSIT_CONFIG"
)

var (
	// CLI flags shared by run and serve
	configPath string // YAML network file; empty uses the embedded default
	seed       int64  // Seed for passenger arrivals and random bus sizes
	strategy   string // Depot strategy A..D, or auto
	logLevel   string // Log verbosity level
	logDir     string // Directory for BusData.csv and PassData.csv
	logFile    string // Optional rotating file for application logs
	traceLevel string // Decision trace level: none or decisions

	// run flags
	numSteps int  // Number of ticks to simulate
	verbose  bool // Print every bus and route report each tick
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "transit-sim",
	Short: "Discrete-time simulator for a bus transit network",
}

// runCmd executes a fixed number of ticks and prints run metrics
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the transit simulation",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		cfg := loadConfig(cmd)

		writer := csvlog.New(logDir, csvlog.DefaultOptions)
		defer writer.Close()

		var report io.Writer
		if verbose {
			report = os.Stdout
		}
		s, err := runSimulation(cfg, numSteps, writer, report)
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		s.Metrics().Print(os.Stdout)
		if s.Trace().Enabled() {
			printTraceSummary(os.Stdout, trace.Summarize(s.Trace()))
		}
		logrus.Infof("Records written to %s", writer.Dir())
	},
}

// setupLogging applies --log and, if --log-file is set, sends logrus output
// to a rotating file.
func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
	if logFile != "" {
		logrus.SetOutput(&lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 7,
			MaxAge:     7, // days
			Compress:   true,
		})
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	}
}

// loadConfig reads the network and applies flag overrides. Flags only
// override the file when set explicitly.
func loadConfig(cmd *cobra.Command) *sim.SimConfig {
	cfg, err := loadNetwork(configPath)
	if err != nil {
		logrus.Fatalf("Failed to load network: %v", err)
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("strategy") {
		cfg.Strategy = strategy
	}
	if cmd.Flags().Changed("trace-level") {
		cfg.Trace = traceLevel
	}
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("Invalid configuration: %v", err)
	}
	logrus.Infof("Network: %d route pairs, seed %d, strategy %q", len(cfg.Routes), cfg.Seed, cfg.Strategy)
	return cfg
}

// newSimulator builds the routes of cfg and a simulator over them.
func newSimulator(cfg *sim.SimConfig, log sim.LogWriter, vis sim.Visualizer, report io.Writer) (*sim.Simulator, error) {
	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(cfg.Seed))
	pairs, err := cfg.BuildRoutes(rng, &sim.IDSource{})
	if err != nil {
		return nil, err
	}
	var tr *trace.DeploymentTrace
	if trace.TraceLevel(cfg.Trace) == trace.TraceLevelDecisions {
		tr = trace.NewDeploymentTrace(trace.TraceLevelDecisions)
	}
	return sim.NewSimulator(sim.SimulatorConfig{
		Routes:     pairs,
		Strategy:   cfg.Strategy,
		Log:        log,
		Visualizer: vis,
		Trace:      tr,
		Report:     report,
	}, rng)
}

// runSimulation runs steps ticks of cfg and returns the finished simulator.
func runSimulation(cfg *sim.SimConfig, steps int, log sim.LogWriter, report io.Writer) (*sim.Simulator, error) {
	if steps <= 0 {
		return nil, errors.New("steps must be positive")
	}
	s, err := newSimulator(cfg, log, nil, report)
	if err != nil {
		return nil, err
	}
	if err := s.Start(nil, steps); err != nil {
		return nil, err
	}
	for !s.Done() {
		s.Update()
	}
	logrus.Infof("[tick %07d] Simulation ended", s.Tick())
	return s, nil
}

func printTraceSummary(w io.Writer, summary *trace.TraceSummary) {
	fmt.Fprintln(w, "=== Deployment Trace ===")
	fmt.Fprintf(w, "Deployments          : %d\n", summary.TotalDeployments)
	fmt.Fprintf(w, "Routes Served        : %d\n", summary.UniqueRoutes)
	fmt.Fprintf(w, "Total Capacity       : %d\n", summary.TotalCapacity)
	fmt.Fprintf(w, "Completed Trips      : %d\n", summary.CompletedTrips)
	if summary.CompletedTrips > 0 {
		fmt.Fprintf(w, "Mean Trip Length     : %.2f ticks\n", summary.MeanTripTicks)
		fmt.Fprintf(w, "Max Trip Length      : %d ticks\n", summary.MaxTripTicks)
	}
}

// envOr returns the environment value of key, or def when unset.
func envOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// A missing .env is fine; the variables may come from the environment.
	if err := godotenv.Load(); err != nil {
		logrus.Debugf("no .env loaded: %v", err)
	}

	for _, c := range []*cobra.Command{runCmd, serveCmd} {
		c.Flags().StringVar(&configPath, "config", envOr(envConfig, ""), "YAML network file (default: embedded network)")
		c.Flags().Int64Var(&seed, "seed", 42, "Seed for passenger arrivals and random bus sizes")
		c.Flags().StringVar(&strategy, "strategy", "auto", "Depot strategy: A, B, C, D or auto (time of day)")
		c.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
		c.Flags().StringVar(&logDir, "log-dir", envOr(envLogDir, "."), "Directory for BusData.csv and PassData.csv")
		c.Flags().StringVar(&logFile, "log-file", "", "Rotating file for application logs (default: stderr)")
		c.Flags().StringVar(&traceLevel, "trace-level", "none", "Decision trace level: none or decisions")
	}

	runCmd.Flags().IntVar(&numSteps, "steps", 100, "Number of ticks to simulate")
	runCmd.Flags().BoolVar(&verbose, "verbose", false, "Print every bus and route report each tick")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
}
