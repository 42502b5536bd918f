package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/guarzo/psalistings/internal/config"
	"github.com/guarzo/psalistings/internal/ebay"
	"github.com/guarzo/psalistings/internal/model"
	"github.com/guarzo/psalistings/internal/pipeline"
	"github.com/guarzo/psalistings/internal/report"
	"github.com/guarzo/psalistings/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Println(".env file not loaded:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	configPath  string
	name        string
	setName     string
	grade       int
	limit       int
	output      string
	sandbox     bool
	outDir      string
	prefix      string
	csv         bool
	quiet       bool
	schedule    string
	metricsAddr string

	set map[string]bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{set: map[string]bool{}}

	flags := flag.NewFlagSet("psalistings", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVar(&opts.configPath, "config", "", "YAML batch file of searches")
	flags.StringVar(&opts.name, "name", "", "card name for a single search (e.g. Charizard)")
	flags.StringVar(&opts.setName, "set", "", "set name for a single search (e.g. \"Base Set\")")
	flags.IntVar(&opts.grade, "grade", 0, "PSA grade for a single search (e.g. 10)")
	flags.IntVar(&opts.limit, "limit", model.DefaultLimit, "results per page for a single search (0 means the default of 50)")
	flags.StringVar(&opts.output, "output", "", "output filename for a single search (default: timestamped)")
	flags.BoolVar(&opts.sandbox, "sandbox", true, "use the eBay sandbox instead of production")
	flags.StringVar(&opts.outDir, "out-dir", "", "directory for result files")
	flags.StringVar(&opts.prefix, "prefix", "", "prefix for timestamped result files")
	flags.BoolVar(&opts.csv, "csv", false, "also write a CSV file next to each JSON file")
	flags.BoolVar(&opts.quiet, "quiet", false, "suppress progress output")
	flags.StringVar(&opts.schedule, "schedule", "", "cron expression to re-run the batch (e.g. \"@hourly\")")
	flags.StringVar(&opts.metricsAddr, "metrics-addr", "", "address for /health, /metrics and /runs/latest while scheduled")

	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	flags.Visit(func(f *flag.Flag) {
		opts.set[f.Name] = true
	})
	return opts, nil
}

// adHoc reports whether the flags describe a single search
func (o *options) adHoc() bool {
	return o.set["name"] || o.set["set"] || o.set["grade"]
}

func (o *options) search() config.Search {
	s := config.Search{
		Label:   "Custom search",
		Name:    o.name,
		SetName: o.setName,
		Limit:   o.limit,
		Output:  o.output,
	}
	if o.set["grade"] {
		s.Grade = model.Grade(o.grade)
	}
	return s
}

func buildConfig(opts *options) (*config.Config, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}

	if opts.configPath != "" {
		file, err := config.LoadSearches(opts.configPath)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", opts.configPath, err)
		}
		file.Apply(cfg)
	}

	if opts.set["sandbox"] {
		cfg.Sandbox = opts.sandbox
	}
	if opts.outDir != "" {
		cfg.OutputDir = opts.outDir
	}
	if opts.prefix != "" {
		cfg.FilePrefix = opts.prefix
	}
	if opts.csv {
		cfg.CSV = true
	}
	if opts.schedule != "" {
		cfg.Schedule = opts.schedule
	}
	if opts.metricsAddr != "" {
		cfg.MetricsAddr = opts.metricsAddr
	}
	if opts.adHoc() {
		cfg.Searches = []config.Search{opts.search()}
	}
	return cfg, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := buildConfig(opts)
	if err != nil {
		fmt.Fprintf(stderr, "Configuration error: %v\n", err)
		return 1
	}

	if !cfg.HasCredentials() {
		fmt.Fprintln(stdout, "⚠️  "+config.CredentialsHelp)
		return 0
	}

	var progressOut io.Writer = stderr
	if opts.quiet {
		progressOut = nil
	}

	writer := report.NewWriter(cfg.OutputDir, cfg.FilePrefix)
	newRunner := func() *pipeline.Runner {
		client := ebay.NewClient(cfg.Credentials, cfg.Sandbox, ebay.WithRateLimit(cfg.RequestsPerSecond))
		return pipeline.NewRunner(client, writer,
			pipeline.WithOutput(stdout),
			pipeline.WithCSV(cfg.CSV),
			pipeline.WithProgress(progressOut),
		)
	}
	searches := cfg.SearchesOrDefault()

	if cfg.Schedule == "" {
		if _, err := newRunner().Run(ctx, searches); err != nil {
			reportFailure(stderr, err)
			return 1
		}
		return 0
	}

	sched, err := pipeline.NewScheduler(cfg.Schedule, searches, newRunner)
	if err != nil {
		fmt.Fprintf(stderr, "Configuration error: %v\n", err)
		return 1
	}

	if cfg.MetricsAddr != "" {
		srv := &http.Server{
			Addr:    cfg.MetricsAddr,
			Handler: server.SetupRouter(sched),
		}
		go func() {
			log.Printf("Starting metrics server on %s", cfg.MetricsAddr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("Metrics server failed: %v", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Printf("Metrics server forced to shutdown: %v", err)
			}
		}()
	}

	// first batch runs immediately; failures are recorded, not fatal, in scheduled mode
	if _, err := sched.RunNow(ctx); err != nil {
		reportFailure(stderr, err)
	}

	if err := sched.Start(ctx); err != nil {
		fmt.Fprintf(stderr, "Scheduler error: %v\n", err)
		return 1
	}
	return 0
}

func reportFailure(w io.Writer, err error) {
	switch {
	case ebay.IsAuthError(err):
		fmt.Fprintf(w, "Authentication failed, check EBAY_CLIENT_ID / EBAY_CLIENT_SECRET: %v\n", err)
	case ebay.IsSearchError(err):
		fmt.Fprintf(w, "Search failed: %v\n", err)
	default:
		fmt.Fprintf(w, "Run failed: %v\n", err)
	}
}
