package pipeline

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/guarzo/psalistings/internal/config"
	"github.com/guarzo/psalistings/internal/ebay"
	"github.com/guarzo/psalistings/internal/metrics"
	"github.com/guarzo/psalistings/internal/normalize"
	"github.com/guarzo/psalistings/internal/progress"
	"github.com/guarzo/psalistings/internal/query"
	"github.com/guarzo/psalistings/internal/report"
)

// Output describes what one search produced
type Output struct {
	Label    string `json:"label"`
	Query    string `json:"query"`
	Records  int    `json:"records"`
	JSONPath string `json:"json_path"`
	CSVPath  string `json:"csv_path,omitempty"`
}

// RunResult summarizes one batch run
type RunResult struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Outputs    []Output  `json:"outputs"`
	Error      string    `json:"error,omitempty"`
}

// Runner executes searches one after another: search, normalize, display, save.
type Runner struct {
	searcher ebay.Searcher
	writer   *report.Writer
	out      io.Writer
	csv      bool
	quiet    bool
	progress io.Writer
}

// RunnerOption configures a Runner
type RunnerOption func(*Runner)

// WithOutput sets where banners and listings are printed (stdout by default).
func WithOutput(w io.Writer) RunnerOption {
	return func(r *Runner) {
		r.out = w
	}
}

// WithCSV also writes a CSV file next to every JSON file.
func WithCSV(enabled bool) RunnerOption {
	return func(r *Runner) {
		r.csv = enabled
	}
}

// WithProgress sets where batch progress goes; nil silences it.
func WithProgress(w io.Writer) RunnerOption {
	return func(r *Runner) {
		r.progress = w
		r.quiet = w == nil
	}
}

// NewRunner creates a runner over a searcher and a file writer
func NewRunner(searcher ebay.Searcher, writer *report.Writer, opts ...RunnerOption) *Runner {
	r := &Runner{
		searcher: searcher,
		writer:   writer,
		out:      os.Stdout,
		progress: os.Stderr,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes searches in order and stops at the first failure. Files
// written by earlier searches are kept and listed in the returned result.
func (r *Runner) Run(ctx context.Context, searches []config.Search) (*RunResult, error) {
	result := &RunResult{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		Outputs:   make([]Output, 0, len(searches)),
	}
	log.Printf("Pipeline: run %s starting %d searches", result.ID, len(searches))

	indicator := progress.NewIndicator(r.progress, "Running searches", len(searches), !r.quiet)
	indicator.Start()

	for i, s := range searches {
		report.Banner(r.out, fmt.Sprintf("EXAMPLE %d: %s", i+1, s.Label))
		indicator.Step(i+1, s.Label)

		output, err := r.RunOne(ctx, s)
		if err != nil {
			err = fmt.Errorf("search %q: %w", s.Label, err)
			indicator.FinishWithError(err)
			result.FinishedAt = time.Now()
			result.Error = err.Error()
			log.Printf("Pipeline: run %s aborted after %d/%d searches: %v", result.ID, i, len(searches), err)
			return result, err
		}
		result.Outputs = append(result.Outputs, output)
	}

	indicator.Finish()
	result.FinishedAt = time.Now()
	log.Printf("Pipeline: run %s completed %d searches", result.ID, len(searches))
	return result, nil
}

// RunOne executes a single search and saves its records.
func (r *Runner) RunOne(ctx context.Context, s config.Search) (Output, error) {
	output := Output{
		Label: s.Label,
		Query: query.FromFilters(s.Filters()),
	}

	raw, err := r.searcher.Search(ctx, s.Filters())
	if err != nil {
		metrics.SearchesTotal.WithLabelValues(metrics.Outcome(err)).Inc()
		return output, err
	}
	metrics.SearchesTotal.WithLabelValues(metrics.Outcome(nil)).Inc()

	records := normalize.Records(raw)
	metrics.ListingsTotal.Add(float64(len(records)))
	output.Records = len(records)

	report.Display(r.out, records)

	filename := s.Output
	if filename == "" {
		filename = r.writer.NextFilename()
	}

	path, err := r.writer.Save(records, filename)
	if err != nil {
		return output, fmt.Errorf("saving results: %w", err)
	}
	metrics.FilesWrittenTotal.WithLabelValues("json").Inc()
	output.JSONPath = path
	fmt.Fprintf(r.out, "\n✓ Results saved to %s\n", path)

	if r.csv {
		csvPath, err := r.writer.SaveCSV(records, report.CSVPath(filename))
		if err != nil {
			return output, fmt.Errorf("saving csv: %w", err)
		}
		metrics.FilesWrittenTotal.WithLabelValues("csv").Inc()
		output.CSVPath = csvPath
		fmt.Fprintf(r.out, "✓ CSV saved to %s\n", csvPath)
	}

	return output, nil
}
