package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/guarzo/psalistings/internal/model"
)

// DefaultPrefix names timestamped result files.
const DefaultPrefix = "ebay_ptcg_results"

const timestampLayout = "20060102_150405"

// Writer persists record sets as JSON (and optionally CSV) files.
type Writer struct {
	// Dir is prepended to relative filenames. Empty means the working directory.
	Dir string
	// Prefix is used for generated filenames.
	Prefix string
	// Now supplies the time for generated filenames.
	Now func() time.Time
}

// NewWriter creates a writer using the wall clock
func NewWriter(dir, prefix string) *Writer {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Writer{Dir: dir, Prefix: prefix, Now: time.Now}
}

// Filename returns the generated name for a save at t: <prefix>_YYYYMMDD_HHMMSS.json
func (w *Writer) Filename(t time.Time) string {
	prefix := w.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return fmt.Sprintf("%s_%s.json", prefix, t.Format(timestampLayout))
}

// NextFilename returns the generated filename for a save happening now.
func (w *Writer) NextFilename() string {
	return w.Filename(w.now())
}

// Save writes records as indented JSON and returns the path written. An empty
// filename generates a timestamped one. Existing files are overwritten.
func (w *Writer) Save(records []model.CardRecord, filename string) (string, error) {
	if filename == "" {
		filename = w.NextFilename()
	}
	path := w.resolve(filename)

	data, err := Marshal(records)
	if err != nil {
		return "", err
	}

	if err := w.write(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// SaveCSV writes records as CSV with a header row and returns the path written.
func (w *Writer) SaveCSV(records []model.CardRecord, filename string) (string, error) {
	if filename == "" {
		filename = CSVPath(w.NextFilename())
	}
	path := w.resolve(filename)

	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write(CSVHeader); err != nil {
		return "", fmt.Errorf("writing csv header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write(CSVRow(r)); err != nil {
			return "", fmt.Errorf("writing csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("flushing csv: %w", err)
	}

	if err := w.write(path, buf.Bytes()); err != nil {
		return "", err
	}
	return path, nil
}

// Marshal encodes records the way Save writes them: two-space indent, with
// HTML characters and non-ASCII text left unescaped. nil encodes as [].
func Marshal(records []model.CardRecord) ([]byte, error) {
	if records == nil {
		records = []model.CardRecord{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, fmt.Errorf("encoding records: %w", err)
	}
	return buf.Bytes(), nil
}

// Load reads a file written by Save.
func Load(path string) ([]model.CardRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var records []model.CardRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return records, nil
}

// CSVPath returns the CSV sibling of a JSON output path.
func CSVPath(jsonPath string) string {
	return strings.TrimSuffix(jsonPath, filepath.Ext(jsonPath)) + ".csv"
}

func (w *Writer) now() time.Time {
	if w.Now == nil {
		return time.Now()
	}
	return w.Now()
}

func (w *Writer) resolve(filename string) string {
	if w.Dir == "" || filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(w.Dir, filename)
}

func (w *Writer) write(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
