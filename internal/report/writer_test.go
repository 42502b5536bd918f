package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guarzo/psalistings/internal/model"
)

func sampleRecords() []model.CardRecord {
	return []model.CardRecord{
		{
			Title:     "Pokémon Japanese Charizard <Holo> & Friends PSA 10",
			Price:     "1499.99",
			Currency:  "JPY",
			Condition: "Graded",
			ItemURL:   "https://www.ebay.com/itm/1?a=1&b=2",
			ImageURL:  "https://i.ebayimg.com/1.jpg",
			Seller:    "ポケモン_shop",
		},
		{
			Title:     "X",
			Price:     "N/A",
			Currency:  "USD",
			Condition: "N/A",
			ItemURL:   "N/A",
			ImageURL:  "N/A",
			Seller:    "N/A",
		},
	}
}

func fixedWriter(dir string) *Writer {
	w := NewWriter(dir, "")
	w.Now = func() time.Time {
		return time.Date(2024, time.March, 5, 14, 7, 9, 0, time.UTC)
	}
	return w
}

func TestWriter_Filename(t *testing.T) {
	w := fixedWriter("")
	assert.Equal(t, "ebay_ptcg_results_20240305_140709.json", w.Filename(w.Now()))

	w.Prefix = "charizard"
	assert.Equal(t, "charizard_20240305_140709.json", w.Filename(w.Now()))
}

func TestWriter_SaveGeneratesTimestampedName(t *testing.T) {
	dir := t.TempDir()
	w := fixedWriter(dir)

	path, err := w.Save(sampleRecords(), "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "ebay_ptcg_results_20240305_140709.json"), path)
	assert.FileExists(t, path)
}

func TestWriter_SaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	w := fixedWriter(dir)
	records := sampleRecords()

	path, err := w.Save(records, "charizard_psa10.json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "charizard_psa10.json"), path)

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, records, loaded)
}

func TestWriter_SaveKeepsTextUnescaped(t *testing.T) {
	dir := t.TempDir()
	path, err := fixedWriter(dir).Save(sampleRecords(), "out.json")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "Pokémon Japanese Charizard <Holo> & Friends")
	assert.Contains(t, content, "ポケモン_shop")
	assert.Contains(t, content, "?a=1&b=2")
	assert.NotContains(t, content, `\u00e9`)
	assert.NotContains(t, content, `\u0026`)
	assert.True(t, strings.HasPrefix(content, "[\n  {\n    \"title\""), "expected two-space indented array, got:\n%s", content)
}

func TestWriter_SaveEmpty(t *testing.T) {
	dir := t.TempDir()
	w := fixedWriter(dir)

	for _, records := range [][]model.CardRecord{nil, {}} {
		path, err := w.Save(records, "empty.json")
		require.NoError(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "[]", strings.TrimSpace(string(data)))
	}
}

func TestWriter_SaveOverwrites(t *testing.T) {
	dir := t.TempDir()
	w := fixedWriter(dir)

	_, err := w.Save(sampleRecords(), "same.json")
	require.NoError(t, err)
	path, err := w.Save(sampleRecords()[:1], "same.json")
	require.NoError(t, err)

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
}

func TestWriter_AbsoluteFilenameIgnoresDir(t *testing.T) {
	dir := t.TempDir()
	abs := filepath.Join(t.TempDir(), "nested", "abs.json")

	path, err := fixedWriter(dir).Save(sampleRecords(), abs)
	require.NoError(t, err)
	assert.Equal(t, abs, path)
	assert.FileExists(t, abs)
}

func TestWriter_SaveCSV(t *testing.T) {
	dir := t.TempDir()
	records := sampleRecords()
	records[1].Seller = "=evil()"

	path, err := fixedWriter(dir).SaveCSV(records, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "ebay_ptcg_results_20240305_140709.csv"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, CSVHeader, rows[0])
	assert.Equal(t, records[0].Title, rows[1][0])
	assert.Equal(t, "'=evil()", rows[2][6])
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o644))
	_, err = Load(bad)
	assert.Error(t, err)
}

func TestCSVPath(t *testing.T) {
	assert.Equal(t, "out/charizard_psa10.csv", CSVPath("out/charizard_psa10.json"))
	assert.Equal(t, "noext.csv", CSVPath("noext"))
}
