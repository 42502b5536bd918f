package pipeline

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guarzo/psalistings/internal/config"
	"github.com/guarzo/psalistings/internal/ebay"
	"github.com/guarzo/psalistings/internal/model"
	"github.com/guarzo/psalistings/internal/report"
	"github.com/guarzo/psalistings/internal/testutil"
)

// mockSearcher is a test-only Searcher returning canned responses in order
type mockSearcher struct {
	responses []ebay.RawResponse
	errs      []error
	calls     []model.SearchFilters
}

var _ ebay.Searcher = (*mockSearcher)(nil)

func (m *mockSearcher) Search(ctx context.Context, filters model.SearchFilters) (ebay.RawResponse, error) {
	i := len(m.calls)
	m.calls = append(m.calls, filters)
	if i < len(m.errs) && m.errs[i] != nil {
		return nil, m.errs[i]
	}
	if i < len(m.responses) {
		return m.responses[i], nil
	}
	return ebay.RawResponse{}, nil
}

func fixedWriter(dir string) *report.Writer {
	w := report.NewWriter(dir, "")
	w.Now = func() time.Time {
		return time.Date(2024, time.June, 1, 9, 30, 0, 0, time.UTC)
	}
	return w
}

func newFakeClient(t *testing.T, fake *testutil.FakeEbay) *ebay.Client {
	t.Helper()
	creds := ebay.Credentials{ClientID: testutil.GetTestClientID(), ClientSecret: testutil.GetTestClientSecret()}
	return ebay.NewClient(creds, true, ebay.WithBaseURL(fake.URL()), ebay.WithHTTPClient(fake.Client()))
}

func TestRunner_DefaultBatchAgainstFakeAPI(t *testing.T) {
	fake := testutil.NewFakeEbay()
	t.Cleanup(fake.Close)
	fake.SetSearchResponse(http.StatusOK, testutil.NewTestDataFactory(5).GenerateSearchResponse(3))

	dir := t.TempDir()
	var out bytes.Buffer
	runner := NewRunner(newFakeClient(t, fake), fixedWriter(dir), WithOutput(&out), WithProgress(nil))

	result, err := runner.Run(context.Background(), config.DefaultSearches())
	require.NoError(t, err)

	assert.NotEmpty(t, result.ID)
	assert.Empty(t, result.Error)
	require.Len(t, result.Outputs, 3)

	tokenCalls, searchCalls := fake.Calls()
	assert.Equal(t, 1, tokenCalls, "token should be acquired once per runner")
	assert.Equal(t, 3, searchCalls)
	assert.Equal(t, "Pokemon PSA Base Set", fake.LastSearchQuery.Get("q"))

	for i, name := range []string{"charizard_psa10.json", "pikachu_psa.json", "base_set_psa.json"} {
		path := filepath.Join(dir, name)
		assert.Equal(t, path, result.Outputs[i].JSONPath)
		assert.Equal(t, 3, result.Outputs[i].Records)

		records, err := report.Load(path)
		require.NoError(t, err)
		assert.Len(t, records, 3)
	}

	printed := out.String()
	assert.Contains(t, printed, "EXAMPLE 1: PSA 10 Charizard Cards")
	assert.Contains(t, printed, "EXAMPLE 3: Base Set PSA Graded Cards")
	assert.Contains(t, printed, "Found 3 PSA Graded Pokemon Cards")
	assert.Contains(t, printed, "✓ Results saved to "+filepath.Join(dir, "charizard_psa10.json"))
	assert.Equal(t, "Pokemon PSA Charizard PSA 10", result.Outputs[0].Query)
}

func TestRunner_AuthFailureStopsBeforeSearch(t *testing.T) {
	fake := testutil.NewFakeEbay()
	t.Cleanup(fake.Close)
	fake.SetTokenResponse(http.StatusUnauthorized, `{"error":"invalid_client"}`)

	dir := t.TempDir()
	runner := NewRunner(newFakeClient(t, fake), fixedWriter(dir), WithOutput(&bytes.Buffer{}), WithProgress(nil))

	result, err := runner.Run(context.Background(), config.DefaultSearches())
	require.Error(t, err)
	assert.True(t, ebay.IsAuthError(err))
	assert.Contains(t, err.Error(), "invalid_client")
	assert.Contains(t, result.Error, "invalid_client")
	assert.Empty(t, result.Outputs)

	_, searchCalls := fake.Calls()
	assert.Zero(t, searchCalls)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no files should be written after an auth failure")
}

func TestRunner_SearchFailureAbortsBatch(t *testing.T) {
	searcher := &mockSearcher{
		responses: []ebay.RawResponse{
			{"itemSummaries": []any{map[string]any{"title": "first"}}},
		},
		errs: []error{nil, &ebay.SearchError{StatusCode: 500, Body: "upstream down"}},
	}

	dir := t.TempDir()
	var progressOut bytes.Buffer
	runner := NewRunner(searcher, fixedWriter(dir), WithOutput(&bytes.Buffer{}), WithProgress(&progressOut))

	result, err := runner.Run(context.Background(), config.DefaultSearches())
	require.Error(t, err)
	assert.True(t, ebay.IsSearchError(err))
	assert.False(t, ebay.IsAuthError(err))
	assert.Len(t, searcher.calls, 2, "third search must not run")

	require.Len(t, result.Outputs, 1)
	assert.FileExists(t, filepath.Join(dir, "charizard_psa10.json"))
	assert.NoFileExists(t, filepath.Join(dir, "pikachu_psa.json"))
	assert.Contains(t, progressOut.String(), "Failed at 2/3")
}

func TestRunner_EmptyResults(t *testing.T) {
	searcher := &mockSearcher{responses: []ebay.RawResponse{{"total": 0}}}

	dir := t.TempDir()
	var out bytes.Buffer
	runner := NewRunner(searcher, fixedWriter(dir), WithOutput(&out), WithProgress(nil))

	output, err := runner.RunOne(context.Background(), config.Search{Label: "nothing", Name: "Missingno", Output: "none.json"})
	require.NoError(t, err)

	assert.Zero(t, output.Records)
	assert.Contains(t, out.String(), "No results found.")

	data, err := os.ReadFile(filepath.Join(dir, "none.json"))
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(string(data)))
}

func TestRunner_GeneratedFilenameAndCSV(t *testing.T) {
	searcher := &mockSearcher{responses: []ebay.RawResponse{
		{"itemSummaries": []any{map[string]any{"title": "=1+1", "seller": map[string]any{"username": "shop"}}}},
	}}

	dir := t.TempDir()
	runner := NewRunner(searcher, fixedWriter(dir), WithOutput(&bytes.Buffer{}), WithProgress(nil), WithCSV(true))

	output, err := runner.RunOne(context.Background(), config.Search{Label: "adhoc", Grade: model.Grade(9)})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "ebay_ptcg_results_20240601_093000.json"), output.JSONPath)
	assert.Equal(t, filepath.Join(dir, "ebay_ptcg_results_20240601_093000.csv"), output.CSVPath)
	assert.FileExists(t, output.CSVPath)

	require.Len(t, searcher.calls, 1)
	assert.Equal(t, 9, *searcher.calls[0].Grade)
	assert.Equal(t, model.DefaultLimit, searcher.calls[0].EffectiveLimit())
}

func TestRunner_SaveFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	searcher := &mockSearcher{}
	runner := NewRunner(searcher, fixedWriter(dir), WithOutput(&bytes.Buffer{}), WithProgress(nil))

	// a path below a regular file cannot be created
	_, err := runner.RunOne(context.Background(), config.Search{Label: "x", Output: filepath.Join("file", "out.json")})
	require.Error(t, err)
	assert.False(t, ebay.IsSearchError(err))
	assert.True(t, strings.HasPrefix(err.Error(), "saving results"))
}

func TestRunner_ContextCancelled(t *testing.T) {
	fake := testutil.NewFakeEbay()
	t.Cleanup(fake.Close)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := NewRunner(newFakeClient(t, fake), fixedWriter(t.TempDir()), WithOutput(&bytes.Buffer{}), WithProgress(nil))
	_, err := runner.Run(ctx, config.DefaultSearches())
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
