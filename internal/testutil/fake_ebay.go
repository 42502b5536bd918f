package testutil

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"

	"github.com/andybalholm/brotli"
)

// FakeEbay is an httptest server that answers the token and Browse search
// endpoints. Handlers record what they received so tests can assert on it.
type FakeEbay struct {
	server *httptest.Server

	mu sync.Mutex

	TokenStatus int
	TokenBody   string

	SearchStatus   int
	SearchBody     any    // marshalled as JSON unless it is a string
	SearchEncoding string // "", "gzip" or "br"

	TokenCalls  int
	SearchCalls int

	LastTokenForm   url.Values
	LastBasicUser   string
	LastBasicPass   string
	LastSearchQuery url.Values
	LastSearchAuth  string
}

// NewFakeEbay starts a fake API that issues DefaultTestAccessToken and returns
// an empty search envelope. Close it with t.Cleanup(f.Close).
func NewFakeEbay() *FakeEbay {
	f := &FakeEbay{
		TokenStatus: http.StatusOK,
		TokenBody: `{"access_token":"` + DefaultTestAccessToken +
			`","expires_in":7200,"token_type":"Application Access Token"}`,
		SearchStatus: http.StatusOK,
		SearchBody:   map[string]any{"total": 0},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/identity/v1/oauth2/token", f.handleToken)
	mux.HandleFunc("/buy/browse/v1/item_summary/search", f.handleSearch)
	f.server = httptest.NewServer(mux)
	return f
}

// URL returns the base URL to hand to the client
func (f *FakeEbay) URL() string {
	return f.server.URL
}

// Client returns an http.Client wired to the fake server
func (f *FakeEbay) Client() *http.Client {
	return f.server.Client()
}

// Close shuts down the server
func (f *FakeEbay) Close() {
	f.server.Close()
}

// Calls returns the number of token and search requests received
func (f *FakeEbay) Calls() (token, search int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.TokenCalls, f.SearchCalls
}

// SetSearchResponse replaces the search status and body
func (f *FakeEbay) SetSearchResponse(status int, body any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SearchStatus = status
	f.SearchBody = body
}

// SetTokenResponse replaces the token status and body
func (f *FakeEbay) SetTokenResponse(status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.TokenStatus = status
	f.TokenBody = body
}

func (f *FakeEbay) handleToken(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.TokenCalls++
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err == nil {
		f.LastTokenForm = r.PostForm
	}
	f.LastBasicUser, f.LastBasicPass, _ = r.BasicAuth()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(f.TokenStatus)
	_, _ = w.Write([]byte(f.TokenBody))
}

func (f *FakeEbay) handleSearch(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.SearchCalls++
	f.LastSearchQuery = r.URL.Query()
	f.LastSearchAuth = r.Header.Get("Authorization")

	var body []byte
	switch b := f.SearchBody.(type) {
	case string:
		body = []byte(b)
	default:
		encoded, err := json.Marshal(b)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		body = encoded
	}

	body = encode(body, f.SearchEncoding)
	if f.SearchEncoding != "" {
		w.Header().Set("Content-Encoding", f.SearchEncoding)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(f.SearchStatus)
	_, _ = w.Write(body)
}

func encode(body []byte, encoding string) []byte {
	var buf bytes.Buffer
	switch encoding {
	case "gzip":
		gzipWriter := gzip.NewWriter(&buf)
		_, _ = gzipWriter.Write(body)
		_ = gzipWriter.Close()
	case "br":
		brotliWriter := brotli.NewWriter(&buf)
		_, _ = brotliWriter.Write(body)
		_ = brotliWriter.Close()
	default:
		return body
	}
	return buf.Bytes()
}
