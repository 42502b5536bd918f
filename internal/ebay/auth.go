package ebay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/guarzo/psalistings/internal/metrics"
)

// Credentials identify the application to eBay's OAuth service.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// Complete reports whether both halves of the credentials are set.
func (c Credentials) Complete() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// tokenResponse represents an application access token response
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// Authenticator exchanges client credentials for an application access token
// using the client-credentials grant.
type Authenticator struct {
	credentials Credentials
	tokenURL    string
	scope       string
	httpClient  *http.Client
}

// NewAuthenticator creates an authenticator for the given API host
func NewAuthenticator(credentials Credentials, baseURL string, httpClient *http.Client) *Authenticator {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Authenticator{
		credentials: credentials,
		tokenURL:    strings.TrimRight(baseURL, "/") + tokenPath,
		scope:       DefaultScope,
		httpClient:  httpClient,
	}
}

// AcquireToken requests a new access token. It does not retry; any non-200
// answer is returned as an *AuthError carrying the response body.
func (a *Authenticator) AcquireToken(ctx context.Context) (string, error) {
	data := url.Values{}
	data.Set("grant_type", "client_credentials")
	data.Set("scope", a.scope)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	req.SetBasicAuth(a.credentials.ClientID, a.credentials.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept-Encoding", acceptEncoding)

	start := time.Now()
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing token request: %w", err)
	}
	defer resp.Body.Close()
	metrics.ObserveEbayRequest("token", resp.StatusCode, time.Since(start).Seconds())

	body, err := readBody(resp)
	if resp.StatusCode != http.StatusOK {
		return "", &AuthError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	if err != nil {
		return "", err
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return "", fmt.Errorf("parsing token response: %w", err)
	}
	if token.AccessToken == "" {
		return "", &AuthError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return token.AccessToken, nil
}
