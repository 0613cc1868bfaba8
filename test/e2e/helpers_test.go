// Common helpers for E2E tests: request builders, envelope decoding and
// the cookie-carrying page client.
package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/turtacn/ChemDraw-AI/pkg/types/common"
)

// doGet sends a GET request to the specified path.
func doGet(t *testing.T, path string) *http.Response {
	t.Helper()
	return doJSON(t, http.MethodGet, path, nil)
}

// doPost sends a POST request with a JSON body.
func doPost(t *testing.T, path string, body interface{}) *http.Response {
	t.Helper()
	return doJSON(t, http.MethodPost, path, body)
}

// doPut sends a PUT request with a JSON body.
func doPut(t *testing.T, path string, body interface{}) *http.Response {
	t.Helper()
	return doJSON(t, http.MethodPut, path, body)
}

func doJSON(t *testing.T, method, path string, body interface{}) *http.Response {
	t.Helper()

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err, "marshal request body")
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, env.baseURL+path, bodyReader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-E2E-Test", "true")

	resp, err := env.httpClient.Do(req)
	require.NoError(t, err, "%s %s", method, path)
	t.Logf("%s %s -> %d", method, path, resp.StatusCode)
	return resp
}

// decodeEnvelope reads the response body into the API envelope.
func decodeEnvelope[T any](t *testing.T, resp *http.Response) common.APIResponse[T] {
	t.Helper()
	defer resp.Body.Close()
	var out common.APIResponse[T]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// requireStatus fails the test when resp has an unexpected status.
func requireStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		t.Fatalf("status %d, want %d: %s", resp.StatusCode, want, body)
	}
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// pageClient is a browser stand-in: it keeps cookies and does not follow
// redirects, so each form post can be checked for its 303.
type pageClient struct {
	t *testing.T
	c *http.Client
}

func newPageClient(t *testing.T) *pageClient {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &pageClient{t: t, c: &http.Client{
		Jar:     jar,
		Timeout: 30 * time.Second,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}}
}

func (p *pageClient) get(path string) (*http.Response, string) {
	p.t.Helper()
	resp, err := p.c.Get(env.baseURL + path)
	require.NoError(p.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(p.t, err)
	return resp, string(body)
}

func (p *pageClient) post(path string, form url.Values) *http.Response {
	p.t.Helper()
	resp, err := p.c.Post(env.baseURL+path, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	require.NoError(p.t, err)
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return resp
}

//Personal.AI order the ending
