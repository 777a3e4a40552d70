// Package schoolapi is the typed HTTP client for the remote school-management
// backend. It owns bearer-token injection, the single refresh-and-retry cycle
// on 401, and normalization of network failures; the per-resource calls live
// in the sibling files.
package schoolapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
)

type (
	Options struct {
		BaseURL string
		Timeout time.Duration
		Client  *http.Client // optional override, used by tests
	}

	// TokenSource supplies the current access token and recovers from an
	// expired one. Implemented by session.Controller.
	TokenSource interface {
		AccessToken() string
		RefreshAccessToken(ctx context.Context) (string, error)
	}

	Client struct {
		base   string
		http   *http.Client
		tokens TokenSource
	}
)

func NewClient(opts *Options, tokens TokenSource) *Client {
	return &Client{
		base:   strings.TrimRight(opts.BaseURL, "/"),
		http:   newHTTPClient(opts),
		tokens: tokens,
	}
}

func newHTTPClient(opts *Options) *http.Client {
	if opts.Client != nil {
		return opts.Client
	}
	return &http.Client{Timeout: opts.Timeout}
}

// do performs one API call. When an authenticated request comes back 401, the
// token is refreshed and the request replayed exactly once; a 401 on the
// replay is final. Unauthenticated requests are never replayed.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out interface{}) error {
	var body []byte
	if in != nil {
		var err error
		if body, err = json.Marshal(in); err != nil {
			return errors.Wrap(err, "encoding request body")
		}
	}
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	tok := c.tokens.AccessToken()
	resp, err := c.send(ctx, method, u, body, tok)
	if err != nil {
		return normalizeNetErr(err)
	}

	if resp.StatusCode == http.StatusUnauthorized && tok != "" {
		drainClose(resp)
		newTok, rerr := c.tokens.RefreshAccessToken(ctx)
		if rerr != nil {
			return errors.Wrap(rerr, "refreshing expired token")
		}
		if resp, err = c.send(ctx, method, u, body, newTok); err != nil {
			return normalizeNetErr(err)
		}
	}
	defer drainClose(resp)

	if resp.StatusCode >= http.StatusBadRequest {
		return newAPIError(resp)
	}
	if out == nil {
		return nil
	}
	return errors.Wrap(json.NewDecoder(resp.Body).Decode(out), "decoding response")
}

// send builds and fires a fresh request; bodies are replayed from the
// buffered bytes so a retry never reads a drained reader.
func (c *Client) send(ctx context.Context, method, url string, body []byte, token string) (*http.Response, error) {
	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, rdr)
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return c.http.Do(req)
}

func drainClose(resp *http.Response) {
	_, _ = io.Copy(ioutil.Discard, io.LimitReader(resp.Body, 4<<10))
	_ = resp.Body.Close()
}
