// internal/keggrest/client.go

// Package keggrest implements kegg.Source against the KEGG REST API.
// The scope is deliberately thin: one GET per accession, no retries or
// backoff; callers own timeout policy through the request context and
// the client timeout.
package keggrest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"kpath-core/kegg"
)

type Client struct {
	base string
	http *http.Client
	log  *zap.Logger
}

var _ kegg.Source = (*Client)(nil)

func New(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: timeout},
		log:  log,
	}
}

// Get retrieves one flat-file record (modules, reactions, enzymes all live
// under /get/<accession>). The caller closes the returned body.
func (c *Client) Get(ctx context.Context, accession string) (io.ReadCloser, error) {
	u := c.base + "/get/" + url.PathEscape(accession)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
		return nil, fmt.Errorf("GET %s: unexpected status %s", u, resp.Status)
	}

	c.log.Debug("retrieved record", zap.String("accession", accession))
	return resp.Body, nil
}
