// Package web implements driven.PageFetcher over HTTP.
//
// HTML responses are converted to markdown so source adapters can match
// headings, bold names and list items as plain text.
package web

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"

	"github.com/custodia-labs/ballotwatch/internal/core/domain"
	"github.com/custodia-labs/ballotwatch/internal/core/ports/driven"
)

// Ensure Fetcher implements the interface.
var _ driven.PageFetcher = (*Fetcher)(nil)

// Config configures the fetcher.
type Config struct {
	Timeout   time.Duration // Per request. Default: 30s.
	MaxBytes  int64         // Max body size. Default: 10MB.
	UserAgent string
}

func (c *Config) defaults() {
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.MaxBytes <= 0 {
		c.MaxBytes = 10 * 1024 * 1024
	}
	if c.UserAgent == "" {
		c.UserAgent = "ballotwatch/1.0 (+candidate discovery)"
	}
}

// Fetcher downloads public pages.
type Fetcher struct {
	client    *http.Client
	config    Config
	converter *converter.Converter
}

// New creates a Fetcher.
func New(cfg Config) *Fetcher {
	cfg.defaults()
	return &Fetcher{
		client: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("too many redirects (%d)", len(via))
				}
				return nil
			},
		},
		config: cfg,
		converter: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

// Fetch retrieves url. Non-2xx responses and transport failures are
// returned as *driven.FetchError, marked transient when worth retrying.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*domain.Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &driven.FetchError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", f.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/rss+xml,application/atom+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		// A cancelled run is not worth retrying; anything else on the wire is.
		return nil, &driven.FetchError{URL: url, Err: err, Transient: ctx.Err() == nil}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))
		return nil, &driven.FetchError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Transient:  driven.IsTransientStatus(resp.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxBytes))
	if err != nil {
		return nil, &driven.FetchError{URL: url, Err: fmt.Errorf("read body: %w", err), Transient: ctx.Err() == nil}
	}

	finalURL := url
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	contentType := resp.Header.Get("Content-Type")
	page := &domain.Page{
		URL:         finalURL,
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		Raw:         body,
		Text:        string(body),
	}
	if isHTML(contentType, body) {
		page.Text = f.markdown(string(body), finalURL)
	}
	return page, nil
}

// markdown converts an HTML document, falling back to the raw text.
func (f *Fetcher) markdown(html, pageURL string) string {
	md, err := f.converter.ConvertString(html, converter.WithDomain(pageURL))
	if err != nil || strings.TrimSpace(md) == "" {
		return html
	}
	return strings.TrimSpace(md)
}

func isHTML(contentType string, body []byte) bool {
	if contentType != "" {
		mediaType, _, err := mime.ParseMediaType(contentType)
		if err == nil {
			return mediaType == "text/html" || mediaType == "application/xhtml+xml"
		}
	}
	return strings.HasPrefix(http.DetectContentType(body), "text/html")
}
