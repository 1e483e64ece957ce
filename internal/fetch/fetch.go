package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Kind classifies a fetched agenda document.
type Kind int

const (
	KindPDF Kind = iota
	KindText
)

// Document is the raw result of fetching one agenda URL.
type Document struct {
	URL         string
	Kind        Kind
	ContentType string
	Data        []byte
}

// ErrNoDocument reports that the URL resolved to something that is not a
// recognized agenda format (PDF or plain text). Callers treat it as "no text
// available", not as a failure.
var ErrNoDocument = errors.New("not a recognized document format")

var pdfMagic = []byte("%PDF-")

// Client fetches agenda documents with a per-request timeout. It performs no
// retries; a caller wanting retry policy wraps it.
type Client struct {
	HTTPClient *http.Client
	UserAgent  string
	// Timeout bounds each request. Zero means no bound beyond ctx.
	Timeout time.Duration
	// SkipPrecheck disables the tolerant HEAD request issued before the GET.
	SkipPrecheck bool
}

// FetchDocument issues an HTTP GET for u and classifies the body. A tolerant
// HEAD precheck runs first; any HEAD failure is ignored and the GET proceeds.
func (c *Client) FetchDocument(ctx context.Context, u string) (*Document, error) {
	parsed, err := url.Parse(u)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	if !isHTTPScheme(parsed) {
		return nil, fmt.Errorf("unsupported URL scheme: %q", parsed.Scheme)
	}

	if !c.SkipPrecheck {
		if ct, ok := c.head(ctx, u); ok && !plausibleDocumentType(ct, u) {
			return nil, ErrNoDocument
		}
	}

	body, ct, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}
	return classify(u, ct, body)
}

func (c *Client) head(ctx context.Context, u string) (string, bool) {
	ctx, cancel := c.bound(ctx)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, u, nil)
	if err != nil {
		return "", false
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return "", false
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", false
	}
	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		return "", false
	}
	return ct, true
}

func (c *Client) get(ctx context.Context, u string) ([]byte, string, error) {
	ctx, cancel := c.bound(ctx)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, "", fmt.Errorf("new request: %w", err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read body: %w", err)
	}
	return b, resp.Header.Get("Content-Type"), nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.Timeout)
}

func classify(u, ct string, body []byte) (*Document, error) {
	switch {
	case looksLikePDF(ct, u, body):
		return &Document{URL: u, Kind: KindPDF, ContentType: ct, Data: body}, nil
	case looksLikeText(ct):
		return &Document{URL: u, Kind: KindText, ContentType: ct, Data: body}, nil
	default:
		return nil, ErrNoDocument
	}
}

func looksLikePDF(ct, u string, body []byte) bool {
	if strings.Contains(strings.ToLower(ct), "application/pdf") {
		return true
	}
	if bytes.HasPrefix(body, pdfMagic) {
		return true
	}
	// Suffix heuristic for servers that mislabel PDFs, querystrings included.
	trimmed := strings.ToLower(u)
	if i := strings.IndexAny(trimmed, "?#"); i >= 0 {
		trimmed = trimmed[:i]
	}
	return strings.HasSuffix(trimmed, ".pdf") && len(body) > 0
}

// looksLikeText accepts plain-text and JSON-ish responses, such as the
// CivicClerk plainText file stream. HTML is not an agenda document here;
// listing pages are handled by the site adapters, not the fetcher.
func looksLikeText(ct string) bool {
	ct = strings.ToLower(strings.TrimSpace(ct))
	if strings.HasPrefix(ct, "text/html") || strings.HasPrefix(ct, "application/xhtml") {
		return false
	}
	return strings.HasPrefix(ct, "text/") || strings.Contains(ct, "json")
}

func plausibleDocumentType(ct, u string) bool {
	if looksLikePDF(ct, u, nil) || looksLikeText(ct) {
		return true
	}
	// HEAD content types are frequently wrong on these portals; only reject
	// outright when the server clearly reports a web page for a non-.pdf URL.
	lower := strings.ToLower(ct)
	if strings.HasPrefix(lower, "text/html") && !strings.Contains(strings.ToLower(u), ".pdf") {
		return false
	}
	return true
}

func isHTTPScheme(u *url.URL) bool {
	if u == nil {
		return false
	}
	s := strings.ToLower(u.Scheme)
	return s == "http" || s == "https"
}
