package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

const (
	// Maximum response sizes to prevent memory exhaustion.
	maxJSONResponseSize = 1 * 1024 * 1024 // 1 MB for CKAN API response
	maxCSVResponseSize  = 5 * 1024 * 1024 // 5 MB for CSV data

	userAgent = "jp-holiday-rules-holidaycheck/1.0 (https://github.com/rabitt1ove/jp-holiday-rules)"
)

// retryBaseDelay is the base delay between retry attempts (variable for testing).
var retryBaseDelay = 2 * time.Second

// ckanResponse represents the relevant parts of the CKAN API response.
type ckanResponse struct {
	Success bool `json:"success"`
	Result  struct {
		Resources []struct {
			URL    string `json:"url"`
			Format string `json:"format"`
		} `json:"resources"`
	} `json:"result"`
}

// fetchResult is a downloaded holiday CSV, still Shift-JIS encoded.
type fetchResult struct {
	URL  string
	Body []byte
	// NotModified is set when the server answered 304 and Body came from
	// the cache.
	NotModified bool
}

// Reader returns the CSV decoded to UTF-8.
func (r *fetchResult) Reader() io.Reader {
	return transform.NewReader(bytes.NewReader(r.Body), japanese.ShiftJIS.NewDecoder())
}

type fetcher struct {
	client *http.Client
	cfg    *config
	cache  *csvCache
	log    *zap.Logger
}

func newFetcher(cfg *config, log *zap.Logger) *fetcher {
	f := &fetcher{
		client: &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
		log:    log,
	}
	if cfg.CacheDir != "" {
		f.cache = &csvCache{dir: cfg.CacheDir}
	}
	return f
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

// get issues a GET with exponential backoff. Network errors, 429 and 5xx are
// retried; any other response is returned to the caller unread.
func (f *fetcher) get(ctx context.Context, rawURL string, header http.Header) (*http.Response, error) {
	var lastErr error
	for attempt := 0; attempt < f.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := retryBaseDelay * time.Duration(1<<(attempt-1))
			f.log.Debug("retrying",
				zap.String("url", rawURL),
				zap.Duration("delay", delay),
				zap.Int("attempt", attempt+1),
				zap.Int("max_attempts", f.cfg.MaxRetries))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		f.log.Debug("fetching", zap.String("url", rawURL))
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("User-Agent", userAgent)
		for k, v := range header {
			req.Header[k] = v
		}

		resp, err := f.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("GET %s: %w", rawURL, err)
			f.log.Warn("request failed", zap.String("url", rawURL), zap.Error(err))
			continue
		}
		if retryable(resp.StatusCode) {
			resp.Body.Close()
			lastErr = fmt.Errorf("GET %s: status %d", rawURL, resp.StatusCode)
			f.log.Warn("retryable status", zap.String("url", rawURL), zap.Int("status", resp.StatusCode))
			continue
		}
		return resp, nil
	}
	return nil, lastErr
}

// resolveCSVURL queries the CKAN API to get the current CSV download URL.
func (f *fetcher) resolveCSVURL(ctx context.Context, apiURL string) (string, error) {
	f.log.Info("resolving CSV URL via CKAN API", zap.String("url", apiURL))

	resp, err := f.get(ctx, apiURL, nil)
	if err != nil {
		return "", fmt.Errorf("CKAN API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("CKAN API returned status %d", resp.StatusCode)
	}

	var ckan ckanResponse
	limited := io.LimitReader(resp.Body, maxJSONResponseSize)
	if err := json.NewDecoder(limited).Decode(&ckan); err != nil {
		return "", fmt.Errorf("CKAN API response decode failed: %w", err)
	}
	if !ckan.Success {
		return "", fmt.Errorf("CKAN API returned success=false")
	}

	for _, r := range ckan.Result.Resources {
		if strings.EqualFold(r.Format, "CSV") && r.URL != "" {
			if err := f.cfg.validateCSVURL(r.URL); err != nil {
				return "", fmt.Errorf("CKAN returned invalid URL: %w", err)
			}
			f.log.Info("resolved CSV URL", zap.String("url", r.URL))
			return r.URL, nil
		}
	}
	return "", fmt.Errorf("no CSV resource found in CKAN response")
}

// validateCSVURL checks that a URL points to an allowed host (SSRF prevention).
func (c *config) validateCSVURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}
	if parsed.Scheme != "https" {
		return fmt.Errorf("URL %q: only HTTPS is allowed", rawURL)
	}
	if !c.hostAllowed(parsed.Hostname()) {
		return fmt.Errorf("URL %q: host %q is not in the allowed list", rawURL, parsed.Hostname())
	}
	return nil
}

// fetchWithRetry downloads rawURL. When etag or lastModified is set the
// request is conditional and a 304 answer reports notModified with a nil body.
func (f *fetcher) fetchWithRetry(ctx context.Context, rawURL, etag, lastModified string) (body []byte, newETag, newLastModified string, notModified bool, err error) {
	header := make(http.Header)
	if etag != "" {
		header.Set("If-None-Match", etag)
	}
	if lastModified != "" {
		header.Set("If-Modified-Since", lastModified)
	}

	resp, err := f.get(ctx, rawURL, header)
	if err != nil {
		return nil, "", "", false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotModified:
		f.log.Info("not modified", zap.String("url", rawURL))
		return nil, etag, lastModified, true, nil
	case http.StatusOK:
	default:
		return nil, "", "", false, fmt.Errorf("GET %s: status %d", rawURL, resp.StatusCode)
	}

	body, err = io.ReadAll(io.LimitReader(resp.Body, maxCSVResponseSize+1))
	if err != nil {
		return nil, "", "", false, fmt.Errorf("GET %s: reading body: %w", rawURL, err)
	}
	if len(body) > maxCSVResponseSize {
		return nil, "", "", false, fmt.Errorf("GET %s: response exceeds %d bytes", rawURL, maxCSVResponseSize)
	}
	return body, resp.Header.Get("ETag"), resp.Header.Get("Last-Modified"), false, nil
}

// candidateURLs returns the download URLs in the order they are tried: the
// CKAN-resolved URL first, then the configured fallbacks without duplicates.
func (f *fetcher) candidateURLs(ctx context.Context) []string {
	var urls []string
	if f.cfg.CKANURL != "" {
		if resolved, err := f.resolveCSVURL(ctx, f.cfg.CKANURL); err != nil {
			f.log.Warn("CKAN API failed, falling back to direct URLs", zap.Error(err))
		} else {
			urls = append(urls, resolved)
		}
	}
	for _, fb := range f.cfg.FallbackURLs {
		dup := false
		for _, u := range urls {
			if u == fb {
				dup = true
				break
			}
		}
		if !dup {
			urls = append(urls, fb)
		}
	}
	return urls
}

// fetchCSV downloads the holiday CSV, trying each candidate URL in turn.
// A cached copy is revalidated with a conditional GET and reused on 304.
func (f *fetcher) fetchCSV(ctx context.Context) (*fetchResult, error) {
	var cached *cacheMeta
	var cachedBody []byte
	if f.cache != nil {
		meta, body, err := f.cache.load()
		if err != nil {
			f.log.Warn("ignoring unreadable cache", zap.String("dir", f.cache.dir), zap.Error(err))
		} else {
			cached, cachedBody = meta, body
		}
	}

	var lastErr error
	for _, u := range f.candidateURLs(ctx) {
		var etag, lastModified string
		if cached != nil && cached.URL == u {
			etag, lastModified = cached.ETag, cached.LastModified
		}

		body, newETag, newLastModified, notModified, err := f.fetchWithRetry(ctx, u, etag, lastModified)
		if err != nil {
			lastErr = err
			continue
		}
		if notModified {
			return &fetchResult{URL: u, Body: cachedBody, NotModified: true}, nil
		}

		if f.cache != nil {
			meta := cacheMeta{URL: u, ETag: newETag, LastModified: newLastModified, FetchedAt: time.Now().UTC()}
			if err := f.cache.store(meta, body); err != nil {
				f.log.Warn("failed to update cache", zap.String("dir", f.cache.dir), zap.Error(err))
			}
		}
		return &fetchResult{URL: u, Body: body}, nil
	}
	if lastErr == nil {
		return nil, fmt.Errorf("no CSV URLs to try")
	}
	return nil, fmt.Errorf("all URLs failed, last error: %w", lastErr)
}
