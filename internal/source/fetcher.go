package source

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jengzang/casemap-backend-go/internal/casedata"
	"github.com/jengzang/casemap-backend-go/internal/config"
	"github.com/jengzang/casemap-backend-go/internal/models"
)

// HTTPFetcher downloads metric tables over HTTP
type HTTPFetcher struct {
	BaseURL string
	Pattern string // fmt pattern receiving the metric name
	Client  *http.Client
}

// NewHTTPFetcher creates an HTTP fetcher; timeout 0 means no timeout
func NewHTTPFetcher(baseURL, pattern string, timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		BaseURL: strings.TrimSuffix(baseURL, "/") + "/",
		Pattern: pattern,
		Client:  &http.Client{Timeout: timeout},
	}
}

// URL returns the address of one metric table
func (f *HTTPFetcher) URL(metric models.MetricName) string {
	return f.BaseURL + fmt.Sprintf(f.Pattern, metric)
}

// Fetch downloads and parses one metric table
func (f *HTTPFetcher) Fetch(ctx context.Context, metric models.MetricName) (*models.RawTable, error) {
	url := f.URL(metric)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	log.Printf("[Source] Fetching %s table from %s", metric, url)
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	return ReadTable(metric, resp.Body)
}

// DirFetcher reads metric tables from a local directory
type DirFetcher struct {
	Dir     string
	Pattern string
}

// Fetch reads and parses one metric table from disk
func (f *DirFetcher) Fetch(ctx context.Context, metric models.MetricName) (*models.RawTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(f.Dir, fmt.Sprintf(f.Pattern, metric))
	fid, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer fid.Close()

	log.Printf("[Source] Reading %s table from %s", metric, path)
	return ReadTable(metric, fid)
}

// NewFetcher picks the directory source when configured, otherwise HTTP
func NewFetcher(cfg config.SourceConfig) casedata.Fetcher {
	if cfg.Dir != "" {
		return &DirFetcher{Dir: cfg.Dir, Pattern: cfg.FilePattern}
	}
	return NewHTTPFetcher(cfg.BaseURL, cfg.FilePattern, cfg.Timeout)
}
