// Package dataset fetches and decodes the source CSV files.
package dataset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/cilip-de/polizeischuesse/internal/domain"
	"github.com/cilip-de/polizeischuesse/internal/domain/selection"
)

// Config holds the source locations of the CSV files.
type Config struct {
	BaseURL   string
	CasesPath string
	TaserPath string
	Timeout   time.Duration
}

// Repo fetches raw records over HTTP. It performs no caching; memoization is
// the dataset usecase's job.
type Repo struct {
	cfg    Config
	client *http.Client
}

// New creates a dataset repository.
func New(cfg Config) *Repo {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Repo{cfg: cfg, client: &http.Client{Timeout: timeout}}
}

// Fetch downloads and decodes the CSV for the given dataset variant.
// Records without a case identifier (Fall) are dropped. Fetch and parse
// errors propagate; the caller decides about retries.
func (r *Repo) Fetch(ctx context.Context, ds selection.Dataset) ([]domain.RawRecord, error) {
	url, err := r.sourceURL(ds)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var raws []domain.RawRecord
	if err := gocsv.UnmarshalBytes(body, &raws); err != nil {
		return nil, fmt.Errorf("decode csv: %w", err)
	}

	kept := raws[:0]
	for _, raw := range raws {
		if raw.Fall == "" {
			continue
		}
		kept = append(kept, raw)
	}
	return kept, nil
}

func (r *Repo) sourceURL(ds selection.Dataset) (string, error) {
	switch ds {
	case selection.DatasetCases:
		return r.cfg.BaseURL + r.cfg.CasesPath, nil
	case selection.DatasetTaser:
		return r.cfg.BaseURL + r.cfg.TaserPath, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownDataset, ds)
	}
}
