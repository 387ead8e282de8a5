package probe

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

const leverPostingsURL = "https://api.lever.co/v0/postings"

// LeverBackend probes the Lever public postings API.
type LeverBackend struct {
	// BaseURL is overridable for tests
	BaseURL string
	client  *http.Client
}

// NewLeverBackend creates a Lever probe backend.
func NewLeverBackend(client *http.Client) *LeverBackend {
	return &LeverBackend{
		BaseURL: leverPostingsURL,
		client:  client,
	}
}

// Name implements Backend.
func (b *LeverBackend) Name() string { return "lever" }

// Probe implements Backend. Lever answers 404 for unknown slugs.
func (b *LeverBackend) Probe(ctx context.Context, querySlug string) (Result, error) {
	url := fmt.Sprintf("%s/%s?mode=json", b.BaseURL, querySlug)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Result{}, err
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("lever probe for %s: %w", querySlug, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return Result{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("lever probe for %s: unexpected status %d", querySlug, resp.StatusCode)
	}

	var decoded []struct {
		Text       string `json:"text"`
		HostedURL  string `json:"hostedUrl"`
		Categories struct {
			Location string `json:"location"`
		} `json:"categories"`
	}
	if err := decodeJSON(resp, &decoded); err != nil {
		return Result{}, fmt.Errorf("lever probe for %s: %w", querySlug, err)
	}

	jobs := make([]Job, 0, len(decoded))
	for _, j := range decoded {
		jobs = append(jobs, Job{
			Title:    strings.TrimSpace(j.Text),
			Location: j.Categories.Location,
			URL:      j.HostedURL,
		})
	}
	return summarize(b.Name(), displayName(querySlug), jobs), nil
}
