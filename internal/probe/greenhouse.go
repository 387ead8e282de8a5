package probe

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

const greenhouseBoardsURL = "https://boards-api.greenhouse.io/v1/boards"

// GreenhouseBackend probes the Greenhouse public boards API.
type GreenhouseBackend struct {
	// BaseURL is overridable for tests
	BaseURL string
	client  *http.Client
}

// NewGreenhouseBackend creates a Greenhouse probe backend.
func NewGreenhouseBackend(client *http.Client) *GreenhouseBackend {
	return &GreenhouseBackend{
		BaseURL: greenhouseBoardsURL,
		client:  client,
	}
}

// Name implements Backend.
func (b *GreenhouseBackend) Name() string { return "greenhouse" }

// Probe implements Backend. A 404 from the boards API is a clean miss.
func (b *GreenhouseBackend) Probe(ctx context.Context, querySlug string) (Result, error) {
	url := fmt.Sprintf("%s/%s/jobs", b.BaseURL, querySlug)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Result{}, err
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("greenhouse probe for %s: %w", querySlug, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return Result{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("greenhouse probe for %s: unexpected status %d", querySlug, resp.StatusCode)
	}

	var decoded struct {
		Jobs []struct {
			Title    string `json:"title"`
			Location struct {
				Name string `json:"name"`
			} `json:"location"`
			AbsoluteURL string `json:"absolute_url"`
		} `json:"jobs"`
	}
	if err := decodeJSON(resp, &decoded); err != nil {
		return Result{}, fmt.Errorf("greenhouse probe for %s: %w", querySlug, err)
	}

	jobs := make([]Job, 0, len(decoded.Jobs))
	for _, j := range decoded.Jobs {
		jobs = append(jobs, Job{
			Title:    strings.TrimSpace(j.Title),
			Location: j.Location.Name,
			URL:      j.AbsoluteURL,
		})
	}
	return summarize(b.Name(), displayName(querySlug), jobs), nil
}
