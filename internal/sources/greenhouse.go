package sources

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

const greenhouseBaseURL = "https://boards-api.greenhouse.io/v1/boards"

// greenhouseJob represents a single job in the Greenhouse API response.
type greenhouseJob struct {
	ID          int64              `json:"id"`
	Title       string             `json:"title"`
	Content     string             `json:"content"`
	Location    greenhouseLocation `json:"location"`
	AbsoluteURL string             `json:"absolute_url"`
	UpdatedAt   string             `json:"updated_at"`
	Departments []greenhouseDept   `json:"departments"`
}

type greenhouseLocation struct {
	Name string `json:"name"`
}

type greenhouseDept struct {
	Name string `json:"name"`
}

// greenhouseResponse is the top-level Greenhouse jobs API response.
type greenhouseResponse struct {
	Jobs []greenhouseJob `json:"jobs"`
}

// Greenhouse fetches postings from the Greenhouse public boards API, one
// company board per call.
type Greenhouse struct {
	// BaseURL is overridable for tests
	BaseURL string
	client  *http.Client
}

// NewGreenhouse creates a Greenhouse source adapter.
func NewGreenhouse(client *http.Client) *Greenhouse {
	return &Greenhouse{
		BaseURL: greenhouseBaseURL,
		client:  client,
	}
}

// Name implements Source.
func (g *Greenhouse) Name() string { return "greenhouse" }

// PerCompany implements Source.
func (g *Greenhouse) PerCompany() bool { return true }

// Fetch retrieves the board for opts.Company and normalizes it into
// RawPosting values. The boards API has no pagination, so the offset/limit
// window is applied to the decoded list.
func (g *Greenhouse) Fetch(ctx context.Context, opts FetchOptions) ([]RawPosting, error) {
	if opts.Company == "" {
		return nil, &FetchError{Source: g.Name(), Err: fmt.Errorf("company slug is required")}
	}
	url := fmt.Sprintf("%s/%s/jobs?content=true", g.BaseURL, opts.Company)

	var decoded greenhouseResponse
	if err := getJSON(ctx, g.client, url, &decoded); err != nil {
		return nil, &FetchError{Source: g.Name(), Company: opts.Company, Err: err}
	}

	jobs := window(decoded.Jobs, opts.Offset, opts.Limit)
	postings := make([]RawPosting, 0, len(jobs))
	for _, gj := range jobs {
		posting := RawPosting{
			Title:       gj.Title,
			Company:     opts.Company,
			Description: gj.Content,
			SourceURL:   gj.AbsoluteURL,
			SourceName:  g.Name(),
		}
		if gj.Location.Name != "" {
			posting.Tags = append(posting.Tags, gj.Location.Name)
		}
		for _, dept := range gj.Departments {
			if dept.Name != "" {
				posting.Tags = append(posting.Tags, dept.Name)
			}
		}
		if gj.UpdatedAt != "" {
			if t, err := time.Parse(time.RFC3339, gj.UpdatedAt); err == nil {
				posting.PostedAt = &t
			}
		}
		postings = append(postings, posting)
	}

	return postings, nil
}

// window slices items to the [offset, offset+limit) range, clamped to the
// list bounds. A non-positive limit means no cap.
func window[T any](items []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
