package sources

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const leverBaseURL = "https://api.lever.co/v0/postings"

// leverCategories represents the categories object in a Lever job.
type leverCategories struct {
	Team         string   `json:"team"`
	Department   string   `json:"department"`
	Location     string   `json:"location"`
	Commitment   string   `json:"commitment"`
	AllLocations []string `json:"allLocations"`
}

// leverJob represents a single job in the Lever API response.
type leverJob struct {
	ID               string          `json:"id"`
	Text             string          `json:"text"`
	DescriptionPlain string          `json:"descriptionPlain"`
	Categories       leverCategories `json:"categories"`
	CreatedAt        int64           `json:"createdAt"`
	Salary           string          `json:"salaryDescription"`
	HostedURL        string          `json:"hostedUrl"`
}

// Lever fetches postings from the Lever public postings API, one company
// per call. Lever supports skip/limit natively, so the offset is pushed to
// the API.
type Lever struct {
	// BaseURL is overridable for tests
	BaseURL string
	client  *http.Client
}

// NewLever creates a Lever source adapter.
func NewLever(client *http.Client) *Lever {
	return &Lever{
		BaseURL: leverBaseURL,
		client:  client,
	}
}

// Name implements Source.
func (l *Lever) Name() string { return "lever" }

// PerCompany implements Source.
func (l *Lever) PerCompany() bool { return true }

// Fetch retrieves up to opts.Limit postings for opts.Company starting at
// opts.Offset and normalizes them into RawPosting values.
func (l *Lever) Fetch(ctx context.Context, opts FetchOptions) ([]RawPosting, error) {
	if opts.Company == "" {
		return nil, &FetchError{Source: l.Name(), Err: fmt.Errorf("company slug is required")}
	}
	url := fmt.Sprintf("%s/%s?mode=json", l.BaseURL, opts.Company)
	if opts.Offset > 0 {
		url += fmt.Sprintf("&skip=%d", opts.Offset)
	}
	if opts.Limit > 0 {
		url += fmt.Sprintf("&limit=%d", opts.Limit)
	}

	var leverJobs []leverJob
	if err := getJSON(ctx, l.client, url, &leverJobs); err != nil {
		return nil, &FetchError{Source: l.Name(), Company: opts.Company, Err: err}
	}

	postings := make([]RawPosting, 0, len(leverJobs))
	for _, lj := range leverJobs {
		// Prefer allLocations when present, fall back to location
		location := lj.Categories.Location
		if len(lj.Categories.AllLocations) > 0 {
			location = strings.Join(lj.Categories.AllLocations, ", ")
		}

		posting := RawPosting{
			Title:       lj.Text,
			Company:     opts.Company,
			Description: lj.DescriptionPlain,
			Salary:      lj.Salary,
			SourceURL:   lj.HostedURL,
			SourceName:  l.Name(),
		}
		if location != "" {
			posting.Tags = append(posting.Tags, location)
		}
		if lj.Categories.Team != "" {
			posting.Tags = append(posting.Tags, lj.Categories.Team)
		}
		if lj.Categories.Commitment != "" {
			posting.Tags = append(posting.Tags, lj.Categories.Commitment)
		}

		// createdAt is Unix milliseconds
		if lj.CreatedAt > 0 {
			t := time.UnixMilli(lj.CreatedAt)
			posting.PostedAt = &t
		}

		postings = append(postings, posting)
	}

	return postings, nil
}
