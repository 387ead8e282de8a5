package sources

import (
	"context"
	"net/http"
	"time"
)

const remotiveBaseURL = "https://remotive.com/api/remote-jobs"

// remotiveJob represents a single job in the Remotive API response.
type remotiveJob struct {
	ID              int64    `json:"id"`
	URL             string   `json:"url"`
	Title           string   `json:"title"`
	CompanyName     string   `json:"company_name"`
	Category        string   `json:"category"`
	Tags            []string `json:"tags"`
	JobType         string   `json:"job_type"`
	PublicationDate string   `json:"publication_date"`
	Salary          string   `json:"salary"`
	Description     string   `json:"description"`
}

// remotiveResponse is the top-level Remotive API response.
type remotiveResponse struct {
	JobCount int           `json:"job-count"`
	Jobs     []remotiveJob `json:"jobs"`
}

// Remotive fetches the full Remotive aggregator feed. There is no
// per-company addressing and no meaningful offset: every call returns the
// whole corpus.
type Remotive struct {
	// BaseURL is overridable for tests
	BaseURL string
	client  *http.Client
}

// NewRemotive creates a Remotive source adapter.
func NewRemotive(client *http.Client) *Remotive {
	return &Remotive{
		BaseURL: remotiveBaseURL,
		client:  client,
	}
}

// Name implements Source.
func (r *Remotive) Name() string { return "remotive" }

// PerCompany implements Source.
func (r *Remotive) PerCompany() bool { return false }

// Fetch retrieves the whole feed and normalizes it into RawPosting values.
func (r *Remotive) Fetch(ctx context.Context, _ FetchOptions) ([]RawPosting, error) {
	var decoded remotiveResponse
	if err := getJSON(ctx, r.client, r.BaseURL, &decoded); err != nil {
		return nil, &FetchError{Source: r.Name(), Err: err}
	}

	postings := make([]RawPosting, 0, len(decoded.Jobs))
	for _, rj := range decoded.Jobs {
		posting := RawPosting{
			Title:       rj.Title,
			Company:     rj.CompanyName,
			Description: rj.Description,
			Salary:      rj.Salary,
			SourceURL:   rj.URL,
			SourceName:  r.Name(),
			Tags:        rj.Tags,
		}
		if rj.Category != "" {
			posting.Tags = append(posting.Tags, rj.Category)
		}
		// Remotive publication dates come as "2006-01-02T15:04:05"
		if rj.PublicationDate != "" {
			if t, err := time.Parse("2006-01-02T15:04:05", rj.PublicationDate); err == nil {
				posting.PostedAt = &t
			}
		}
		postings = append(postings, posting)
	}

	return postings, nil
}
