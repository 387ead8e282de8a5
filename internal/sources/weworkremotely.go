package sources

import (
	"context"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const wwrBaseURL = "https://weworkremotely.com"

// WeWorkRemotely scrapes the We Work Remotely listing page. Like Remotive it
// is an aggregator: one call returns the whole visible corpus.
type WeWorkRemotely struct {
	// BaseURL is overridable for tests
	BaseURL string
	client  *http.Client
}

// NewWeWorkRemotely creates a We Work Remotely source adapter.
func NewWeWorkRemotely(client *http.Client) *WeWorkRemotely {
	return &WeWorkRemotely{
		BaseURL: wwrBaseURL,
		client:  client,
	}
}

// Name implements Source.
func (w *WeWorkRemotely) Name() string { return "weworkremotely" }

// PerCompany implements Source.
func (w *WeWorkRemotely) PerCompany() bool { return false }

// Fetch scrapes the listing page and normalizes each job card into a
// RawPosting. Cards without a title or link are skipped.
func (w *WeWorkRemotely) Fetch(ctx context.Context, _ FetchOptions) ([]RawPosting, error) {
	resp, err := doGet(ctx, w.client, w.BaseURL+"/remote-jobs")
	if err != nil {
		return nil, &FetchError{Source: w.Name(), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, &FetchError{Source: w.Name(), Err: err}
	}

	var postings []RawPosting
	doc.Find("section.jobs li").Each(func(_ int, s *goquery.Selection) {
		title := strings.TrimSpace(s.Find("span.title").First().Text())
		company := strings.TrimSpace(s.Find("span.company").First().Text())
		region := strings.TrimSpace(s.Find("span.region").First().Text())

		href, ok := s.Find("a").FilterFunction(func(_ int, a *goquery.Selection) bool {
			h, _ := a.Attr("href")
			return strings.Contains(h, "/remote-jobs/")
		}).First().Attr("href")
		if !ok || title == "" {
			return
		}

		posting := RawPosting{
			Title:      title,
			Company:    company,
			SourceURL:  w.BaseURL + href,
			SourceName: w.Name(),
		}
		if region != "" {
			posting.Tags = append(posting.Tags, region)
		}
		postings = append(postings, posting)
	})

	return postings, nil
}
