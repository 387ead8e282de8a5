// Package probe implements the discovery probe backends that test whether a
// candidate company slug exists on a known ATS platform.
package probe

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// Job is a small excerpt of a probed board used for sampling.
type Job struct {
	Title    string
	Location string
	URL      string
}

// Result is the outcome of probing one backend for one slug.
type Result struct {
	Found          bool
	CompanyName    string
	Source         string
	JobCount       int
	RemoteJobCount int
	SampleJobs     []Job
}

// Backend is one probe target. Backends are tried in fixed priority order
// and the first hit short-circuits the round.
type Backend interface {
	// Name returns the source name a hit is attributed to
	Name() string
	// Probe checks whether querySlug hosts a board on this backend. A miss
	// is (Result{Found: false}, nil); errors are reserved for transport
	// failures.
	Probe(ctx context.Context, querySlug string) (Result, error)
}

// sampleLimit caps how many jobs are kept on a discovery hit.
const sampleLimit = 3

// summarize derives the counters and sample excerpt for a hit.
func summarize(source, companyName string, jobs []Job) Result {
	result := Result{
		Found:       true,
		CompanyName: companyName,
		Source:      source,
		JobCount:    len(jobs),
	}
	for _, job := range jobs {
		if strings.Contains(strings.ToLower(job.Location), "remote") {
			result.RemoteJobCount++
		}
	}
	if len(jobs) > sampleLimit {
		jobs = jobs[:sampleLimit]
	}
	result.SampleJobs = jobs
	return result
}

// displayName turns a slug into a readable company name ("acme-corp" →
// "Acme Corp") for backends whose API does not return one.
func displayName(slug string) string {
	words := strings.FieldsFunc(slug, func(r rune) bool {
		return r == '-' || r == '_'
	})
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func decodeJSON(resp *http.Response, v interface{}) error {
	return json.NewDecoder(resp.Body).Decode(v)
}
