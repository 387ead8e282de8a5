// Package sources defines the uniform fetch contract for external job
// sources and its implementations. ATS sources (Greenhouse, Lever) are
// queried per company; aggregator sources (Remotive, We Work Remotely)
// return their whole corpus per call.
package sources

import (
	"context"
	"fmt"
	"time"
)

// RawPosting is one posting as returned by a source, before sanitizing.
type RawPosting struct {
	Title       string
	Company     string
	Description string
	Salary      string
	PostedAt    *time.Time
	SourceURL   string
	SourceName  string
	Tags        []string
}

// FetchOptions narrows a fetch. Company, Offset and Limit only apply to
// per-company sources; aggregators ignore them and return everything.
type FetchOptions struct {
	Company string
	Offset  int
	Limit   int
}

// Source is the uniform fetch contract every external source implements.
type Source interface {
	// Name returns the stable source name recorded on postings
	Name() string
	// PerCompany reports whether the source is addressed per company slug
	PerCompany() bool
	// Fetch returns a finite batch of postings. Failures are wrapped in
	// *FetchError and are non-fatal for the caller's current item.
	Fetch(ctx context.Context, opts FetchOptions) ([]RawPosting, error)
}

// FetchError wraps a failure of one source call with its origin.
type FetchError struct {
	Source  string
	Company string
	Err     error
}

func (e *FetchError) Error() string {
	if e.Company != "" {
		return fmt.Sprintf("%s fetch for %s: %v", e.Source, e.Company, e.Err)
	}
	return fmt.Sprintf("%s fetch: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Registry maps source names to adapters and preserves a deterministic
// order for worklist construction.
type Registry struct {
	order   []string
	sources map[string]Source
}

// NewRegistry builds a registry from the given sources, keeping their order.
func NewRegistry(srcs ...Source) *Registry {
	r := &Registry{sources: make(map[string]Source, len(srcs))}
	for _, s := range srcs {
		if _, ok := r.sources[s.Name()]; ok {
			continue
		}
		r.order = append(r.order, s.Name())
		r.sources[s.Name()] = s
	}
	return r
}

// Get returns the source registered under name, or nil.
func (r *Registry) Get(name string) Source {
	return r.sources[name]
}

// Names returns the registered source names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// DefaultRegistry wires up every production source with a shared HTTP client.
func DefaultRegistry() *Registry {
	client := NewHTTPClient()
	return NewRegistry(
		NewGreenhouse(client),
		NewLever(client),
		NewRemotive(client),
		NewWeWorkRemotely(client),
	)
}
