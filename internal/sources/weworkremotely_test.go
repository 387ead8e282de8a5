package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wwrFixture = `<html><body>
<section class="jobs">
	<ul>
		<li>
			<a href="/remote-jobs/acme-backend-engineer">
				<span class="title">Backend Engineer</span>
				<span class="company">Acme</span>
				<span class="region">Anywhere in the World</span>
			</a>
		</li>
		<li>
			<a href="/remote-jobs/globex-designer">
				<span class="title">Designer</span>
				<span class="company">Globex</span>
			</a>
		</li>
		<li class="view-all">
			<a href="/categories/remote-programming-jobs">View all</a>
		</li>
	</ul>
</section>
</body></html>`

func TestWeWorkRemotely_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/remote-jobs", r.URL.Path)
		_, _ = w.Write([]byte(wwrFixture))
	}))
	defer server.Close()

	src := NewWeWorkRemotely(server.Client())
	src.BaseURL = server.URL

	postings, err := src.Fetch(context.Background(), FetchOptions{})
	require.NoError(t, err)

	// The view-all card has no title span and is skipped
	require.Len(t, postings, 2)

	p := postings[0]
	assert.Equal(t, "Backend Engineer", p.Title)
	assert.Equal(t, "Acme", p.Company)
	assert.Equal(t, "weworkremotely", p.SourceName)
	assert.Equal(t, server.URL+"/remote-jobs/acme-backend-engineer", p.SourceURL)
	assert.Equal(t, []string{"Anywhere in the World"}, p.Tags)

	assert.Equal(t, "Designer", postings[1].Title)
	assert.Empty(t, postings[1].Tags)
}

func TestWeWorkRemotely_FetchUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	src := NewWeWorkRemotely(server.Client())
	src.BaseURL = server.URL

	_, err := src.Fetch(context.Background(), FetchOptions{})
	require.Error(t, err)
}
