package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const leverFixture = `[
	{
		"id": "abc-123",
		"text": "Backend Engineer",
		"descriptionPlain": "Build services in Go",
		"categories": {
			"team": "Platform",
			"location": "Remote",
			"commitment": "Full-time",
			"allLocations": ["Remote - US", "Remote - EU"]
		},
		"createdAt": 1746100800000,
		"salaryDescription": "$140k - $170k",
		"hostedUrl": "https://jobs.lever.co/acme/abc-123"
	}
]`

func TestLever_Fetch(t *testing.T) {
	var gotQuery string
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(leverFixture))
	}))
	defer server.Close()

	src := NewLever(server.Client())
	src.BaseURL = server.URL

	postings, err := src.Fetch(context.Background(), FetchOptions{Company: "acme", Offset: 20, Limit: 20})
	require.NoError(t, err)

	// Lever paginates natively: the offset and cap ride on the request
	assert.Equal(t, "/acme", gotPath)
	assert.Equal(t, "mode=json&skip=20&limit=20", gotQuery)

	require.Len(t, postings, 1)
	p := postings[0]
	assert.Equal(t, "Backend Engineer", p.Title)
	assert.Equal(t, "acme", p.Company)
	assert.Equal(t, "lever", p.SourceName)
	assert.Equal(t, "$140k - $170k", p.Salary)
	assert.Equal(t, "https://jobs.lever.co/acme/abc-123", p.SourceURL)
	// allLocations wins over the single location field
	assert.Equal(t, []string{"Remote - US, Remote - EU", "Platform", "Full-time"}, p.Tags)
	require.NotNil(t, p.PostedAt)
	assert.Equal(t, 2025, p.PostedAt.UTC().Year())
}

func TestLever_FetchOmitsZeroPaging(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	src := NewLever(server.Client())
	src.BaseURL = server.URL

	postings, err := src.Fetch(context.Background(), FetchOptions{Company: "acme"})
	require.NoError(t, err)
	assert.Empty(t, postings)
	assert.Equal(t, "mode=json", gotQuery)
}

func TestLever_FetchRequiresCompany(t *testing.T) {
	src := NewLever(http.DefaultClient)
	_, err := src.Fetch(context.Background(), FetchOptions{})
	require.Error(t, err)
}
