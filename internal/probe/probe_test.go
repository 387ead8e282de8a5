package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGreenhouseBackend_Probe(t *testing.T) {
	fixture := `{"jobs": [
		{"title": "Backend Engineer", "location": {"name": "Remote - US"}, "absolute_url": "https://boards.greenhouse.io/acme/jobs/1"},
		{"title": "Office Manager", "location": {"name": "New York"}, "absolute_url": "https://boards.greenhouse.io/acme/jobs/2"},
		{"title": "SRE", "location": {"name": "remote"}, "absolute_url": "https://boards.greenhouse.io/acme/jobs/3"},
		{"title": "Data Engineer", "location": {"name": "Remote"}, "absolute_url": "https://boards.greenhouse.io/acme/jobs/4"}
	]}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/acme-corp/jobs", r.URL.Path)
		_, _ = w.Write([]byte(fixture))
	}))
	defer server.Close()

	backend := NewGreenhouseBackend(server.Client())
	backend.BaseURL = server.URL

	result, err := backend.Probe(context.Background(), "acme-corp")
	require.NoError(t, err)

	assert.True(t, result.Found)
	assert.Equal(t, "greenhouse", result.Source)
	assert.Equal(t, "Acme Corp", result.CompanyName)
	assert.Equal(t, 4, result.JobCount)
	assert.Equal(t, 3, result.RemoteJobCount)
	// Samples are capped at three
	require.Len(t, result.SampleJobs, 3)
	assert.Equal(t, "Backend Engineer", result.SampleJobs[0].Title)
}

func TestGreenhouseBackend_ProbeMiss(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	backend := NewGreenhouseBackend(server.Client())
	backend.BaseURL = server.URL

	// An unknown slug is a clean miss, not an error
	result, err := backend.Probe(context.Background(), "nowhere")
	require.NoError(t, err)
	assert.False(t, result.Found)
}

func TestGreenhouseBackend_ProbeTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	backend := NewGreenhouseBackend(server.Client())
	backend.BaseURL = server.URL

	_, err := backend.Probe(context.Background(), "acme")
	require.Error(t, err)
}

func TestLeverBackend_Probe(t *testing.T) {
	fixture := `[
		{"text": "Backend Engineer", "hostedUrl": "https://jobs.lever.co/acme/1", "categories": {"location": "Remote"}},
		{"text": "Designer", "hostedUrl": "https://jobs.lever.co/acme/2", "categories": {"location": "Berlin"}}
	]`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/acme", r.URL.Path)
		_, _ = w.Write([]byte(fixture))
	}))
	defer server.Close()

	backend := NewLeverBackend(server.Client())
	backend.BaseURL = server.URL

	result, err := backend.Probe(context.Background(), "acme")
	require.NoError(t, err)

	assert.True(t, result.Found)
	assert.Equal(t, "lever", result.Source)
	assert.Equal(t, 2, result.JobCount)
	assert.Equal(t, 1, result.RemoteJobCount)
	assert.Len(t, result.SampleJobs, 2)
}

func TestLeverBackend_ProbeMiss(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	backend := NewLeverBackend(server.Client())
	backend.BaseURL = server.URL

	result, err := backend.Probe(context.Background(), "nowhere")
	require.NoError(t, err)
	assert.False(t, result.Found)
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		slug     string
		expected string
	}{
		{"acme", "Acme"},
		{"acme-corp", "Acme Corp"},
		{"acme_labs", "Acme Labs"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, displayName(tt.slug), "displayName(%q)", tt.slug)
	}
}

func TestSummarize_EmptyBoardStillFound(t *testing.T) {
	result := summarize("greenhouse", "Acme", nil)
	assert.True(t, result.Found)
	assert.Zero(t, result.JobCount)
	assert.Zero(t, result.RemoteJobCount)
	assert.Empty(t, result.SampleJobs)
}
