package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const remotiveFixture = `{
	"job-count": 2,
	"jobs": [
		{
			"id": 100,
			"url": "https://remotive.com/remote-jobs/software-dev/backend-engineer-100",
			"title": "Backend Engineer",
			"company_name": "Acme",
			"category": "Software Development",
			"tags": ["go", "postgres"],
			"job_type": "full_time",
			"publication_date": "2025-05-01T09:30:00",
			"salary": "$130k",
			"description": "<p>Build backend services</p>"
		},
		{
			"id": 101,
			"url": "https://remotive.com/remote-jobs/design/designer-101",
			"title": "Designer",
			"company_name": "Globex",
			"category": "",
			"tags": [],
			"publication_date": ""
		}
	]
}`

func TestRemotive_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(remotiveFixture))
	}))
	defer server.Close()

	src := NewRemotive(server.Client())
	src.BaseURL = server.URL

	postings, err := src.Fetch(context.Background(), FetchOptions{})
	require.NoError(t, err)
	require.Len(t, postings, 2)

	p := postings[0]
	assert.Equal(t, "Backend Engineer", p.Title)
	assert.Equal(t, "Acme", p.Company)
	assert.Equal(t, "remotive", p.SourceName)
	assert.Equal(t, "$130k", p.Salary)
	// The category folds into the tags
	assert.Equal(t, []string{"go", "postgres", "Software Development"}, p.Tags)
	require.NotNil(t, p.PostedAt)
	assert.Equal(t, 2025, p.PostedAt.Year())

	assert.Nil(t, postings[1].PostedAt)
	assert.Empty(t, postings[1].Tags)
}

func TestRemotive_PerCompanyContract(t *testing.T) {
	src := NewRemotive(http.DefaultClient)
	assert.False(t, src.PerCompany())
	assert.Equal(t, "remotive", src.Name())
}
