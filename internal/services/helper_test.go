package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/remoteindex/remoteindex/internal/db/models"
	"github.com/remoteindex/remoteindex/internal/db/repos"
	"github.com/remoteindex/remoteindex/internal/probe"
	"github.com/remoteindex/remoteindex/internal/sources"
)

// TestSetup sets up an in-memory database, repositories and services for
// testing
type TestSetup struct {
	DB     *gorm.DB
	Stores *repos.Stores
	ctx    context.Context
}

// NewTestSetup creates a new test setup with in-memory database
func NewTestSetup(t *testing.T) *TestSetup {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_json=1"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	assert.NoError(t, err, "Failed to create in-memory database")

	err = db.AutoMigrate(
		&models.Category{},
		&models.JobPosting{},
		&models.DuplicateJobPair{},
		&models.PotentialCompany{},
		&models.DiscoveredCompany{},
		&models.CompanyJobProgress{},
		&models.SyncHistory{},
	)
	assert.NoError(t, err, "Failed to run migrations")

	return &TestSetup{
		DB:     db,
		Stores: repos.NewStores(db),
		ctx:    context.Background(),
	}
}

// CleanUp cleans up resources after test
func (ts *TestSetup) CleanUp() {
	sqlDB, err := ts.DB.DB()
	if err == nil && sqlDB != nil {
		_ = sqlDB.Close()
	}
}

func (ts *TestSetup) seedDiscovered(t *testing.T, slug, source string) {
	created, err := ts.Stores.Companies.InsertDiscovered(ts.ctx, &models.DiscoveredCompany{
		Slug:   slug,
		Name:   slug,
		Source: source,
		Status: "active",
	})
	require.NoError(t, err)
	require.True(t, created)
}

func (ts *TestSetup) seedCandidate(t *testing.T, slug string) *models.PotentialCompany {
	candidate := &models.PotentialCompany{Slug: slug}
	require.NoError(t, ts.Stores.Companies.CreateCandidate(ts.ctx, candidate))
	return candidate
}

func (ts *TestSetup) seedPosting(t *testing.T, p models.JobPosting) *models.JobPosting {
	require.NoError(t, ts.Stores.Postings.Create(ts.ctx, &p))
	return &p
}

func (ts *TestSetup) postingCount(t *testing.T) int64 {
	count, err := ts.Stores.Postings.Count(ts.ctx)
	require.NoError(t, err)
	return count
}

// fakeSource is a scripted Source. Per-company sources hold a backlog per
// company slug and apply offset/limit windowing like a real adapter;
// aggregator sources return their whole feed.
type fakeSource struct {
	name       string
	perCompany bool
	postings   map[string][]sources.RawPosting
	errs       map[string]error
	calls      []sources.FetchOptions
}

func newFakeSource(name string, perCompany bool) *fakeSource {
	return &fakeSource{
		name:       name,
		perCompany: perCompany,
		postings:   make(map[string][]sources.RawPosting),
		errs:       make(map[string]error),
	}
}

func (f *fakeSource) Name() string     { return f.name }
func (f *fakeSource) PerCompany() bool { return f.perCompany }

func (f *fakeSource) Fetch(_ context.Context, opts sources.FetchOptions) ([]sources.RawPosting, error) {
	f.calls = append(f.calls, opts)
	if err := f.errs[opts.Company]; err != nil {
		return nil, err
	}
	backlog := f.postings[opts.Company]
	if !f.perCompany {
		return backlog, nil
	}
	if opts.Offset >= len(backlog) {
		return nil, nil
	}
	end := opts.Offset + opts.Limit
	if opts.Limit <= 0 || end > len(backlog) {
		end = len(backlog)
	}
	return backlog[opts.Offset:end], nil
}

// addPostings appends n generated postings for a company ("" for a feed).
func (f *fakeSource) addPostings(company string, n int) {
	for i := 0; i < n; i++ {
		seq := len(f.postings[company])
		f.postings[company] = append(f.postings[company], sources.RawPosting{
			Title:      "Backend Engineer",
			Company:    company,
			SourceName: f.name,
			SourceURL:  fmt.Sprintf("https://%s.example.com/%s/jobs/%d", f.name, company, seq),
		})
	}
}

// fakeBackend is a scripted probe backend.
type fakeBackend struct {
	name    string
	results map[string]probe.Result
	errs    map[string]error
	calls   int
}

func newFakeBackend(name string) *fakeBackend {
	return &fakeBackend{
		name:    name,
		results: make(map[string]probe.Result),
		errs:    make(map[string]error),
	}
}

func (f *fakeBackend) Name() string { return f.name }

func (f *fakeBackend) Probe(_ context.Context, querySlug string) (probe.Result, error) {
	f.calls++
	if err := f.errs[querySlug]; err != nil {
		return probe.Result{}, err
	}
	return f.results[querySlug], nil
}

func (f *fakeBackend) hit(slug string, jobCount, remoteCount int) {
	f.results[slug] = probe.Result{
		Found:          true,
		CompanyName:    slug,
		Source:         f.name,
		JobCount:       jobCount,
		RemoteJobCount: remoteCount,
	}
}

// steppedClock advances a fixed amount on every reading, making budget
// checks deterministic.
type steppedClock struct {
	current time.Time
	step    time.Duration
}

func newSteppedClock(step time.Duration) *steppedClock {
	return &steppedClock{current: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), step: step}
}

func (c *steppedClock) Now() time.Time {
	c.current = c.current.Add(c.step)
	return c.current
}
