package repos

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/remoteindex/remoteindex/internal/db/models"
)

type SyncHistoryRepositoryTestSuite struct {
	DBRepositoryTestSuite
}

func TestSyncHistoryRepository(t *testing.T) {
	suite.Run(t, new(SyncHistoryRepositoryTestSuite))
}

func (s *SyncHistoryRepositoryTestSuite) TestCreateAndGetByID() {
	run := s.createTestRun(models.SyncTypeJobs)

	found, err := s.historyRepo.GetByID(s.ctx, run.ID)
	s.NoError(err)
	s.Equal(run.RunID, found.RunID)
	s.Equal(models.SyncStatusRunning, found.Status)

	_, err = s.historyRepo.GetByID(s.ctx, 9999)
	s.Error(err)
}

func (s *SyncHistoryRepositoryTestSuite) TestUpdateAccumulatesLogsAndStats() {
	run := s.createTestRun(models.SyncTypeJobs)

	run.Logs = append(run.Logs, models.LogEntry{
		Timestamp: time.Now(),
		Level:     "info",
		Message:   "processing acme via greenhouse",
	})
	run.Stats.Added = 3
	run.Stats.Skipped = 1
	err := s.historyRepo.Update(s.ctx, run)
	s.NoError(err)

	found, err := s.historyRepo.GetByID(s.ctx, run.ID)
	s.NoError(err)
	s.Require().Len(found.Logs, 1)
	s.Equal("processing acme via greenhouse", found.Logs[0].Message)
	s.Equal(3, found.Stats.Added)
	s.Equal(1, found.Stats.Skipped)
}

func (s *SyncHistoryRepositoryTestSuite) TestListExcludesCursors() {
	s.createTestRun(models.SyncTypeJobs)
	s.createTestRun(models.SyncTypeDiscovery)

	// Cursor rows must never appear in listings
	_, err := s.historyRepo.GetCursor(s.ctx, models.SyncTypeJobs)
	s.Require().NoError(err)

	runs, err := s.historyRepo.List(s.ctx, "", nil)
	s.NoError(err)
	s.Len(runs, 2)

	runs, err = s.historyRepo.List(s.ctx, models.SyncTypeDiscovery, nil)
	s.NoError(err)
	s.Require().Len(runs, 1)
	s.Equal(models.SyncTypeDiscovery, runs[0].SyncType)
}

func (s *SyncHistoryRepositoryTestSuite) TestGetCursorCreatesSingleton() {
	cursor, err := s.historyRepo.GetCursor(s.ctx, models.SyncTypeJobs)
	s.NoError(err)
	s.Require().NotNil(cursor)
	s.Zero(cursor.LastProcessedIndex)
	s.Equal(models.SyncStatusBatchState, cursor.Status)

	// Second fetch returns the same row
	again, err := s.historyRepo.GetCursor(s.ctx, models.SyncTypeJobs)
	s.NoError(err)
	s.Equal(cursor.ID, again.ID)

	// Different sync types get independent cursors
	other, err := s.historyRepo.GetCursor(s.ctx, models.SyncTypeDiscovery)
	s.NoError(err)
	s.NotEqual(cursor.ID, other.ID)
}

func (s *SyncHistoryRepositoryTestSuite) TestSaveCursorRoundTrip() {
	cursor, err := s.historyRepo.GetCursor(s.ctx, models.SyncTypeJobs)
	s.Require().NoError(err)

	err = s.historyRepo.SaveCursor(s.ctx, cursor, 5, 12)
	s.NoError(err)

	reloaded, err := s.historyRepo.GetCursor(s.ctx, models.SyncTypeJobs)
	s.NoError(err)
	s.Equal(5, reloaded.LastProcessedIndex)
	s.Equal(12, reloaded.TotalItems)
}
