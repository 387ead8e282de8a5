package repos

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type ProgressRepositoryTestSuite struct {
	DBRepositoryTestSuite
}

func TestProgressRepository(t *testing.T) {
	suite.Run(t, new(ProgressRepositoryTestSuite))
}

func (s *ProgressRepositoryTestSuite) TestGetMissing() {
	progress, err := s.progressRepo.Get(s.ctx, "never-synced")
	s.NoError(err)
	s.Nil(progress)
}

func (s *ProgressRepositoryTestSuite) TestUpsertCreatesThenUpdates() {
	first := time.Now().Add(-time.Hour)
	err := s.progressRepo.Upsert(s.ctx, "acme", "greenhouse", 20, first)
	s.NoError(err)

	progress, err := s.progressRepo.Get(s.ctx, "acme")
	s.NoError(err)
	s.Require().NotNil(progress)
	s.Equal(20, progress.LastJobOffset)
	s.Equal("greenhouse", progress.Source)

	// Second upsert hits the same row, it does not create another
	second := time.Now()
	err = s.progressRepo.Upsert(s.ctx, "acme", "greenhouse", 0, second)
	s.NoError(err)

	progress, err = s.progressRepo.Get(s.ctx, "acme")
	s.NoError(err)
	s.Require().NotNil(progress)
	s.Equal(0, progress.LastJobOffset)

	var count int64
	s.Require().NoError(s.db.Table("company_job_progresses").Count(&count).Error)
	s.Equal(int64(1), count)
}
