package models

import (
	"gorm.io/gorm"
)

// Database field names used in raw query fragments.
const (
	// PostingCreatedAtField is the database field name for the posting creation timestamp
	PostingCreatedAtField = "created_at"
	// PostingUpdatedAtField is the database field name for the posting update timestamp
	PostingUpdatedAtField = "updated_at"
	// PostingSourceURLField is the database field name for the posting natural key
	PostingSourceURLField = "source_url"
)

// JobPosting represents a single stored job posting. SourceURL is the
// natural key: postings are created on first sight of a URL and updated in
// place on re-sync.
type JobPosting struct {
	gorm.Model
	Title       string   `json:"title" gorm:"not null;index"`
	Company     string   `json:"company" gorm:"index"`
	Description string   `json:"description" gorm:"type:text"`
	Salary      string   `json:"salary"`
	SourceName  string   `json:"source_name" gorm:"not null;index"`
	SourceURL   string   `json:"source_url" gorm:"not null;uniqueIndex"`
	CategoryID  *uint    `json:"category_id,omitempty" gorm:"index"`
	Tags        []string `json:"tags,omitempty" gorm:"serializer:json"`
}

// Category is reference data used to classify postings.
type Category struct {
	gorm.Model
	Name        string `json:"name" gorm:"not null"`
	Slug        string `json:"slug" gorm:"not null;uniqueIndex"`
	Description string `json:"description"`
}

// DuplicateJobPair records one resolved near-duplicate pair. The similarity
// score stored here is the advisory average across criteria; the duplicate
// decision itself is per-criterion.
type DuplicateJobPair struct {
	gorm.Model
	JobID1          uint    `json:"job_id_1" gorm:"not null;index"`
	JobID2          uint    `json:"job_id_2" gorm:"not null;index"`
	SimilarityScore float64 `json:"similarity_score"`
	Resolved        bool    `json:"resolved" gorm:"not null;default:false"`
}
