package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// CandidateAddedAtField is the database field name for candidate queue ordering
const CandidateAddedAtField = "added_at"

// CandidateStatus represents the discovery state of a potential company
type CandidateStatus int

// Candidate status constants
const (
	// CandidateStatusUnknown represents an unknown or invalid candidate status
	CandidateStatusUnknown CandidateStatus = iota
	// CandidateStatusPending indicates the candidate has never been probed
	CandidateStatusPending
	// CandidateStatusChecking indicates a probe is currently in flight
	CandidateStatusChecking
	// CandidateStatusDiscovered indicates a probe confirmed the company on some source
	CandidateStatusDiscovered
	// CandidateStatusNotFound indicates every probe backend missed; eligible for retry
	CandidateStatusNotFound
)

var candidateStatusNames = []string{
	"unknown",
	"pending",
	"checking",
	"discovered",
	"not_found",
}

// ParseCandidateStatus converts a string representation of a candidate status
// to CandidateStatus type
func ParseCandidateStatus(str string) (CandidateStatus, error) {
	for i, status := range candidateStatusNames {
		if status == str {
			return CandidateStatus(i), nil
		}
	}
	return CandidateStatusUnknown, fmt.Errorf("invalid candidate status: %s", str)
}

func (s CandidateStatus) String() string {
	if int(s) >= len(candidateStatusNames) {
		return candidateStatusNames[CandidateStatusUnknown]
	}
	return candidateStatusNames[s]
}

// MarshalJSON implements the json.Marshaler interface for CandidateStatus
func (s CandidateStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for CandidateStatus
func (s *CandidateStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	status, err := ParseCandidateStatus(str)
	if err != nil {
		return err
	}

	*s = status
	return nil
}

// PotentialCompany is one entry in the discovery candidate queue. Rows are
// seeded externally and only ever mutated by the discovery state machine;
// they are never deleted, so a not_found candidate can be retried later.
type PotentialCompany struct {
	gorm.Model
	Slug          string          `json:"slug" gorm:"not null;uniqueIndex"`
	Status        CandidateStatus `json:"status" gorm:"index"`
	CheckCount    int             `json:"check_count" gorm:"not null;default:0"`
	AddedAt       time.Time       `json:"added_at" gorm:"index"`
	LastCheckedAt *time.Time      `json:"last_checked_at,omitempty"`
}

// SampleJob is a small excerpt of a probed company's board kept on the
// DiscoveredCompany row for operator inspection.
type SampleJob struct {
	Title    string `json:"title"`
	Location string `json:"location,omitempty"`
	URL      string `json:"url,omitempty"`
}

// DiscoveredCompany is a candidate that a probe backend confirmed. Inserted
// with insert-or-ignore semantics on the unique slug so concurrent discovery
// runs race benignly.
type DiscoveredCompany struct {
	gorm.Model
	Slug           string      `json:"slug" gorm:"not null;uniqueIndex"`
	Name           string      `json:"name" gorm:"not null"`
	Source         string      `json:"source" gorm:"not null;index"`
	Status         string      `json:"status" gorm:"not null;default:active"`
	JobCount       int         `json:"job_count"`
	RemoteJobCount int         `json:"remote_job_count"`
	SampleJobs     []SampleJob `json:"sample_jobs,omitempty" gorm:"serializer:json"`
}

// CompanyJobProgress is the resumable per-company sync cursor. Created on a
// company's first sync, updated every tick, never deleted. LastJobOffset
// resets to 0 when the company's backlog was drained in one tick.
type CompanyJobProgress struct {
	gorm.Model
	CompanySlug   string    `json:"company_slug" gorm:"not null;uniqueIndex"`
	Source        string    `json:"source" gorm:"not null"`
	LastJobOffset int       `json:"last_job_offset" gorm:"not null;default:0"`
	LastSyncedAt  time.Time `json:"last_synced_at"`
}
