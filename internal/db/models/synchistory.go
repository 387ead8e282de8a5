package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// SyncHistoryStartedAtField is the database field name for run ordering
const SyncHistoryStartedAtField = "started_at"

// Sync type names recorded on SyncHistory rows.
const (
	// SyncTypeJobs is the orchestrator tick that pulls postings from sources
	SyncTypeJobs = "jobs"
	// SyncTypeDiscovery is the candidate-queue resolution tick
	SyncTypeDiscovery = "discovery"
	// SyncTypeDedupe is a deduplication run
	SyncTypeDedupe = "dedupe"
	// SyncTypePrune is a prune run
	SyncTypePrune = "prune"
)

// SyncStatus represents the lifecycle state of a sync run
type SyncStatus int

// Sync status constants
const (
	// SyncStatusUnknown represents an unknown or invalid sync status
	SyncStatusUnknown SyncStatus = iota
	// SyncStatusRunning indicates the run is in progress
	SyncStatusRunning
	// SyncStatusCompleted indicates the run finished
	SyncStatusCompleted
	// SyncStatusFailed indicates the run aborted outside the per-item loop
	SyncStatusFailed
	// SyncStatusBatchState marks a singleton cursor row, not a user-visible run
	SyncStatusBatchState
)

var syncStatusNames = []string{
	"unknown",
	"running",
	"completed",
	"failed",
	"batch_state",
}

// ParseSyncStatus converts a string representation of a sync status to
// SyncStatus type
func ParseSyncStatus(str string) (SyncStatus, error) {
	for i, status := range syncStatusNames {
		if status == str {
			return SyncStatus(i), nil
		}
	}
	return SyncStatusUnknown, fmt.Errorf("invalid sync status: %s", str)
}

func (s SyncStatus) String() string {
	if int(s) >= len(syncStatusNames) {
		return syncStatusNames[SyncStatusUnknown]
	}
	return syncStatusNames[s]
}

// MarshalJSON implements the json.Marshaler interface for SyncStatus
func (s SyncStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for SyncStatus
func (s *SyncStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	status, err := ParseSyncStatus(str)
	if err != nil {
		return err
	}

	*s = status
	return nil
}

// LogEntry is one ordered line in a run's log array.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
}

// SyncStats aggregates the mutation counters of one run.
type SyncStats struct {
	Added          int `json:"added"`
	Updated        int `json:"updated"`
	Deleted        int `json:"deleted"`
	Skipped        int `json:"skipped"`
	CompaniesAdded int `json:"companies_added"`
}

// SyncHistory is the append/update ledger of every engine run. Rows with
// status batch_state are persisted cursors keyed by SyncType and never show
// up in run listings.
type SyncHistory struct {
	gorm.Model
	RunID              string     `json:"run_id" gorm:"index"`
	SyncType           string     `json:"sync_type" gorm:"not null;index"`
	Status             SyncStatus `json:"status" gorm:"index"`
	StartedAt          time.Time  `json:"started_at" gorm:"index"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	Logs               []LogEntry `json:"logs" gorm:"serializer:json"`
	Stats              SyncStats  `json:"stats" gorm:"serializer:json"`
	Error              string     `json:"error,omitempty" gorm:"type:text"`
	LastProcessedIndex int        `json:"last_processed_index"`
	TotalItems         int        `json:"total_items"`
}
