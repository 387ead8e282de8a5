package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/remoteindex/remoteindex/internal/db/models"
	"github.com/remoteindex/remoteindex/internal/logger"
)

// RunLog collects the ordered log lines of one engine run. Lines are
// mirrored to the process logger and periodically flushed into the run's
// SyncHistory row, so a concurrent status poller observes monotonic
// progress.
type RunLog struct {
	mu      sync.Mutex
	entries []models.LogEntry
}

// NewRunLog creates an empty run log.
func NewRunLog() *RunLog {
	return &RunLog{}
}

func (l *RunLog) append(level, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	l.mu.Lock()
	l.entries = append(l.entries, models.LogEntry{
		Timestamp: time.Now().UTC(),
		Level:     level,
		Message:   msg,
	})
	l.mu.Unlock()
}

// Infof records an info line.
func (l *RunLog) Infof(format string, args ...interface{}) {
	l.append("info", format, args...)
	logger.Infof(format, args...)
}

// Warnf records a warning line.
func (l *RunLog) Warnf(format string, args ...interface{}) {
	l.append("warn", format, args...)
	logger.Warnf(format, args...)
}

// Errorf records an error line.
func (l *RunLog) Errorf(format string, args ...interface{}) {
	l.append("error", format, args...)
	logger.Errorf(format, args...)
}

// Entries returns a snapshot of the collected lines in append order.
func (l *RunLog) Entries() []models.LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}
