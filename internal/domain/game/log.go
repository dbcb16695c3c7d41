package game

import (
	"fmt"
	"time"
)

// LogType classifies a player-visible log entry
type LogType string

const (
	LogInfo    LogType = "info"
	LogSuccess LogType = "success"
	LogWarning LogType = "warning"
	LogDanger  LogType = "danger"
)

// LogEntry is an immutable line in the player's log
type LogEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Type      LogType   `json:"type"`
	Message   string    `json:"message"`
}

// AddLog prepends an entry. The id is derived from the timestamp and the
// sequence carried in the state, so it stays unique across restarts.
func (s *State) AddLog(now time.Time, t LogType, limit int, format string, args ...any) LogEntry {
	s.LogSeq++
	entry := LogEntry{
		ID:        fmt.Sprintf("%d-%d", now.UnixMilli(), s.LogSeq),
		Timestamp: now,
		Type:      t,
		Message:   fmt.Sprintf(format, args...),
	}

	s.Log = append(s.Log, LogEntry{})
	copy(s.Log[1:], s.Log)
	s.Log[0] = entry

	if limit > 0 && len(s.Log) > limit {
		s.Log = s.Log[:limit]
	}
	return entry
}

// LatestLog returns the newest entry, if any
func (s *State) LatestLog() (LogEntry, bool) {
	if len(s.Log) == 0 {
		return LogEntry{}, false
	}
	return s.Log[0], true
}

// CountLogs returns how many entries of type t are in the log
func (s *State) CountLogs(t LogType) int {
	n := 0
	for _, e := range s.Log {
		if e.Type == t {
			n++
		}
	}
	return n
}
