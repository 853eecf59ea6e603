// Package history keeps the append-only record of commits.
package history

import (
	"fmt"
	"os"
	"strings"

	"svcs/internal/validation"

	"go.uber.org/zap"
)

// Entry is one commit as recorded in the log.
type Entry struct {
	CommitID string
	Author   string
	Message  string
}

func (e Entry) String() string {
	return strings.Join([]string{e.CommitID, e.Author, e.Message}, validation.FieldSeparator)
}

// MalformedEntryError reports a log line that does not split into exactly
// three fields.
type MalformedEntryError struct {
	Line   int
	Fields int
}

func (e *MalformedEntryError) Error() string {
	return fmt.Sprintf("log line %d has %d fields, want 3", e.Line, e.Fields)
}

// Log stores entries as "<commitId>/<author>/<message>" lines, oldest first.
// Lines are joined by "\n" with no trailing newline.
type Log struct {
	path   string
	logger *zap.Logger
}

func NewLog(path string, logger *zap.Logger) *Log {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Log{path: path, logger: logger}
}

// Append adds e to the end of the log. Fields containing the separator or a
// line break are rejected since they could not be read back.
func (l *Log) Append(e Entry) error {
	for _, f := range []struct{ name, value string }{
		{"commit id", e.CommitID},
		{"username", e.Author},
		{"message", e.Message},
	} {
		if err := validation.LogField(f.name, f.value); err != nil {
			return err
		}
	}

	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("stat log: %w", err)
	}

	record := e.String()
	if info.Size() > 0 {
		record = "\n" + record
	}
	if _, err := file.WriteString(record); err != nil {
		return fmt.Errorf("appending to log: %w", err)
	}

	l.logger.Debug("log entry appended", zap.String("commit", e.CommitID))
	return nil
}

// ReadAll returns every entry, oldest first. A missing log is empty.
func (l *Log) ReadAll() ([]Entry, error) {
	data, err := os.ReadFile(l.path)
	if os.IsNotExist(err) {
		return []Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading log: %w", err)
	}

	entries := []Entry{}
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}

		fields := strings.Split(line, validation.FieldSeparator)
		if len(fields) != 3 {
			return nil, &MalformedEntryError{Line: i + 1, Fields: len(fields)}
		}
		entries = append(entries, Entry{
			CommitID: fields[0],
			Author:   fields[1],
			Message:  fields[2],
		})
	}
	return entries, nil
}

// Newest returns the entries most recent first.
func Newest(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[len(entries)-1-i] = e
	}
	return out
}
