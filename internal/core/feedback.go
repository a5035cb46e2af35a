package core

import (
	"fmt"
	"strings"
)

// NoIssuesFound is the transcript text for a run that recorded no feedback.
const NoIssuesFound = "No issues found."

// FeedbackLog is the ordered, append-only narrative of one pipeline run.
// The zero value is ready to use. It is not safe for concurrent use; a run
// owns its log.
type FeedbackLog struct {
	entries []string
}

// Add appends a formatted entry.
func (l *FeedbackLog) Add(format string, args ...any) {
	l.entries = append(l.entries, fmt.Sprintf(format, args...))
}

// Append appends entries verbatim.
func (l *FeedbackLog) Append(entries ...string) {
	l.entries = append(l.entries, entries...)
}

// Len returns the number of entries.
func (l *FeedbackLog) Len() int {
	return len(l.entries)
}

// Entries returns a copy of the transcript.
func (l *FeedbackLog) Entries() []string {
	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}

// String renders the transcript in the form the persistence layer stores.
func (l *FeedbackLog) String() string {
	if len(l.entries) == 0 {
		return NoIssuesFound
	}
	return strings.Join(l.entries, "\n")
}

// SplitFeedback turns a stored transcript back into entries.
func SplitFeedback(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
