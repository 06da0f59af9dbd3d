package state

import (
	"sync"
	"time"
)

// Agent identifiers used as log entry sources and destinations.
const (
	AgentOrchestrator = "orchestrator"
	AgentClassifier   = "classifier"
	AgentDataWorker   = "data_worker"
	AgentSupport      = "support_worker"
	AgentToolGateway  = "tool_gateway"
)

// Entry is one immutable record in the communication log. Seq is assigned at
// append time and totally orders all entries of a run.
type Entry struct {
	Seq         int64     `json:"seq"`
	Source      string    `json:"source"`
	Destination string    `json:"destination,omitempty"`
	Message     string    `json:"message"`
	Timestamp   time.Time `json:"timestamp"`
}

// CommunicationLog is the append-only coordination record for one run.
// Appends are serialized under a mutex so concurrent sub-tasks can log
// safely; the sequence counter is monotonic and gapless, starting at 1.
type CommunicationLog struct {
	mu      sync.Mutex
	entries []Entry
	seq     int64
	now     func() time.Time
}

func NewCommunicationLog() *CommunicationLog {
	return &CommunicationLog{now: time.Now}
}

// WithClock overrides the timestamp source. Used by tests.
func (l *CommunicationLog) WithClock(now func() time.Time) *CommunicationLog {
	if now != nil {
		l.now = now
	}
	return l
}

// Append records a message from source to destination (destination may be
// empty for broadcast-style entries) and returns the assigned entry.
func (l *CommunicationLog) Append(source, destination, message string) Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++
	entry := Entry{
		Seq:         l.seq,
		Source:      source,
		Destination: destination,
		Message:     message,
		Timestamp:   l.now().UTC(),
	}
	l.entries = append(l.entries, entry)
	return entry
}

func (l *CommunicationLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Snapshot returns a copy of all entries in sequence order. The log itself
// is never exposed for mutation.
func (l *CommunicationLog) Snapshot() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// CountBySource returns how many entries a given source appended.
func (l *CommunicationLog) CountBySource(source string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.entries {
		if e.Source == source {
			n++
		}
	}
	return n
}
