package state

import (
	"sync"
	"testing"
	"time"
)

func TestCommunicationLogSequenceIsGapless(t *testing.T) {
	t.Parallel()

	log := NewCommunicationLog()
	log.Append(AgentOrchestrator, AgentClassifier, "one")
	log.Append(AgentClassifier, AgentOrchestrator, "two")
	log.Append(AgentOrchestrator, "", "three")

	entries := log.Snapshot()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	for i, e := range entries {
		if e.Seq != int64(i+1) {
			t.Fatalf("entry %d has seq %d, want %d", i, e.Seq, i+1)
		}
	}
}

func TestCommunicationLogConcurrentAppends(t *testing.T) {
	t.Parallel()

	log := NewCommunicationLog()

	const writers = 8
	const perWriter = 50

	var wg sync.WaitGroup
	sources := []string{AgentDataWorker, AgentSupport, AgentOrchestrator, AgentToolGateway}
	for w := 0; w < writers; w++ {
		wg.Add(1)
		source := sources[w%len(sources)]
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				log.Append(source, "", "msg")
			}
		}()
	}
	wg.Wait()

	entries := log.Snapshot()
	if len(entries) != writers*perWriter {
		t.Fatalf("expected %d entries, got %d", writers*perWriter, len(entries))
	}
	seen := make(map[int64]bool, len(entries))
	for _, e := range entries {
		if e.Seq < 1 || e.Seq > int64(len(entries)) {
			t.Fatalf("seq %d out of range", e.Seq)
		}
		if seen[e.Seq] {
			t.Fatalf("duplicate seq %d", e.Seq)
		}
		seen[e.Seq] = true
	}
}

func TestCommunicationLogSnapshotIsACopy(t *testing.T) {
	t.Parallel()

	log := NewCommunicationLog()
	log.Append(AgentOrchestrator, "", "original")

	snap := log.Snapshot()
	snap[0].Message = "mutated"

	if got := log.Snapshot()[0].Message; got != "original" {
		t.Fatalf("snapshot mutation leaked into the log: %q", got)
	}
}

func TestCommunicationLogCountBySource(t *testing.T) {
	t.Parallel()

	log := NewCommunicationLog().WithClock(func() time.Time {
		return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	})
	log.Append(AgentDataWorker, AgentOrchestrator, "a")
	log.Append(AgentDataWorker, AgentOrchestrator, "b")
	log.Append(AgentSupport, AgentOrchestrator, "c")

	if got := log.CountBySource(AgentDataWorker); got != 2 {
		t.Fatalf("CountBySource(data_worker) = %d, want 2", got)
	}
	if got := log.CountBySource(AgentClassifier); got != 0 {
		t.Fatalf("CountBySource(classifier) = %d, want 0", got)
	}
	if ts := log.Snapshot()[0].Timestamp; ts != time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC) {
		t.Fatalf("unexpected timestamp %v", ts)
	}
}
