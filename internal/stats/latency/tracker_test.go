package latency

import (
	"testing"
	"time"
)

func TestEmptyTrackerZeroStats(t *testing.T) {
	tr := NewTracker(100)
	st := tr.Stats()
	if st.Count != 0 || st.P50Ms != 0 || st.P99Ms != 0 {
		t.Fatalf("空追踪器应返回全零统计: %+v", st)
	}
}

func TestNonPositiveElapsedIgnored(t *testing.T) {
	tr := NewTracker(100)
	tr.Add(0)
	tr.Add(-5)
	if got := tr.Stats().Count; got != 0 {
		t.Fatalf("非正耗时不应计入: got %d", got)
	}
}

func TestQuantilesOnKnownSamples(t *testing.T) {
	tr := NewTracker(100)
	// 1ms..10ms
	for i := 1; i <= 10; i++ {
		tr.Add(int64(i) * int64(time.Millisecond))
	}

	st := tr.Stats()
	if st.Count != 10 {
		t.Fatalf("样本数应为 10: got %d", st.Count)
	}
	// idx = int(9*0.5) = 4 -> 5ms
	if st.P50Ms != 5 {
		t.Fatalf("P50 应为 5ms: got %v", st.P50Ms)
	}
	// idx = int(9*0.9) = 8 -> 9ms
	if st.P90Ms != 9 {
		t.Fatalf("P90 应为 9ms: got %v", st.P90Ms)
	}
	// idx = int(9*0.99) = 8 -> 9ms
	if st.P99Ms != 9 {
		t.Fatalf("P99 应为 9ms: got %v", st.P99Ms)
	}
}

func TestRollingWindowEvictsOldest(t *testing.T) {
	tr := NewTracker(3)
	tr.Add(int64(time.Second)) // 被淘汰
	for i := 0; i < 3; i++ {
		tr.Add(int64(time.Millisecond))
	}

	st := tr.Stats()
	if st.Count != 4 {
		t.Fatalf("Count 应累计所有样本: got %d", st.Count)
	}
	if st.P99Ms != 1 {
		t.Fatalf("窗口淘汰后 P99 应为 1ms: got %v", st.P99Ms)
	}
}
