// Package latency 实现快照处理时延的滚动统计。
// 时延定义为单个快照从进入流水线到产出决策的耗时。
package latency

import (
	"sort"
	"sync"
)

// Stats 处理时延统计快照（滚动窗口）
// 单位：毫秒。
type Stats struct {
	// Count 样本总数（累计）
	Count int64 `json:"count"`
	// P50Ms 滚动窗口内的 P50 时延（毫秒）
	P50Ms float64 `json:"p50_ms"`
	// P90Ms 滚动窗口内的 P90 时延（毫秒）
	P90Ms float64 `json:"p90_ms"`
	// P99Ms 滚动窗口内的 P99 时延（毫秒）
	P99Ms float64 `json:"p99_ms"`
}

type rollingWindow struct {
	size  int
	buf   []int64
	pos   int
	count int64
	full  bool

	mu sync.Mutex
}

func newRollingWindow(size int) *rollingWindow {
	return &rollingWindow{size: size, buf: make([]int64, 0, size)}
}

func (w *rollingWindow) add(v int64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.count++
	if w.size <= 0 {
		return
	}

	if !w.full {
		w.buf = append(w.buf, v)
		if len(w.buf) == w.size {
			w.full = true
			w.pos = 0
		}
		return
	}

	w.buf[w.pos] = v
	w.pos++
	if w.pos >= w.size {
		w.pos = 0
	}
}

func (w *rollingWindow) snapshotQuantiles(qs ...float64) (count int64, values []int64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	count = w.count
	if len(w.buf) == 0 {
		return count, make([]int64, len(qs))
	}

	tmp := make([]int64, len(w.buf))
	copy(tmp, w.buf)
	sort.Slice(tmp, func(i, j int) bool { return tmp[i] < tmp[j] })

	values = make([]int64, len(qs))
	n := len(tmp)
	for i, q := range qs {
		if q <= 0 {
			values[i] = tmp[0]
			continue
		}
		if q >= 1 {
			values[i] = tmp[n-1]
			continue
		}
		idx := int(float64(n-1) * q)
		if idx < 0 {
			idx = 0
		}
		if idx >= n {
			idx = n - 1
		}
		values[i] = tmp[idx]
	}
	return count, values
}

// Tracker 处理时延追踪器
type Tracker struct {
	window *rollingWindow
}

// NewTracker 创建时延追踪器
// 参数 windowSize: 滚动窗口大小（建议 10000），用于 P50/P90/P99。
func NewTracker(windowSize int) *Tracker {
	return &Tracker{window: newRollingWindow(windowSize)}
}

// Add 记录一个快照的处理耗时（纳秒，非正值忽略）
func (t *Tracker) Add(elapsedNs int64) {
	if elapsedNs <= 0 {
		return
	}
	t.window.add(elapsedNs)
}

// Stats 获取当前统计快照
func (t *Tracker) Stats() Stats {
	count, qs := t.window.snapshotQuantiles(0.50, 0.90, 0.99)
	return Stats{
		Count: count,
		P50Ms: float64(qs[0]) / 1_000_000.0,
		P90Ms: float64(qs[1]) / 1_000_000.0,
		P99Ms: float64(qs[2]) / 1_000_000.0,
	}
}
