// Package backoff 退避算法测试
package backoff

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestBackoff_ExponentialGrowth(t *testing.T) {
	b := New(time.Second, 30*time.Second, 0) // 无抖动，便于验证

	expected := []time.Duration{
		time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
		30 * time.Second, // 封顶
		30 * time.Second,
	}
	for i, want := range expected {
		if got := b.Next(); got != want {
			t.Fatalf("第 %d 次 Next()=%v, want %v", i, got, want)
		}
	}
}

func TestBackoff_Reset(t *testing.T) {
	b := New(time.Second, 30*time.Second, 0)
	_ = b.Next()
	_ = b.Next()
	if b.Attempt() != 2 {
		t.Fatalf("Attempt=%d, want 2", b.Attempt())
	}

	b.Reset()
	if b.Attempt() != 0 {
		t.Fatalf("Reset 后 Attempt=%d, want 0", b.Attempt())
	}
	if got := b.Next(); got != time.Second {
		t.Fatalf("Reset 后首次 Next()=%v, want 1s", got)
	}
}

func TestBackoff_Bounds_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("延迟不超过最大值上限（含抖动）", prop.ForAll(
		func(baseMs, maxMs, jitterPercent int) bool {
			base := time.Duration(baseMs) * time.Millisecond
			max := time.Duration(maxMs) * time.Millisecond
			jitter := float64(jitterPercent) / 100.0
			b := New(base, max, jitter)

			maxPossible := float64(max) * (1 + jitter)
			for i := 0; i < 20; i++ {
				if float64(b.Next()) > maxPossible {
					return false
				}
			}
			return true
		},
		gen.IntRange(100, 2000),
		gen.IntRange(5000, 60000),
		gen.IntRange(0, 50),
	))

	properties.TestingRun(t)
}
