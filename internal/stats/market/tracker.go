// Package market 实现中间价的滚动统计。
// 按 1s 采样维护滚动窗口，派生 SMA/EMA 和 realized volatility，
// 供周期性指标输出使用。
package market

import (
	"math"
	"time"

	"strato-trade/internal/indicators"
)

// Stats 中间价滚动统计快照
type Stats struct {
	// SampleCount 当前窗口内的采样数
	SampleCount int `json:"sample_count"`
	// LastMid 最近一次采样的中间价
	LastMid float64 `json:"last_mid"`
	// SMA 窗口末端的简单移动平均（窗口未满时为 0）
	SMA float64 `json:"sma"`
	// EMA 窗口末端的指数移动平均
	EMA float64 `json:"ema"`
	// RealizedVol 窗口内 log return 的标准差
	RealizedVol float64 `json:"realized_vol"`
}

// Tracker 中间价滚动统计追踪器
// 单 goroutine 使用（事件循环独占），无锁。
type Tracker struct {
	// maxSamples 窗口大小（按 1s 采样，60 即 1 分钟）
	maxSamples int
	// smaLength SMA/EMA 窗口长度
	smaLength int
	// lastSampleNs 上次采样时间（纳秒）
	lastSampleNs int64
	// samples 中间价采样序列
	samples []float64
}

// NewTracker 创建中间价统计追踪器
// 参数 maxSamples: 采样窗口大小（建议 60，即 1 分钟）
// 参数 smaLength: SMA/EMA 窗口长度（建议 20）
func NewTracker(maxSamples, smaLength int) *Tracker {
	if maxSamples <= 0 {
		maxSamples = 60
	}
	if smaLength <= 0 {
		smaLength = 20
	}
	return &Tracker{
		maxSamples: maxSamples,
		smaLength:  smaLength,
	}
}

// Observe 按 1s 节流采样一次中间价
// 参数 nowNs: 当前时间（纳秒）
// 参数 midPx: 当前中间价（非正值忽略）
func (t *Tracker) Observe(nowNs int64, midPx float64) {
	if midPx <= 0 {
		return
	}
	if t.lastSampleNs > 0 && nowNs-t.lastSampleNs < int64(time.Second) {
		return
	}
	t.lastSampleNs = nowNs

	t.samples = append(t.samples, midPx)
	if len(t.samples) > t.maxSamples {
		t.samples = t.samples[len(t.samples)-t.maxSamples:]
	}
}

// Stats 获取当前统计快照
func (t *Tracker) Stats() Stats {
	n := len(t.samples)
	out := Stats{SampleCount: n}
	if n == 0 {
		return out
	}

	out.LastMid = t.samples[n-1]

	sma := indicators.SMA(t.samples, t.smaLength)
	out.SMA = sma[n-1]

	ema := indicators.EMA(t.samples, t.smaLength)
	out.EMA = ema[n-1]

	out.RealizedVol = t.realizedVol()
	return out
}

// realizedVol 计算窗口内 realized volatility（log return 的标准差）
func (t *Tracker) realizedVol() float64 {
	n := len(t.samples)
	if n < 2 {
		return 0
	}

	returns := make([]float64, 0, n-1)
	for i := 1; i < n; i++ {
		p0 := t.samples[i-1]
		p1 := t.samples[i]
		if p0 <= 0 || p1 <= 0 {
			continue
		}
		returns = append(returns, math.Log(p1/p0))
	}
	if len(returns) < 2 {
		return 0
	}

	var sum float64
	for _, r := range returns {
		sum += r
	}
	mean := sum / float64(len(returns))

	var ss float64
	for _, r := range returns {
		d := r - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(returns)-1))
}
