// Package pnl 实现平仓收益的滚动统计。
// 按平均成本法在仓位回落/反向时确认已实现盈亏，
// 每次确认形成一个样本进入环形缓冲，派生胜率与期望值。
package pnl

import "strato-trade/internal/core/model"

// Sample 一次已实现盈亏样本
type Sample struct {
	// Gross 毛收益 = (平仓价 - 平均开仓价) * 平仓量 * 方向
	Gross float64
	// Fee 平仓笔的交易成本
	Fee float64
	// Net 净收益 = Gross - Fee
	Net float64
	// ClosedAtUnixNs 平仓时间（纳秒）
	ClosedAtUnixNs int64
}

// Win 净收益是否为正
func (s Sample) Win() bool { return s.Net > 0 }

// Stats 已实现盈亏统计快照
type Stats struct {
	// Count 窗口内样本数
	Count int `json:"count"`
	// WinCount 盈利样本数
	WinCount int `json:"win_count"`
	// LossCount 亏损样本数（净收益 <= 0）
	LossCount int `json:"loss_count"`
	// WinRate 胜率 = WinCount / Count
	WinRate float64 `json:"win_rate"`
	// AvgWin 盈利样本的平均净收益
	AvgWin float64 `json:"avg_win"`
	// AvgLoss 亏损样本的平均净亏损（取正值）
	AvgLoss float64 `json:"avg_loss"`
	// Expectancy 期望值 = WinRate*AvgWin - (1-WinRate)*AvgLoss
	Expectancy float64 `json:"expectancy"`
	// TotalNet 窗口内净收益合计
	TotalNet float64 `json:"total_net"`
}

// Tracker 已实现盈亏追踪器
// 单 goroutine 使用（事件循环独占），无锁。
type Tracker struct {
	// maxSamples 环形缓冲容量
	maxSamples int
	// samples 环形缓冲
	samples []Sample
	// next 下一个写入位置
	next int
	// full 缓冲是否已写满一圈
	full bool

	// position 当前持仓（正多负空）
	position float64
	// avgEntry 当前持仓的平均开仓价
	avgEntry float64
}

// NewTracker 创建盈亏追踪器
// 参数 maxSamples: 样本窗口大小（建议 200）
func NewTracker(maxSamples int) *Tracker {
	if maxSamples <= 0 {
		maxSamples = 200
	}
	return &Tracker{
		maxSamples: maxSamples,
		samples:    make([]Sample, maxSamples),
	}
}

// Record 记录一笔成交并在平仓时确认盈亏
// 加仓（与持仓同向或空仓）只更新平均开仓价；
// 减仓按平均成本确认 Gross，平仓笔的 Cost 计入该样本；
// 穿越零点时先平旧仓确认，剩余量按成交价开新仓。
func (t *Tracker) Record(tr model.Trade) {
	dir := float64(tr.Side.Direction())
	size := tr.Size
	if size <= 0 {
		return
	}

	// 同向加仓或空仓开仓
	if t.position == 0 || sameSign(t.position, dir) {
		total := abs(t.position) + size
		t.avgEntry = (t.avgEntry*abs(t.position) + tr.Price*size) / total
		t.position += dir * size
		return
	}

	// 反向成交：先平旧仓
	closed := size
	if closed > abs(t.position) {
		closed = abs(t.position)
	}
	posDir := sign(t.position)
	gross := (tr.Price - t.avgEntry) * closed * posDir
	t.push(Sample{
		Gross:          gross,
		Fee:            tr.Cost,
		Net:            gross - tr.Cost,
		ClosedAtUnixNs: tr.ExecutedAtUnixNs,
	})

	remaining := size - closed
	t.position += dir * closed
	if t.position == 0 {
		t.avgEntry = 0
	}
	if remaining > 0 {
		// 穿越零点，剩余量开新仓
		t.position = dir * remaining
		t.avgEntry = tr.Price
	}
}

// Stats 获取当前统计快照
func (t *Tracker) Stats() Stats {
	n := t.count()
	out := Stats{Count: n}
	if n == 0 {
		return out
	}

	var winSum, lossSum float64
	for i := 0; i < n; i++ {
		s := t.at(i)
		out.TotalNet += s.Net
		if s.Win() {
			out.WinCount++
			winSum += s.Net
		} else {
			out.LossCount++
			lossSum += -s.Net
		}
	}

	out.WinRate = float64(out.WinCount) / float64(n)
	if out.WinCount > 0 {
		out.AvgWin = winSum / float64(out.WinCount)
	}
	if out.LossCount > 0 {
		out.AvgLoss = lossSum / float64(out.LossCount)
	}
	out.Expectancy = out.WinRate*out.AvgWin - (1-out.WinRate)*out.AvgLoss
	return out
}

// Position 当前追踪到的持仓（正多负空）
func (t *Tracker) Position() float64 { return t.position }

// push 写入一个样本（写满后覆盖最旧）
func (t *Tracker) push(s Sample) {
	t.samples[t.next] = s
	t.next++
	if t.next == t.maxSamples {
		t.next = 0
		t.full = true
	}
}

// count 当前样本数
func (t *Tracker) count() int {
	if t.full {
		return t.maxSamples
	}
	return t.next
}

// at 按时间顺序取第 i 个样本（0 最旧）
func (t *Tracker) at(i int) Sample {
	if !t.full {
		return t.samples[i]
	}
	return t.samples[(t.next+i)%t.maxSamples]
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	if x > 0 {
		return 1
	}
	return 0
}

func sameSign(pos, dir float64) bool {
	return (pos > 0 && dir > 0) || (pos < 0 && dir < 0)
}
