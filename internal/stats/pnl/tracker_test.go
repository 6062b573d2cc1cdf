package pnl

import (
	"math"
	"testing"

	"strato-trade/internal/core/model"
)

func trade(side model.Side, price, size, cost float64) model.Trade {
	return model.Trade{
		Instrument: "BTCUSDT",
		Side:       side,
		Price:      price,
		Size:       size,
		Cost:       cost,
	}
}

func TestRoundTripWin(t *testing.T) {
	tr := NewTracker(10)
	tr.Record(trade(model.SideBuy, 100, 2, 1))
	tr.Record(trade(model.SideSell, 105, 2, 1))

	st := tr.Stats()
	if st.Count != 1 {
		t.Fatalf("一次完整往返应产生 1 个样本: got %d", st.Count)
	}
	// gross = (105-100)*2 = 10, net = 10 - 1 = 9
	if math.Abs(st.TotalNet-9) > 1e-12 {
		t.Fatalf("净收益应为 9: got %v", st.TotalNet)
	}
	if st.WinCount != 1 || st.WinRate != 1 {
		t.Fatalf("盈利样本应计为 win: win=%d rate=%v", st.WinCount, st.WinRate)
	}
	if tr.Position() != 0 {
		t.Fatalf("平仓后持仓应归零: got %v", tr.Position())
	}
}

func TestRoundTripLoss(t *testing.T) {
	tr := NewTracker(10)
	tr.Record(trade(model.SideBuy, 100, 1, 0.5))
	tr.Record(trade(model.SideSell, 98, 1, 0.5))

	st := tr.Stats()
	// gross = -2, net = -2.5
	if math.Abs(st.TotalNet-(-2.5)) > 1e-12 {
		t.Fatalf("净亏损应为 -2.5: got %v", st.TotalNet)
	}
	if st.LossCount != 1 || st.WinCount != 0 {
		t.Fatalf("亏损样本计数错误: win=%d loss=%d", st.WinCount, st.LossCount)
	}
	if math.Abs(st.AvgLoss-2.5) > 1e-12 {
		t.Fatalf("AvgLoss 应取正值 2.5: got %v", st.AvgLoss)
	}
}

func TestAveragedEntryAcrossAdds(t *testing.T) {
	tr := NewTracker(10)
	tr.Record(trade(model.SideBuy, 100, 1, 0))
	tr.Record(trade(model.SideBuy, 110, 1, 0))
	// avgEntry = 105
	tr.Record(trade(model.SideSell, 107, 2, 0))

	st := tr.Stats()
	// gross = (107-105)*2 = 4
	if math.Abs(st.TotalNet-4) > 1e-12 {
		t.Fatalf("平均成本法净收益应为 4: got %v", st.TotalNet)
	}
}

func TestCrossingZeroOpensNewPosition(t *testing.T) {
	tr := NewTracker(10)
	tr.Record(trade(model.SideBuy, 100, 1, 0))
	// 卖 3：平 1 多仓，剩 2 开空
	tr.Record(trade(model.SideSell, 102, 3, 0))

	if tr.Position() != -2 {
		t.Fatalf("穿越零点后应持有 -2 空仓: got %v", tr.Position())
	}
	st := tr.Stats()
	if st.Count != 1 {
		t.Fatalf("穿越零点只确认旧仓部分: got %d", st.Count)
	}
	if math.Abs(st.TotalNet-2) > 1e-12 {
		t.Fatalf("平多部分毛收益应为 2: got %v", st.TotalNet)
	}

	// 空仓在 99 平掉：gross = (99-102)*2*(-1) = 6
	tr.Record(trade(model.SideBuy, 99, 2, 0))
	st = tr.Stats()
	if math.Abs(st.TotalNet-8) > 1e-12 {
		t.Fatalf("空仓平仓后累计净收益应为 8: got %v", st.TotalNet)
	}
	if tr.Position() != 0 {
		t.Fatalf("持仓应归零: got %v", tr.Position())
	}
}

func TestShortRoundTrip(t *testing.T) {
	tr := NewTracker(10)
	tr.Record(trade(model.SideSell, 100, 2, 0))
	tr.Record(trade(model.SideBuy, 95, 2, 0))

	st := tr.Stats()
	// gross = (95-100)*2*(-1) = 10
	if math.Abs(st.TotalNet-10) > 1e-12 {
		t.Fatalf("空头往返净收益应为 10: got %v", st.TotalNet)
	}
}

func TestRingBufferEvictsOldest(t *testing.T) {
	tr := NewTracker(2)
	for i := 0; i < 3; i++ {
		tr.Record(trade(model.SideBuy, 100, 1, 0))
		tr.Record(trade(model.SideSell, 101, 1, 0))
	}
	st := tr.Stats()
	if st.Count != 2 {
		t.Fatalf("环形缓冲应只保留最近 2 个样本: got %d", st.Count)
	}
}

func TestExpectancy(t *testing.T) {
	tr := NewTracker(10)
	// win +3
	tr.Record(trade(model.SideBuy, 100, 1, 0))
	tr.Record(trade(model.SideSell, 103, 1, 0))
	// loss -1
	tr.Record(trade(model.SideBuy, 100, 1, 0))
	tr.Record(trade(model.SideSell, 99, 1, 0))

	st := tr.Stats()
	// expectancy = 0.5*3 - 0.5*1 = 1
	if math.Abs(st.Expectancy-1) > 1e-12 {
		t.Fatalf("期望值应为 1: got %v", st.Expectancy)
	}
}

func TestZeroSizeIgnored(t *testing.T) {
	tr := NewTracker(10)
	tr.Record(trade(model.SideBuy, 100, 0, 0))
	if tr.Position() != 0 {
		t.Fatalf("零量成交不应改变持仓: got %v", tr.Position())
	}
}
