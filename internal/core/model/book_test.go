// Package model 核心数据结构测试
package model

import (
	"errors"
	"testing"
)

func testBook() *BookSnapshot {
	return &BookSnapshot{
		Instrument: "BTCUSDT",
		Bids: []Level{
			{Price: 100.0, Qty: 10.0},
			{Price: 99.5, Qty: 5.0},
		},
		Asks: []Level{
			{Price: 101.0, Qty: 2.0},
			{Price: 101.5, Qty: 3.0},
		},
		ReceivedAtUnixNs: 1_700_000_000_000_000_000,
	}
}

func TestValidate(t *testing.T) {
	if err := testBook().Validate(); err != nil {
		t.Fatalf("合法快照应通过校验: %v", err)
	}

	noBids := testBook()
	noBids.Bids = nil
	if err := noBids.Validate(); !errors.Is(err, ErrEmptyBidSide) {
		t.Fatalf("空买方应返回 ErrEmptyBidSide: %v", err)
	}

	noAsks := testBook()
	noAsks.Asks = []Level{}
	if err := noAsks.Validate(); !errors.Is(err, ErrEmptyAskSide) {
		t.Fatalf("空卖方应返回 ErrEmptyAskSide: %v", err)
	}
}

func TestBookAccessors(t *testing.T) {
	b := testBook()

	if b.BestBid() != 100.0 {
		t.Errorf("BestBid=%v, want 100", b.BestBid())
	}
	if b.BestAsk() != 101.0 {
		t.Errorf("BestAsk=%v, want 101", b.BestAsk())
	}
	if b.BidVolume() != 15.0 {
		t.Errorf("BidVolume=%v, want 15", b.BidVolume())
	}
	if b.AskVolume() != 5.0 {
		t.Errorf("AskVolume=%v, want 5", b.AskVolume())
	}
	if b.MidPrice() != 100.5 {
		t.Errorf("MidPrice=%v, want 100.5", b.MidPrice())
	}
	if b.Spread() != 1.0 {
		t.Errorf("Spread=%v, want 1", b.Spread())
	}
	if b.ReceivedAt().UnixNano() != b.ReceivedAtUnixNs {
		t.Errorf("ReceivedAt 应与纳秒时间戳一致")
	}
}

func TestCloneIsDeepCopy(t *testing.T) {
	b := testBook()
	c := b.Clone()

	c.Bids[0].Price = 1
	c.Asks[0].Qty = 999

	if b.Bids[0].Price != 100.0 {
		t.Fatalf("修改拷贝不应影响原快照买方: %v", b.Bids[0].Price)
	}
	if b.Asks[0].Qty != 2.0 {
		t.Fatalf("修改拷贝不应影响原快照卖方: %v", b.Asks[0].Qty)
	}
}

func TestSideDirection(t *testing.T) {
	if SideBuy.Direction() != 1 {
		t.Errorf("买入方向系数应为 1")
	}
	if SideSell.Direction() != -1 {
		t.Errorf("卖出方向系数应为 -1")
	}
}

func TestTradeDerivedValues(t *testing.T) {
	buy := Trade{Side: SideBuy, Price: 100, Size: 2, Cost: 1, ExecutedAtUnixNs: 42}
	if buy.Notional() != 200 {
		t.Errorf("Notional=%v, want 200", buy.Notional())
	}
	if buy.CashDelta() != -201 {
		t.Errorf("买入 CashDelta=%v, want -201", buy.CashDelta())
	}
	if buy.PositionDelta() != 2 {
		t.Errorf("买入 PositionDelta=%v, want 2", buy.PositionDelta())
	}
	if buy.ExecutedAt().UnixNano() != 42 {
		t.Errorf("ExecutedAt 应与纳秒时间戳一致")
	}

	sell := Trade{Side: SideSell, Price: 100, Size: 2, Cost: 1}
	if sell.CashDelta() != 199 {
		t.Errorf("卖出 CashDelta=%v, want 199", sell.CashDelta())
	}
	if sell.PositionDelta() != -2 {
		t.Errorf("卖出 PositionDelta=%v, want -2", sell.PositionDelta())
	}
}

func TestDecisionIsTrade(t *testing.T) {
	if !(Decision{Action: ActionBuy}).IsTrade() {
		t.Errorf("buy 应为交易动作")
	}
	if !(Decision{Action: ActionSell}).IsTrade() {
		t.Errorf("sell 应为交易动作")
	}
	if (Decision{Action: ActionHold}).IsTrade() {
		t.Errorf("hold 不应为交易动作")
	}
}
