// Package model 定义信号评估器中使用的核心数据结构。
package model

import (
	"time"
)

// Side 成交方向
type Side string

const (
	// SideBuy 买入方向
	// 以卖一价成交，position 增加，cash 减少
	SideBuy Side = "buy"
	// SideSell 卖出方向
	// 以买一价成交，position 减少，cash 增加
	SideSell Side = "sell"
)

// Direction 获取方向系数
// 买入返回 1，卖出返回 -1
func (s Side) Direction() float64 {
	if s == SideBuy {
		return 1
	}
	return -1
}

// Trade 已执行成交记录
// 交易日志的元素，只追加不修改，用于审计和 PnL 重建。
type Trade struct {
	// Instrument 标的标识
	Instrument string
	// Side 成交方向: buy 或 sell
	Side Side
	// Price 成交价格
	// 买入使用快照的 BestAsk，卖出使用 BestBid
	Price float64
	// Size 成交数量（恒为正，方向由 Side 表达）
	Size float64
	// Cost 本笔交易费用
	Cost float64
	// ExecutedAtUnixNs 成交时间戳（纳秒）
	ExecutedAtUnixNs int64
}

// ExecutedAt 获取成交时间的 time.Time 表示
func (t *Trade) ExecutedAt() time.Time {
	return time.Unix(0, t.ExecutedAtUnixNs)
}

// Notional 成交名义价值
// 公式: Price × Size
func (t *Trade) Notional() float64 {
	return t.Price * t.Size
}

// CashDelta 本笔成交对 cash 的影响（含费用）
// 买入: -(Price×Size + Cost)
// 卖出: +(Price×Size - Cost)
func (t *Trade) CashDelta() float64 {
	if t.Side == SideBuy {
		return -(t.Price*t.Size + t.Cost)
	}
	return t.Price*t.Size - t.Cost
}

// PositionDelta 本笔成交对 position 的影响
// 买入: +Size，卖出: -Size
func (t *Trade) PositionDelta() float64 {
	return t.Size * t.Side.Direction()
}

// TradeRecord 成交输出结构
// 用于 JSONL 文件输出，附带触发决策时的信号上下文。
type TradeRecord struct {
	// Instrument 标的标识
	Instrument string `json:"instrument"`
	// Side 成交方向
	Side string `json:"side"`
	// Price 成交价格
	Price float64 `json:"price"`
	// Size 成交数量
	Size float64 `json:"size"`
	// Cost 交易费用
	Cost float64 `json:"cost"`
	// TExecNs 成交时间（纳秒）
	TExecNs int64 `json:"t_exec_ns"`
	// Score 触发成交的模型得分
	Score float64 `json:"score"`
	// Signals 触发成交时的信号集（可选）
	Signals *SignalSet `json:"signals,omitempty"`
	// CashAfter 成交后现金余额
	CashAfter float64 `json:"cash_after"`
	// PositionAfter 成交后持仓数量（有符号）
	PositionAfter float64 `json:"position_after"`
}
