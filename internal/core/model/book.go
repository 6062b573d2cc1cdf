// Package model 定义信号评估器中使用的核心数据结构。
// 包含订单簿快照、信号集、成交记录等核心类型。
package model

import (
	"errors"
	"time"
)

// 订单簿快照校验错误
var (
	// ErrEmptyBidSide 买方档位列表为空（畸形快照）
	ErrEmptyBidSide = errors.New("订单簿买方档位为空")
	// ErrEmptyAskSide 卖方档位列表为空（畸形快照）
	ErrEmptyAskSide = errors.New("订单簿卖方档位为空")
)

// Level 订单簿深度档位
// 表示某一价格档位的价格和数量
type Level struct {
	// Price 价格
	Price float64
	// Qty 数量
	Qty float64
}

// BookSnapshot 订单簿快照（每个事件不可变）
// 买方档位按价格降序（买一在前），卖方档位按价格升序（卖一在前）。
// 决策只依赖买一/卖一价格，全部档位数量用于聚合成交量（VOI/OIR）。
type BookSnapshot struct {
	// Instrument 标的标识，如 BTCUSDT
	Instrument string
	// Bids 买方档位列表（价格降序）
	Bids []Level
	// Asks 卖方档位列表（价格升序）
	Asks []Level
	// ReceivedAtUnixNs 本机收到快照的时间戳（纳秒）
	ReceivedAtUnixNs int64
}

// Validate 校验快照是否可用于信号计算
// 任一侧档位为空视为畸形快照，必须在计算信号前拒绝，
// 否则会出现除零或越界访问。
func (b *BookSnapshot) Validate() error {
	if len(b.Bids) == 0 {
		return ErrEmptyBidSide
	}
	if len(b.Asks) == 0 {
		return ErrEmptyAskSide
	}
	return nil
}

// BestBid 最优买价（买一价）
// 调用前必须通过 Validate。
func (b *BookSnapshot) BestBid() float64 {
	return b.Bids[0].Price
}

// BestAsk 最优卖价（卖一价）
// 调用前必须通过 Validate。
func (b *BookSnapshot) BestAsk() float64 {
	return b.Asks[0].Price
}

// BidVolume 买方全部档位数量之和
func (b *BookSnapshot) BidVolume() float64 {
	var total float64
	for _, level := range b.Bids {
		total += level.Qty
	}
	return total
}

// AskVolume 卖方全部档位数量之和
func (b *BookSnapshot) AskVolume() float64 {
	var total float64
	for _, level := range b.Asks {
		total += level.Qty
	}
	return total
}

// MidPrice 计算中间价
// 公式: (BestBid + BestAsk) / 2
func (b *BookSnapshot) MidPrice() float64 {
	return (b.BestBid() + b.BestAsk()) / 2
}

// Spread 计算买卖价差
// 公式: BestAsk - BestBid
// 交叉盘（BestBid > BestAsk）直接传播为负价差，不做修正。
func (b *BookSnapshot) Spread() float64 {
	return b.BestAsk() - b.BestBid()
}

// ReceivedAt 获取接收时间的 time.Time 表示
func (b *BookSnapshot) ReceivedAt() time.Time {
	return time.Unix(0, b.ReceivedAtUnixNs)
}

// Clone 创建 BookSnapshot 的深拷贝
func (b *BookSnapshot) Clone() *BookSnapshot {
	clone := *b
	if b.Bids != nil {
		clone.Bids = make([]Level, len(b.Bids))
		copy(clone.Bids, b.Bids)
	}
	if b.Asks != nil {
		clone.Asks = make([]Level, len(b.Asks))
		copy(clone.Asks, b.Asks)
	}
	return &clone
}
