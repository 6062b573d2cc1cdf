// Package model 定义信号评估器中使用的核心数据结构。
package model

// SignalSet 单个快照派生出的微观结构信号集
// 每个快照重新计算，快照之间不保留（无状态）。
type SignalSet struct {
	// Spread 买卖价差
	// 公式: BestAsk - BestBid
	Spread float64 `json:"spread"`
	// MidPrice 中间价
	// 公式: (BestBid + BestAsk) / 2
	MidPrice float64 `json:"mid_price"`
	// BidVolume 买方全部档位数量之和
	BidVolume float64 `json:"bid_volume"`
	// AskVolume 卖方全部档位数量之和
	AskVolume float64 `json:"ask_volume"`
	// VOI 成交量订单失衡（volume order imbalance），取值 [-1, 1]
	// 公式: (BidVolume - AskVolume) / (BidVolume + AskVolume)
	// 双侧成交量均为 0 时取 0（除零保护）
	VOI float64 `json:"voi"`
	// OIR 订单失衡比率（order imbalance ratio），取值 [0, 1]
	// 公式: BidVolume / (BidVolume + AskVolume)
	// 双侧成交量均为 0 时取配置的中性值（默认 0.5）
	OIR float64 `json:"oir"`
	// LastPrice 参考最新价
	// 参考实现使用与 MidPrice 完全相同的公式 (BestBid + BestAsk) / 2，
	// 因此在该输入下 MPB 恒为 0；保留此字面行为，不做“修正”。
	LastPrice float64 `json:"last_price"`
	// MPB 中间价基差（mid-price basis）
	// 公式: LastPrice - MidPrice
	MPB float64 `json:"mpb"`
}

// Action 决策动作
type Action string

const (
	// ActionBuy 买入
	// 模型得分 > 0 时触发
	ActionBuy Action = "buy"
	// ActionSell 卖出
	// 模型得分 < 0 时触发
	ActionSell Action = "sell"
	// ActionHold 不动作
	// 门控未通过或得分为 0 时返回
	ActionHold Action = "hold"
)

// Decision 单个快照的决策结果
type Decision struct {
	// Action 决策动作: buy, sell, hold
	Action Action `json:"action"`
	// Score 线性模型得分（未门控拦截时有效）
	// 得分幅度不代表置信度，只有符号驱动决策。
	Score float64 `json:"score"`
	// Reason 决策原因标记
	// 门控拦截时记录拦截来源: spread_gate, voi_gate
	// 得分为 0 时记录 score_zero；正常交易决策时为空。
	Reason string `json:"reason,omitempty"`
}

// IsTrade 判断决策是否产生交易动作
func (d Decision) IsTrade() bool {
	return d.Action == ActionBuy || d.Action == ActionSell
}
