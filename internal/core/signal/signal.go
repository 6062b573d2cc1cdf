// Package signal 实现微观结构信号的纯函数计算。
// 所有函数无状态、确定性，只依赖当前快照的聚合量。
package signal

import (
	"errors"
	"math"

	"strato-trade/internal/core/model"
)

// ErrNonFiniteSignal 信号计算结果出现 NaN 或 Inf
// 按畸形快照处理：跳过该快照，不执行交易。
var ErrNonFiniteSignal = errors.New("信号结果非有限值")

// DefaultOIRNeutral OIR 奇点（双侧成交量均为 0）的默认中性值
// 该约定是从参考实现门控逻辑推断的，可通过配置覆盖。
const DefaultOIRNeutral = 0.5

// Spread 计算买卖价差
// 公式: ask - bid
// 不校验 bid ≤ ask，交叉盘输入直接传播为负价差。
func Spread(bid, ask float64) float64 {
	return ask - bid
}

// MidPrice 计算中间价
// 公式: (bid + ask) / 2
func MidPrice(bid, ask float64) float64 {
	return (bid + ask) / 2
}

// VOI 计算成交量订单失衡（volume order imbalance）
// 公式: (bidVolume - askVolume) / (bidVolume + askVolume)
// 取值范围 [-1, 1]；双侧成交量之和为 0 时返回 0（除零保护）。
func VOI(bidVolume, askVolume float64) float64 {
	total := bidVolume + askVolume
	if total == 0 {
		return 0
	}
	return (bidVolume - askVolume) / total
}

// OIR 计算订单失衡比率（order imbalance ratio）
// 公式: bidVolume / (bidVolume + askVolume)
// 取值范围 [0, 1]；双侧成交量之和为 0 时返回 neutral（约定值，通常 0.5）。
func OIR(bidVolume, askVolume, neutral float64) float64 {
	total := bidVolume + askVolume
	if total == 0 {
		return neutral
	}
	return bidVolume / total
}

// MPB 计算中间价基差（mid-price basis）
// 公式: lastPrice - midPrice
func MPB(lastPrice, midPrice float64) float64 {
	return lastPrice - midPrice
}

// Compute 从订单簿快照计算完整信号集
// 参数 book: 已通过 Validate 的快照
// 参数 oirNeutral: OIR 奇点中性值
// 返回: 信号集；任一信号为 NaN/Inf 时返回 ErrNonFiniteSignal。
//
// LastPrice 使用与 MidPrice 完全相同的公式 (bid+ask)/2，
// 与参考实现保持一致，因此 MPB 在该输入下恒为 0。
func Compute(book *model.BookSnapshot, oirNeutral float64) (model.SignalSet, error) {
	bid := book.BestBid()
	ask := book.BestAsk()
	bidVolume := book.BidVolume()
	askVolume := book.AskVolume()

	mid := MidPrice(bid, ask)
	last := MidPrice(bid, ask)

	sigs := model.SignalSet{
		Spread:    Spread(bid, ask),
		MidPrice:  mid,
		BidVolume: bidVolume,
		AskVolume: askVolume,
		VOI:       VOI(bidVolume, askVolume),
		OIR:       OIR(bidVolume, askVolume, oirNeutral),
		LastPrice: last,
		MPB:       MPB(last, mid),
	}

	for _, v := range [...]float64{sigs.Spread, sigs.MidPrice, sigs.BidVolume, sigs.AskVolume, sigs.VOI, sigs.OIR, sigs.LastPrice, sigs.MPB} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return model.SignalSet{}, ErrNonFiniteSignal
		}
	}
	return sigs, nil
}
