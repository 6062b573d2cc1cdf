// Package decision 实现参数化线性决策模型和门控判定。
// 模型把 VOI/OIR/MPB 三个信号做加权线性组合，符号驱动买卖决策；
// 两个门控（价差阈值、VOI 灵敏度）在模型求值之前短路。
package decision

import (
	"strato-trade/internal/core/model"
)

// 门控拦截原因标记
const (
	// ReasonSpreadGate 价差门控拦截: spread > threshold
	ReasonSpreadGate = "spread_gate"
	// ReasonVOIGate VOI 灵敏度门控拦截: |voi| <= sensitivity
	ReasonVOIGate = "voi_gate"
	// ReasonScoreZero 模型得分为 0，不动作
	ReasonScoreZero = "score_zero"
)

// 系统默认模型参数
// 权重顺序: [VOI, OIR, MPB]。
var defaultWeights = [3]float64{1.0, 0.5, 0.5}

// defaultBias 默认偏置项
const defaultBias = -0.25

// Params 线性模型参数
// 显式配置结构体，带默认值，不通过可空参数透传（每次实例化行为确定、可测）。
type Params struct {
	// Weights 信号权重向量，顺序 [VOI, OIR, MPB]
	Weights [3]float64
	// Bias 偏置/截距项
	Bias float64
}

// DefaultParams 系统默认模型参数
// 默认权重偏向正 VOI：VOI 权重最大，OIR 经 bias 居中后提供同向贡献。
func DefaultParams() Params {
	return Params{
		Weights: defaultWeights,
		Bias:    defaultBias,
	}
}

// Score 计算线性模型得分
// 公式: w0×voi + w1×oir + w2×mpb + bias
// 不做截断或归一化；得分幅度不是置信度，只有符号驱动决策。
func (p Params) Score(voi, oir, mpb float64) float64 {
	return p.Weights[0]*voi + p.Weights[1]*oir + p.Weights[2]*mpb + p.Bias
}

// IsThresholdConstrained 价差门控
// spread <= threshold 时为 true（只在窄价差状态下尝试交易）。
func IsThresholdConstrained(spread, threshold float64) bool {
	return spread <= threshold
}

// IsVOIDetected VOI 灵敏度门控
// |voi| 超过配置的最小灵敏度时为 true（接近 0 的失衡不可操作）。
func IsVOIDetected(voi, sensitivity float64) bool {
	abs := voi
	if abs < 0 {
		abs = -abs
	}
	return abs > sensitivity
}

// Model 门控 + 线性打分的决策模型
type Model struct {
	// params 线性模型参数
	params Params
	// spreadThreshold 价差门控阈值
	spreadThreshold float64
	// voiSensitivity VOI 灵敏度门控阈值
	voiSensitivity float64
}

// NewModel 创建决策模型
// 参数 params: 线性模型参数（通常为 DefaultParams 或配置覆盖值）
// 参数 spreadThreshold: 价差门控阈值
// 参数 voiSensitivity: VOI 灵敏度门控阈值
func NewModel(params Params, spreadThreshold, voiSensitivity float64) *Model {
	return &Model{
		params:          params,
		spreadThreshold: spreadThreshold,
		voiSensitivity:  voiSensitivity,
	}
}

// Decide 对一组信号做出买/卖/不动作决策
// 两个门控都通过后才求值模型；任一门控失败则不可能产生交易，
// 且模型不被求值（短路）。
// score > 0 ⇒ buy，score < 0 ⇒ sell，score == 0 ⇒ hold。
func (m *Model) Decide(sigs model.SignalSet) model.Decision {
	if !IsThresholdConstrained(sigs.Spread, m.spreadThreshold) {
		return model.Decision{Action: model.ActionHold, Reason: ReasonSpreadGate}
	}
	if !IsVOIDetected(sigs.VOI, m.voiSensitivity) {
		return model.Decision{Action: model.ActionHold, Reason: ReasonVOIGate}
	}

	score := m.params.Score(sigs.VOI, sigs.OIR, sigs.MPB)
	switch {
	case score > 0:
		return model.Decision{Action: model.ActionBuy, Score: score}
	case score < 0:
		return model.Decision{Action: model.ActionSell, Score: score}
	default:
		return model.Decision{Action: model.ActionHold, Score: score, Reason: ReasonScoreZero}
	}
}
