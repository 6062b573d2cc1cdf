// Package engine 实现单快照处理流水线。
// 顺序: 校验 → 信号计算 → 门控 → 模型打分 → 执行决策 → 状态变更 → 估值。
// 除交易状态外，任何组件都不跨快照保留数据。
package engine

import (
	"go.uber.org/zap"

	"strato-trade/internal/core/decision"
	"strato-trade/internal/core/model"
	"strato-trade/internal/core/portfolio"
	"strato-trade/internal/core/signal"
)

// 跳过原因标记
const (
	// SkipMalformed 畸形快照（任一侧档位为空）
	SkipMalformed = "malformed_snapshot"
	// SkipNonFinite 信号出现 NaN/Inf
	SkipNonFinite = "non_finite_signal"
)

// Options 流水线执行参数
type Options struct {
	// TradeSize 每次决策的成交数量
	TradeSize float64
	// TransactionCost 每笔成交的固定费用
	TransactionCost float64
	// OIRNeutral OIR 奇点中性值（通常 0.5）
	OIRNeutral float64
}

// Result 单快照处理结果
type Result struct {
	// Skipped 快照是否被跳过（畸形/非有限信号）
	Skipped bool
	// SkipReason 跳过原因: malformed_snapshot 或 non_finite_signal
	SkipReason string
	// Signals 本快照的信号集（Skipped 时为零值）
	Signals model.SignalSet
	// Decision 决策结果（Skipped 时为零值）
	Decision model.Decision
	// Traded 是否执行了成交
	Traded bool
	// Trade 执行的成交（Traded 时有效）
	Trade model.Trade
	// PortfolioValue 按本快照中间价标记的组合价值
	// Skipped 时不重新估值，为 0。
	PortfolioValue float64
}

// Engine 单快照决策流水线
// 设计为单 goroutine 严格顺序处理：上一快照完成（含状态变更）
// 之后才考虑下一快照。State 的原子性由其自身临界区保证。
type Engine struct {
	// model 门控 + 线性打分模型
	model *decision.Model
	// state 交易状态（独占写入路径）
	state *portfolio.State
	// opts 执行参数
	opts Options
	// logger 日志记录器
	logger *zap.Logger

	// skippedCount 跳过的快照计数
	skippedCount int64
}

// New 创建流水线
// 参数 m: 决策模型
// 参数 state: 交易状态
// 参数 opts: 执行参数
// 参数 logger: 日志记录器
func New(m *decision.Model, state *portfolio.State, opts Options, logger *zap.Logger) *Engine {
	if opts.OIRNeutral == 0 {
		opts.OIRNeutral = signal.DefaultOIRNeutral
	}
	return &Engine{
		model:  m,
		state:  state,
		opts:   opts,
		logger: logger.Named("engine"),
	}
}

// Process 处理一个订单簿快照
// 每个快照最多产生一笔成交；畸形或非有限信号的快照被跳过
// （跳过不是致命错误，循环继续），最坏情况是丢失一次决策。
func (e *Engine) Process(book *model.BookSnapshot) Result {
	if err := book.Validate(); err != nil {
		e.skippedCount++
		e.logger.Debug("跳过畸形快照", zap.Error(err), zap.String("instrument", book.Instrument))
		return Result{Skipped: true, SkipReason: SkipMalformed}
	}

	sigs, err := signal.Compute(book, e.opts.OIRNeutral)
	if err != nil {
		e.skippedCount++
		e.logger.Debug("跳过非有限信号快照", zap.Error(err), zap.String("instrument", book.Instrument))
		return Result{Skipped: true, SkipReason: SkipNonFinite}
	}

	res := Result{Signals: sigs}
	res.Decision = e.model.Decide(sigs)

	switch res.Decision.Action {
	case model.ActionBuy:
		// 买入以卖一价成交
		res.Trade = e.state.ExecuteTrade(book.BestAsk(), model.SideBuy, e.opts.TradeSize, e.opts.TransactionCost, book.ReceivedAtUnixNs)
		res.Traded = true
	case model.ActionSell:
		// 卖出以买一价成交
		res.Trade = e.state.ExecuteTrade(book.BestBid(), model.SideSell, e.opts.TradeSize, e.opts.TransactionCost, book.ReceivedAtUnixNs)
		res.Traded = true
	}

	if res.Traded {
		e.logger.Info("执行成交",
			zap.String("instrument", book.Instrument),
			zap.String("side", string(res.Trade.Side)),
			zap.Float64("price", res.Trade.Price),
			zap.Float64("size", res.Trade.Size),
			zap.Float64("cost", res.Trade.Cost),
			zap.Float64("score", res.Decision.Score),
			zap.Float64("voi", sigs.VOI),
			zap.Float64("oir", sigs.OIR),
			zap.Float64("mpb", sigs.MPB),
		)
	}

	// 每个快照处理后都给出可观测的组合价值（以本快照中间价为标记价格）
	res.PortfolioValue = e.state.PortfolioValue(sigs.MidPrice)

	return res
}

// SkippedCount 获取被跳过的快照总数
func (e *Engine) SkippedCount() int64 {
	return e.skippedCount
}

// State 获取交易状态（供只读快照使用）
func (e *Engine) State() *portfolio.State {
	return e.state
}
