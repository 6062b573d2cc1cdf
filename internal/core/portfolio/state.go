// Package portfolio 实现交易状态（现金、持仓、交易日志）的管理。
// 整个运行期间只有一个 State 实例，由事件循环独占写入；
// 二级读者（指标上报）通过 View 获取读一致快照。
package portfolio

import (
	"sync"

	"strato-trade/internal/core/model"
)

// State 交易状态
// cash 与 position 在每笔成交中一起原子更新（不会只更新其一）；
// 交易日志只追加，长度恒等于创建以来的成交笔数。
// 生命周期：每次运行创建一次，仅通过 ExecuteTrade 变更，运行期间不销毁。
type State struct {
	mu sync.Mutex

	// cash 现金余额
	cash float64
	// position 持仓数量（有符号：正为多头，负为空头）
	position float64
	// instrument 标的标识（创建后不可变）
	instrument string
	// trades 只追加的成交日志，用于审计和 PnL 重建
	trades []model.Trade
}

// View 交易状态的读一致快照
// 供二级读者使用，保证不会观察到 cash 与 position 不匹配的中间状态。
type View struct {
	// Cash 现金余额
	Cash float64 `json:"cash"`
	// Position 持仓数量（有符号）
	Position float64 `json:"position"`
	// Instrument 标的标识
	Instrument string `json:"instrument"`
	// TradeCount 成交笔数
	TradeCount int `json:"trade_count"`
}

// New 创建交易状态
// 参数 initialCash: 初始现金
// 参数 instrument: 标的标识
func New(initialCash float64, instrument string) *State {
	return &State{
		cash:       initialCash,
		instrument: instrument,
	}
}

// ExecuteTrade 以给定价格执行一笔成交
// 无条件状态转移：不校验现金是否充足、不设持仓上限（参考系统的刻意简化）。
// buy:  position += size, cash -= price×size + transactionCost
// sell: position -= size, cash += price×size - transactionCost
// cash/position 更新与日志追加在同一临界区内完成。
// 参数 nowNs: 成交时间戳（纳秒）
// 返回: 追加的成交记录
func (s *State) ExecuteTrade(price float64, side model.Side, size, transactionCost float64, nowNs int64) model.Trade {
	trade := model.Trade{
		Instrument:       s.instrument,
		Side:             side,
		Price:            price,
		Size:             size,
		Cost:             transactionCost,
		ExecutedAtUnixNs: nowNs,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.position += trade.PositionDelta()
	s.cash += trade.CashDelta()
	s.trades = append(s.trades, trade)

	return trade
}

// PortfolioValue 按标记价格计算组合价值
// 公式: cash + position × markPrice
// 只读，无副作用，可随时调用，不影响交易日志和持仓。
func (s *State) PortfolioValue(markPrice float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cash + s.position*markPrice
}

// Snapshot 获取读一致的状态快照
func (s *State) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View{
		Cash:       s.cash,
		Position:   s.position,
		Instrument: s.instrument,
		TradeCount: len(s.trades),
	}
}

// Trades 获取成交日志的拷贝
// 返回的切片与内部日志相互独立，可安全遍历。
func (s *State) Trades() []model.Trade {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Trade, len(s.trades))
	copy(out, s.trades)
	return out
}

// TradeCount 获取成交笔数
func (s *State) TradeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.trades)
}

// Instrument 获取标的标识
func (s *State) Instrument() string {
	return s.instrument
}
