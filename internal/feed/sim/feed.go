// Package sim 实现模拟订单簿行情源。
// 中间价做有界随机游走：每步变动不超过 MaxChangePct，
// 越界时截断到 [MinPrice, MaxPrice]，再按 SpreadPct 展开买卖档位。
// 用于无外网环境下的端到端验证。
package sim

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"strato-trade/internal/config"
	"strato-trade/internal/core/model"
	"strato-trade/internal/util/timeutil"
)

// Feed 模拟行情源
type Feed struct {
	// cfg 模拟行情配置
	cfg *config.SimFeedConfig
	// instrument 交易对
	instrument string
	// logger 日志记录器
	logger *zap.Logger

	// rng 随机数发生器（Seed 固定时序列可复现）
	rng *rand.Rand
	// mid 当前中间价
	mid float64

	// bookCh 订单簿快照输出通道
	bookCh chan *model.BookSnapshot
}

// NewFeed 创建模拟行情源
// 参数 cfg: 模拟行情配置
// 参数 instrument: 交易对
// 参数 logger: 日志记录器
func NewFeed(cfg *config.SimFeedConfig, instrument string, logger *zap.Logger) *Feed {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Feed{
		cfg:        cfg,
		instrument: instrument,
		logger:     logger.Named("sim"),
		rng:        rand.New(rand.NewSource(seed)),
		mid:        cfg.StartPrice,
		bookCh:     make(chan *model.BookSnapshot, 1000),
	}
}

// Run 启动生成循环
// 按 IntervalMs 周期推送快照，ctx 取消后退出并关闭通道。
func (f *Feed) Run(ctx context.Context) {
	interval := time.Duration(f.cfg.IntervalMs) * time.Millisecond
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	defer close(f.bookCh)

	f.logger.Info("模拟行情源已启动",
		zap.String("instrument", f.instrument),
		zap.Duration("interval", interval),
		zap.Float64("start_price", f.mid))

	for {
		select {
		case <-ctx.Done():
			f.logger.Info("模拟行情源已停止")
			return
		case <-ticker.C:
			snap := f.next()
			select {
			case f.bookCh <- snap:
			default:
				f.logger.Warn("sim bookCh 已满，丢弃快照")
			}
		}
	}
}

// BookCh 获取订单簿快照通道
func (f *Feed) BookCh() <-chan *model.BookSnapshot {
	return f.bookCh
}

// next 推进一步随机游走并生成快照
func (f *Feed) next() *model.BookSnapshot {
	f.step()

	halfSpread := f.mid * f.cfg.SpreadPct / 2
	if halfSpread <= 0 {
		halfSpread = f.mid * 0.0005
	}

	levels := f.cfg.Levels
	if levels <= 0 {
		levels = 5
	}

	snap := &model.BookSnapshot{
		Instrument:       f.instrument,
		Bids:             make([]model.Level, 0, levels),
		Asks:             make([]model.Level, 0, levels),
		ReceivedAtUnixNs: timeutil.NowNano(),
	}

	for i := 0; i < levels; i++ {
		tick := halfSpread * float64(i)
		snap.Bids = append(snap.Bids, model.Level{
			Price: f.mid - halfSpread - tick,
			Qty:   f.qty(),
		})
		snap.Asks = append(snap.Asks, model.Level{
			Price: f.mid + halfSpread + tick,
			Qty:   f.qty(),
		})
	}
	return snap
}

// step 有界随机游走：
// 每步变动为 [-MaxChangePct, +MaxChangePct] 内的随机比例，越界截断
func (f *Feed) step() {
	maxChange := f.cfg.MaxChangePct
	if maxChange <= 0 {
		maxChange = 0.05
	}

	delta := (f.rng.Float64()*2 - 1) * maxChange * f.mid
	f.mid += delta

	if f.cfg.MinPrice > 0 && f.mid < f.cfg.MinPrice {
		f.mid = f.cfg.MinPrice
	}
	if f.cfg.MaxPrice > 0 && f.mid > f.cfg.MaxPrice {
		f.mid = f.cfg.MaxPrice
	}
}

// qty 随机档位数量，范围 [0.1, 10)
func (f *Feed) qty() float64 {
	return 0.1 + f.rng.Float64()*9.9
}
