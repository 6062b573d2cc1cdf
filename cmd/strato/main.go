// Package main 是流式信号评估与交易触发器的入口点。
// 从订单簿快照派生 spread/VOI/OIR/MPB 信号，经门控与线性模型
// 打分后产生买/卖/持有决策，并维护现金与持仓状态。
//
// 重要：本系统仅做模拟撮合，严禁接入真实下单。
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"strato-trade/internal/config"
	"strato-trade/internal/core/decision"
	"strato-trade/internal/core/engine"
	"strato-trade/internal/core/model"
	"strato-trade/internal/core/portfolio"
	"strato-trade/internal/exchange/binance"
	"strato-trade/internal/feed/sim"
	"strato-trade/internal/output/jsonl"
	"strato-trade/internal/stats/latency"
	"strato-trade/internal/stats/market"
	"strato-trade/internal/stats/pnl"
	"strato-trade/internal/util/timeutil"
)

type metricsSnapshot struct {
	// TsUnixNs 指标采集时间（纳秒）
	TsUnixNs int64 `json:"ts_unix_ns"`

	// Portfolio 交易状态快照
	Portfolio portfolio.View `json:"portfolio"`
	// PortfolioValue 按最近中间价标记的组合价值
	PortfolioValue float64 `json:"portfolio_value"`

	// Market 中间价滚动统计
	Market market.Stats `json:"market"`
	// PnL 已实现盈亏统计
	PnL pnl.Stats `json:"pnl"`
	// Latency 快照处理时延统计
	Latency latency.Stats `json:"latency"`

	// SkippedSnapshots 被跳过的快照总数
	SkippedSnapshots int64 `json:"skipped_snapshots"`
	// Feed 行情连接指标（仅 binance 模式）
	Feed *binance.ConnectionMetrics `json:"feed,omitempty"`
}

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "配置文件路径")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.App.LogLevel)
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 捕获 SIGINT/SIGTERM，触发优雅退出
	sigCh := make(chan os.Signal, 2)
	ossignal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("收到退出信号，开始优雅关闭")
		cancel()
	}()

	// 启动行情源
	var bookCh <-chan *model.BookSnapshot
	var binanceClient *binance.Client

	switch cfg.Feed.Mode {
	case config.FeedBinance:
		binanceClient = binance.NewClient(&cfg.Feed.Binance, cfg.Trading.Instrument, logger)

		startCtx, startCancel := context.WithTimeout(ctx, 10*time.Second)
		if err := binanceClient.Connect(startCtx); err != nil {
			startCancel()
			logger.Error("Binance 连接失败", zap.Error(err))
			os.Exit(1)
		}
		startCancel()
		if err := binanceClient.Subscribe(); err != nil {
			logger.Error("Binance 订阅失败", zap.Error(err))
			os.Exit(1)
		}

		go binanceClient.Run(ctx)
		bookCh = binanceClient.BookCh()

	case config.FeedSim:
		simFeed := sim.NewFeed(&cfg.Feed.Sim, cfg.Trading.Instrument, logger)
		go simFeed.Run(ctx)
		bookCh = simFeed.BookCh()

	default:
		logger.Error("未知行情源模式", zap.String("mode", cfg.Feed.Mode))
		os.Exit(1)
	}

	// 输出文件
	var tradesWriter *jsonl.Writer
	var metricsWriter *jsonl.Writer
	if cfg.Output.TradesEnabled {
		tradesWriter, err = jsonl.NewWriter(fmt.Sprintf("%s/trades.jsonl", cfg.Output.Dir), cfg.Output.BufferSize)
		if err != nil {
			logger.Error("创建 trades writer 失败", zap.Error(err))
			os.Exit(1)
		}
	}
	if cfg.Output.MetricsEnabled {
		metricsWriter, err = jsonl.NewWriter(fmt.Sprintf("%s/metrics.jsonl", cfg.Output.Dir), cfg.Output.BufferSize)
		if err != nil {
			logger.Error("创建 metrics writer 失败", zap.Error(err))
			os.Exit(1)
		}
	}

	// 初始化核心组件
	params := decision.DefaultParams()
	if len(cfg.Strategy.ModelWeights) == 3 {
		copy(params.Weights[:], cfg.Strategy.ModelWeights)
	}
	if cfg.Strategy.ModelBias != nil {
		params.Bias = *cfg.Strategy.ModelBias
	}

	decisionModel := decision.NewModel(params, cfg.Strategy.SpreadThreshold, cfg.Strategy.VOISensitivity)
	state := portfolio.New(cfg.Trading.InitialCash, cfg.Trading.Instrument)
	eng := engine.New(decisionModel, state, engine.Options{
		TradeSize:       cfg.Trading.TradeSize,
		TransactionCost: cfg.Trading.TransactionCost,
		OIRNeutral:      cfg.Strategy.OIRNeutral,
	}, logger)

	marketTracker := market.NewTracker(60, 20)
	pnlTracker := pnl.NewTracker(200)
	latTracker := latency.NewTracker(10000)

	logger.Info("评估器已启动",
		zap.String("instrument", cfg.Trading.Instrument),
		zap.String("feed", cfg.Feed.Mode),
		zap.Float64("initial_cash", cfg.Trading.InitialCash),
		zap.Float64("spread_threshold", cfg.Strategy.SpreadThreshold),
		zap.Float64("voi_sensitivity", cfg.Strategy.VOISensitivity))

	runLoop(ctx, logger, eng, bookCh, marketTracker, pnlTracker, latTracker,
		tradesWriter, metricsWriter, binanceClient, cfg.Output.MetricsIntervalMs)

	// 输出最后一条 metrics 快照（便于离线复盘）
	if metricsWriter != nil {
		_ = metricsWriter.Write(buildMetrics(eng, state, marketTracker, pnlTracker, latTracker, binanceClient))
		_ = metricsWriter.Flush()
	}

	view := state.Snapshot()
	logger.Info("评估器已停止",
		zap.Float64("cash", view.Cash),
		zap.Float64("position", view.Position),
		zap.Int("trades", view.TradeCount),
		zap.Int64("skipped", eng.SkippedCount()))

	// 优雅关闭（10s 超时）
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		if binanceClient != nil {
			_ = binanceClient.Close()
		}
		if tradesWriter != nil {
			_ = tradesWriter.Close()
		}
		if metricsWriter != nil {
			_ = metricsWriter.Close()
		}
	}()

	select {
	case <-shutdownCtx.Done():
		logger.Warn("关闭超时，强制退出")
	case <-done:
		logger.Info("关闭完成")
	}
}

func newLogger(level string) *zap.Logger {
	lvl := zapcore.InfoLevel
	if err := lvl.Set(level); err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// runLoop 单 goroutine 事件循环
// 快照严格顺序处理：上一快照完成（含状态变更）之后才取下一快照。
func runLoop(
	ctx context.Context,
	logger *zap.Logger,
	eng *engine.Engine,
	bookCh <-chan *model.BookSnapshot,
	marketTracker *market.Tracker,
	pnlTracker *pnl.Tracker,
	latTracker *latency.Tracker,
	tradesWriter *jsonl.Writer,
	metricsWriter *jsonl.Writer,
	binanceClient *binance.Client,
	metricsIntervalMs int,
) {
	if metricsIntervalMs <= 0 {
		metricsIntervalMs = 10000
	}
	metricsTicker := time.NewTicker(time.Duration(metricsIntervalMs) * time.Millisecond)
	defer metricsTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case book, ok := <-bookCh:
			if !ok {
				return
			}
			if book == nil {
				continue
			}

			start := timeutil.NowNano()
			res := eng.Process(book)
			end := timeutil.NowNano()
			latTracker.Add(end - start)
			if end-start > int64(50*time.Millisecond) {
				logger.Warn("快照处理耗时过长",
					zap.Float64("elapsed_ms", timeutil.DurationMs(start, end)),
					zap.String("instrument", book.Instrument))
			}

			if res.Skipped {
				continue
			}

			marketTracker.Observe(book.ReceivedAtUnixNs, res.Signals.MidPrice)

			if res.Traded {
				pnlTracker.Record(res.Trade)
				if tradesWriter != nil {
					view := eng.State().Snapshot()
					_ = tradesWriter.Write(&model.TradeRecord{
						Instrument:    res.Trade.Instrument,
						Side:          string(res.Trade.Side),
						Price:         res.Trade.Price,
						Size:          res.Trade.Size,
						Cost:          res.Trade.Cost,
						TExecNs:       res.Trade.ExecutedAtUnixNs,
						Score:         res.Decision.Score,
						Signals:       &res.Signals,
						CashAfter:     view.Cash,
						PositionAfter: view.Position,
					})
				}
			}

		case <-metricsTicker.C:
			if metricsWriter == nil {
				continue
			}
			snap := buildMetrics(eng, eng.State(), marketTracker, pnlTracker, latTracker, binanceClient)
			if err := metricsWriter.Write(snap); err != nil {
				logger.Warn("写入 metrics 失败", zap.Error(err))
				continue
			}
			_ = metricsWriter.Flush()
		}
	}
}

func buildMetrics(
	eng *engine.Engine,
	state *portfolio.State,
	marketTracker *market.Tracker,
	pnlTracker *pnl.Tracker,
	latTracker *latency.Tracker,
	binanceClient *binance.Client,
) metricsSnapshot {
	mkt := marketTracker.Stats()

	snap := metricsSnapshot{
		TsUnixNs:         timeutil.NowNano(),
		Portfolio:        state.Snapshot(),
		PortfolioValue:   state.PortfolioValue(mkt.LastMid),
		Market:           mkt,
		PnL:              pnlTracker.Stats(),
		Latency:          latTracker.Stats(),
		SkippedSnapshots: eng.SkippedCount(),
	}
	if binanceClient != nil {
		m := binanceClient.Metrics()
		snap.Feed = &m
	}
	return snap
}
