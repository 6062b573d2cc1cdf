// Package config 配置模块测试
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// createValidConfig 构造一份通过验证的基准配置
func createValidConfig() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	cfg.Trading.Instrument = "BTCUSDT"
	cfg.Trading.InitialCash = 1000
	cfg.Trading.TradeSize = 0.001
	cfg.Trading.TransactionCost = 0.005
	cfg.Strategy.SpreadThreshold = 0.05
	cfg.Strategy.VOISensitivity = 0.1
	return cfg
}

func TestLoad_FullConfig(t *testing.T) {
	yaml := `
app:
  name: strato-trade
  log_level: debug
feed:
  mode: sim
  sim:
    interval_ms: 50
    start_price: 200
trading:
  initial_cash: 5000
  instrument: ETHUSDT
  trade_size: 0.01
  transaction_cost: 0.002
strategy:
  spread_threshold: 0.1
  voi_sensitivity: 0.2
  model_weights: [2.0, 1.0, 0.5]
  model_bias: 0
  oir_neutral: 0.5
output:
  dir: ./out
  trades_enabled: true
  metrics_enabled: true
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("写入临时配置失败: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}

	if cfg.Trading.Instrument != "ETHUSDT" {
		t.Fatalf("Instrument=%s, want ETHUSDT", cfg.Trading.Instrument)
	}
	if cfg.Trading.InitialCash != 5000 {
		t.Fatalf("InitialCash=%v, want 5000", cfg.Trading.InitialCash)
	}
	if len(cfg.Strategy.ModelWeights) != 3 || cfg.Strategy.ModelWeights[0] != 2.0 {
		t.Fatalf("ModelWeights=%v, want [2 1 0.5]", cfg.Strategy.ModelWeights)
	}
	// 显式写 0 的偏置是覆盖值，不是缺省
	if cfg.Strategy.ModelBias == nil || *cfg.Strategy.ModelBias != 0 {
		t.Fatalf("ModelBias 应为显式 0 覆盖值，实际: %v", cfg.Strategy.ModelBias)
	}
	if cfg.Feed.Sim.IntervalMs != 50 {
		t.Fatalf("Sim.IntervalMs=%d, want 50", cfg.Feed.Sim.IntervalMs)
	}
}

func TestLoad_Defaults(t *testing.T) {
	yaml := `
trading:
  initial_cash: 1000
  instrument: BTCUSDT
  trade_size: 0.001
strategy:
  spread_threshold: 0.05
  voi_sensitivity: 0.1
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("写入临时配置失败: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}

	if cfg.App.LogLevel != "info" {
		t.Fatalf("默认日志级别=%s, want info", cfg.App.LogLevel)
	}
	if cfg.Feed.Mode != FeedSim {
		t.Fatalf("默认行情源=%s, want sim", cfg.Feed.Mode)
	}
	if cfg.Strategy.OIRNeutral != 0.5 {
		t.Fatalf("默认 OIRNeutral=%v, want 0.5", cfg.Strategy.OIRNeutral)
	}
	// 省略偏置时应为 nil（使用系统默认）
	if cfg.Strategy.ModelBias != nil {
		t.Fatalf("省略 model_bias 时应为 nil，实际: %v", *cfg.Strategy.ModelBias)
	}
	if len(cfg.Strategy.ModelWeights) != 0 {
		t.Fatalf("省略 model_weights 时应为空，实际: %v", cfg.Strategy.ModelWeights)
	}
	if cfg.Output.MetricsIntervalMs != 10000 {
		t.Fatalf("默认指标间隔=%d, want 10000", cfg.Output.MetricsIntervalMs)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Fatalf("不存在的配置文件应返回错误")
	}
}

func TestValidate_MissingInstrument(t *testing.T) {
	cfg := createValidConfig()
	cfg.Trading.Instrument = ""
	if err := cfg.Validate(); err == nil {
		t.Fatalf("空标的应验证失败")
	}
}

func TestValidate_BinanceModeNeedsURL(t *testing.T) {
	cfg := createValidConfig()
	cfg.Feed.Mode = FeedBinance
	cfg.Feed.Binance.URL = ""
	if err := cfg.Validate(); err == nil {
		t.Fatalf("binance 模式缺少 URL 应验证失败")
	}

	cfg.Feed.Binance.URL = "wss://fstream.binance.com/ws"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("补全 URL 后应通过验证: %v", err)
	}
}

func TestValidate_ModelWeightsLength(t *testing.T) {
	cfg := createValidConfig()
	cfg.Strategy.ModelWeights = []float64{1, 2}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("权重向量长度非 3 应验证失败")
	}

	cfg.Strategy.ModelWeights = []float64{1, 2, 3}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("权重向量长度为 3 应通过验证: %v", err)
	}
}

func TestValidate_TradingParams_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("成交数量非正数应验证失败", prop.ForAll(
		func(size float64) bool {
			cfg := createValidConfig()
			cfg.Trading.TradeSize = size
			return cfg.Validate() != nil
		},
		gen.Float64Range(-1000, 0),
	))

	properties.Property("价差阈值非正数应验证失败", prop.ForAll(
		func(threshold float64) bool {
			cfg := createValidConfig()
			cfg.Strategy.SpreadThreshold = threshold
			return cfg.Validate() != nil
		},
		gen.Float64Range(-1000, 0),
	))

	properties.Property("中性值超出 [0,1] 应验证失败", prop.ForAll(
		func(neutral float64) bool {
			cfg := createValidConfig()
			cfg.Strategy.OIRNeutral = neutral
			return cfg.Validate() != nil
		},
		gen.Float64Range(1.0001, 1000),
	))

	properties.Property("合法交易参数应通过验证", prop.ForAll(
		func(cash, size, cost float64) bool {
			cfg := createValidConfig()
			cfg.Trading.InitialCash = cash
			cfg.Trading.TradeSize = size
			cfg.Trading.TransactionCost = cost
			return cfg.Validate() == nil
		},
		gen.Float64Range(0, 1_000_000),
		gen.Float64Range(0.0001, 1000),
		gen.Float64Range(0, 100),
	))

	properties.TestingRun(t)
}
