// Package config 负责加载和验证 YAML 配置文件。
// 提供应用程序所需的所有配置项，包括行情源、策略参数、交易参数和输出设置。
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// 行情源模式
const (
	// FeedBinance 使用 Binance WebSocket 深度行情
	FeedBinance = "binance"
	// FeedSim 使用内置随机游走模拟行情
	FeedSim = "sim"
)

// Config 应用配置根结构
// 包含所有子模块的配置项
type Config struct {
	// App 应用基础配置
	App AppConfig `yaml:"app"`
	// Feed 行情源配置
	Feed FeedConfig `yaml:"feed"`
	// Trading 交易参数配置
	Trading TradingConfig `yaml:"trading"`
	// Strategy 策略参数配置
	Strategy StrategyConfig `yaml:"strategy"`
	// Output 输出配置
	Output OutputConfig `yaml:"output"`
}

// AppConfig 应用基础配置
type AppConfig struct {
	// Name 应用名称，用于日志标识
	Name string `yaml:"name"`
	// LogLevel 日志级别: debug, info, warn, error
	LogLevel string `yaml:"log_level"`
}

// FeedConfig 行情源配置
type FeedConfig struct {
	// Mode 行情源模式: binance 或 sim
	Mode string `yaml:"mode"`
	// Binance Binance WebSocket 配置
	Binance BinanceFeedConfig `yaml:"binance"`
	// Sim 模拟行情配置
	Sim SimFeedConfig `yaml:"sim"`
}

// BinanceFeedConfig Binance WebSocket 行情配置
type BinanceFeedConfig struct {
	// URL WebSocket 连接地址
	URL string `yaml:"url"`
	// PingIntervalMs 心跳间隔（毫秒）
	PingIntervalMs int `yaml:"ping_interval_ms"`
	// ReadTimeoutMs 读取超时（毫秒）
	ReadTimeoutMs int `yaml:"read_timeout_ms"`
}

// SimFeedConfig 模拟行情配置
// 有界随机游走：中间价每步最多变动 MaxChangePct，
// 越界时截断到 [MinPrice, MaxPrice]。
type SimFeedConfig struct {
	// IntervalMs 快照生成间隔（毫秒）
	IntervalMs int `yaml:"interval_ms"`
	// StartPrice 起始中间价
	StartPrice float64 `yaml:"start_price"`
	// MinPrice 价格下界
	MinPrice float64 `yaml:"min_price"`
	// MaxPrice 价格上界
	MaxPrice float64 `yaml:"max_price"`
	// MaxChangePct 每步最大变动比例（0-1）
	MaxChangePct float64 `yaml:"max_change_pct"`
	// SpreadPct 模拟价差比例（相对中间价）
	SpreadPct float64 `yaml:"spread_pct"`
	// Levels 每侧生成的档位数量
	Levels int `yaml:"levels"`
	// Seed 随机种子（0 表示按时间播种）
	Seed int64 `yaml:"seed"`
}

// TradingConfig 交易参数配置
type TradingConfig struct {
	// InitialCash 初始现金
	InitialCash float64 `yaml:"initial_cash"`
	// Instrument 标的标识，如 BTCUSDT
	Instrument string `yaml:"instrument"`
	// TradeSize 每次决策的成交数量
	TradeSize float64 `yaml:"trade_size"`
	// TransactionCost 每笔成交的固定费用
	TransactionCost float64 `yaml:"transaction_cost"`
}

// StrategyConfig 策略参数配置
type StrategyConfig struct {
	// SpreadThreshold 价差门控阈值，spread <= 阈值才尝试交易
	SpreadThreshold float64 `yaml:"spread_threshold"`
	// VOISensitivity VOI 灵敏度门控阈值，|voi| 超过才可操作
	VOISensitivity float64 `yaml:"voi_sensitivity"`
	// ModelWeights 线性模型权重覆盖值（可选，长度必须为 3: [VOI, OIR, MPB]）
	// 省略时使用系统默认权重。
	ModelWeights []float64 `yaml:"model_weights"`
	// ModelBias 线性模型偏置覆盖值（可选）
	// 省略时使用系统默认偏置；显式 0 视为覆盖。
	ModelBias *float64 `yaml:"model_bias"`
	// OIRNeutral OIR 奇点（双侧成交量为 0）的中性值
	// 该约定可配置，默认 0.5。
	OIRNeutral float64 `yaml:"oir_neutral"`
}

// OutputConfig 输出配置
type OutputConfig struct {
	// Dir 输出目录
	Dir string `yaml:"dir"`
	// TradesEnabled 是否输出成交文件
	TradesEnabled bool `yaml:"trades_enabled"`
	// MetricsEnabled 是否输出指标文件
	MetricsEnabled bool `yaml:"metrics_enabled"`
	// MetricsIntervalMs 指标输出间隔（毫秒）
	MetricsIntervalMs int `yaml:"metrics_interval_ms"`
	// BufferSize 异步写入缓冲区大小
	BufferSize int `yaml:"buffer_size"`
}

// Load 从文件加载配置并验证
// 参数 path: 配置文件路径
// 返回: 解析后的配置对象，若失败则返回错误
func Load(path string) (*Config, error) {
	// 读取配置文件
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	// 解析 YAML
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 设置默认值
	cfg.setDefaults()

	// 验证配置
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("配置验证失败: %w", err)
	}

	return &cfg, nil
}

// setDefaults 设置配置默认值
func (c *Config) setDefaults() {
	// 应用默认值
	if c.App.Name == "" {
		c.App.Name = "strato-trade"
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}

	// 行情源默认值
	if c.Feed.Mode == "" {
		c.Feed.Mode = FeedSim
	}
	if c.Feed.Binance.PingIntervalMs == 0 {
		c.Feed.Binance.PingIntervalMs = 15000 // 15 秒
	}
	if c.Feed.Binance.ReadTimeoutMs == 0 {
		c.Feed.Binance.ReadTimeoutMs = 30000 // 30 秒
	}
	if c.Feed.Sim.IntervalMs == 0 {
		c.Feed.Sim.IntervalMs = 100 // 100 毫秒
	}
	if c.Feed.Sim.StartPrice == 0 {
		c.Feed.Sim.StartPrice = 100
	}
	if c.Feed.Sim.MinPrice == 0 {
		c.Feed.Sim.MinPrice = 100
	}
	if c.Feed.Sim.MaxPrice == 0 {
		c.Feed.Sim.MaxPrice = 500
	}
	if c.Feed.Sim.MaxChangePct == 0 {
		c.Feed.Sim.MaxChangePct = 0.05 // 每步最多 5%
	}
	if c.Feed.Sim.SpreadPct == 0 {
		c.Feed.Sim.SpreadPct = 0.0002 // 2 bps
	}
	if c.Feed.Sim.Levels == 0 {
		c.Feed.Sim.Levels = 5
	}

	// 策略默认值
	if c.Strategy.OIRNeutral == 0 {
		c.Strategy.OIRNeutral = 0.5
	}

	// 输出默认值
	if c.Output.Dir == "" {
		c.Output.Dir = "./output"
	}
	if c.Output.MetricsIntervalMs == 0 {
		c.Output.MetricsIntervalMs = 10000 // 10 秒
	}
	if c.Output.BufferSize == 0 {
		c.Output.BufferSize = 1000
	}
}

// Validate 验证配置合法性
// 检查所有必填项和数值范围
// 返回: 若配置无效则返回描述性错误
func (c *Config) Validate() error {
	var errs []string

	// 验证行情源配置
	if c.Feed.Mode != FeedBinance && c.Feed.Mode != FeedSim {
		errs = append(errs, fmt.Sprintf("feed.mode: 无效的行情源模式 '%s'，有效值: binance, sim", c.Feed.Mode))
	}
	if c.Feed.Mode == FeedBinance && c.Feed.Binance.URL == "" {
		errs = append(errs, "feed.binance.url: Binance WebSocket 地址不能为空")
	}
	if c.Feed.Mode == FeedSim {
		if c.Feed.Sim.IntervalMs <= 0 {
			errs = append(errs, "feed.sim.interval_ms: 快照间隔必须为正数")
		}
		if c.Feed.Sim.MinPrice >= c.Feed.Sim.MaxPrice {
			errs = append(errs, "feed.sim: min_price 必须小于 max_price")
		}
		if c.Feed.Sim.MaxChangePct <= 0 || c.Feed.Sim.MaxChangePct >= 1 {
			errs = append(errs, "feed.sim.max_change_pct: 变动比例必须在 0-1 之间")
		}
	}

	// 验证交易参数
	if c.Trading.Instrument == "" {
		errs = append(errs, "trading.instrument: 标的标识不能为空")
	}
	if c.Trading.InitialCash < 0 {
		errs = append(errs, "trading.initial_cash: 初始现金不能为负数")
	}
	if c.Trading.TradeSize <= 0 {
		errs = append(errs, "trading.trade_size: 成交数量必须为正数")
	}
	if c.Trading.TransactionCost < 0 {
		errs = append(errs, "trading.transaction_cost: 交易费用不能为负数")
	}

	// 验证策略参数
	if c.Strategy.SpreadThreshold <= 0 {
		errs = append(errs, "strategy.spread_threshold: 价差阈值必须为正数")
	}
	if c.Strategy.VOISensitivity < 0 {
		errs = append(errs, "strategy.voi_sensitivity: VOI 灵敏度不能为负数")
	}
	if len(c.Strategy.ModelWeights) != 0 && len(c.Strategy.ModelWeights) != 3 {
		errs = append(errs, fmt.Sprintf("strategy.model_weights: 权重向量长度必须为 3（[VOI, OIR, MPB]），当前长度: %d", len(c.Strategy.ModelWeights)))
	}
	if c.Strategy.OIRNeutral < 0 || c.Strategy.OIRNeutral > 1 {
		errs = append(errs, fmt.Sprintf("strategy.oir_neutral: 中性值必须在 0-1 之间，当前值: %f", c.Strategy.OIRNeutral))
	}

	// 验证输出配置
	if c.Output.MetricsIntervalMs <= 0 {
		errs = append(errs, "output.metrics_interval_ms: 指标输出间隔必须为正数")
	}

	// 验证日志级别
	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.App.LogLevel)] {
		errs = append(errs, fmt.Sprintf("app.log_level: 无效的日志级别 '%s'，有效值: debug, info, warn, error", c.App.LogLevel))
	}

	if len(errs) > 0 {
		return fmt.Errorf("配置验证错误:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}
