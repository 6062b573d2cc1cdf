// Package indicators 实现常用技术指标的序列计算。
// 输出序列与输入等长，预热期位置的取值约定见各函数注释。
package indicators

// Ohlc K 线数据
type Ohlc struct {
	// Open 开盘价
	Open float64
	// High 最高价
	High float64
	// Low 最低价
	Low float64
	// Close 收盘价
	Close float64
}
