// Package indicators 实现常用技术指标的序列计算。
package indicators

// SMA 简单移动平均
// 前 length-1 个位置尚未形成完整窗口，取 0（预热期约定）。
// 参数 src: 输入序列
// 参数 length: 窗口长度
// 返回: 与输入等长的 SMA 序列
func SMA(src []float64, length int) []float64 {
	out := make([]float64, len(src))
	if length <= 0 {
		return out
	}

	for i := range src {
		if i < length-1 {
			out[i] = 0
			continue
		}
		var sum float64
		for _, v := range src[i+1-length : i+1] {
			sum += v
		}
		out[i] = sum / float64(length)
	}

	return out
}

// EMA 指数移动平均
// alpha = 2 / (length + 1)，首个位置以首个输入值为种子。
// 参数 src: 输入序列
// 参数 length: 窗口长度
// 返回: 与输入等长的 EMA 序列
func EMA(src []float64, length int) []float64 {
	out := make([]float64, len(src))
	if len(src) == 0 {
		return out
	}

	alpha := 2.0 / (float64(length) + 1.0)
	out[0] = src[0]
	for i := 1; i < len(src); i++ {
		out[i] = alpha*src[i] + (1.0-alpha)*out[i-1]
	}

	return out
}

// RMA 滚动移动平均（TradingView ta.rma 语义）
// alpha = 1 / length，首个位置以前 length 个值（不足则全部）的均值为种子。
// 参数 src: 输入序列
// 参数 length: 窗口长度
// 返回: 与输入等长的 RMA 序列
func RMA(src []float64, length int) []float64 {
	if len(src) == 0 {
		return nil
	}

	alpha := 1.0 / float64(length)
	out := make([]float64, 0, len(src))

	seedLen := length
	if seedLen > len(src) {
		seedLen = len(src)
	}
	var seedSum float64
	for _, v := range src[:seedLen] {
		seedSum += v
	}
	out = append(out, seedSum/float64(seedLen))

	for i := 1; i < len(src); i++ {
		prev := out[i-1]
		out = append(out, alpha*src[i]+(1.0-alpha)*prev)
	}

	return out
}

// TrueRange 真实波幅序列
// tr[i] = max(high-low, |high-prevClose|, |low-prevClose|)，首个位置取 0。
// 参数 candles: K 线序列
// 返回: 与输入等长的 TR 序列
func TrueRange(candles []Ohlc) []float64 {
	tr := make([]float64, len(candles))

	for i := 1; i < len(candles); i++ {
		highLow := candles[i].High - candles[i].Low
		highClose := abs(candles[i].High - candles[i-1].Close)
		lowClose := abs(candles[i].Low - candles[i-1].Close)
		tr[i] = max3(highLow, highClose, lowClose)
	}

	return tr
}

// ATR 平均真实波幅（TradingView ta.atr 语义）
// 对 TrueRange 序列做 RMA 平滑。
// 参数 candles: K 线序列
// 参数 length: 平滑窗口长度
// 返回: 与输入等长的 ATR 序列
func ATR(candles []Ohlc, length int) []float64 {
	return RMA(TrueRange(candles), length)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func max3(a, b, c float64) float64 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}
