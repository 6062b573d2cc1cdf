// Package binance 实现 Binance 交易所消息解析。
package binance

import (
	"encoding/json"
	"fmt"
	"strings"

	"strato-trade/internal/core/model"
	"strato-trade/internal/util/fastparse"
	"strato-trade/internal/util/timeutil"
)

// 档位上限，depth5 流最多 5 档
const maxDepthLevels = 5

// Parser Binance 消息解析器
// 只接受配置的单一交易对，其它推送丢弃。
type Parser struct {
	// instrument 配置的交易对（大写，如 BTCUSDT）
	instrument string
}

// NewParser 创建 Binance 消息解析器
// 参数 instrument: 交易对（大小写不敏感）
func NewParser(instrument string) *Parser {
	return &Parser{instrument: strings.ToUpper(instrument)}
}

// Parse 解析 Binance WebSocket 消息为订单簿快照
// 参数 data: 原始消息字节
// 返回: 非深度消息或非配置交易对返回 (nil, nil)
func (p *Parser) Parse(data []byte) (*model.BookSnapshot, error) {
	arrivedAt := timeutil.NowNano()

	var msg DepthUpdate
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("解析 Binance 消息失败: %w", err)
	}

	if msg.EventType != "depthUpdate" {
		return nil, nil
	}
	if strings.ToUpper(msg.Symbol) != p.instrument {
		return nil, nil
	}

	snap := &model.BookSnapshot{
		Instrument:       p.instrument,
		Bids:             parseLevels(msg.Bids),
		Asks:             parseLevels(msg.Asks),
		ReceivedAtUnixNs: arrivedAt,
	}
	return snap, nil
}

func parseLevels(raw [][]string) []model.Level {
	levels := make([]model.Level, 0, maxDepthLevels)
	for i, l := range raw {
		if i >= maxDepthLevels || len(l) < 2 {
			break
		}
		levels = append(levels, model.Level{
			Price: fastparse.MustParseFloat(l[0]),
			Qty:   fastparse.MustParseFloat(l[1]),
		})
	}
	return levels
}
