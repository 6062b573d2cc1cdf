// Package jsonl 输出模块测试
package jsonl

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"strato-trade/internal/core/model"
)

func TestTradeRecord_OutputCompleteness_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("trades JSON 必含必需字段", prop.ForAll(
		func(price, size, cost float64, tExec int64, side string) bool {
			rec := &model.TradeRecord{
				Instrument:    "BTCUSDT",
				Side:          side,
				Price:         price,
				Size:          size,
				Cost:          cost,
				TExecNs:       tExec,
				Score:         0.5,
				Signals:       &model.SignalSet{},
				CashAfter:     1000,
				PositionAfter: 1,
			}

			b, err := json.Marshal(rec)
			if err != nil {
				return false
			}

			var m map[string]any
			if err := json.Unmarshal(b, &m); err != nil {
				return false
			}

			required := []string{
				"instrument",
				"side",
				"price",
				"size",
				"cost",
				"t_exec_ns",
				"score",
				"signals",
				"cash_after",
				"position_after",
			}
			for _, k := range required {
				if _, ok := m[k]; !ok {
					return false
				}
			}
			return true
		},
		gen.Float64Range(1, 200000),
		gen.Float64Range(0.001, 100),
		gen.Float64Range(0, 100),
		gen.Int64(),
		gen.OneConstOf("buy", "sell"),
	))

	properties.TestingRun(t)
}

func TestWriter_WriteAndClose(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trades.jsonl")

	w, err := NewWriter(path, 100)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if w.Path() != path {
		t.Fatalf("Path=%s, want %s", w.Path(), path)
	}

	for i := 0; i < 10; i++ {
		if err := w.Write(map[string]any{"i": i}); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	lines := 0
	for sc.Scan() {
		lines++
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if lines != 10 {
		t.Fatalf("lines=%d, want 10", lines)
	}
}

func TestWriter_FlushMakesDataVisible(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "metrics.jsonl")

	w, err := NewWriter(path, 100)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	defer w.Close()

	if err := w.Write(map[string]any{"k": "v"}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("Flush 后文件不应为空")
	}
}

func TestWriter_WriteAfterCloseFails(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(filepath.Join(dir, "out.jsonl"), 10)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.Write(map[string]any{}); err == nil {
		t.Fatalf("关闭后 Write 应返回错误")
	}
}
