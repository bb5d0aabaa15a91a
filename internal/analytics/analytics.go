// Package analytics は注文分析のデモ用時系列を生成する。
package analytics

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hitoshi/sustainabite/internal/model"
)

// thaiMonths はタイ語の月略称（1月始まり）。
var thaiMonths = [12]string{
	"ม.ค.", "ก.พ.", "มี.ค.", "เม.ย.", "พ.ค.", "มิ.ย.",
	"ก.ค.", "ส.ค.", "ก.ย.", "ต.ค.", "พ.ย.", "ธ.ค.",
}

// ParseRange は期間文字列を検証する。空文字列はweekとして扱う。
func ParseRange(s string) (model.AnalyticsRange, error) {
	switch r := model.AnalyticsRange(strings.ToLower(strings.TrimSpace(s))); r {
	case "":
		return model.AnalyticsRangeWeek, nil
	case model.AnalyticsRangeWeek, model.AnalyticsRangeMonth, model.AnalyticsRangeYear:
		return r, nil
	default:
		return "", model.NewInvalidRangeError(s)
	}
}

// bucketSpec は1区間あたりの乱数範囲 [min, min+span)。
type bucketSpec struct {
	ordersMin, ordersSpan int
	spentMin, spentSpan   int
}

var specs = map[model.AnalyticsRange]bucketSpec{
	model.AnalyticsRangeWeek:  {ordersMin: 1, ordersSpan: 3, spentMin: 300, spentSpan: 500},
	model.AnalyticsRangeMonth: {ordersMin: 5, ordersSpan: 10, spentMin: 1000, spentSpan: 2000},
	model.AnalyticsRangeYear:  {ordersMin: 20, ordersSpan: 40, spentMin: 4000, spentSpan: 8000},
}

// 平均注文額は期間によらず [100, 300) の範囲で生成する
const (
	avgMin  = 100
	avgSpan = 200
)

// Generator は擬似乱数による分析データの生成器。
// 並行呼び出しに対応する。
type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
	now func() time.Time
}

// NewGenerator は時刻依存のシードでGeneratorを生成する。
func NewGenerator() *Generator {
	seed := uint64(time.Now().UnixNano())
	return NewGeneratorWithSource(rand.NewPCG(seed, seed>>1), time.Now)
}

// NewGeneratorWithSource は乱数源と時刻関数を指定してGeneratorを生成する。
func NewGeneratorWithSource(src rand.Source, now func() time.Time) *Generator {
	return &Generator{rnd: rand.New(src), now: now}
}

// Orders は期間に応じた注文分析の時系列を古い順に返す。
// week: 直近7日（日単位）、month: 直近4週（週単位）、year: 直近12か月（月単位）。
func (g *Generator) Orders(r model.AnalyticsRange) ([]model.AnalyticsPoint, error) {
	spec, ok := specs[r]
	if !ok {
		return nil, model.NewInvalidRangeError(string(r))
	}

	labels := g.labels(r)

	g.mu.Lock()
	defer g.mu.Unlock()

	points := make([]model.AnalyticsPoint, 0, len(labels))
	for _, label := range labels {
		points = append(points, model.AnalyticsPoint{
			Period:        label,
			OrderCount:    spec.ordersMin + g.rnd.IntN(spec.ordersSpan),
			TotalSpent:    decimal.NewFromInt(int64(spec.spentMin + g.rnd.IntN(spec.spentSpan))),
			AvgOrderValue: decimal.NewFromInt(int64(avgMin + g.rnd.IntN(avgSpan))),
		})
	}
	return points, nil
}

func (g *Generator) labels(r model.AnalyticsRange) []string {
	now := g.now()

	switch r {
	case model.AnalyticsRangeWeek:
		out := make([]string, 0, 7)
		for i := 6; i >= 0; i-- {
			out = append(out, dayLabel(now.AddDate(0, 0, -i)))
		}
		return out
	case model.AnalyticsRangeMonth:
		out := make([]string, 0, 4)
		for i := 3; i >= 0; i-- {
			start := now.AddDate(0, 0, -(i*7)-6)
			end := now.AddDate(0, 0, -(i * 7))
			out = append(out, fmt.Sprintf("%s - %s", dayLabel(start), dayLabel(end)))
		}
		return out
	default:
		out := make([]string, 0, 12)
		current := int(now.Month()) - 1
		for i := 11; i >= 0; i-- {
			out = append(out, thaiMonths[(current-i+12)%12])
		}
		return out
	}
}

// dayLabel は「20 มี.ค.」形式の日付ラベルを返す。
func dayLabel(t time.Time) string {
	return fmt.Sprintf("%d %s", t.Day(), thaiMonths[t.Month()-1])
}
