// Package model はドメインモデルを定義する。
package model

import "github.com/shopspring/decimal"

// AnalyticsRange は分析の集計期間を表す。
type AnalyticsRange string

const (
	// AnalyticsRangeWeek は直近7日間を日単位で集計する。
	AnalyticsRangeWeek AnalyticsRange = "week"
	// AnalyticsRangeMonth は直近4週間を週単位で集計する。
	AnalyticsRangeMonth AnalyticsRange = "month"
	// AnalyticsRangeYear は直近12か月を月単位で集計する。
	AnalyticsRangeYear AnalyticsRange = "year"
)

// AnalyticsPoint は注文分析の1区間分のデータ。
type AnalyticsPoint struct {
	Period        string
	OrderCount    int
	TotalSpent    decimal.Decimal
	AvgOrderValue decimal.Decimal
}

// SavingsPoint はカテゴリごとの市場価格との比較データ。
type SavingsPoint struct {
	Category          string
	MarketPrice       decimal.Decimal
	SustainaBitePrice decimal.Decimal
	Savings           decimal.Decimal
}
