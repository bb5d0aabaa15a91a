// Package security はアプリケーションのセキュリティ機能を提供する。
//
// TextSanitizer は配送メモや店舗情報など、利用者が入力した自由記述テキストから
// HTMLタグを取り除き、プレーンテキストとして保存できる形に整える。
// bluemondayのStrictPolicyを使用し、全てのタグと属性を除去する。
package security

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// DefaultMaxLength は1フィールドあたりの最大文字数（ルーン数）。
const DefaultMaxLength = 500

// TextSanitizer は自由記述テキストのサニタイズ機能のインターフェースを定義する。
type TextSanitizer interface {
	// Sanitize は全てのHTMLタグを除去し、前後の空白を取り除いたテキストを返す。
	// script, styleタグは中身ごと除去される。
	// 最大文字数を超える場合は切り詰める。
	Sanitize(raw string) string
}

// textSanitizer はTextSanitizerの実装。
// bluemondayのポリシーはスレッドセーフに共有できる。
type textSanitizer struct {
	policy    *bluemonday.Policy
	maxLength int
}

// NewTextSanitizer はTextSanitizerの新しいインスタンスを生成する。
// maxLengthが0以下の場合はDefaultMaxLengthを使用する。
func NewTextSanitizer(maxLength int) *textSanitizer {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	return &textSanitizer{
		policy:    bluemonday.StrictPolicy(),
		maxLength: maxLength,
	}
}

// Sanitize は自由記述テキストをサニタイズする。
func (s *textSanitizer) Sanitize(raw string) string {
	if raw == "" {
		return ""
	}

	// StrictPolicyは出力をHTMLエスケープするため、保存用に元の文字へ戻す
	text := html.UnescapeString(s.policy.Sanitize(raw))
	text = strings.TrimSpace(text)

	if utf8.RuneCountInString(text) > s.maxLength {
		runes := []rune(text)
		text = strings.TrimSpace(string(runes[:s.maxLength]))
	}
	return text
}
