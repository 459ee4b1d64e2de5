// Package security はアプリケーションのセキュリティ機能を提供する。
//
// TitleSanitizerService は出品タイトルをプレーンテキストにサニタイズする。
// 上流APIのタイトルにはHTMLタグやエンティティが混入しうるため、
// bluemondayの許可リストなしポリシーで全タグを除去したうえで
// エンティティをテキストに復元する。
package security

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

// TitleSanitizerService はタイトルのサニタイズ機能のインターフェースを定義する。
// 正規化処理で商品タイトルをフィードに含める前に使用される。
type TitleSanitizerService interface {
	// Sanitize はタイトルからすべてのHTMLタグを除去し、
	// HTMLエンティティをテキストに復元したプレーンテキストを返す。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(rawTitle string) string
}

// titleSanitizer はTitleSanitizerServiceの実装。
// bluemondayのStrictPolicyを保持し、スレッドセーフにサニタイズ処理を行う。
type titleSanitizer struct {
	policy *bluemonday.Policy
}

// NewTitleSanitizer はTitleSanitizerServiceの新しいインスタンスを生成する。
// StrictPolicyはタグを一切許可しないため、scriptタグやon*イベント属性を
// 含むあらゆるマークアップが除去される。
func NewTitleSanitizer() *titleSanitizer {
	return &titleSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize はタイトルからHTMLタグを除去し、プレーンテキストを返す。
// bluemondayの出力は & などをエンティティとしてエスケープするため、
// html.UnescapeStringでテキスト表現に戻す。フィードはJSONとして
// 書き出されるため、この時点でのエスケープは不要である。
func (s *titleSanitizer) Sanitize(rawTitle string) string {
	if rawTitle == "" {
		return ""
	}
	return html.UnescapeString(s.policy.Sanitize(rawTitle))
}

// compile-time interface check
var _ TitleSanitizerService = (*titleSanitizer)(nil)
