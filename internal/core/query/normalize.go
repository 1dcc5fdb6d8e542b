package query

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// アクセント記号（結合文字）を除去する変換。
// NFDで分解してからMn（Nonspacing Mark）を落とし、NFCで再合成する。
var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeEntityText は固有表現のテキストを検索条件用に正規化する。
// 小文字化とアクセント除去を行う（例: "São Paulo" → "sao paulo"）。
func NormalizeEntityText(s string) string {
	stripped, _, err := transform.String(accentStripper, s)
	if err != nil {
		stripped = s
	}
	return strings.ToLower(stripped)
}
