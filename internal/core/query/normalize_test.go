package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEntityText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "アクセント除去と小文字化", input: "São Paulo", want: "sao paulo"},
		{name: "大文字のアクセント", input: "ELEIÇÕES", want: "eleicoes"},
		{name: "ASCIIはそのまま", input: "lisboa", want: "lisboa"},
		{name: "空文字列", input: "", want: ""},
		{name: "混在", input: "António Costa", want: "antonio costa"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeEntityText(tt.input))
		})
	}
}
