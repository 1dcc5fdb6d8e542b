package openai

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"github.com/pkoukk/tiktoken-go"

	coquery "github.com/0edon/KairosNews/internal/core/query"
)

const (
	// DefaultSummaryModel はデフォルトの要約生成モデル
	DefaultSummaryModel = "gpt-4o-mini"

	// DefaultSummaryTimeout はAPI呼び出しのデフォルトタイムアウト
	DefaultSummaryTimeout = 60 * time.Second

	// DefaultMaxInputTokens は入力テキストのトークン上限。
	// 上限を超えた入力は末尾を切り詰める。
	DefaultMaxInputTokens = 1024

	// DefaultMaxOutputTokens は生成する要約のトークン上限
	DefaultMaxOutputTokens = 512

	// summaryEncoding はトークン数の計測に使うエンコーディング
	summaryEncoding = "cl100k_base"
)

const summaryPrompt = "Summarize the following news excerpts into a single concise paragraph. " +
	"Keep the language of the excerpts and do not add information that is not present in them.\n\n"

// Summarizer は OpenAI API を使用した抽象型要約の実装。
// 入力はトークン予算内に収めてから送信する。
type Summarizer struct {
	client          openai.Client
	model           string
	timeout         time.Duration
	maxInputTokens  int
	maxOutputTokens int
	encoding        *tiktoken.Tiktoken
}

type summarizerOptions struct {
	model           string
	timeout         time.Duration
	maxInputTokens  int
	maxOutputTokens int
}

// SummarizerOption は Summarizer のオプション設定
type SummarizerOption func(*summarizerOptions)

// WithSummaryModel はモデル名を上書きする
func WithSummaryModel(model string) SummarizerOption {
	return func(o *summarizerOptions) {
		o.model = model
	}
}

// WithSummaryTimeout はAPIコールのタイムアウトを上書きする
func WithSummaryTimeout(timeout time.Duration) SummarizerOption {
	return func(o *summarizerOptions) {
		o.timeout = timeout
	}
}

// WithMaxOutputTokens は要約のトークン上限を上書きする
func WithMaxOutputTokens(tokens int) SummarizerOption {
	return func(o *summarizerOptions) {
		o.maxOutputTokens = tokens
	}
}

// NewSummarizer は新しい Summarizer を作成する
func NewSummarizer(apiKey string, opts ...SummarizerOption) (*Summarizer, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyNotSet
	}

	options := summarizerOptions{
		model:           DefaultSummaryModel,
		timeout:         DefaultSummaryTimeout,
		maxInputTokens:  DefaultMaxInputTokens,
		maxOutputTokens: DefaultMaxOutputTokens,
	}
	for _, opt := range opts {
		opt(&options)
	}

	encoding, err := tiktoken.GetEncoding(summaryEncoding)
	if err != nil {
		return nil, fmt.Errorf("failed to load tiktoken encoding: %w", err)
	}

	return &Summarizer{
		client:          openai.NewClient(option.WithAPIKey(apiKey)),
		model:           options.model,
		timeout:         options.timeout,
		maxInputTokens:  options.maxInputTokens,
		maxOutputTokens: options.maxOutputTokens,
		encoding:        encoding,
	}, nil
}

// Summarize は入力テキストを圧縮した要約を生成する
func (s *Summarizer) Summarize(ctx context.Context, text string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(s.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(summaryPrompt + s.truncate(text)),
		},
		MaxTokens: openai.Int(int64(s.maxOutputTokens)),
	}

	completion, err := s.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("OpenAI API call failed: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("no completion choices returned")
	}

	return completion.Choices[0].Message.Content, nil
}

// truncate は入力をトークン予算内に切り詰める
func (s *Summarizer) truncate(text string) string {
	tokens := s.encoding.Encode(text, nil, nil)
	if len(tokens) <= s.maxInputTokens {
		return text
	}
	return s.encoding.Decode(tokens[:s.maxInputTokens])
}

// ModelName はモデル名を返す
func (s *Summarizer) ModelName() string {
	return s.model
}

// インターフェース実装の確認
var _ coquery.Summarizer = (*Summarizer)(nil)
