package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/0edon/KairosNews/internal/core/query"
)

// DefaultTimeout はサイドカー呼び出しのデフォルトタイムアウト
const DefaultTimeout = 15 * time.Second

// Client は外部NLPサイドカー（固有表現抽出・文分割モデル）への
// HTTPクライアント。query.Provider を実装する。
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

type clientOptions struct {
	timeout time.Duration
}

// ClientOption は Client のオプション設定
type ClientOption func(*clientOptions)

// WithClientTimeout はHTTPタイムアウトを上書きする
func WithClientTimeout(timeout time.Duration) ClientOption {
	return func(o *clientOptions) {
		o.timeout = timeout
	}
}

// NewClient は新しい Client を作成する
func NewClient(endpoint, apiKey string, opts ...ClientOption) *Client {
	options := clientOptions{
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(&options)
	}

	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   apiKey,
		http:     &http.Client{Timeout: options.timeout},
	}
}

var _ query.Provider = (*Client)(nil)

// ExtractEntities はテキストから固有表現を抽出する。
// 複数要素はスペースで連結して1つのテキストとして送る。
func (c *Client) ExtractEntities(ctx context.Context, text ...string) ([]query.Entity, error) {
	payload := map[string]any{
		"text": strings.Join(text, " "),
	}

	var resp struct {
		Entities []query.Entity `json:"entities"`
	}
	if err := c.post(ctx, "/entities", payload, &resp); err != nil {
		return nil, fmt.Errorf("entity extraction failed: %w", err)
	}

	return resp.Entities, nil
}

// SplitSentences はテキストを文単位に分割する。
// サイドカーが空の結果を返した場合は全文を1文として返す。
func (c *Client) SplitSentences(ctx context.Context, text string) ([]string, error) {
	payload := map[string]any{
		"text": text,
	}

	var resp struct {
		Sentences []string `json:"sentences"`
	}
	if err := c.post(ctx, "/sentences", payload, &resp); err != nil {
		return nil, fmt.Errorf("sentence tokenization failed: %w", err)
	}

	if len(resp.Sentences) == 0 {
		return []string{text}, nil
	}

	return resp.Sentences, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
