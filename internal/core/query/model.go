package query

import "time"

// Params はクエリ処理の入力パラメータを表す
type Params struct {
	Query     string
	Topic     *string
	StartDate *string
	EndDate   *string
}

// Entity はクエリ文から抽出された固有表現を表す。
// Textは検索条件として使う前に正規化される（NormalizeEntityText参照）。
// Labelは大文字小文字を区別して比較する。
type Entity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// Article は検索で取得された記事を表す。
// Distanceはクエリとのベクトル距離（小さいほど類似、0は同一）。
type Article struct {
	Content  string    `json:"content"`
	Distance float64   `json:"distance"`
	Date     time.Time `json:"date"`
	Topic    string    `json:"topic"`
	URL      string    `json:"url"`
}

// Result はクエリ処理の最終結果を表す。
// 1回の実行につき、成功（Summary/Articles/Entities）、該当なし（Message）、
// 失敗（Error）のいずれか1つの形だけを取る。
type Result struct {
	Summary  string     `json:"summary,omitempty"`
	Articles []*Article `json:"articles,omitempty"`
	Entities []Entity   `json:"entities,omitempty"`
	Message  string     `json:"message,omitempty"`
	Error    string     `json:"error,omitempty"`
}

// IsError は失敗結果かどうかを返す
func (r *Result) IsError() bool {
	return r.Error != ""
}

// errorResult は失敗結果を作成する
func errorResult(err error) *Result {
	return &Result{Error: err.Error()}
}

// noArticlesResult は該当記事なしの結果を作成する
func noArticlesResult() *Result {
	return &Result{
		Message:  "No articles found",
		Articles: []*Article{},
	}
}
