package feedback

import (
	"strings"
	"time"
)

// Sentiment はフィードバックの評価傾向です。
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// ParseSentiment は文字列を Sentiment に変換します。大文字小文字は区別しません。
func ParseSentiment(raw string) (Sentiment, error) {
	switch s := Sentiment(strings.ToLower(strings.TrimSpace(raw))); s {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return s, nil
	default:
		return "", ErrInvalidSentiment
	}
}

// Comment はフィードバックに追記されるコメントです。個別の ID を持たず、編集も削除もされません。
type Comment struct {
	EmployeeID string
	Text       string
}

// Feedback はマネージャーが従業員に宛てて作成する評価です。
//
// ManagerEmployeeID は認可の基準です。参照先のユーザーは操作のたびにディレクトリで再解決されます。
type Feedback struct {
	ID                string
	EmployeeID        string
	ManagerEmployeeID string
	Strengths         string
	Improvement       string
	Sentiment         Sentiment
	Anonymous         bool
	Tags              []string
	Acknowledged      bool
	Comments          []Comment
	CreatedAt         time.Time
}

// RenderedComment は表示用に HTML へ変換済みのコメントです。
type RenderedComment struct {
	EmployeeID string
	HTML       string
}

// View は読み取り時に組み立てられるフィードバックの表示形式です。
type View struct {
	Feedback    *Feedback
	ManagerName string
	Comments    []RenderedComment
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
