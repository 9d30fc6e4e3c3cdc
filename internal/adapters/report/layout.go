package report

import (
	"fmt"
	"strings"

	"github.com/ogurasousui/feedback-exchange/internal/core/feedback"
)

// レイアウト定数は左下原点のポイント単位です。
const (
	marginLeft  = 100.0
	titleY      = 800.0
	firstLineY  = 780.0
	pageTopY    = 800.0
	lineSpacing = 20.0
	bottomLimit = 50.0
)

// Line はページ上の 1 行です。Y は左下原点のベースライン位置です。
type Line struct {
	X    float64
	Y    float64
	Text string
}

// Page は 1 ページ分の行です。
type Page struct {
	Lines []Line
}

// Title はレポートの見出しを返します。
func Title(employeeID string) string {
	return fmt.Sprintf("Feedback Report for Employee ID: %s", employeeID)
}

// FormatLine はフィードバック 1 件を "{SENTIMENT} - {strengths} | {improvement}" 形式にします。
func FormatLine(fb *feedback.Feedback) string {
	return fmt.Sprintf("%s - %s | %s", strings.ToUpper(string(fb.Sentiment)), fb.Strengths, fb.Improvement)
}

// Layout はフィードバック一覧をページに割り付けます。
// 1 ページ目は見出しの後に y=780 から、以降のページは y=800 から 20pt 間隔で配置し、y が 50 未満になったら改ページします。
func Layout(employeeID string, items []*feedback.Feedback) []Page {
	current := Page{Lines: []Line{{X: marginLeft, Y: titleY, Text: Title(employeeID)}}}
	pages := make([]Page, 0, 1)

	y := firstLineY
	for _, fb := range items {
		current.Lines = append(current.Lines, Line{X: marginLeft, Y: y, Text: FormatLine(fb)})
		y -= lineSpacing
		if y < bottomLimit {
			pages = append(pages, current)
			current = Page{}
			y = pageTopY
		}
	}
	if len(current.Lines) > 0 {
		pages = append(pages, current)
	}
	return pages
}
