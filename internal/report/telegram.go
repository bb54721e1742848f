package report

import (
	"fmt"
	"html"
	"strings"

	"BreakoutRadar/internal/screener"
	"BreakoutRadar/internal/strategy"
)

// FormatTelegram formats a run as an HTML Telegram message.
func FormatTelegram(r *screener.Report) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>短线爆发雷达</b> | %s | %s\n\n",
		r.StartedAt.Format("2006-01-02 15:04"), r.Params.Period))

	if len(r.Ranked) == 0 {
		b.WriteString("❌ 本次扫描没有可用结果\n")
	}
	for i, rec := range r.Ranked {
		b.WriteString(fmt.Sprintf("%d. <b>%s</b> %s | 评分 %d/%d | RSI %s | 量比 %s | %s\n",
			i+1, html.EscapeString(rec.Symbol), Price(rec.LatestClose), rec.Score, strategy.MaxScore,
			RSI(rec.RSI14), VolumeRatio(rec.VolumeRatio), rec.Status.Label()))
	}

	if len(r.Failures) > 0 {
		b.WriteString("\n⚠️ <b>跳过:</b>\n")
		for _, f := range r.Failures {
			b.WriteString(fmt.Sprintf("  %s (%s): %s\n",
				html.EscapeString(f.Symbol), f.Stage, html.EscapeString(f.Err.Error())))
		}
	}

	if top, ok := r.Top(); ok {
		b.WriteString(fmt.Sprintf("\n🔍 深度聚焦: <b>%s</b>\n", html.EscapeString(top.Symbol)))
		for _, c := range top.Checks {
			mark := "✗"
			if c.Hit {
				mark = "✓"
			}
			b.WriteString(fmt.Sprintf("  %s %s (+%d)\n", mark, c.Name, c.Weight))
		}
	}
	return b.String()
}
