package report

import (
	"fmt"

	"BreakoutRadar/internal/model"
	"BreakoutRadar/internal/strategy"
)

// FormatPrompt builds the analysis prompt for the top-ranked symbol. It only
// uses the score, RSI and volume ratio of the record.
func FormatPrompt(rec model.ResultRecord) string {
	return fmt.Sprintf(`# 角色：短线游资操盘手
# 任务：分析股票 %s 的短线真伪突破。

## 数据事实：
- 评分：%d (总分%d)
- RSI：%s
- 成交量：较5日均值放大 %s

## 请分析：
1. 这种放量突破是否具备持续性？
2. 给出一个'分批入场'的点位建议。
3. 如果明天跌破哪一个价位，说明本次爆发失败，必须斩仓？
`, rec.Symbol, rec.Score, strategy.MaxScore, RSI(rec.RSI14), VolumeRatio(rec.VolumeRatio))
}
