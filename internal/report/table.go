package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"BreakoutRadar/internal/model"
	"BreakoutRadar/internal/strategy"
)

// WriteTable prints the ranked records as an aligned table.
func WriteTable(w io.Writer, ranked []model.ResultRecord) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "代码\t当前价\t短线评分\tRSI\t成交量比\t状态")
	for _, r := range ranked {
		fmt.Fprintf(tw, "%s\t%s\t%d/%d\t%s\t%s\t%s\n",
			r.Symbol, Price(r.LatestClose), r.Score, strategy.MaxScore,
			RSI(r.RSI14), VolumeRatio(r.VolumeRatio), r.Status.Label())
	}
	return tw.Flush()
}
