package report

import (
	"fmt"
	"strings"

	"github.com/posaune0423/aw-analyzer/internal/timebucket"
)

const (
	heatmapCellSize   = 14
	heatmapCellGap    = 2
	heatmapLeftMargin = 40
	heatmapTopMargin  = 20
)

// RenderHeatmapSVG draws a day-by-hour activity heatmap from
// timezone-binned data as a hand-built SVG document; no charting
// library is involved, the shapes are a handful of <rect> cells.
func RenderHeatmapSVG(days []timebucket.DailyBuckets) string {
	width := heatmapLeftMargin + 24*(heatmapCellSize+heatmapCellGap)
	height := heatmapTopMargin + len(days)*(heatmapCellSize+heatmapCellGap)

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`, width, height, width, height)
	b.WriteString("\n")

	maxSeconds := maxActiveSeconds(days)

	for row, day := range days {
		y := heatmapTopMargin + row*(heatmapCellSize+heatmapCellGap)
		fmt.Fprintf(&b, `<text x="0" y="%d" font-size="10">%s</text>`, y+heatmapCellSize-3, day.DateKey)
		b.WriteString("\n")

		for hour, cell := range day.Hours {
			x := heatmapLeftMargin + hour*(heatmapCellSize+heatmapCellGap)
			color := heatColor(cell.ActiveSeconds, maxSeconds)
			fmt.Fprintf(&b, `<rect x="%d" y="%d" width="%d" height="%d" fill="%s"><title>%s %02d:00 %.0fs</title></rect>`,
				x, y, heatmapCellSize, heatmapCellSize, color, day.DateKey, hour, cell.ActiveSeconds)
			b.WriteString("\n")
		}
	}

	b.WriteString("</svg>\n")
	return b.String()
}

func maxActiveSeconds(days []timebucket.DailyBuckets) float64 {
	var max float64
	for _, d := range days {
		for _, h := range d.Hours {
			if h.ActiveSeconds > max {
				max = h.ActiveSeconds
			}
		}
	}
	return max
}

// heatColor maps a seconds-active value onto a fixed 5-step green
// scale, the same bucketing a calendar-style contribution graph uses.
func heatColor(seconds, max float64) string {
	if max <= 0 || seconds <= 0 {
		return "#ebedf0"
	}
	ratio := seconds / max
	switch {
	case ratio > 0.75:
		return "#196127"
	case ratio > 0.5:
		return "#239a3b"
	case ratio > 0.25:
		return "#7bc96f"
	default:
		return "#c6e48b"
	}
}
