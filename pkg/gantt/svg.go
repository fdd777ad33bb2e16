package gantt

import (
	"fmt"
	"html"
	"strings"
)

// RenderSVG renders a chart as a standalone SVG document.
func RenderSVG(c Chart, opts Options) (string, error) {
	f, err := newFrame(c, opts)
	if err != nil {
		return "", err
	}
	opts = f.opts

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<style>
  text { font-family: sans-serif; font-size: %dpx; fill: #333; }
  .title { font-size: %dpx; font-weight: bold; }
  .day { text-anchor: middle; fill: #666; }
  .parent { font-weight: bold; }
  .nonworking { fill: #f0f0f0; }
  .band { fill: none; stroke: #ccc; stroke-width: 1; }
  .rule { stroke: #e5e5e5; stroke-width: 1; }
  .today { stroke: #d62728; stroke-width: 2; stroke-dasharray: 4 3; }
</style>
`, f.width, f.height, f.width, f.height, opts.FontSize, opts.FontSize+4))

	sb.WriteString(fmt.Sprintf(`<rect width="%d" height="%d" fill="white"/>
`, f.width, f.height))

	if opts.Title != "" {
		sb.WriteString(fmt.Sprintf(`<text x="8" y="%d" class="title">%s</text>
`, f.titleH-opts.FontSize/2, html.EscapeString(opts.Title)))
	}

	// Non-working days shade the full column below the month band.
	bandY := f.titleH + opts.RowHeight
	for i := 0; i < f.days; i++ {
		if c.NonWorking(i) {
			sb.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" class="nonworking"/>
`, f.dayX(i), bandY, opts.DayWidth, f.height-bandY))
		}
	}

	// Month band
	for _, m := range c.Months() {
		x := f.dayX(m.Start)
		w := m.Span * opts.DayWidth
		sb.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" class="band"/>
`, x, f.titleH, w, opts.RowHeight))
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d">%s</text>
`, x+4, textY(f.titleH, opts), html.EscapeString(m.Label)))
	}

	// Day band
	for i := 0; i < f.days; i++ {
		if label := f.dayLabel(c, i); label != "" {
			sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="day">%s</text>
`, f.dayX(i)+opts.DayWidth/2, textY(bandY, opts), label))
		}
	}

	// Rows
	for i, b := range c.Bars {
		y := f.rowY(i)
		sb.WriteString(fmt.Sprintf(`<line x1="0" y1="%d" x2="%d" y2="%d" class="rule"/>
`, y, f.width, y))
		class := ""
		if b.Parent {
			class = ` class="parent"`
		}
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d"%s>%s</text>
`, f.labelX(b), textY(y, opts), class, html.EscapeString(b.Label)))
		if !b.Dated() {
			continue
		}
		x, by, w, h := f.barRect(c, i)
		sb.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" rx="3" fill="%s"/>
`, x, by, w, h, b.Colour))
	}

	if x, ok := f.todayX(c); ok {
		sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" class="today"/>
`, x, bandY, x, f.height))
	}

	sb.WriteString("</svg>\n")
	return sb.String(), nil
}

// textY returns the baseline that vertically centres text in a band
// starting at top.
func textY(top int, opts Options) int {
	return top + (opts.RowHeight+opts.FontSize)/2 - 2
}
