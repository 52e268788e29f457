// Package export renders level population traces as standalone SVG charts.
package export

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

var ErrTooFewPoints = errors.New("export: need at least two samples")

// Chart describes an SVG population chart. Populations are plotted on a
// fixed [0, 1] axis against Times.
type Chart struct {
	Title  string
	Times  []float64
	Series [][]float64
	Labels []string
	// Colors are CSS colours per series; missing entries fall back to
	// DefaultColors.
	Colors []string
	Width  int
	Height int
}

var DefaultColors = []string{"#1e90ff", "#ffd700", "#ff4500", "#32cd32"}

const (
	margin     = 40
	background = "#0a0a0a"
	axisColor  = "#555555"
	textColor  = "#cccccc"
)

func (c Chart) color(i int) string {
	if i < len(c.Colors) && c.Colors[i] != "" {
		return c.Colors[i]
	}
	return DefaultColors[i%len(DefaultColors)]
}

// SVG renders the chart. Series shorter than Times are drawn up to their
// length.
func (c Chart) SVG() (string, error) {
	if len(c.Times) < 2 {
		return "", ErrTooFewPoints
	}
	width, height := c.Width, c.Height
	if width <= 2*margin {
		width = 800
	}
	if height <= 2*margin {
		height = 400
	}

	t0, t1 := c.Times[0], c.Times[len(c.Times)-1]
	span := t1 - t0
	if span <= 0 {
		span = 1
	}
	plotW := float64(width - 2*margin)
	plotH := float64(height - 2*margin)
	x := func(t float64) float64 { return margin + (t-t0)/span*plotW }
	y := func(p float64) float64 { return margin + (1-p)*plotH }

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)

	// axes and the 0.5 gridline
	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1" d="M%d,%d L%d,%d L%d,%d"/>
`, axisColor, margin, margin, margin, height-margin, width-margin, height-margin)
	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="0.5" stroke-dasharray="4 4" d="M%d,%.1f L%d,%.1f"/>
`, axisColor, margin, y(0.5), width-margin, y(0.5))
	for _, p := range []float64{0, 0.5, 1} {
		fmt.Fprintf(&sb, `<text x="%d" y="%.1f" fill="%s" font-size="10" text-anchor="end">%.1f</text>
`, margin-4, y(p)+3, textColor, p)
	}
	fmt.Fprintf(&sb, `<text x="%d" y="%d" fill="%s" font-size="10" text-anchor="end">%.4g ns</text>
`, width-margin, height-margin+14, textColor, span*1e9)
	if c.Title != "" {
		fmt.Fprintf(&sb, `<text x="%d" y="%d" fill="%s" font-size="12">%s</text>
`, margin, margin-12, textColor, escape(c.Title))
	}

	for i, series := range c.Series {
		n := min(len(series), len(c.Times))
		if n < 2 {
			continue
		}
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, c.color(i))
		for k := 0; k < n; k++ {
			if k > 0 {
				sb.WriteString(" L")
			}
			fmt.Fprintf(&sb, "%.1f,%.1f", x(c.Times[k]), y(series[k]))
		}
		sb.WriteString("\"/>\n")

		if i < len(c.Labels) {
			fmt.Fprintf(&sb, `<text x="%d" y="%d" fill="%s" font-size="11">%s</text>
`, width-margin+4, margin+14*(i+1), c.color(i), escape(c.Labels[i]))
		}
	}

	sb.WriteString("</svg>\n")
	return sb.String(), nil
}

// WriteFile renders the chart to path.
func (c Chart) WriteFile(path string) error {
	svg, err := c.SVG()
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(svg), 0644)
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escape(s string) string { return escaper.Replace(s) }
