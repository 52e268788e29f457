package viz

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/mmwave/internal/physics"
	"github.com/san-kum/mmwave/internal/transition"
)

var levelNames = map[int]string{
	physics.Ground:       "ground",
	physics.Intermediate: "intermediate",
	physics.Rydberg:      "rydberg",
}

var seriesColors = []asciigraph.AnsiColor{asciigraph.DodgerBlue, asciigraph.Gold, asciigraph.OrangeRed}

// LevelName labels a basis index; the top level of a two-level system is
// still called intermediate.
func LevelName(i int) string {
	if name, ok := levelNames[i]; ok {
		return name
	}
	return fmt.Sprintf("level %d", i)
}

// RenderRows draws a titled panel of label/value rows.
func RenderRows(title string, rows []transition.Row, st Styles) string {
	var b strings.Builder
	b.WriteString(st.Title.Render(title) + "\n")
	for _, r := range rows {
		b.WriteString(st.Label.Render(r.Label) + st.Value.Render(r.Value) + "\n")
	}
	return st.Panel.Render(strings.TrimRight(b.String(), "\n"))
}

// RenderMetrics draws metric values in name order.
func RenderMetrics(metrics map[string]float64, st Styles) string {
	names := make([]string, 0, len(metrics))
	for k := range metrics {
		names = append(names, k)
	}
	slices.Sort(names)

	rows := make([]transition.Row, len(names))
	for i, k := range names {
		rows[i] = transition.Row{Label: k, Value: fmt.Sprintf("%.6g", metrics[k])}
	}
	return RenderRows("Metrics", rows, st)
}

// RenderPopulations draws one bar per level.
func RenderPopulations(pops []float64, st Styles) string {
	lines := make([]string, len(pops))
	for i, p := range pops {
		lines[i] = st.Label.Render(LevelName(i)) + st.ProgressBar(p, 20) + " " + st.Value.Render(fmt.Sprintf("%.4f", p))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// PlotPopulations charts population traces on a fixed [0, 1] axis. series[i]
// is the history of level i.
func PlotPopulations(series [][]float64, width, height int, caption string) string {
	data := make([][]float64, 0, len(series))
	colors := make([]asciigraph.AnsiColor, 0, len(series))
	for i, s := range series {
		if len(s) < 2 {
			continue
		}
		data = append(data, s)
		colors = append(colors, seriesColors[i%len(seriesColors)])
	}
	if len(data) == 0 {
		return ""
	}
	return asciigraph.PlotMany(data,
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.LowerBound(0),
		asciigraph.UpperBound(1),
		asciigraph.Precision(2),
		asciigraph.SeriesColors(colors...),
		asciigraph.Caption(caption),
	)
}

// Legend names each plotted level in its trace colour.
func Legend(levels int) string {
	parts := make([]string, levels)
	for i := range parts {
		c := seriesColors[i%len(seriesColors)]
		parts[i] = c.String() + "━ " + asciigraph.Default.String() + LevelName(i)
	}
	return strings.Join(parts, "  ")
}
