package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yanqian/lifepattern/internal/domain/analyzer"
	"github.com/yanqian/lifepattern/internal/domain/pattern"
)

const forecastRows = 12

type palette struct {
	title  lipgloss.Style
	label  lipgloss.Style
	muted  lipgloss.Style
	accent lipgloss.Style
}

// Colors are dropped automatically when w is not a terminal.
func newPalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	return palette{
		title:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#00BFFF")),
		label:  r.NewStyle().Bold(true),
		muted:  r.NewStyle().Foreground(lipgloss.Color("#6C757D")),
		accent: r.NewStyle().Foreground(lipgloss.Color("#6BCF7F")),
	}
}

func renderAnalysis(w io.Writer, resp analyzer.Response) {
	p := newPalette(w)
	var b strings.Builder

	b.WriteString(p.title.Render("Life Pattern Analysis") + "\n")
	b.WriteString(p.muted.Render(resp.Timestamp) + "\n\n")

	fmt.Fprintf(&b, "%s %s (%s, %s)\n", p.label.Render("Location:"), resp.Location.Label(), resp.Location.SourceLabel, resp.Location.Timezone)
	fmt.Fprintf(&b, "%s %s, %s°C, humidity %s%%, wind %s km/h\n",
		p.label.Render("Weather: "), resp.Weather.Condition, num(resp.Weather.Temperature), num(resp.Weather.Humidity), num(resp.Weather.WindSpeed))
	fmt.Fprintf(&b, "%s %s %s (%s%% illuminated)\n", p.label.Render("Moon:    "), resp.Moon.Emoji, resp.Moon.Phase, num(resp.Moon.Illumination))
	e := resp.Circadian.CurrentEnergy
	fmt.Fprintf(&b, "%s mental %s, physical %s, creative %s, social %s\n\n",
		p.label.Render("Energy:  "), num(e.Mental), num(e.Physical), num(e.Creative), num(e.Social))

	b.WriteString(p.title.Render("Insights") + "\n")
	for _, in := range resp.Analysis.Insights {
		fmt.Fprintf(&b, "%s %s: %s %s\n", in.Icon, p.label.Render(in.Title), in.Message, p.muted.Render(fmt.Sprintf("(%s%%)", num(in.Confidence))))
	}

	b.WriteString("\n" + p.title.Render("Next hours") + "\n")
	fmt.Fprintf(&b, "%s\n", p.muted.Render(fmt.Sprintf("%-6s %-15s %7s %9s %9s %7s %6s", "time", "activity", "mental", "physical", "creative", "social", "conf")))
	rows := resp.Analysis.HourlyPredictions
	if len(rows) > forecastRows {
		rows = rows[:forecastRows]
	}
	for _, h := range rows {
		fmt.Fprintf(&b, "%-6s %s %7s %9s %9s %7s %6s\n",
			h.Time, p.accent.Render(fmt.Sprintf("%-15s", h.RecommendedActivity)),
			num(h.Mental), num(h.Physical), num(h.Creative), num(h.Social), num(h.Confidence))
	}

	if resp.Tip != "" {
		fmt.Fprintf(&b, "\n%s %s\n", p.label.Render("Tip:"), resp.Tip)
	}
	io.WriteString(w, b.String())
}

func renderMoon(w io.Writer, state pattern.LunarState) {
	p := newPalette(w)
	fmt.Fprintf(w, "%s %s\n", state.Emoji, p.title.Render(state.Phase))
	fmt.Fprintf(w, "%s %s%%\n", p.label.Render("Illumination:"), num(state.Illumination))
	fmt.Fprintf(w, "%s focus %s, creativity %s, social %s\n",
		p.label.Render("Influence:   "), num(state.Influence.Focus), num(state.Influence.Creativity), num(state.Influence.Social))
}

func num(v float64) string {
	return strings.TrimSuffix(fmt.Sprintf("%.1f", v), ".0")
}
