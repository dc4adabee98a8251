package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/shotmetrics/internal/aggregator"
	"github.com/pable/shotmetrics/internal/compare"
	"github.com/pable/shotmetrics/internal/insight"
	"github.com/pable/shotmetrics/internal/model"
	"github.com/pable/shotmetrics/internal/zones"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
}

// PrintMatchList prints stored matches one per line.
func PrintMatchList(w io.Writer, matches []model.MatchSummary) {
	fmt.Fprintf(w, "%-14s  %-10s  %5s  %s\n", "ID", "DATE", "SHOTS", "NAME")
	fmt.Fprintf(w, "%-14s  %-10s  %5s  %s\n", "──────────────", "──────────", "─────", "────")
	for _, m := range matches {
		fmt.Fprintf(w, "%-14s  %-10s  %5d  %s\n", shortID(m.MatchID), dash(m.MatchDate), m.ShotCount, m.Name)
	}
}

// PrintMatchSummary prints a one-line summary header for a match.
func PrintMatchSummary(w io.Writer, m model.MatchSummary) {
	fmt.Fprintf(w, "\nMatch: %s  |  Date: %s  |  Shots: %d  |  ID: %s\n\n",
		m.Name, dash(m.MatchDate), m.ShotCount, shortID(m.MatchID))
}

// PrintShotTable prints every scored shot in input order.
func PrintShotTable(w io.Writer, shots []model.ScoredShot) {
	table := newTable(w)
	table.Header("ID", "MIN", "TEAM", "PLAYER", "ACTION", "OUTCOME", "PTS", "X", "Y", "DIST", "SIDE", "TOUCHED", "XP", "XG")
	for _, s := range shots {
		xg := "—"
		if s.GoalAttempt {
			xg = fmt.Sprintf("%.2f", s.XGoals)
		}
		touched := ""
		if s.TouchedInFlight {
			touched = "yes"
		}
		table.Append(
			shortID(s.ID),
			strconv.Itoa(s.Minute),
			s.Team,
			s.PlayerName,
			s.Action,
			string(s.Outcome),
			strconv.Itoa(s.PointValue),
			fmt.Sprintf("%.1f", s.X),
			fmt.Sprintf("%.1f", s.Y),
			fmt.Sprintf("%.1fm", s.DistMeters),
			string(s.Side),
			touched,
			fmt.Sprintf("%.2f", s.XPoints),
			xg,
		)
	}
	table.Render()
}

// PrintHeatmap prints the zone grid, goal end on the left. Each cell shows
// its shot count and success rate; empty cells show "·".
func PrintHeatmap(w io.Writer, g model.Grid) {
	fmt.Fprintf(w, "Zones: %dx%d over %.1fm x %.1fm (cell %.1fm x %.1fm), %d shots\n",
		g.GridSize, g.GridSize, g.Width, g.Height, g.CellWidth, g.CellHeight, g.TotalShots)

	table := newTable(w)
	header := []any{"Y \\ X"}
	for col := 0; col < g.GridSize; col++ {
		header = append(header, fmt.Sprintf("%.0f-%.0f", float64(col)*g.CellWidth, float64(col+1)*g.CellWidth))
	}
	table.Header(header...)

	for row := 0; row < g.GridSize; row++ {
		cells := []any{fmt.Sprintf("%.0f-%.0f", float64(row)*g.CellHeight, float64(row+1)*g.CellHeight)}
		for col := 0; col < g.GridSize; col++ {
			z := g.Cell(row, col)
			if z.Count == 0 {
				cells = append(cells, "·")
				continue
			}
			cells = append(cells, fmt.Sprintf("%s%d %.0f%%", shade(z.Density), z.Count, z.SuccessRate*100))
		}
		table.Append(cells...)
	}
	table.Render()
}

// shade maps a density in [0,1] to a block glyph.
func shade(d float64) string {
	switch {
	case d >= 0.75:
		return "█ "
	case d >= 0.5:
		return "▓ "
	case d >= 0.25:
		return "▒ "
	default:
		return "░ "
	}
}

// PrintZoneTable prints a list of selected zones with a 95% confidence
// interval on the success rate. Zones under the minimum sample are flagged.
func PrintZoneTable(w io.Writer, title string, zs []model.Zone) {
	fmt.Fprintf(w, "%s\n", title)
	if len(zs) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	table := newTable(w)
	table.Header("ROW", "COL", "X", "Y", "SHOTS", "DENSITY", "SUCCESS", "95% CI", "BLOCKED", "SAMPLE")
	for _, z := range zs {
		lo, hi := wilsonCI(z.SuccessCount, z.Count)
		table.Append(
			strconv.Itoa(z.Row+1),
			strconv.Itoa(z.Col+1),
			fmt.Sprintf("%.0f-%.0f", z.Bounds.X, z.Bounds.X+z.Bounds.Width),
			fmt.Sprintf("%.0f-%.0f", z.Bounds.Y, z.Bounds.Y+z.Bounds.Height),
			strconv.Itoa(z.Count),
			fmt.Sprintf("%.2f", z.Density),
			fmt.Sprintf("%.0f%%", z.SuccessRate*100),
			fmt.Sprintf("%.0f–%.0f%%", lo*100, hi*100),
			fmt.Sprintf("%.0f%%", z.BlockRate()*100),
			sampleFlag(z.Count),
		)
	}
	table.Render()
}

// PrintZoneSelections prints the optimal (attacking) and vulnerable
// (defensive) zones of a grid.
func PrintZoneSelections(w io.Writer, g model.Grid) {
	PrintZoneTable(w, "Optimal zones (attacking)", zones.OptimalZones(g))
	fmt.Fprintln(w)
	PrintZoneTable(w, "Vulnerable zones (defensive)", zones.VulnerableZones(g))
}

func sampleFlag(n int) string {
	switch {
	case n >= 20:
		return "OK"
	case n >= zones.MinZoneShots*2:
		return "LOW"
	default:
		return "VERY_LOW"
	}
}

// wilsonCI computes the 95% Wilson score confidence interval for a proportion.
// Returns (lo, hi) as fractions in [0, 1].
func wilsonCI(hits, n int) (lo, hi float64) {
	if n == 0 {
		return 0, 1
	}
	z := 1.96
	p := float64(hits) / float64(n)
	nf := float64(n)
	denom := 1 + z*z/nf
	center := (p + z*z/(2*nf)) / denom
	half := z * math.Sqrt(p*(1-p)/nf+z*z/(4*nf*nf)) / denom
	return math.Max(0, center-half), math.Min(1, center+half)
}

// PrintTeamTable prints one row per team aggregate.
func PrintTeamTable(w io.Writer, teams []model.TeamAggregate) {
	table := newTable(w)
	table.Header("TEAM", "SHOTS", "SCORE", "G", "PTS", "2PT", "1PT", "MISS", "ACC%", "GOAL%", "SET_PLAY", "AVG_DIST", "XP", "XG")
	for _, t := range teams {
		setPlay := "—"
		if t.SetPlayAttempts > 0 {
			setPlay = fmt.Sprintf("%d/%d", t.SetPlayScores, t.SetPlayAttempts)
		}
		table.Append(
			t.Team,
			strconv.Itoa(t.TotalShots),
			fmt.Sprintf("%d-%d", t.Goals, t.Points),
			strconv.Itoa(t.Goals),
			strconv.Itoa(t.Points),
			strconv.Itoa(t.TwoPointerCount),
			strconv.Itoa(t.OnePointerCount),
			strconv.Itoa(t.Misses),
			fmt.Sprintf("%.0f%%", t.Accuracy()*100),
			fmt.Sprintf("%.0f%%", t.GoalConversion()*100),
			setPlay,
			fmt.Sprintf("%.1fm", t.AvgDistance),
			fmt.Sprintf("%.2f", t.TotalXP),
			fmt.Sprintf("%.2f", t.TotalXG),
		)
	}
	table.Render()
}

// PrintPlayerTable prints a team's players, top scorer first. If focus is
// non-empty, that player's row is marked with ">".
func PrintPlayerTable(w io.Writer, t model.TeamAggregate, focus string) {
	fmt.Fprintf(w, "%s\n", t.Team)
	table := newTable(w)
	table.Header(" ", "PLAYER", "SHOTS", "SCORE", "G", "PTS", "2PT", "XP", "XG")
	for _, p := range aggregator.SortedPlayers(t) {
		marker := " "
		if focus != "" && strings.EqualFold(p.Name, focus) {
			marker = ">"
		}
		table.Append(
			marker,
			p.Name,
			strconv.Itoa(p.Shots),
			fmt.Sprintf("%d-%d", p.Goals, p.Points),
			strconv.Itoa(p.Goals),
			strconv.Itoa(p.Points),
			strconv.Itoa(p.TwoPointers),
			fmt.Sprintf("%.2f", p.XP),
			fmt.Sprintf("%.2f", p.XG),
		)
	}
	table.Render()
}

// PrintComparison prints the six head-to-head metrics.
func PrintComparison(w io.Writer, c compare.Comparison) {
	table := newTable(w)
	table.Header("METRIC", c.TeamA, c.TeamB, "DIFF", "EDGE")

	row := func(name string, m compare.Metric, format string) {
		edge := "="
		switch m.Advantage {
		case compare.AdvantageTeamA:
			edge = c.TeamA
		case compare.AdvantageTeamB:
			edge = c.TeamB
		}
		table.Append(name, fmt.Sprintf(format, m.TeamA), fmt.Sprintf(format, m.TeamB), fmt.Sprintf("%+"+format[1:], m.Difference), edge)
	}
	pctRow := func(name string, m compare.Metric) {
		scaled := compare.Metric{TeamA: m.TeamA * 100, TeamB: m.TeamB * 100, Difference: m.Difference * 100, Advantage: m.Advantage}
		row(name, scaled, "%.1f")
	}

	pctRow("Shot accuracy %", c.ShotAccuracy)
	pctRow("Goal conversion %", c.GoalConversion)
	row("Avg shot distance (m)", c.AvgShotDistance, "%.1f")
	row("Avg xP", c.AvgXP, "%.3f")
	pctRow("Set-play efficiency %", c.SetPlayEfficiency)
	row("Shots", c.ShotVolume, "%.0f")
	table.Render()
}

// PrintInsights prints insights as a numbered list.
func PrintInsights(w io.Writer, ins []insight.Insight) {
	fmt.Fprintln(w, "Insights")
	if len(ins) == 0 {
		fmt.Fprintln(w, "  No significant differences.")
		return
	}
	for i, in := range ins {
		fmt.Fprintf(w, "  %d. %s: %s\n", i+1, in.Title, in.Description)
	}
}

// PrintRows prints a raw query result followed by its row count.
func PrintRows(w io.Writer, cols []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "(no rows)")
		return
	}
	table := newTable(w)
	table.Header(toAny(cols)...)
	for _, row := range rows {
		table.Append(toAny(row)...)
	}
	table.Render()
	fmt.Fprintf(w, "\n(%d rows)\n", len(rows))
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

func dash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
