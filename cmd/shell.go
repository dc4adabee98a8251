package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/shotmetrics/internal/compare"
	"github.com/pable/shotmetrics/internal/insight"
	"github.com/pable/shotmetrics/internal/model"
	"github.com/pable/shotmetrics/internal/report"
	"github.com/pable/shotmetrics/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cHeader   = color.New(color.FgCyan, color.Bold)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the database. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(_ *cobra.Command, _ []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	cGreeting.Println("shotmetrics shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("shotmetrics")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		cmd, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)
		args := strings.Fields(rest)

		switch cmd {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "list":
			shellList(db)
		case "show":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: show <match-prefix> [--player <name>]")
				continue
			}
			var focus string
			if _, after, ok := strings.Cut(rest, "--player"); ok {
				focus = strings.TrimSpace(after)
			}
			shellReport(showMatch(db, args[0], focus))
		case "teams":
			shellTeams(db, args)
		case "compare":
			a, b, ok := strings.Cut(rest, " vs ")
			if !ok || strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
				cError.Fprintln(os.Stderr, "usage: compare <teamA> vs <teamB>")
				continue
			}
			shellCompare(db, strings.TrimSpace(a), strings.TrimSpace(b))
		case "touch":
			if len(args) != 1 {
				cError.Fprintln(os.Stderr, "usage: touch <shot-id>")
				continue
			}
			shellReport(toggleTouch(db, args[0]))
		case "sql":
			if rest == "" {
				cError.Fprintln(os.Stderr, "usage: sql <query>")
				continue
			}
			shellReport(printQuery(os.Stdout, db, rest))
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", cmd)
		}
	}
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"list", "list all stored matches"},
		{"show <match-prefix>", "show a match's scored shots and totals"},
		{"show <match-prefix> --player <name>", "same, highlighting one player"},
		{"teams [match-prefix]", "team totals and insights across matches"},
		{"compare <teamA> vs <teamB>", "head-to-head comparison with insights"},
		{"touch <shot-id>", "toggle a shot's touched-in-flight flag"},
		{"sql <query>", "run a raw SQL query"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-38s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

func shellReport(err error) {
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
	}
}

func shellList(db *storage.DB) {
	matches, err := db.ListMatches()
	if err != nil {
		shellReport(err)
		return
	}
	if len(matches) == 0 {
		cMuted.Println("No matches stored yet.")
		return
	}
	cHeader.Fprintf(os.Stdout, "%-14s  %-10s  %-24s  %5s\n", "MATCH", "DATE", "NAME", "SHOTS")
	cMuted.Fprintf(os.Stdout, "%-14s  %-10s  %-24s  %5s\n",
		"──────────────", "──────────", "────────────────────────", "─────")
	for _, m := range matches {
		fmt.Fprintf(os.Stdout, "%-14s  %-10s  %-24s  %5d\n", shortID(m.MatchID), m.MatchDate, m.Name, m.ShotCount)
	}
}

func shellTeams(db *storage.DB, args []string) {
	var filter model.Filter
	if len(args) > 0 {
		m, err := db.GetMatchByPrefix(args[0])
		if err != nil {
			shellReport(err)
			return
		}
		if m == nil {
			cWarn.Fprintf(os.Stderr, "no match found with prefix %q\n", args[0])
			return
		}
		filter.MatchIDs = []string{m.MatchID}
	}
	res, err := runPipeline(db, filter, cfg.Zones.GridSize)
	if err != nil {
		shellReport(err)
		return
	}
	if len(res.Teams) == 0 {
		cMuted.Println("No shots stored yet.")
		return
	}
	report.PrintTeamTable(os.Stdout, res.Teams)

	gen := insight.NewGenerator(cfg.Insights)
	for _, t := range res.Teams {
		grid, err := teamGrid(res, t.Team, cfg.Zones.GridSize)
		if err != nil {
			shellReport(err)
			return
		}
		fmt.Fprintln(os.Stdout)
		cHeader.Fprintf(os.Stdout, "--- %s ---\n", t.Team)
		report.PrintInsights(os.Stdout, gen.FromTeam(t, grid))
	}
}

func shellCompare(db *storage.DB, a, b string) {
	res, err := runPipeline(db, model.Filter{}, cfg.Zones.GridSize)
	if err != nil {
		shellReport(err)
		return
	}
	c := compare.Compare(res.Team(a), res.Team(b))
	report.PrintComparison(os.Stdout, c)
	fmt.Fprintln(os.Stdout)
	report.PrintInsights(os.Stdout, insight.NewGenerator(cfg.Insights).FromComparison(c))
}
