package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/dd0wney/cluso-scoregraph/pkg/scoregraph"
	"github.com/dd0wney/cluso-scoregraph/pkg/topology"
)

var (
	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#00FF00"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFF00")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FFFF")).
			Width(16)

	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FFFF")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF00FF")).
			Bold(true).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)
)

func renderRecalculation(what string, rc scoregraph.Recalculation) string {
	if rc.PassID == "" {
		return okStyle.Render(what + ": unchanged")
	}
	line := fmt.Sprintf("%s: visited %d, updated %d, %d iterations in %s",
		what, rc.Visited, rc.Updated, rc.Iterations, rc.Duration.Round(time.Microsecond))
	if !rc.Converged {
		return warnStyle.Render(line + " (did not settle)")
	}
	return okStyle.Render(line)
}

func renderScores(eng engine) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("NODE", "BASE", "SCORE", "NEIGHBORS")

	for _, id := range eng.NodeIDs() {
		base, _ := eng.BaseValue(id)
		score, _ := eng.Score(id)
		neighbors, _ := eng.Neighbors(id)
		ns := make([]string, len(neighbors))
		for i, n := range neighbors {
			ns[i] = strconv.FormatUint(uint64(n), 10)
		}
		t.Row(
			strconv.FormatUint(uint64(id), 10),
			strconv.FormatFloat(base, 'g', -1, 64),
			strconv.FormatFloat(score, 'g', -1, 64),
			strings.Join(ns, ","),
		)
	}
	return t.Render()
}

func renderStats(s scoregraph.Stats) string {
	rows := []string{
		field("variant", string(s.Variant)),
		field("nodes", strconv.Itoa(s.Nodes)),
		field("edges", strconv.Itoa(s.Edges)),
		field("recalculations", strconv.FormatUint(s.Recalculations, 10)),
		field("not converged", strconv.FormatUint(s.NonConverged, 10)),
	}
	if s.Last.PassID != "" {
		rows = append(rows,
			field("last pass", s.Last.PassID),
			field("last visited", strconv.Itoa(s.Last.Visited)),
		)
	}
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func renderCheck(r topology.Report, consistent bool) string {
	rows := []string{
		field("nodes", strconv.Itoa(r.Nodes)),
		field("edges", strconv.Itoa(r.Edges)),
		field("components", strconv.Itoa(r.Components)),
		field("circuit rank", strconv.Itoa(r.CircuitRank)),
		field("acyclic", strconv.FormatBool(r.Acyclic)),
		field("consistent", strconv.FormatBool(consistent)),
	}
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func field(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), value)
}
