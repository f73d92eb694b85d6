package service

import (
	"fmt"
	"strings"

	"github.com/omarshaarawi/courtside/internal/coverage"
	"github.com/omarshaarawi/courtside/internal/gameday"
	"github.com/omarshaarawi/courtside/internal/models"
	"github.com/omarshaarawi/courtside/internal/reconcile"
	"github.com/omarshaarawi/courtside/internal/roster"
	"github.com/omarshaarawi/courtside/internal/session"
	"github.com/shopspring/decimal"
)

func groupTitle(g roster.Group) string {
	if g == roster.Backcourt {
		return "Backcourt"
	}
	return "Frontcourt"
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(1) + "M"
}

func signed(f float64) string {
	if f >= 0 {
		return fmt.Sprintf("+%.1f", f)
	}
	return fmt.Sprintf("%.1f", f)
}

func playerLine(p models.Player) string {
	line := fmt.Sprintf("%s (%s, %s, %s", p.Name, p.Positions, p.Team, money(p.Salary))
	if avg := p.FantasyAverage(); avg > 0 {
		line += fmt.Sprintf(", %.1f FP/G", avg)
	}
	return line + ")"
}

func budgetSummary(snap session.Snapshot) string {
	return fmt.Sprintf("💰 Salary: %s | Available: %s | Total: %s",
		money(snap.TotalSalary), money(snap.Budget), money(snap.TotalBudget()))
}

func rosterReport(snap session.Snapshot) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📋 *Your Roster* (%d/%d) - Gameweek %d\n\n", snap.Size(), models.RosterSize, snap.GameweekID))

	for _, g := range []struct {
		group roster.Group
		slots []*models.Player
	}{{roster.Backcourt, snap.Backcourt}, {roster.Frontcourt, snap.Frontcourt}} {
		sb.WriteString(fmt.Sprintf("*%s:*\n", groupTitle(g.group)))
		for i, p := range g.slots {
			if p == nil {
				sb.WriteString(fmt.Sprintf("%d. _empty_\n", i+1))
				continue
			}
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, playerLine(*p)))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(budgetSummary(snap))
	return sb.String()
}

func coverageReport(report coverage.Report) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🗓 *Gameweek %d Coverage*\n\n", report.GameweekID))

	if len(report.Order) == 0 {
		sb.WriteString("No games scheduled for your players.")
		return sb.String()
	}

	for _, key := range report.Order {
		day := report.Days[key]
		sb.WriteString(fmt.Sprintf("*%s*: %d players (%d BC / %d FC) %s", key, day.DistinctPlayers, day.Backcourt, day.Frontcourt, readiness(day)))
		if day.ProjectedFP > 0 {
			sb.WriteString(fmt.Sprintf(" - %.1f FP", day.ProjectedFP))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("\n%d/%d days ready", report.ReadyDays(), len(report.Order)))
	if total := report.TotalProjectedFP(); total > 0 {
		sb.WriteString(fmt.Sprintf(", %.1f projected FP", total))
	}
	sb.WriteString("\n")
	return sb.String()
}

func readiness(day models.GamedayCoverage) string {
	if day.Ready {
		return "✅"
	}
	return fmt.Sprintf("⚠️ need %d more", models.MinLineup-day.DistinctPlayers)
}

func analysisReport(result *models.AnalysisResult, selected int) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📊 *Roster Coverage Analysis - Gameweek %d*\n", result.GameweekID))
	if result.DateRange != "" {
		sb.WriteString(fmt.Sprintf("_%s_\n", result.DateRange))
	}
	sb.WriteString("\n")

	for _, key := range gameday.SortedKeys(result.CoverageByDay) {
		day := result.CoverageByDay[key]
		sb.WriteString(fmt.Sprintf("*%s*: %d (%d BC / %d FC) %s\n", key, day.DistinctPlayers, day.Backcourt, day.Frontcourt, readiness(day)))
	}

	if len(result.InsufficientDays) > 0 {
		sb.WriteString("\n⚠️ *Problem Days*\n")
		for _, d := range result.InsufficientDays {
			sb.WriteString(fmt.Sprintf("• %s: %d players (need %d more)\n", d.DayKey, d.Total, d.Needed))
		}
	}

	if len(result.Proposals) == 0 {
		sb.WriteString("\n✓ Your roster looks good! No transactions suggested.")
		return sb.String()
	}

	sb.WriteString("\n💡 *Recommended Transactions*\n")
	for i, p := range result.Proposals {
		marker := ""
		if i == selected {
			marker = " ◀️"
		}
		sb.WriteString(fmt.Sprintf("\n*Option %d*%s\n", i+1, marker))
		proposalLines(&sb, p)
	}
	sb.WriteString("\nUse /option <n> to compare an option with your roster.")
	return sb.String()
}

func proposalLines(sb *strings.Builder, p models.TransactionProposal) {
	for _, d := range p.Drops {
		sb.WriteString(fmt.Sprintf("  ➖ %s\n", playerLine(d)))
	}
	for _, a := range p.Adds {
		line := playerLine(a)
		if a.GamesPlayed != nil {
			line += fmt.Sprintf(" - %d games", *a.GamesPlayed)
		}
		sb.WriteString(fmt.Sprintf("  ➕ %s\n", line))
	}

	cost := money(p.Cost)
	if !p.Cost.IsNegative() {
		cost = "+" + cost
	}
	sb.WriteString(fmt.Sprintf("  Net cost: %s", cost))
	if p.FPImprovement != nil {
		sb.WriteString(fmt.Sprintf(" | FP/G: %s", signed(*p.FPImprovement)))
	}
	if p.DepthScore != nil && *p.DepthScore > 0 {
		sb.WriteString(" | improves problem days")
	}
	sb.WriteString("\n")
	for _, w := range p.Warnings {
		sb.WriteString(fmt.Sprintf("  ⚠️ %s\n", w))
	}
}

func comparisonReport(cmp *reconcile.Comparison) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🔁 *Option %d vs Current Roster*\n\n", cmp.ProposalIndex+1))
	proposalLines(&sb, cmp.Proposal)
	sb.WriteString("\n")

	for _, d := range cmp.Days {
		status := "✅"
		if !d.DerivedReady {
			status = "⚠️"
		}
		sb.WriteString(fmt.Sprintf("*%s*: %d → %d %s", d.DayKey, d.CurrentPlayers, d.DerivedPlayers, status))
		if d.ProjectedFPDiff != 0 {
			sb.WriteString(fmt.Sprintf(" (%s FP)", signed(d.ProjectedFPDiff)))
		}
		sb.WriteString("\n")
	}

	if len(cmp.NewlyReady) > 0 {
		sb.WriteString(fmt.Sprintf("\n✅ Fixes: %s\n", strings.Join(cmp.NewlyReady, ", ")))
	}
	if len(cmp.NewlyShort) > 0 {
		sb.WriteString(fmt.Sprintf("\n⚠️ Breaks: %s\n", strings.Join(cmp.NewlyShort, ", ")))
	}
	return sb.String()
}
