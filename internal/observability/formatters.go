// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/skillgap-recommender/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintGapReport outputs a human-readable summary of detected skill gaps.
func (p *Printer) PrintGapReport(report *types.GapReport) {
	if report == nil || len(report.Gaps) == 0 {
		p.printBox("SKILL GAPS", "No gaps detected")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Detected %d gaps:\n\n", len(report.Gaps)))

	count := min(len(report.Gaps), maxItemsToShow)
	for i := 0; i < count; i++ {
		gap := report.Gaps[i]
		sb.WriteString(fmt.Sprintf("#%d  %s (%s)\n", i+1, gap.SkillName, gap.GapType))
		sb.WriteString(fmt.Sprintf("    Weight: %.2f  %.1f -> %.1f\n",
			gap.Weight, gap.CurrentProficiency, gap.TargetProficiency))
	}
	if len(report.Gaps) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more gaps", len(report.Gaps)-maxItemsToShow))
	}

	if len(report.Unresolved) > 0 {
		sb.WriteString(fmt.Sprintf("\nSkipped (not in taxonomy): %s", strings.Join(report.Unresolved, ", ")))
	}

	p.printBox("SKILL GAPS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRecommendations outputs the ranked recommendations for one gap.
func (p *Printer) PrintRecommendations(entry *types.GapRecommendations) {
	if entry == nil {
		return
	}

	title := fmt.Sprintf("RECOMMENDATIONS: %s", entry.Gap.SkillName)
	if len(entry.Recommendations) == 0 {
		p.printBox(title, "No recommendations found")
		return
	}

	var sb strings.Builder
	count := min(len(entry.Recommendations), maxItemsToShow)
	for i := 0; i < count; i++ {
		rec := entry.Recommendations[i]
		name := rec.Resource.Title
		if len(name) > 40 {
			name = name[:37] + "..."
		}
		sb.WriteString(fmt.Sprintf("#%d  %s\n", rec.Rank, name))
		sb.WriteString(fmt.Sprintf("    Score: %.2f (%s)  %s\n",
			rec.SimilarityScore, rec.MatchStrength, rec.Resource.Source.Display()))
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintPlanSummary outputs a compact overview of the assembled learning plan.
func (p *Printer) PrintPlanSummary(plan *types.LearningPlan) {
	if plan == nil {
		return
	}

	var sb strings.Builder
	if plan.TargetRole != "" {
		sb.WriteString(fmt.Sprintf("Target role: %s\n", plan.TargetRole))
	}
	sb.WriteString(fmt.Sprintf("Gaps in plan: %d\n\n", len(plan.Entries)))

	for i, entry := range plan.Entries {
		sb.WriteString(fmt.Sprintf("%d. %s (%d recommendations)\n",
			i+1, entry.Gap.SkillName, len(entry.Recommendations)))
	}

	p.printBox("LEARNING PLAN", strings.TrimSuffix(sb.String(), "\n"))
}
