package output

import (
	"fmt"
	"strings"
)

// MarkdownWriter writes logo reports as Markdown.
type MarkdownWriter struct{}

// Write outputs the logo report as Markdown.
func (w *MarkdownWriter) Write(report *LogoReport, options OutputOptions) error {
	items := limitTop(report.Items, options.Top)

	out, file, err := OpenOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	// Header
	fmt.Fprintf(out, "# %s\n\n", reportTitle(report.Mode))
	if report.Source != "" {
		fmt.Fprintf(out, "**Source:** %s\n\n", report.Source)
	}
	fmt.Fprintf(out, "**Generated:** %s\n\n", report.GeneratedAt.Format(reportDateTimeLayout))
	fmt.Fprintf(out, "**Images Analyzed:** %d\n\n", report.Images)
	fmt.Fprintf(out, "**Distinct Logos:** %d\n\n", len(report.Items))

	if len(items) == 0 {
		fmt.Fprintln(out, "No logos detected.")
		return nil
	}

	// Table header
	fmt.Fprintln(out, "## Top Logos")
	fmt.Fprintln(out)
	if options.Explain {
		fmt.Fprintln(out, "| # | Logo | Rating | Count | Freq | Clarity | Area | Centrality | Co-occ | F | A | C | P |")
		fmt.Fprintln(out, "|---|------|--------|-------|------|---------|------|------------|--------|---|---|---|---|")
	} else {
		fmt.Fprintln(out, "| # | Logo | Rating | Count | Freq | Clarity | Area | Centrality | Co-occ |")
		fmt.Fprintln(out, "|---|------|--------|-------|------|---------|------|------------|--------|")
	}

	// Table rows
	for i, item := range items {
		s := item.Stats
		fmt.Fprintf(out, "| %d | %s %s | %.4f | %d | %.3f | %.3f ± %.3f | %.3f ± %.3f | %.3f ± %.3f | %.3f |",
			i+1, getRatingEmoji(item.Rating), escapeMarkdown(item.Logo), item.Rating, s.Count,
			s.NormalizedFrequency, s.ClarityMean, s.ClarityStd, s.AreaMean, s.AreaStd,
			s.CentralityMean, s.CentralityStd, s.CoOccurrenceMean)
		if options.Explain && item.Breakdown != nil {
			fmt.Fprintf(out, " %.3f | %.3f | %.3f | %.3f |",
				item.Breakdown.FrequencyComponent, item.Breakdown.AreaComponent,
				item.Breakdown.ClarityComponent, item.Breakdown.PlacementComponent)
		}
		fmt.Fprintln(out)
	}

	if options.Explain {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "**Rating Breakdown:** F=Frequency, A=Area, C=Clarity, P=Placement")
	}

	return nil
}

func getRatingEmoji(rating float64) string {
	switch {
	case rating >= 0.6:
		return "🟢"
	case rating >= 0.3:
		return "🟡"
	default:
		return "🔴"
	}
}

func escapeMarkdown(s string) string {
	replacer := strings.NewReplacer(
		"|", "\\|",
		"*", "\\*",
		"_", "\\_",
		"`", "\\`",
	)
	return replacer.Replace(s)
}
