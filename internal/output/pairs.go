package output

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/masmgr/logospots/internal/pairs"
)

var (
	_ PairReportWriter = (*ConsolePairWriter)(nil)
	_ PairReportWriter = (*JSONPairWriter)(nil)
	_ PairReportWriter = (*CSVPairWriter)(nil)
	_ PairReportWriter = (*MarkdownPairWriter)(nil)
)

// PairReport holds the logo pair co-occurrence results of one run.
type PairReport struct {
	Source      string
	RunID       uuid.UUID
	GeneratedAt time.Time
	Result      pairs.Result
}

// NewPairReport stamps a pair result with a run ID and generation time.
func NewPairReport(source string, result pairs.Result) *PairReport {
	return &PairReport{
		Source:      source,
		RunID:       uuid.New(),
		GeneratedAt: time.Now(),
		Result:      result,
	}
}

// PairReportWriter writes logo pair reports.
type PairReportWriter interface {
	Write(report *PairReport, options OutputOptions) error
}

// NewPairReportWriter creates a pair report writer for the specified format.
// Formats without a pair layout fall back to the console table.
func NewPairReportWriter(format OutputFormat) PairReportWriter {
	switch format {
	case FormatJSON, FormatCI:
		return &JSONPairWriter{}
	case FormatCSV:
		return &CSVPairWriter{}
	case FormatMarkdown:
		return &MarkdownPairWriter{}
	default:
		return &ConsolePairWriter{}
	}
}

// ConsolePairWriter writes pair reports as an aligned table.
type ConsolePairWriter struct{}

// Write outputs the pair report to the console.
func (w *ConsolePairWriter) Write(report *PairReport, options OutputOptions) error {
	result := report.Result

	out, file, err := OpenOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	fmt.Fprintln(out, color.GreenString("Logo Co-occurrence Results"))
	if report.Source != "" {
		fmt.Fprintf(out, "Source: %s\n", report.Source)
	}
	fmt.Fprintf(out, "Images: %d, Logos: %d, Pairs: %d\n\n",
		result.TotalImages, result.TotalLogos, result.TotalPairs)

	if len(result.Pairs) == 0 {
		fmt.Fprintln(out, "No significant logo pairs found.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tLogo A\tLogo B\tShared\tJaccard\tConfidence\tLift")
	for i, p := range limitTop(result.Pairs, options.Top) {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%.3f\t%.3f\t%.2f\n",
			i+1, p.LogoA, p.LogoB, p.SharedImages, p.Jaccard, p.Confidence, p.Lift)
	}
	return tw.Flush()
}

// JSONPairWriter writes pair reports as JSON.
type JSONPairWriter struct{}

// JSONPairReport is the JSON output structure for a pair report.
type JSONPairReport struct {
	Source      string         `json:"source,omitempty"`
	RunID       string         `json:"runId"`
	GeneratedAt string         `json:"generatedAt"`
	TotalImages int            `json:"totalImages"`
	TotalLogos  int            `json:"totalLogos"`
	TotalPairs  int            `json:"totalPairs"`
	Pairs       []JSONPairItem `json:"pairs"`
}

// JSONPairItem is the JSON output structure for a single logo pair.
type JSONPairItem struct {
	LogoA        string  `json:"logoA"`
	LogoB        string  `json:"logoB"`
	SharedImages int     `json:"sharedImages"`
	ImagesA      int     `json:"imagesA"`
	ImagesB      int     `json:"imagesB"`
	Jaccard      float64 `json:"jaccard"`
	Confidence   float64 `json:"confidence"`
	Lift         float64 `json:"lift"`
}

// Write outputs the pair report as JSON.
func (w *JSONPairWriter) Write(report *PairReport, options OutputOptions) error {
	selected := limitTop(report.Result.Pairs, options.Top)
	items := make([]JSONPairItem, len(selected))
	for i, p := range selected {
		items[i] = JSONPairItem{
			LogoA:        p.LogoA,
			LogoB:        p.LogoB,
			SharedImages: p.SharedImages,
			ImagesA:      p.ImagesA,
			ImagesB:      p.ImagesB,
			Jaccard:      p.Jaccard,
			Confidence:   p.Confidence,
			Lift:         p.Lift,
		}
	}

	return writeJSON(JSONPairReport{
		Source:      report.Source,
		RunID:       report.RunID.String(),
		GeneratedAt: report.GeneratedAt.Format(time.RFC3339),
		TotalImages: report.Result.TotalImages,
		TotalLogos:  report.Result.TotalLogos,
		TotalPairs:  report.Result.TotalPairs,
		Pairs:       items,
	}, options.OutputPath)
}

// CSVPairWriter writes pair reports as CSV.
type CSVPairWriter struct{}

// Write outputs the pair report as CSV.
func (w *CSVPairWriter) Write(report *PairReport, options OutputOptions) error {
	out, file, err := OpenOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}
	writer := csv.NewWriter(out)

	if err := writer.Write([]string{"logo_a", "logo_b", "shared_images", "images_a", "images_b", "jaccard", "confidence", "lift"}); err != nil {
		return err
	}
	for _, p := range limitTop(report.Result.Pairs, options.Top) {
		row := []string{
			p.LogoA,
			p.LogoB,
			strconv.Itoa(p.SharedImages),
			strconv.Itoa(p.ImagesA),
			strconv.Itoa(p.ImagesB),
			fmt.Sprintf("%.4f", p.Jaccard),
			fmt.Sprintf("%.4f", p.Confidence),
			fmt.Sprintf("%.4f", p.Lift),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// MarkdownPairWriter writes pair reports as Markdown.
type MarkdownPairWriter struct{}

// Write outputs the pair report as Markdown.
func (w *MarkdownPairWriter) Write(report *PairReport, options OutputOptions) error {
	out, file, err := OpenOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	result := report.Result
	fmt.Fprintf(out, "# Logo Co-occurrence Results\n\n")
	if report.Source != "" {
		fmt.Fprintf(out, "**Source:** %s\n\n", report.Source)
	}
	fmt.Fprintf(out, "**Generated:** %s\n\n", report.GeneratedAt.Format(reportDateTimeLayout))
	fmt.Fprintf(out, "**Images:** %d, **Logos:** %d, **Pairs:** %d\n\n", result.TotalImages, result.TotalLogos, result.TotalPairs)

	if len(result.Pairs) == 0 {
		fmt.Fprintln(out, "No significant logo pairs found.")
		return nil
	}

	fmt.Fprintln(out, "| # | Logo A | Logo B | Shared | Jaccard | Confidence | Lift |")
	fmt.Fprintln(out, "|---|--------|--------|--------|---------|------------|------|")
	for i, p := range limitTop(result.Pairs, options.Top) {
		fmt.Fprintf(out, "| %d | %s | %s | %d | %.3f | %.3f | %.2f |\n",
			i+1, escapeMarkdown(p.LogoA), escapeMarkdown(p.LogoB), p.SharedImages, p.Jaccard, p.Confidence, p.Lift)
	}
	return nil
}
