package output

import (
	"time"

	"github.com/google/uuid"

	"github.com/masmgr/logospots/internal/aggregation"
	"github.com/masmgr/logospots/internal/scoring"
)

// Compile-time interface conformance checks.
var (
	_ ReportWriter = (*ConsoleWriter)(nil)
	_ ReportWriter = (*JSONWriter)(nil)
	_ ReportWriter = (*CSVWriter)(nil)
	_ ReportWriter = (*MarkdownWriter)(nil)
	_ ReportWriter = (*CIWriter)(nil)
	_ ReportWriter = (*XLSXWriter)(nil)
)

// OutputFormat represents the output format type.
type OutputFormat string

const (
	FormatConsole  OutputFormat = "console"
	FormatJSON     OutputFormat = "json"
	FormatCSV      OutputFormat = "csv"
	FormatMarkdown OutputFormat = "markdown"
	FormatCI       OutputFormat = "ci"
	FormatXLSX     OutputFormat = "xlsx"
)

// OutputOptions controls output behavior.
type OutputOptions struct {
	Format        OutputFormat
	Top           int
	OutputPath    string
	Explain       bool
	ChartFeatures []Feature // xlsx only
}

// LogoReport holds the ranked logos of one run.
type LogoReport struct {
	Source      string
	RunID       uuid.UUID
	GeneratedAt time.Time
	Mode        scoring.RankMode
	Images      int
	Maxima      aggregation.RunningMaxima
	Items       []scoring.RankedLogo
}

// NewLogoReport stamps a report with a fresh run ID and the current time.
func NewLogoReport(source string, mode scoring.RankMode, images int, maxima aggregation.RunningMaxima, items []scoring.RankedLogo) *LogoReport {
	return &LogoReport{
		Source:      source,
		RunID:       uuid.New(),
		GeneratedAt: time.Now(),
		Mode:        mode,
		Images:      images,
		Maxima:      maxima,
		Items:       items,
	}
}

// ReportWriter writes logo reports.
type ReportWriter interface {
	Write(report *LogoReport, options OutputOptions) error
}

// NewReportWriter creates a report writer for the specified format.
func NewReportWriter(format OutputFormat) ReportWriter {
	switch format {
	case FormatJSON:
		return &JSONWriter{}
	case FormatCSV:
		return &CSVWriter{}
	case FormatMarkdown:
		return &MarkdownWriter{}
	case FormatCI:
		return &CIWriter{}
	case FormatXLSX:
		return &XLSXWriter{}
	default:
		return &ConsoleWriter{}
	}
}
