package output

import (
	"encoding/json"
	"fmt"
	"io"
)

// CIWriter writes logo reports as NDJSON (one JSON object per line) for pipelines.
type CIWriter struct{}

// CISummary is the first line of CI output, containing aggregate statistics.
type CISummary struct {
	Type       string  `json:"type"`
	RunID      string  `json:"runId"`
	Mode       string  `json:"mode"`
	Images     int     `json:"images"`
	TotalLogos int     `json:"totalLogos"`
	TopLogo    string  `json:"topLogo,omitempty"`
	MaxRating  float64 `json:"maxRating"`
}

// CILogoEntry represents a single logo in CI output.
type CILogoEntry struct {
	Type   string  `json:"type"`
	Rank   int     `json:"rank"`
	Logo   string  `json:"logo"`
	Rating float64 `json:"rating"`
	Count  int     `json:"count"`
}

// Write outputs the logo report as NDJSON.
func (w *CIWriter) Write(report *LogoReport, options OutputOptions) error {
	items := limitTop(report.Items, options.Top)

	out, file, err := OpenOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	summary := CISummary{
		Type:       "summary",
		RunID:      report.RunID.String(),
		Mode:       string(report.Mode),
		Images:     report.Images,
		TotalLogos: len(report.Items),
	}
	for _, item := range report.Items {
		if summary.TopLogo == "" || item.Rating > summary.MaxRating {
			summary.TopLogo = item.Logo
			summary.MaxRating = item.Rating
		}
	}
	if err := writeNDJSONLine(out, summary); err != nil {
		return err
	}

	for i, item := range items {
		entry := CILogoEntry{
			Type:   "logo",
			Rank:   i + 1,
			Logo:   item.Logo,
			Rating: item.Rating,
			Count:  item.Stats.Count,
		}
		if err := writeNDJSONLine(out, entry); err != nil {
			return err
		}
	}

	return nil
}

func writeNDJSONLine(w io.Writer, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal NDJSON: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
