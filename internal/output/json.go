package output

import (
	"encoding/json"
	"fmt"
	"time"
)

// JSONWriter writes logo reports as JSON.
type JSONWriter struct{}

// JSONLogoReport is the JSON output structure for a logo report.
type JSONLogoReport struct {
	Source      string         `json:"source,omitempty"`
	RunID       string         `json:"runId"`
	Mode        string         `json:"mode"`
	GeneratedAt string         `json:"generatedAt"`
	Images      int            `json:"images"`
	TotalLogos  int            `json:"totalLogos"`
	Maxima      JSONMaxima     `json:"maxima"`
	Items       []JSONLogoItem `json:"items"`
}

// JSONMaxima holds the normalization bounds.
type JSONMaxima struct {
	Frequency   int     `json:"frequency"`
	Area        float64 `json:"area"`
	SharedLogos int     `json:"sharedLogos"`
}

// JSONLogoItem is the JSON output structure for a single logo.
type JSONLogoItem struct {
	Rank      int                  `json:"rank"`
	Logo      string               `json:"logo"`
	Rating    float64              `json:"rating"`
	Stats     JSONLogoStats        `json:"stats"`
	Breakdown *JSONRatingBreakdown `json:"breakdown,omitempty"`
}

// JSONLogoStats holds the statistics of a logo in JSON format.
type JSONLogoStats struct {
	Count               int     `json:"count"`
	NormalizedFrequency float64 `json:"normalizedFrequency"`
	ClarityMean         float64 `json:"clarityMean"`
	ClarityStd          float64 `json:"clarityStd"`
	AreaMean            float64 `json:"areaMean"`
	AreaStd             float64 `json:"areaStd"`
	CentralityMean      float64 `json:"centralityMean"`
	CentralityStd       float64 `json:"centralityStd"`
	CoOccurrenceMean    float64 `json:"coOccurrenceMean"`
}

// JSONRatingBreakdown holds the rating components in JSON format.
type JSONRatingBreakdown struct {
	Frequency float64 `json:"frequency"`
	Area      float64 `json:"area"`
	Clarity   float64 `json:"clarity"`
	Placement float64 `json:"placement"`
}

// Write outputs the logo report as JSON.
func (w *JSONWriter) Write(report *LogoReport, options OutputOptions) error {
	items := limitTop(report.Items, options.Top)

	jsonItems := make([]JSONLogoItem, len(items))
	for i, item := range items {
		s := item.Stats
		jsonItem := JSONLogoItem{
			Rank:   i + 1,
			Logo:   item.Logo,
			Rating: item.Rating,
			Stats: JSONLogoStats{
				Count:               s.Count,
				NormalizedFrequency: s.NormalizedFrequency,
				ClarityMean:         s.ClarityMean,
				ClarityStd:          s.ClarityStd,
				AreaMean:            s.AreaMean,
				AreaStd:             s.AreaStd,
				CentralityMean:      s.CentralityMean,
				CentralityStd:       s.CentralityStd,
				CoOccurrenceMean:    s.CoOccurrenceMean,
			},
		}
		if options.Explain && item.Breakdown != nil {
			jsonItem.Breakdown = &JSONRatingBreakdown{
				Frequency: item.Breakdown.FrequencyComponent,
				Area:      item.Breakdown.AreaComponent,
				Clarity:   item.Breakdown.ClarityComponent,
				Placement: item.Breakdown.PlacementComponent,
			}
		}
		jsonItems[i] = jsonItem
	}

	jsonReport := JSONLogoReport{
		Source:      report.Source,
		RunID:       report.RunID.String(),
		Mode:        string(report.Mode),
		GeneratedAt: report.GeneratedAt.Format(time.RFC3339),
		Images:      report.Images,
		TotalLogos:  len(report.Items),
		Maxima: JSONMaxima{
			Frequency:   report.Maxima.MaxFrequency,
			Area:        report.Maxima.MaxArea,
			SharedLogos: report.Maxima.MaxSharedLogos,
		},
		Items: jsonItems,
	}

	return writeJSON(jsonReport, options.OutputPath)
}

func writeJSON(data interface{}, outputPath string) error {
	out, file, err := OpenOutputWriter(outputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
