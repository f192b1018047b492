package output

import (
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/masmgr/logospots/internal/scoring"
)

// CSVWriter writes logo reports as CSV.
type CSVWriter struct{}

// Write outputs the logo report as CSV.
func (w *CSVWriter) Write(report *LogoReport, options OutputOptions) error {
	items := limitTop(report.Items, options.Top)

	out, file, err := OpenOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}
	writer := csv.NewWriter(out)

	// Write header
	if err := writer.Write(tableHeaders(options.Explain)); err != nil {
		return err
	}

	// Write data
	for i, item := range items {
		row := append([]string{strconv.Itoa(i + 1), item.Logo}, tableValues(item, options.Explain)...)
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// tableHeaders lists the columns shared by the CSV and XLSX writers.
func tableHeaders(explain bool) []string {
	headers := []string{"Rank", "Logo", "Rating", "Count", "NormalizedFrequency",
		"ClarityMean", "ClarityStd", "AreaMean", "AreaStd", "CentralityMean", "CentralityStd", "CoOccurrenceMean"}
	if explain {
		headers = append(headers, "FrequencyComponent", "AreaComponent", "ClarityComponent", "PlacementComponent")
	}
	return headers
}

// tableValues formats the columns after Rank and Logo.
func tableValues(item scoring.RankedLogo, explain bool) []string {
	s := item.Stats
	values := []string{
		fmt.Sprintf("%.6f", item.Rating),
		strconv.Itoa(s.Count),
		fmt.Sprintf("%.6f", s.NormalizedFrequency),
		fmt.Sprintf("%.6f", s.ClarityMean),
		fmt.Sprintf("%.6f", s.ClarityStd),
		fmt.Sprintf("%.6f", s.AreaMean),
		fmt.Sprintf("%.6f", s.AreaStd),
		fmt.Sprintf("%.6f", s.CentralityMean),
		fmt.Sprintf("%.6f", s.CentralityStd),
		fmt.Sprintf("%.6f", s.CoOccurrenceMean),
	}
	if explain && item.Breakdown == nil {
		values = append(values, "", "", "", "")
	} else if explain {
		values = append(values,
			fmt.Sprintf("%.6f", item.Breakdown.FrequencyComponent),
			fmt.Sprintf("%.6f", item.Breakdown.AreaComponent),
			fmt.Sprintf("%.6f", item.Breakdown.ClarityComponent),
			fmt.Sprintf("%.6f", item.Breakdown.PlacementComponent),
		)
	}
	return values
}
