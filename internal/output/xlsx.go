package output

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/masmgr/logospots/internal/scoring"
)

const (
	logosSheet  = "Logos"
	chartsSheet = "Charts"
)

// XLSXWriter writes logo reports as an Excel workbook with one bar chart per
// requested feature.
type XLSXWriter struct{}

// Write outputs the logo report as XLSX.
func (w *XLSXWriter) Write(report *LogoReport, options OutputOptions) error {
	items := limitTop(report.Items, options.Top)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", logosSheet); err != nil {
		return err
	}

	// Header row
	for i, h := range tableHeaders(options.Explain) {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(logosSheet, cell, h); err != nil {
			return err
		}
	}

	// Data rows
	for r, item := range items {
		s := item.Stats
		row := []interface{}{
			r + 1, item.Logo, item.Rating, s.Count, s.NormalizedFrequency,
			s.ClarityMean, s.ClarityStd, s.AreaMean, s.AreaStd,
			s.CentralityMean, s.CentralityStd, s.CoOccurrenceMean,
		}
		if options.Explain && item.Breakdown != nil {
			row = append(row,
				item.Breakdown.FrequencyComponent, item.Breakdown.AreaComponent,
				item.Breakdown.ClarityComponent, item.Breakdown.PlacementComponent)
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(logosSheet, cell, &row); err != nil {
			return err
		}
	}

	features := options.ChartFeatures
	if len(features) == 0 {
		features = []Feature{FeatureRating}
	}
	if len(items) > 0 {
		if err := addCharts(f, items, features); err != nil {
			return err
		}
	}

	out, file, err := OpenOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}
	if err := f.Write(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// addCharts writes each feature's series as a label/value column pair on the
// Charts sheet and places a column chart beside the data.
func addCharts(f *excelize.File, items []scoring.RankedLogo, features []Feature) error {
	if _, err := f.NewSheet(chartsSheet); err != nil {
		return err
	}

	for k, feature := range features {
		labelCol := 2*k + 1
		valueCol := 2*k + 2

		header, _ := excelize.CoordinatesToCellName(labelCol, 1)
		if err := f.SetSheetRow(chartsSheet, header, &[]interface{}{"Logo", feature.Title()}); err != nil {
			return err
		}

		series := ChartSeries(items, feature)
		for i, pair := range series {
			cell, _ := excelize.CoordinatesToCellName(labelCol, i+2)
			if err := f.SetSheetRow(chartsSheet, cell, &[]interface{}{pair.Label, pair.Value}); err != nil {
				return err
			}
		}

		labelName, _ := excelize.ColumnNumberToName(labelCol)
		valueName, _ := excelize.ColumnNumberToName(valueCol)
		last := len(series) + 1

		anchor, _ := excelize.CoordinatesToCellName(2*len(features)+2, 1+k*20)
		chart := &excelize.Chart{
			Type: excelize.Col,
			Series: []excelize.ChartSeries{{
				Name:       fmt.Sprintf("%s!$%s$1", chartsSheet, valueName),
				Categories: fmt.Sprintf("%s!$%s$2:$%s$%d", chartsSheet, labelName, labelName, last),
				Values:     fmt.Sprintf("%s!$%s$2:$%s$%d", chartsSheet, valueName, valueName, last),
			}},
			Title:  []excelize.RichTextRun{{Text: feature.Title()}},
			Legend: excelize.ChartLegend{Position: "none"},
		}
		if err := f.AddChart(chartsSheet, anchor, chart); err != nil {
			return fmt.Errorf("add %s chart: %w", feature, err)
		}
	}
	return nil
}
