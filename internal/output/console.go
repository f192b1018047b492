package output

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
)

// ConsoleWriter writes logo reports as an aligned table.
type ConsoleWriter struct{}

// Write outputs the logo report to the console.
func (w *ConsoleWriter) Write(report *LogoReport, options OutputOptions) error {
	items := limitTop(report.Items, options.Top)

	out, file, err := OpenOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	fmt.Fprintln(out, color.GreenString(reportTitle(report.Mode)))
	if report.Source != "" {
		fmt.Fprintf(out, "Source: %s\n", report.Source)
	}
	fmt.Fprintf(out, "Images: %d, Logos: %d\n\n", report.Images, len(report.Items))

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	// Write header
	if options.Explain {
		fmt.Fprintln(tw, "#\tLogo\tRating\tCount\tFreq\tClarity\tArea\tCentrality\tCo-occ\tF\tA\tC\tP")
	} else {
		fmt.Fprintln(tw, "#\tLogo\tRating\tCount\tFreq\tClarity\tArea\tCentrality\tCo-occ")
	}

	// Write rows
	for i, item := range items {
		s := item.Stats
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%.3f\t%.3f±%.3f\t%.3f±%.3f\t%.3f±%.3f\t%.3f",
			i+1,
			item.Logo,
			ratingColor(item.Rating)("%.4f", item.Rating),
			s.Count,
			s.NormalizedFrequency,
			s.ClarityMean, s.ClarityStd,
			s.AreaMean, s.AreaStd,
			s.CentralityMean, s.CentralityStd,
			s.CoOccurrenceMean,
		)
		if options.Explain && item.Breakdown != nil {
			fmt.Fprintf(tw, "\t%.3f\t%.3f\t%.3f\t%.3f",
				item.Breakdown.FrequencyComponent,
				item.Breakdown.AreaComponent,
				item.Breakdown.ClarityComponent,
				item.Breakdown.PlacementComponent,
			)
		}
		fmt.Fprintln(tw)
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	if options.Explain {
		fmt.Fprintln(out, "\nRating breakdown: F=Frequency, A=Area, C=Clarity, P=Placement")
	}

	return nil
}

func ratingColor(rating float64) func(string, ...interface{}) string {
	switch {
	case rating >= 0.6:
		return color.GreenString
	case rating >= 0.3:
		return color.YellowString
	default:
		return color.RedString
	}
}
