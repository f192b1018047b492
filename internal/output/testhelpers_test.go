package output

import (
	"os"
	"testing"
	"time"

	"github.com/masmgr/logospots/internal/aggregation"
	"github.com/masmgr/logospots/internal/scoring"
)

func sampleReport() *LogoReport {
	report := NewLogoReport("images.csv", scoring.ModeRating, 12, aggregation.FinalMaxima(5, 2500, 2), []scoring.RankedLogo{
		{
			Logo:   "acme",
			Rating: 0.72,
			Stats: scoring.LogoStatistics{
				Count: 5, NormalizedFrequency: 1, ClarityMean: 0.9, ClarityStd: 0.05,
				AreaMean: 0.6, AreaStd: 0.1, CentralityMean: 0.8, CentralityStd: 0.1, CoOccurrenceMean: 0.5,
			},
			Breakdown: &scoring.RatingBreakdown{FrequencyComponent: 0.3, AreaComponent: 0.135, ClarityComponent: 0.21, PlacementComponent: 0.075},
		},
		{
			Logo:   "globex_corp",
			Rating: 0.41,
			Stats:  scoring.LogoStatistics{Count: 3, NormalizedFrequency: 0.6, ClarityMean: 0.7, AreaMean: 0.3, CentralityMean: 0.5},
		},
		{
			Logo:   "initech",
			Rating: 0.12,
			Stats:  scoring.LogoStatistics{Count: 1, NormalizedFrequency: 0.2, ClarityMean: 0.4, AreaMean: 0.1, CentralityMean: 0.2},
		},
	})
	report.GeneratedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return report
}

func readOutput(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	return string(data)
}
