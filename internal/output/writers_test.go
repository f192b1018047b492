package output

import (
	"encoding/csv"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/masmgr/logospots/internal/scoring"
)

func TestJSONWriter_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	report := sampleReport()

	if err := (&JSONWriter{}).Write(report, OutputOptions{OutputPath: path, Top: 2, Explain: true}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	var got JSONLogoReport
	if err := json.Unmarshal([]byte(readOutput(t, path)), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if got.RunID != report.RunID.String() {
		t.Errorf("RunID = %q, want %q", got.RunID, report.RunID.String())
	}
	if got.TotalLogos != 3 || len(got.Items) != 2 {
		t.Errorf("TotalLogos = %d, len(Items) = %d, want 3 and 2", got.TotalLogos, len(got.Items))
	}
	if got.Maxima.Area != 2500 || got.Maxima.Frequency != 5 {
		t.Errorf("Maxima = %+v", got.Maxima)
	}
	if got.Items[0].Breakdown == nil || got.Items[0].Breakdown.Frequency != 0.3 {
		t.Errorf("first item breakdown = %+v, want frequency 0.3", got.Items[0].Breakdown)
	}
	if got.Items[1].Breakdown != nil {
		t.Errorf("second item has no breakdown, got %+v", got.Items[1].Breakdown)
	}
	if got.Items[1].Rank != 2 || got.Items[1].Logo != "globex_corp" {
		t.Errorf("second item = %+v", got.Items[1])
	}
}

func TestCSVWriter_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")

	if err := (&CSVWriter{}).Write(sampleReport(), OutputOptions{OutputPath: path}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(readOutput(t, path))).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected 4 records, got %d", len(records))
	}
	if records[0][0] != "Rank" || len(records[0]) != 12 {
		t.Errorf("header = %v", records[0])
	}
	if records[1][1] != "acme" || records[1][2] != "0.720000" || records[1][3] != "5" {
		t.Errorf("first row = %v", records[1])
	}
}

func TestCSVWriter_Explain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")

	if err := (&CSVWriter{}).Write(sampleReport(), OutputOptions{OutputPath: path, Explain: true, Top: 1}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(readOutput(t, path))).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	if len(records) != 2 || len(records[0]) != 16 || len(records[1]) != 16 {
		t.Fatalf("unexpected shape: %v", records)
	}
	if records[1][15] != "0.075000" {
		t.Errorf("PlacementComponent = %q, want 0.075000", records[1][15])
	}
}

func TestMarkdownWriter_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")
	report := sampleReport()
	report.Mode = scoring.ModeRecommend

	if err := (&MarkdownWriter{}).Write(report, OutputOptions{OutputPath: path}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	out := readOutput(t, path)
	for _, want := range []string{"# Logo Placement Recommendations", "**Images Analyzed:** 12", "globex\\_corp", "| 1 |"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestMarkdownWriter_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")
	report := sampleReport()
	report.Items = nil

	if err := (&MarkdownWriter{}).Write(report, OutputOptions{OutputPath: path}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if out := readOutput(t, path); !strings.Contains(out, "No logos detected.") {
		t.Errorf("expected empty notice, got:\n%s", out)
	}
}

func TestConsoleWriter_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")

	if err := (&ConsoleWriter{}).Write(sampleReport(), OutputOptions{OutputPath: path, Explain: true}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	out := readOutput(t, path)
	for _, want := range []string{"Logo Rating Results", "Images: 12, Logos: 3", "acme", "Rating breakdown"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCIWriter_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.ndjson")

	if err := (&CIWriter{}).Write(sampleReport(), OutputOptions{OutputPath: path, Top: 2}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(readOutput(t, path)), "\n")
	if len(lines) != 3 { // 1 summary + 2 logos
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}

	var summary CISummary
	if err := json.Unmarshal([]byte(lines[0]), &summary); err != nil {
		t.Fatalf("Failed to parse summary: %v", err)
	}
	if summary.Type != "summary" || summary.TotalLogos != 3 || summary.TopLogo != "acme" || summary.MaxRating != 0.72 {
		t.Errorf("summary = %+v", summary)
	}

	var entry CILogoEntry
	if err := json.Unmarshal([]byte(lines[2]), &entry); err != nil {
		t.Fatalf("Failed to parse entry: %v", err)
	}
	if entry.Type != "logo" || entry.Rank != 2 || entry.Logo != "globex_corp" || entry.Count != 3 {
		t.Errorf("entry = %+v", entry)
	}
}
