package pairs

import (
	"math"
	"testing"

	"github.com/masmgr/logospots/config"
)

func TestNewLogoPair_ConsistentOrdering(t *testing.T) {
	tests := []struct {
		name      string
		a         string
		b         string
		expectedA string
		expectedB string
	}{
		{name: "Already ordered", a: "acme", b: "globex", expectedA: "acme", expectedB: "globex"},
		{name: "Reversed input", a: "globex", b: "acme", expectedA: "acme", expectedB: "globex"},
		{name: "Case sensitive", a: "acme", b: "Acme", expectedA: "Acme", expectedB: "acme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pair := NewLogoPair(tt.a, tt.b)
			if pair.LogoA != tt.expectedA || pair.LogoB != tt.expectedB {
				t.Errorf("NewLogoPair(%q, %q) = {%q, %q}, expected {%q, %q}",
					tt.a, tt.b, pair.LogoA, pair.LogoB, tt.expectedA, tt.expectedB)
			}
		})
	}
}

func permissiveConfig() config.PairsConfig {
	return config.PairsConfig{
		MinSharedImages:  1,
		MinJaccard:       0,
		MaxLogosPerImage: 50,
		TopPairs:         50,
	}
}

func TestAnalyzer_Analyze_Empty(t *testing.T) {
	result := NewAnalyzer(permissiveConfig()).Analyze(nil)

	if len(result.Pairs) != 0 {
		t.Errorf("expected no pairs, got %d", len(result.Pairs))
	}
	if result.TotalImages != 0 || result.TotalLogos != 0 {
		t.Errorf("expected zero totals, got images=%d logos=%d", result.TotalImages, result.TotalLogos)
	}
}

func TestAnalyzer_Analyze_Metrics(t *testing.T) {
	sets := [][]string{
		{"acme", "globex"},
		{"acme", "globex"},
		{"acme"},
		{"initech"},
	}

	result := NewAnalyzer(permissiveConfig()).Analyze(sets)

	if result.TotalImages != 4 {
		t.Errorf("TotalImages = %d, expected 4", result.TotalImages)
	}
	if result.TotalLogos != 3 {
		t.Errorf("TotalLogos = %d, expected 3", result.TotalLogos)
	}
	if len(result.Pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(result.Pairs))
	}

	p := result.Pairs[0]
	if p.LogoA != "acme" || p.LogoB != "globex" {
		t.Errorf("pair = {%q, %q}, expected {acme, globex}", p.LogoA, p.LogoB)
	}
	if p.SharedImages != 2 || p.ImagesA != 3 || p.ImagesB != 2 {
		t.Errorf("counts = %d/%d/%d, expected 2/3/2", p.SharedImages, p.ImagesA, p.ImagesB)
	}
	// union = 3 + 2 - 2 = 3
	if math.Abs(p.Jaccard-2.0/3.0) > 1e-9 {
		t.Errorf("Jaccard = %f, expected 0.667", p.Jaccard)
	}
	if math.Abs(p.Confidence-2.0/3.0) > 1e-9 {
		t.Errorf("Confidence = %f, expected 0.667", p.Confidence)
	}
	// (2/4) / ((3/4) * (2/4)) = 4/3
	if math.Abs(p.Lift-4.0/3.0) > 1e-9 {
		t.Errorf("Lift = %f, expected 1.333", p.Lift)
	}
}

func TestAnalyzer_Analyze_DuplicateLabelsCountOnce(t *testing.T) {
	sets := [][]string{{"acme", "acme", "globex"}}

	result := NewAnalyzer(permissiveConfig()).Analyze(sets)

	if len(result.Pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(result.Pairs))
	}
	if result.Pairs[0].ImagesA != 1 || result.Pairs[0].SharedImages != 1 {
		t.Errorf("duplicate labels should count once, got %+v", result.Pairs[0])
	}
}

func TestAnalyzer_Analyze_Filters(t *testing.T) {
	sets := [][]string{
		{"acme", "globex"},
		{"acme", "globex"},
		{"acme", "initech"},
		{"a", "b", "c", "d"},
	}

	tests := []struct {
		name     string
		modify   func(*config.PairsConfig)
		expected int
	}{
		{name: "Permissive", modify: func(c *config.PairsConfig) {}, expected: 8},
		{name: "MinSharedImages", modify: func(c *config.PairsConfig) { c.MinSharedImages = 2 }, expected: 1},
		{name: "MinJaccard", modify: func(c *config.PairsConfig) { c.MinJaccard = 0.5 }, expected: 7},
		{name: "MaxLogosPerImage", modify: func(c *config.PairsConfig) { c.MaxLogosPerImage = 3 }, expected: 2},
		{name: "TopPairs", modify: func(c *config.PairsConfig) { c.TopPairs = 3 }, expected: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := permissiveConfig()
			tt.modify(&cfg)
			result := NewAnalyzer(cfg).Analyze(sets)
			if len(result.Pairs) != tt.expected {
				t.Errorf("got %d pairs, expected %d", len(result.Pairs), tt.expected)
			}
		})
	}
}

func TestAnalyzer_Analyze_SortedByJaccard(t *testing.T) {
	sets := [][]string{
		{"acme", "globex"},
		{"acme", "globex"},
		{"acme", "initech"},
		{"acme"},
	}

	result := NewAnalyzer(permissiveConfig()).Analyze(sets)

	if len(result.Pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(result.Pairs))
	}
	if result.Pairs[0].LogoB != "globex" {
		t.Errorf("first pair = %+v, expected acme/globex", result.Pairs[0])
	}
	for i := 1; i < len(result.Pairs); i++ {
		if result.Pairs[i].Jaccard > result.Pairs[i-1].Jaccard {
			t.Errorf("pairs not sorted: %f > %f at %d", result.Pairs[i].Jaccard, result.Pairs[i-1].Jaccard, i)
		}
	}
}
