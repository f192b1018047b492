package pairs

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"
)

func genLabelSets() *rapid.Generator[[][]string] {
	return rapid.Custom(func(t *rapid.T) [][]string {
		images := rapid.IntRange(1, 20).Draw(t, "images")
		sets := make([][]string, images)
		for i := range sets {
			n := rapid.IntRange(0, 6).Draw(t, fmt.Sprintf("labels%d", i))
			for j := 0; j < n; j++ {
				sets[i] = append(sets[i], fmt.Sprintf("logo%d", rapid.IntRange(0, 8).Draw(t, fmt.Sprintf("logo%d_%d", i, j))))
			}
		}
		return sets
	})
}

func TestRapidLogoPair_Commutative(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.StringMatching(`[a-z]{1,8}`).Draw(t, "a")
		b := rapid.StringMatching(`[a-z]{1,8}`).Draw(t, "b")

		if NewLogoPair(a, b) != NewLogoPair(b, a) {
			t.Fatalf("NewLogoPair not commutative for %q, %q", a, b)
		}
	})
}

func TestRapidAnalyze_MetricBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		sets := genLabelSets().Draw(t, "sets")
		result := NewAnalyzer(permissiveConfig()).Analyze(sets)

		for _, p := range result.Pairs {
			if p.LogoA >= p.LogoB {
				t.Fatalf("pair not ordered: %q, %q", p.LogoA, p.LogoB)
			}
			if p.Jaccard <= 0 || p.Jaccard > 1 {
				t.Fatalf("Jaccard %f out of (0, 1]", p.Jaccard)
			}
			if p.Confidence <= 0 || p.Confidence > 1 {
				t.Fatalf("Confidence %f out of (0, 1]", p.Confidence)
			}
			if p.SharedImages > p.ImagesA || p.SharedImages > p.ImagesB {
				t.Fatalf("shared %d exceeds per-logo counts %d/%d", p.SharedImages, p.ImagesA, p.ImagesB)
			}
			if p.Lift <= 0 {
				t.Fatalf("Lift %f not positive", p.Lift)
			}
		}
	})
}

func TestRapidAnalyze_InputOrderIndependent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		sets := genLabelSets().Draw(t, "sets")

		reversed := make([][]string, len(sets))
		for i, s := range sets {
			rs := make([]string, len(s))
			for j, l := range s {
				rs[len(s)-1-j] = l
			}
			reversed[len(sets)-1-i] = rs
		}

		a := NewAnalyzer(permissiveConfig()).Analyze(sets)
		b := NewAnalyzer(permissiveConfig()).Analyze(reversed)

		if len(a.Pairs) != len(b.Pairs) {
			t.Fatalf("pair count differs: %d vs %d", len(a.Pairs), len(b.Pairs))
		}
		for i := range a.Pairs {
			if a.Pairs[i] != b.Pairs[i] {
				t.Fatalf("pair %d differs: %+v vs %+v", i, a.Pairs[i], b.Pairs[i])
			}
		}
	})
}
