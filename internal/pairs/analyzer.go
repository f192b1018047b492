// Package pairs measures which logos tend to appear in the same image.
package pairs

import (
	"sort"

	"github.com/masmgr/logospots/config"
)

// LogoPair is an unordered pair of logos.
type LogoPair struct {
	LogoA string
	LogoB string
}

// NewLogoPair creates a pair with the lexicographically smaller logo first.
func NewLogoPair(a, b string) LogoPair {
	if a > b {
		a, b = b, a
	}
	return LogoPair{LogoA: a, LogoB: b}
}

// PairStats holds the co-occurrence metrics of two logos.
type PairStats struct {
	LogoA        string
	LogoB        string
	SharedImages int     // Images containing both logos
	ImagesA      int     // Images containing LogoA
	ImagesB      int     // Images containing LogoB
	Jaccard      float64 // |A ∩ B| / |A ∪ B|
	Confidence   float64 // P(B|A)
	Lift         float64 // P(A,B) / (P(A) × P(B))
}

// Result holds the outcome of a pair analysis.
type Result struct {
	Pairs       []PairStats
	TotalImages int
	TotalLogos  int
	TotalPairs  int
}

// Analyzer computes logo pair statistics from per-image label sets.
type Analyzer struct {
	options config.PairsConfig
}

// NewAnalyzer creates a new pair analyzer.
func NewAnalyzer(options config.PairsConfig) *Analyzer {
	return &Analyzer{options: options}
}

// Analyze counts pairs over labelSets, one set of distinct labels per image.
func (a *Analyzer) Analyze(labelSets [][]string) Result {
	imageCounts := make(map[string]int)
	sharedCounts := make(map[LogoPair]int)

	for _, labels := range labelSets {
		unique := dedupe(labels)
		for _, logo := range unique {
			imageCounts[logo]++
		}

		// Crowded images such as sponsor walls would pair everything with everything
		if len(unique) < 2 || (a.options.MaxLogosPerImage > 0 && len(unique) > a.options.MaxLogosPerImage) {
			continue
		}

		for i := 0; i < len(unique)-1; i++ {
			for j := i + 1; j < len(unique); j++ {
				sharedCounts[NewLogoPair(unique[i], unique[j])]++
			}
		}
	}

	totalImages := len(labelSets)
	var result []PairStats

	for pair, shared := range sharedCounts {
		if shared < a.options.MinSharedImages {
			continue
		}

		imagesA := imageCounts[pair.LogoA]
		imagesB := imageCounts[pair.LogoB]

		union := imagesA + imagesB - shared
		jaccard := float64(shared) / float64(union)
		if jaccard < a.options.MinJaccard {
			continue
		}

		supportA := float64(imagesA) / float64(totalImages)
		supportB := float64(imagesB) / float64(totalImages)
		supportAB := float64(shared) / float64(totalImages)

		result = append(result, PairStats{
			LogoA:        pair.LogoA,
			LogoB:        pair.LogoB,
			SharedImages: shared,
			ImagesA:      imagesA,
			ImagesB:      imagesB,
			Jaccard:      jaccard,
			Confidence:   float64(shared) / float64(imagesA),
			Lift:         supportAB / (supportA * supportB),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Jaccard != result[j].Jaccard {
			return result[i].Jaccard > result[j].Jaccard
		}
		if result[i].SharedImages != result[j].SharedImages {
			return result[i].SharedImages > result[j].SharedImages
		}
		if result[i].LogoA != result[j].LogoA {
			return result[i].LogoA < result[j].LogoA
		}
		return result[i].LogoB < result[j].LogoB
	})

	if a.options.TopPairs > 0 && len(result) > a.options.TopPairs {
		result = result[:a.options.TopPairs]
	}

	return Result{
		Pairs:       result,
		TotalImages: totalImages,
		TotalLogos:  len(imageCounts),
		TotalPairs:  len(sharedCounts),
	}
}

func dedupe(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}
