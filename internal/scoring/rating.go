package scoring

import (
	"sort"

	"github.com/masmgr/logospots/config"
	"github.com/masmgr/logospots/internal/aggregation"
)

// RankMode selects the ordering used for recommendations.
type RankMode string

const (
	// ModeRating orders logos by the weighted composite rating.
	ModeRating RankMode = "rating"
	// ModeRecommend orders logos lexicographically, frequency first.
	ModeRecommend RankMode = "recommend"
)

// RatingBreakdown shows the contribution of each component to the rating.
type RatingBreakdown struct {
	FrequencyComponent float64
	AreaComponent      float64
	ClarityComponent   float64
	PlacementComponent float64
}

// Total sums the components.
func (b RatingBreakdown) Total() float64 {
	return b.FrequencyComponent + b.AreaComponent + b.ClarityComponent + b.PlacementComponent
}

// RankedLogo is a logo with its statistics and rating.
type RankedLogo struct {
	Logo      string
	Rating    float64
	Stats     LogoStatistics
	Breakdown *RatingBreakdown
}

// Breakdown computes the weighted rating components.
// Variance in area and clarity is penalized through the (1 - std) factors.
func Breakdown(s LogoStatistics, w config.RatingWeights) RatingBreakdown {
	return RatingBreakdown{
		FrequencyComponent: w.Frequency * s.NormalizedFrequency,
		AreaComponent:      w.Area * s.AreaMean * (1 - s.AreaStd),
		ClarityComponent:   w.Clarity * s.ClarityMean * (1 - s.ClarityStd),
		PlacementComponent: w.Placement * (s.CentralityMean * s.CoOccurrenceMean),
	}
}

// ComputeRating combines the statistics into a single score.
func ComputeRating(s LogoStatistics, w config.RatingWeights) float64 {
	return Breakdown(s, w).Total()
}

// Rank orders logos by descending rating. Equal ratings keep their position in order.
func Rank(order []string, ratings map[string]float64) []string {
	ranked := make([]string, 0, len(order))
	for _, logo := range order {
		if _, ok := ratings[logo]; ok {
			ranked = append(ranked, logo)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ratings[ranked[i]] > ratings[ranked[j]]
	})
	return ranked
}

// Recommend orders logos lexicographically, each key descending: observation count,
// centrality mean, area mean, clarity mean, centrality std, co-occurrence mean,
// clarity std, area std. Logos equal on every key keep their position in order.
func Recommend(order []string, stats map[string]LogoStatistics) []string {
	ranked := make([]string, 0, len(order))
	for _, logo := range order {
		if _, ok := stats[logo]; ok {
			ranked = append(ranked, logo)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return recommendLess(stats[ranked[i]], stats[ranked[j]])
	})
	return ranked
}

// recommendLess reports whether a ranks before b.
func recommendLess(a, b LogoStatistics) bool {
	if a.Count != b.Count {
		return a.Count > b.Count
	}
	keys := [][2]float64{
		{a.CentralityMean, b.CentralityMean},
		{a.AreaMean, b.AreaMean},
		{a.ClarityMean, b.ClarityMean},
		{a.CentralityStd, b.CentralityStd},
		{a.CoOccurrenceMean, b.CoOccurrenceMean},
		{a.ClarityStd, b.ClarityStd},
		{a.AreaStd, b.AreaStd},
	}
	for _, k := range keys {
		if k[0] != k[1] {
			return k[0] > k[1]
		}
	}
	return false
}

// Score computes statistics and ratings for every logo and returns them in the
// order selected by mode.
func Score(
	set *aggregation.ObservationSet,
	maxima aggregation.RunningMaxima,
	weights config.RatingWeights,
	mode RankMode,
	explain bool,
) ([]RankedLogo, error) {
	logoStats, err := ComputeStatistics(set, maxima)
	if err != nil {
		return nil, err
	}

	order := set.Logos()
	ratings := make(map[string]float64, len(logoStats))
	breakdowns := make(map[string]RatingBreakdown, len(logoStats))
	for logo, s := range logoStats {
		b := Breakdown(s, weights)
		breakdowns[logo] = b
		ratings[logo] = b.Total()
	}

	var ranked []string
	switch mode {
	case ModeRecommend:
		ranked = Recommend(order, logoStats)
	default:
		ranked = Rank(order, ratings)
	}

	items := make([]RankedLogo, 0, len(ranked))
	for _, logo := range ranked {
		item := RankedLogo{
			Logo:   logo,
			Rating: ratings[logo],
			Stats:  logoStats[logo],
		}
		if explain {
			b := breakdowns[logo]
			item.Breakdown = &b
		}
		items = append(items, item)
	}
	return items, nil
}
