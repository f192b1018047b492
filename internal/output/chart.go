package output

import (
	"fmt"
	"strings"

	"github.com/masmgr/logospots/internal/scoring"
)

// Feature names a per-logo value that can be charted.
type Feature string

const (
	FeatureRating       Feature = "rating"
	FeatureFrequency    Feature = "frequency"
	FeatureClarity      Feature = "clarity"
	FeatureArea         Feature = "area"
	FeatureCentrality   Feature = "centrality"
	FeatureCoOccurrence Feature = "co-occurrence"
)

// AllFeatures lists the chartable features in display order.
var AllFeatures = []Feature{
	FeatureRating, FeatureFrequency, FeatureClarity, FeatureArea, FeatureCentrality, FeatureCoOccurrence,
}

// BarPair is one bar of a chart.
type BarPair struct {
	Label string
	Value float64
}

// ParseFeature validates a feature name.
func ParseFeature(name string) (Feature, error) {
	f := Feature(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range AllFeatures {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown chart feature %q", name)
}

// ParseFeatures validates a list of feature names.
func ParseFeatures(names []string) ([]Feature, error) {
	features := make([]Feature, 0, len(names))
	for _, name := range names {
		f, err := ParseFeature(name)
		if err != nil {
			return nil, err
		}
		features = append(features, f)
	}
	return features, nil
}

// Title returns the chart heading for the feature.
func (f Feature) Title() string {
	switch f {
	case FeatureRating:
		return "Rating"
	case FeatureFrequency:
		return "Normalized frequency"
	case FeatureClarity:
		return "Mean clarity"
	case FeatureArea:
		return "Mean normalized area"
	case FeatureCentrality:
		return "Mean centrality"
	case FeatureCoOccurrence:
		return "Mean co-occurrence"
	default:
		return string(f)
	}
}

// ChartSeries returns one (logo, value) pair per item, in item order.
func ChartSeries(items []scoring.RankedLogo, feature Feature) []BarPair {
	pairs := make([]BarPair, 0, len(items))
	for _, item := range items {
		pairs = append(pairs, BarPair{Label: item.Logo, Value: featureValue(item, feature)})
	}
	return pairs
}

func featureValue(item scoring.RankedLogo, feature Feature) float64 {
	switch feature {
	case FeatureFrequency:
		return item.Stats.NormalizedFrequency
	case FeatureClarity:
		return item.Stats.ClarityMean
	case FeatureArea:
		return item.Stats.AreaMean
	case FeatureCentrality:
		return item.Stats.CentralityMean
	case FeatureCoOccurrence:
		return item.Stats.CoOccurrenceMean
	default:
		return item.Rating
	}
}
