package scoring

import (
	"errors"
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/masmgr/logospots/internal/aggregation"
)

var (
	// ErrMaximaNotFinalized is returned when statistics are requested before the
	// frequency maximum has been computed over the complete observation set.
	ErrMaximaNotFinalized = errors.New("running maxima not finalized")
	// ErrNoObservations is returned when there is nothing to aggregate.
	ErrNoObservations = errors.New("no observations")
	// ErrZeroMaximum is returned when a maximum used as a divisor is zero.
	ErrZeroMaximum = errors.New("normalization maximum is zero")
)

// LogoStatistics summarizes the observations of one logo.
// Area and co-occurrence values are normalized against the running maxima.
type LogoStatistics struct {
	Count               int
	NormalizedFrequency float64
	ClarityMean         float64
	ClarityStd          float64
	AreaMean            float64
	AreaStd             float64
	CentralityMean      float64
	CentralityStd       float64
	CoOccurrenceMean    float64
}

// ComputeStatistics derives per-logo statistics from the observation set.
// It is a pure function of its inputs and recomputes everything on each call.
func ComputeStatistics(set *aggregation.ObservationSet, maxima aggregation.RunningMaxima) (map[string]LogoStatistics, error) {
	if !maxima.Finalized() {
		return nil, ErrMaximaNotFinalized
	}
	if set == nil || set.Len() == 0 {
		return nil, ErrNoObservations
	}
	if maxima.MaxFrequency <= 0 {
		return nil, fmt.Errorf("%w: frequency", ErrZeroMaximum)
	}
	if maxima.MaxArea <= 0 {
		return nil, fmt.Errorf("%w: area", ErrZeroMaximum)
	}

	result := make(map[string]LogoStatistics, set.Len())
	for _, logo := range set.Logos() {
		s, err := logoStatistics(set.Get(logo), maxima)
		if err != nil {
			return nil, fmt.Errorf("statistics for %q: %w", logo, err)
		}
		result[logo] = s
	}
	return result, nil
}

func logoStatistics(obs []aggregation.Observation, maxima aggregation.RunningMaxima) (LogoStatistics, error) {
	n := len(obs)
	clarity := make(stats.Float64Data, n)
	area := make(stats.Float64Data, n)
	centrality := make(stats.Float64Data, n)
	shared := make(stats.Float64Data, n)

	for i, o := range obs {
		clarity[i] = o.Clarity
		area[i] = o.Area / maxima.MaxArea
		centrality[i] = o.Centrality
		shared[i] = NormMax(float64(o.CoOccurrence), float64(maxima.MaxSharedLogos))
	}

	s := LogoStatistics{
		Count:               n,
		NormalizedFrequency: float64(n) / float64(maxima.MaxFrequency),
	}

	var err error
	if s.ClarityMean, s.ClarityStd, err = meanStd(clarity); err != nil {
		return s, err
	}
	if s.AreaMean, s.AreaStd, err = meanStd(area); err != nil {
		return s, err
	}
	if s.CentralityMean, s.CentralityStd, err = meanStd(centrality); err != nil {
		return s, err
	}
	if s.CoOccurrenceMean, err = stats.Mean(shared); err != nil {
		return s, err
	}
	return s, nil
}

// meanStd returns the mean and the population standard deviation.
func meanStd(data stats.Float64Data) (float64, float64, error) {
	mean, err := stats.Mean(data)
	if err != nil {
		return 0, 0, err
	}
	std, err := stats.StandardDeviationPopulation(data)
	if err != nil {
		return 0, 0, err
	}
	return mean, std, nil
}
