package aggregation

// Observation is one detected logo instance within one image.
type Observation struct {
	Clarity      float64 // API-reported clarity in [0,1]
	Area         float64 // polygon area in square pixels
	Centrality   float64 // 1.0 when perfectly centered
	CoOccurrence int     // distinct logos sharing the image
}

// ObservationSet maps each logo to its observations. It only grows by append and
// remembers the order in which logos were first seen.
type ObservationSet struct {
	byLogo map[string][]Observation
	order  []string
}

// NewObservationSet creates an empty set.
func NewObservationSet() *ObservationSet {
	return &ObservationSet{
		byLogo: make(map[string][]Observation),
		order:  make([]string, 0),
	}
}

// Append adds an observation for a logo.
func (s *ObservationSet) Append(logo string, o Observation) {
	if _, exists := s.byLogo[logo]; !exists {
		s.order = append(s.order, logo)
	}
	s.byLogo[logo] = append(s.byLogo[logo], o)
}

// Get returns the observations of a logo. The slice must not be modified.
func (s *ObservationSet) Get(logo string) []Observation {
	return s.byLogo[logo]
}

// Count returns the number of observations of a logo.
func (s *ObservationSet) Count(logo string) int {
	return len(s.byLogo[logo])
}

// Logos returns the logos in first-seen order.
func (s *ObservationSet) Logos() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of distinct logos.
func (s *ObservationSet) Len() int {
	return len(s.order)
}

// Total returns the number of observations across all logos.
func (s *ObservationSet) Total() int {
	total := 0
	for _, obs := range s.byLogo {
		total += len(obs)
	}
	return total
}

// MaxCount returns the largest per-logo observation count.
func (s *ObservationSet) MaxCount() int {
	maxCount := 0
	for _, obs := range s.byLogo {
		if len(obs) > maxCount {
			maxCount = len(obs)
		}
	}
	return maxCount
}

// RunningMaxima holds the bounds used to normalize observations.
// MaxArea and MaxSharedLogos grow while observations are ingested; MaxFrequency is
// only known after a full pass and is set by Collector.FinalizeFrequencyMax.
type RunningMaxima struct {
	MaxFrequency   int
	MaxArea        float64
	MaxSharedLogos int

	finalized bool
}

// FinalMaxima returns maxima that are already complete, for callers that computed
// the bounds themselves.
func FinalMaxima(maxFrequency int, maxArea float64, maxSharedLogos int) RunningMaxima {
	return RunningMaxima{
		MaxFrequency:   maxFrequency,
		MaxArea:        maxArea,
		MaxSharedLogos: maxSharedLogos,
		finalized:      true,
	}
}

// Finalized reports whether the maxima reflect the complete observation set.
func (m RunningMaxima) Finalized() bool {
	return m.finalized
}

// observe raises the area and co-occurrence bounds and invalidates finalization.
func (m *RunningMaxima) observe(o Observation) {
	if o.Area > m.MaxArea {
		m.MaxArea = o.Area
	}
	if o.CoOccurrence > m.MaxSharedLogos {
		m.MaxSharedLogos = o.CoOccurrence
	}
	m.finalized = false
}
