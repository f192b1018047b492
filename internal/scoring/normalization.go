package scoring

// NormMax scales a value by a running maximum.
// A zero maximum means every value is zero, so the result is defined as 0.
func NormMax(value, maximum float64) float64 {
	if maximum <= 0 {
		return 0.0
	}
	return value / maximum
}
