// Package geo projects location clusters onto map markers and exports them
// as GeoJSON or an ESRI point shapefile.
package geo

// Marker colors by cluster funding.
const (
	ColorHigh    = "#EC407A"
	ColorUpper   = "#BA68C8"
	ColorMiddle  = "#7986CB"
	ColorDefault = "#42A5F5"
)

// Marker radius bounds in pixels.
const (
	MinRadius = 5.0
	MaxRadius = 20.0
)

// MarkerColor picks the marker color for a cluster's total funding. The
// thresholds are exclusive: exactly $50,000 is not "high".
func MarkerColor(funding float64) string {
	switch {
	case funding > 50000:
		return ColorHigh
	case funding > 20000:
		return ColorUpper
	case funding > 10000:
		return ColorMiddle
	default:
		return ColorDefault
	}
}

// MarkerRadius scales a cluster's acreage to a marker radius, one pixel per
// 20 acres, clamped to [MinRadius, MaxRadius].
func MarkerRadius(acres float64) float64 {
	return min(max(acres/20, MinRadius), MaxRadius)
}
