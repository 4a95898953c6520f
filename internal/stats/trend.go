// ABOUTME: Trend classification by least-squares slope of top-set weights.
package stats

import "math"

// Trend is the direction of an exercise's top-set weights.
type Trend string

const (
	TrendUp               Trend = "up"
	TrendDown             Trend = "down"
	TrendFlat             Trend = "flat"
	TrendInsufficientData Trend = "insufficient_data"
)

// minTrendPoints is the fewest sessions a trend is computed from.
const minTrendPoints = 3

// Label returns the display title for the trend.
func (t Trend) Label() string {
	switch t {
	case TrendUp:
		return "Up"
	case TrendDown:
		return "Down"
	case TrendFlat:
		return "Flat"
	default:
		return "Needs Data"
	}
}

// ClassifyTrend regresses values against their index 0..n-1. A slope beyond
// max(1, |mean| × 0.005) in either direction is Up or Down, otherwise Flat.
func ClassifyTrend(values []float64) Trend {
	n := len(values)
	if n < minTrendPoints {
		return TrendInsufficientData
	}

	var meanX, meanY float64
	for i, v := range values {
		meanX += float64(i)
		meanY += v
	}
	meanX /= float64(n)
	meanY /= float64(n)

	var num, den float64
	for i, v := range values {
		dx := float64(i) - meanX
		num += dx * (v - meanY)
		den += dx * dx
	}
	if den == 0 {
		return TrendFlat
	}

	slope := num / den
	threshold := math.Max(1.0, math.Abs(meanY)*0.005)
	switch {
	case slope > threshold:
		return TrendUp
	case slope < -threshold:
		return TrendDown
	default:
		return TrendFlat
	}
}
