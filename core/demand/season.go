package demand

import "time"

// Seasonality multipliers applied to base demand by calendar month. Summer
// holidays and December are peak, January and February are off-peak.
const (
	peakSeasonMultiplier    = 1.5
	stdSeasonMultiplier     = 1.0
	offPeakSeasonMultiplier = 0.5
)

// SeasonFactor returns the demand multiplier for the given month.
func SeasonFactor(m time.Month) float64 {
	switch m {
	case time.June, time.July, time.August, time.December:
		return peakSeasonMultiplier
	case time.January, time.February:
		return offPeakSeasonMultiplier
	default:
		return stdSeasonMultiplier
	}
}
