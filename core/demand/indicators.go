package demand

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Indicators is the socio-economic snapshot for one route endpoint. All
// values must be positive; a missing series yields an
// InsufficientDataError, never a silent zero-demand estimate.
type Indicators struct {
	Population         float64 `json:"population" yaml:"population"`
	GDPPerCapita       float64 `json:"gdp_per_capita" yaml:"gdp_per_capita"`
	PriceLevelIndex    float64 `json:"price_level_index" yaml:"price_level_index"`
	TourismExpenditure float64 `json:"tourism_expenditure" yaml:"tourism_expenditure"`
}

// Check returns an InsufficientDataError naming the first missing or
// non-positive series for the given location.
func (i Indicators) Check(location string) error {
	switch {
	case i.Population <= 0:
		return &InsufficientDataError{Location: location, Indicator: "population"}
	case i.GDPPerCapita <= 0:
		return &InsufficientDataError{Location: location, Indicator: "gdp_per_capita"}
	case i.PriceLevelIndex <= 0:
		return &InsufficientDataError{Location: location, Indicator: "price_level_index"}
	case i.TourismExpenditure <= 0:
		return &InsufficientDataError{Location: location, Indicator: "tourism_expenditure"}
	}
	return nil
}

// IndicatorSet maps an airport ICAO code to its indicator snapshot. Staleness
// filtering is the caller's responsibility; the estimator treats the set as
// current.
type IndicatorSet map[string]Indicators

// Lookup returns the indicators for a location or an InsufficientDataError
// when the location is absent from the set.
func (s IndicatorSet) Lookup(location string) (Indicators, error) {
	ind, ok := s[location]
	if !ok {
		return Indicators{}, &InsufficientDataError{Location: location, Indicator: "all"}
	}
	if err := ind.Check(location); err != nil {
		return Indicators{}, err
	}
	return ind, nil
}

// LoadIndicators reads an indicator set from a YAML file keyed by ICAO code.
func LoadIndicators(path string) (IndicatorSet, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var set IndicatorSet
	if err := yaml.Unmarshal(b, &set); err != nil {
		return nil, fmt.Errorf("indicators %s: %w", path, err)
	}
	return set, nil
}

// InsufficientDataError signals a missing or invalid indicator for a route
// endpoint. The caller must fall back to a previous estimate or exclude the
// route from the run.
type InsufficientDataError struct {
	Location  string
	Indicator string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data for %s: %s", e.Location, e.Indicator)
}
