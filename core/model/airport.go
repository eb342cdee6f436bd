package model

import "fmt"

// Airport holds the location record shared by hubs and destinations.
type Airport struct {
	ICAO      string  // four-letter location indicator
	Name      string
	City      string
	Country   string
	Latitude  float64
	Longitude float64
	UTCOffset float64 // hours east of UTC, may be fractional
}

// Validate checks that the airport record is usable for planning.
func (a Airport) Validate() error {
	if a.ICAO == "" {
		return fmt.Errorf("airport icao code is required")
	}
	if a.Latitude < -90 || a.Latitude > 90 {
		return fmt.Errorf("airport %s: latitude out of range", a.ICAO)
	}
	if a.Longitude < -180 || a.Longitude > 180 {
		return fmt.Errorf("airport %s: longitude out of range", a.ICAO)
	}
	if a.Country == "" {
		return fmt.Errorf("airport %s: country is required", a.ICAO)
	}
	return nil
}

// Hub is an airline base airport from which routes originate. The gate count
// bounds how many aircraft can be parked at stands simultaneously.
type Hub struct {
	Airport
	Gates int
}

// Validate checks hub-specific fields on top of the airport record.
func (h Hub) Validate() error {
	if err := h.Airport.Validate(); err != nil {
		return err
	}
	if h.Gates <= 0 {
		return fmt.Errorf("hub %s: gate count must be positive", h.ICAO)
	}
	return nil
}

// Destination is the arrival airport of a route.
type Destination struct {
	Airport
}

// TimezoneDelta returns the offset difference in hours between two airports.
func TimezoneDelta(from, to Airport) float64 {
	return to.UTCOffset - from.UTCOffset
}
