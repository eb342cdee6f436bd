package model

import (
	"fmt"
	"time"
)

// CabinClass identifies a cabin on board an aircraft.
type CabinClass int

const (
	First CabinClass = iota
	Business
	Economy
)

// String returns a human-readable representation of the cabin class.
func (c CabinClass) String() string {
	switch c {
	case First:
		return "first"
	case Business:
		return "business"
	case Economy:
		return "economy"
	default:
		return "unknown"
	}
}

// Classes lists all cabin classes in descending order of value.
var Classes = []CabinClass{First, Business, Economy}

// CabinCounts holds a per-class passenger or seat count.
type CabinCounts struct {
	First    int `json:"first"`
	Business int `json:"business"`
	Economy  int `json:"economy"`
}

// ForClass returns the count for the given cabin class.
func (c CabinCounts) ForClass(cl CabinClass) int {
	switch cl {
	case First:
		return c.First
	case Business:
		return c.Business
	default:
		return c.Economy
	}
}

// Set overwrites the count for the given cabin class.
func (c *CabinCounts) Set(cl CabinClass, n int) {
	switch cl {
	case First:
		c.First = n
	case Business:
		c.Business = n
	default:
		c.Economy = n
	}
}

// Total returns the sum across all classes.
func (c CabinCounts) Total() int {
	return c.First + c.Business + c.Economy
}

// IsZero reports whether every class count is zero.
func (c CabinCounts) IsZero() bool {
	return c.First == 0 && c.Business == 0 && c.Economy == 0
}

// AircraftType describes the performance and cabin layout of an aircraft
// model. It is immutable reference data.
type AircraftType struct {
	ID           string        // type designator, e.g. "A320"
	Model        string        // marketing name
	MaxRangeKm   float64       // maximum flying range with full payload
	CruiseKmh    float64       // average cruise speed
	Turnaround   time.Duration // minimum ground time between arrival and next departure
	Cabin        CabinCounts   // seat counts per class
}

// Validate checks that the type definition is sound.
func (t AircraftType) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("aircraft type id is required")
	}
	if t.MaxRangeKm <= 0 {
		return fmt.Errorf("aircraft type %s: max range must be positive", t.ID)
	}
	if t.CruiseKmh <= 0 {
		return fmt.Errorf("aircraft type %s: cruise speed must be positive", t.ID)
	}
	if t.Turnaround <= 0 {
		return fmt.Errorf("aircraft type %s: turnaround must be positive", t.ID)
	}
	if t.Cabin.Total() <= 0 {
		return fmt.Errorf("aircraft type %s: cabin has no seats", t.ID)
	}
	return nil
}

// CanFly reports whether the type can serve a leg of the given distance.
func (t AircraftType) CanFly(distanceKm float64) bool {
	return distanceKm > 0 && distanceKm <= t.MaxRangeKm
}

// FlightTime returns the nominal airborne time for the given distance at
// average cruise speed.
func (t AircraftType) FlightTime(distanceKm float64) time.Duration {
	if t.CruiseKmh <= 0 {
		return 0
	}
	hours := distanceKm / t.CruiseKmh
	return time.Duration(hours * float64(time.Hour))
}

// FleetUnit is a specific tail number owned by the airline. The operational
// flag and maintenance date change over the unit's lifecycle; everything else
// is fixed at acquisition.
type FleetUnit struct {
	Tail            string    // registration, e.g. "HB-JLT"
	TypeID          string    // references an AircraftType
	HomeHub         string    // ICAO code of the hub the unit rotates from
	Acquired        time.Time
	LastMaintenance time.Time
	Operational     bool
}

// Validate checks that the unit references are populated.
func (u FleetUnit) Validate() error {
	if u.Tail == "" {
		return fmt.Errorf("fleet unit tail is required")
	}
	if u.TypeID == "" {
		return fmt.Errorf("fleet unit %s: type id is required", u.Tail)
	}
	if u.HomeHub == "" {
		return fmt.Errorf("fleet unit %s: home hub is required", u.Tail)
	}
	return nil
}
