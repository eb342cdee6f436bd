// Package refdata holds the immutable reference-data snapshot a planning run
// operates on. A snapshot is an arena of value records keyed by identifier;
// it is loaded once per run and never mutated by the core.
package refdata

import (
	"fmt"
	"sort"

	"github.com/kilianp07/fleetplan/core/model"
)

// Snapshot groups the five reference tables the core consumes.
type Snapshot struct {
	AircraftTypes map[string]model.AircraftType
	Fleet         map[string]model.FleetUnit
	Hubs          map[string]model.Hub
	Destinations  map[string]model.Destination
	Routes        map[string]model.Route
}

// New returns an empty snapshot with all maps allocated.
func New() *Snapshot {
	return &Snapshot{
		AircraftTypes: make(map[string]model.AircraftType),
		Fleet:         make(map[string]model.FleetUnit),
		Hubs:          make(map[string]model.Hub),
		Destinations:  make(map[string]model.Destination),
		Routes:        make(map[string]model.Route),
	}
}

// Validate checks every record and the referential integrity between tables.
func (s *Snapshot) Validate() error {
	for _, t := range s.AircraftTypes {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	for _, h := range s.Hubs {
		if err := h.Validate(); err != nil {
			return err
		}
	}
	for _, d := range s.Destinations {
		if err := d.Validate(); err != nil {
			return err
		}
	}
	for _, u := range s.Fleet {
		if err := u.Validate(); err != nil {
			return err
		}
		if _, ok := s.AircraftTypes[u.TypeID]; !ok {
			return fmt.Errorf("fleet unit %s references unknown type %s", u.Tail, u.TypeID)
		}
		if _, ok := s.Hubs[u.HomeHub]; !ok {
			return fmt.Errorf("fleet unit %s references unknown hub %s", u.Tail, u.HomeHub)
		}
	}
	for _, r := range s.Routes {
		if err := r.Validate(); err != nil {
			return err
		}
		if _, ok := s.Hubs[r.HubID]; !ok {
			return fmt.Errorf("route %s references unknown hub %s", r.ID(), r.HubID)
		}
		if _, ok := s.Destinations[r.DestinationID]; !ok {
			return fmt.Errorf("route %s references unknown destination %s", r.ID(), r.DestinationID)
		}
	}
	return nil
}

// RouteList returns the routes sorted by identifier for deterministic
// iteration.
func (s *Snapshot) RouteList() []model.Route {
	routes := make([]model.Route, 0, len(s.Routes))
	for _, r := range s.Routes {
		routes = append(routes, r)
	}
	sort.Slice(routes, func(i, j int) bool { return routes[i].ID() < routes[j].ID() })
	return routes
}

// OperationalUnits returns the fleet units eligible for scheduling, sorted by
// tail number.
func (s *Snapshot) OperationalUnits() []model.FleetUnit {
	units := make([]model.FleetUnit, 0, len(s.Fleet))
	for _, u := range s.Fleet {
		if u.Operational {
			units = append(units, u)
		}
	}
	sort.Slice(units, func(i, j int) bool { return units[i].Tail < units[j].Tail })
	return units
}

// UnitType resolves the aircraft type of a fleet unit.
func (s *Snapshot) UnitType(tail string) (model.AircraftType, error) {
	u, ok := s.Fleet[tail]
	if !ok {
		return model.AircraftType{}, fmt.Errorf("unknown fleet unit %s", tail)
	}
	t, ok := s.AircraftTypes[u.TypeID]
	if !ok {
		return model.AircraftType{}, fmt.Errorf("fleet unit %s references unknown type %s", tail, u.TypeID)
	}
	return t, nil
}

// RouteEndpoints resolves the hub and destination records of a route.
func (s *Snapshot) RouteEndpoints(r model.Route) (model.Hub, model.Destination, error) {
	h, ok := s.Hubs[r.HubID]
	if !ok {
		return model.Hub{}, model.Destination{}, fmt.Errorf("unknown hub %s", r.HubID)
	}
	d, ok := s.Destinations[r.DestinationID]
	if !ok {
		return model.Hub{}, model.Destination{}, fmt.Errorf("unknown destination %s", r.DestinationID)
	}
	return h, d, nil
}
