package refdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/kilianp07/fleetplan/core/model"
)

// Sources lists the file paths the snapshot is assembled from.
type Sources struct {
	AircraftTypes string `json:"aircraft_types"`
	Fleet         string `json:"fleet"`
	Hubs          string `json:"hubs"`
	Destinations  string `json:"destinations"`
	Routes        string `json:"routes"`
}

// Load assembles and validates a snapshot from the given CSV sources. Routes
// with a missing distance get it derived from the endpoint coordinates, and
// a missing duration is derived from the slowest type able to fly the leg.
func Load(src Sources) (*Snapshot, error) {
	s := New()
	var err error
	if s.AircraftTypes, err = readAircraftTypes(src.AircraftTypes); err != nil {
		return nil, fmt.Errorf("aircraft types: %w", err)
	}
	if s.Hubs, err = readHubs(src.Hubs); err != nil {
		return nil, fmt.Errorf("hubs: %w", err)
	}
	if s.Destinations, err = readDestinations(src.Destinations); err != nil {
		return nil, fmt.Errorf("destinations: %w", err)
	}
	if s.Fleet, err = readFleet(src.Fleet); err != nil {
		return nil, fmt.Errorf("fleet: %w", err)
	}
	if s.Routes, err = readRoutes(src.Routes); err != nil {
		return nil, fmt.Errorf("routes: %w", err)
	}
	s.deriveRouteGeometry()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// deriveRouteGeometry fills missing distances from coordinates and missing
// durations from the fleet's slowest feasible cruise speed.
func (s *Snapshot) deriveRouteGeometry() {
	minCruise := 0.0
	for _, t := range s.AircraftTypes {
		if minCruise == 0 || t.CruiseKmh < minCruise {
			minCruise = t.CruiseKmh
		}
	}
	for id, r := range s.Routes {
		if r.DistanceKm <= 0 {
			h, okH := s.Hubs[r.HubID]
			d, okD := s.Destinations[r.DestinationID]
			if okH && okD {
				r.DistanceKm = GreatCircleKm(h.Latitude, h.Longitude, d.Latitude, d.Longitude)
			}
		}
		if r.Duration <= 0 && minCruise > 0 {
			r.Duration = time.Duration(r.DistanceKm / minCruise * float64(time.Hour))
		}
		s.Routes[id] = r
	}
}

func readRecords(path string, want int) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rd := csv.NewReader(f)
	rd.TrimLeadingSpace = true
	if _, err := rd.Read(); err != nil { // header
		if err == io.EOF {
			return nil, nil
		}
		return nil, err
	}
	var recs [][]string
	for {
		rec, err := rd.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rec) < want {
			return nil, fmt.Errorf("%s: expected %d fields, got %d", path, want, len(rec))
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// readAircraftTypes parses id,model,max_range_km,cruise_kmh,turnaround_min,first,business,economy.
func readAircraftTypes(path string) (map[string]model.AircraftType, error) {
	recs, err := readRecords(path, 8)
	if err != nil {
		return nil, err
	}
	types := make(map[string]model.AircraftType, len(recs))
	for _, rec := range recs {
		rangeKm, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return nil, fmt.Errorf("type %s: bad range: %w", rec[0], err)
		}
		cruise, err := strconv.ParseFloat(rec[3], 64)
		if err != nil {
			return nil, fmt.Errorf("type %s: bad cruise speed: %w", rec[0], err)
		}
		turn, err := strconv.Atoi(rec[4])
		if err != nil {
			return nil, fmt.Errorf("type %s: bad turnaround: %w", rec[0], err)
		}
		cabin, err := parseCabin(rec[5], rec[6], rec[7])
		if err != nil {
			return nil, fmt.Errorf("type %s: %w", rec[0], err)
		}
		t := model.AircraftType{
			ID:         rec[0],
			Model:      rec[1],
			MaxRangeKm: rangeKm,
			CruiseKmh:  cruise,
			Turnaround: time.Duration(turn) * time.Minute,
			Cabin:      cabin,
		}
		types[t.ID] = t
	}
	return types, nil
}

// readFleet parses tail,type_id,home_hub,acquired,last_maintenance,operational.
func readFleet(path string) (map[string]model.FleetUnit, error) {
	recs, err := readRecords(path, 6)
	if err != nil {
		return nil, err
	}
	fleet := make(map[string]model.FleetUnit, len(recs))
	for _, rec := range recs {
		acquired, err := time.Parse("2006-01-02", rec[3])
		if err != nil {
			return nil, fmt.Errorf("unit %s: bad acquisition date: %w", rec[0], err)
		}
		maint, err := time.Parse("2006-01-02", rec[4])
		if err != nil {
			return nil, fmt.Errorf("unit %s: bad maintenance date: %w", rec[0], err)
		}
		op, err := strconv.ParseBool(rec[5])
		if err != nil {
			return nil, fmt.Errorf("unit %s: bad operational flag: %w", rec[0], err)
		}
		u := model.FleetUnit{
			Tail:            rec[0],
			TypeID:          rec[1],
			HomeHub:         rec[2],
			Acquired:        acquired,
			LastMaintenance: maint,
			Operational:     op,
		}
		fleet[u.Tail] = u
	}
	return fleet, nil
}

// readHubs parses icao,name,city,country,utc_offset,lat,lon,gates.
func readHubs(path string) (map[string]model.Hub, error) {
	recs, err := readRecords(path, 8)
	if err != nil {
		return nil, err
	}
	hubs := make(map[string]model.Hub, len(recs))
	for _, rec := range recs {
		ap, err := parseAirport(rec)
		if err != nil {
			return nil, err
		}
		gates, err := strconv.Atoi(rec[7])
		if err != nil {
			return nil, fmt.Errorf("hub %s: bad gate count: %w", rec[0], err)
		}
		hubs[ap.ICAO] = model.Hub{Airport: ap, Gates: gates}
	}
	return hubs, nil
}

// readDestinations parses icao,name,city,country,utc_offset,lat,lon.
func readDestinations(path string) (map[string]model.Destination, error) {
	recs, err := readRecords(path, 7)
	if err != nil {
		return nil, err
	}
	dests := make(map[string]model.Destination, len(recs))
	for _, rec := range recs {
		ap, err := parseAirport(rec)
		if err != nil {
			return nil, err
		}
		dests[ap.ICAO] = model.Destination{Airport: ap}
	}
	return dests, nil
}

func parseAirport(rec []string) (model.Airport, error) {
	offset, err := strconv.ParseFloat(rec[4], 64)
	if err != nil {
		return model.Airport{}, fmt.Errorf("airport %s: bad utc offset: %w", rec[0], err)
	}
	lat, err := strconv.ParseFloat(rec[5], 64)
	if err != nil {
		return model.Airport{}, fmt.Errorf("airport %s: bad latitude: %w", rec[0], err)
	}
	lon, err := strconv.ParseFloat(rec[6], 64)
	if err != nil {
		return model.Airport{}, fmt.Errorf("airport %s: bad longitude: %w", rec[0], err)
	}
	return model.Airport{
		ICAO:      rec[0],
		Name:      rec[1],
		City:      rec[2],
		Country:   rec[3],
		UTCOffset: offset,
		Latitude:  lat,
		Longitude: lon,
	}, nil
}

// readRoutes parses hub_id,destination_id,distance_km with optional
// first_class_demand,business_class_demand,economy_class_demand columns.
func readRoutes(path string) (map[string]model.Route, error) {
	recs, err := readRecords(path, 3)
	if err != nil {
		return nil, err
	}
	routes := make(map[string]model.Route, len(recs))
	for _, rec := range recs {
		dist, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return nil, fmt.Errorf("route %s-%s: bad distance: %w", rec[0], rec[1], err)
		}
		r := model.Route{HubID: rec[0], DestinationID: rec[1], DistanceKm: dist}
		if len(rec) >= 6 {
			if r.Demand, err = parseCabin(rec[3], rec[4], rec[5]); err != nil {
				return nil, fmt.Errorf("route %s: %w", r.ID(), err)
			}
		}
		routes[r.ID()] = r
	}
	return routes, nil
}

func parseCabin(first, business, economy string) (model.CabinCounts, error) {
	f, err := strconv.Atoi(first)
	if err != nil {
		return model.CabinCounts{}, fmt.Errorf("bad first count: %w", err)
	}
	b, err := strconv.Atoi(business)
	if err != nil {
		return model.CabinCounts{}, fmt.Errorf("bad business count: %w", err)
	}
	e, err := strconv.Atoi(economy)
	if err != nil {
		return model.CabinCounts{}, fmt.Errorf("bad economy count: %w", err)
	}
	return model.CabinCounts{First: f, Business: b, Economy: e}, nil
}
