// Package export serialises planning results for downstream consumers.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/kilianp07/fleetplan/core/model"
	"github.com/kilianp07/fleetplan/core/scheduler"
)

// WriteJSON writes the full planning result to w in JSON format.
func WriteJSON(w io.Writer, res scheduler.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// ReadJSON decodes a planning result previously written by WriteJSON.
func ReadJSON(r io.Reader) (scheduler.Result, error) {
	var res scheduler.Result
	dec := json.NewDecoder(r)
	err := dec.Decode(&res)
	return res, err
}

// WriteScheduleCSV writes the flight assignments to w as CSV.
func WriteScheduleCSV(w io.Writer, assignments []model.FlightAssignment) error {
	cw := csv.NewWriter(w)
	header := []string{"tail", "route_id", "departure", "arrival", "return_arrival", "first", "business", "economy"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, a := range assignments {
		rec := []string{
			a.Tail,
			a.RouteID,
			a.Departure.Format(time.RFC3339),
			a.Arrival.Format(time.RFC3339),
			a.ReturnArrival.Format(time.RFC3339),
			strconv.Itoa(a.Seats.First),
			strconv.Itoa(a.Seats.Business),
			strconv.Itoa(a.Seats.Economy),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteUnservedCSV writes the unserved-demand list to w as CSV.
func WriteUnservedCSV(w io.Writer, unserved []scheduler.UnservedDemand) error {
	cw := csv.NewWriter(w)
	header := []string{"route_id", "day", "first", "business", "economy", "reason"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, u := range unserved {
		rec := []string{
			u.RouteID,
			u.Day.Format("2006-01-02"),
			strconv.Itoa(u.Pax.First),
			strconv.Itoa(u.Pax.Business),
			strconv.Itoa(u.Pax.Economy),
			u.Reason,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteDemandCSV writes per-route demand estimates with the same column
// layout the routes reference file uses.
func WriteDemandCSV(w io.Writer, routes []model.Route, estimates map[string]model.DemandEstimate) error {
	cw := csv.NewWriter(w)
	header := []string{"hub_id", "destination_id", "distance_km", "first_class_demand", "business_class_demand", "economy_class_demand"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range routes {
		est := estimates[r.ID()]
		rec := []string{
			r.HubID,
			r.DestinationID,
			strconv.FormatFloat(r.DistanceKm, 'f', 2, 64),
			strconv.Itoa(est.First),
			strconv.Itoa(est.Business),
			strconv.Itoa(est.Economy),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
