package demand

import (
	"math"
	"sort"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/kilianp07/fleetplan/core/model"
	"github.com/kilianp07/fleetplan/core/refdata"
)

// Weights tunes the gravity model. The factor weights should sum to one; the
// class coefficients bound the share of base demand each cabin can capture.
type Weights struct {
	Economic   float64 `json:"economic"`
	Population float64 `json:"population"`
	Tourism    float64 `json:"tourism"`
	Distance   float64 `json:"distance"`

	ScalingFactor float64 `json:"scaling_factor"`

	FirstEconomic    float64 `json:"first_economic"`
	BusinessEconomic float64 `json:"business_economic"`
	BusinessTourism  float64 `json:"business_tourism"`
	EconomyShare     float64 `json:"economy_share"`

	// JetlagDamping shaves premium demand per hour of time-zone offset,
	// floored at 1-8*JetlagDamping.
	JetlagDamping float64 `json:"jetlag_damping"`

	// DistanceScaleKm and DistanceSigma parameterize the log-normal
	// distance decay. The density peaks near DistanceScaleKm.
	DistanceScaleKm float64 `json:"distance_scale_km"`
	DistanceSigma   float64 `json:"distance_sigma"`
}

// DefaultWeights returns the calibration the model ships with.
func DefaultWeights() Weights {
	return Weights{
		Economic:         0.4,
		Population:       0.3,
		Tourism:          0.2,
		Distance:         0.1,
		ScalingFactor:    10_000,
		FirstEconomic:    0.05,
		BusinessEconomic: 0.08,
		BusinessTourism:  0.07,
		EconomyShare:     0.8,
		JetlagDamping:    0.02,
		DistanceScaleKm:  1000,
		DistanceSigma:    0.5,
	}
}

// RouteInfo is the geometry the estimator needs about a route.
type RouteInfo struct {
	RouteID       string
	DistanceKm    float64
	TimezoneDelta float64 // destination offset minus hub offset, in hours
}

// Estimator converts indicator snapshots into per-class demand figures. It is
// stateless apart from its weights; identical inputs always produce identical
// estimates.
type Estimator struct {
	weights Weights
	dist    distuv.LogNormal
}

// NewEstimator builds an estimator with the given weights. Zero-valued
// distance parameters fall back to the defaults.
func NewEstimator(w Weights) Estimator {
	def := DefaultWeights()
	if w.DistanceScaleKm <= 0 {
		w.DistanceScaleKm = def.DistanceScaleKm
	}
	if w.DistanceSigma <= 0 {
		w.DistanceSigma = def.DistanceSigma
	}
	if w.ScalingFactor <= 0 {
		w.ScalingFactor = def.ScalingFactor
	}
	return Estimator{
		weights: w,
		dist:    distuv.LogNormal{Mu: math.Log(w.DistanceScaleKm), Sigma: w.DistanceSigma},
	}
}

// Estimate computes the per-class demand for one route and planning day. Both
// endpoint indicator snapshots must be complete or an InsufficientDataError
// is returned.
func (e Estimator) Estimate(r RouteInfo, day time.Time, origin, dest Indicators) (model.DemandEstimate, error) {
	if err := origin.Check(r.RouteID + "/origin"); err != nil {
		return model.DemandEstimate{}, err
	}
	if err := dest.Check(r.RouteID + "/destination"); err != nil {
		return model.DemandEstimate{}, err
	}

	pf := populationFactor(origin.Population, dest.Population)
	ef := economicFactor(origin, dest)
	tf := tourismFactor(origin.TourismExpenditure, dest.TourismExpenditure)
	df := e.distanceFactor(r.DistanceKm)

	composite := e.weights.Population*pf + e.weights.Economic*ef +
		e.weights.Tourism*tf + e.weights.Distance*df
	base := composite * e.weights.ScalingFactor * SeasonFactor(day.Month())

	damp := e.jetlagDamping(r.TimezoneDelta)
	first := base * ef * e.weights.FirstEconomic * damp
	business := base * (ef*e.weights.BusinessEconomic + tf*e.weights.BusinessTourism) * damp
	economy := base * (pf + df) * e.weights.EconomyShare

	return model.DemandEstimate{
		RouteID: r.RouteID,
		Day:     day,
		CabinCounts: model.CabinCounts{
			First:    floorPax(first),
			Business: floorPax(business),
			Economy:  floorPax(economy),
		},
	}, nil
}

// populationFactor is sqrt(pi*pj) scaled by the larger population, bounded to
// [0,1]. Larger catchment areas on both ends pull the factor up.
func populationFactor(pi, pj float64) float64 {
	return math.Sqrt(pi*pj) / math.Max(pi, pj)
}

// economicFactor is the logistic of the log economic similarity ratio between
// the PLI-adjusted GDP per capita of the two endpoints. The epsilon guards
// the logarithm when the ratio collapses.
func economicFactor(origin, dest Indicators) float64 {
	adjOrigin := origin.GDPPerCapita / origin.PriceLevelIndex
	adjDest := dest.GDPPerCapita / dest.PriceLevelIndex
	esr := adjOrigin / adjDest
	return 1 / (1 + math.Exp(-math.Log(esr+1e-5)))
}

// tourismFactor mirrors populationFactor over tourism expenditure.
func tourismFactor(ti, tj float64) float64 {
	return math.Sqrt(ti*tj) / math.Max(ti, tj)
}

// distanceFactor is the log-normal density at the route distance normalised
// by the density at the scale distance, so the factor peaks at 1 for routes
// near the sweet spot and decays for very short or very long sectors.
func (e Estimator) distanceFactor(distanceKm float64) float64 {
	if distanceKm <= 0 {
		return 0
	}
	ref := e.dist.Prob(math.Exp(e.dist.Mu))
	if ref == 0 {
		return 0
	}
	return math.Min(e.dist.Prob(distanceKm)/ref, 1)
}

// jetlagDamping shaves premium-cabin demand as the time-zone offset grows.
func (e Estimator) jetlagDamping(tzDelta float64) float64 {
	damp := 1 - e.weights.JetlagDamping*math.Abs(tzDelta)
	floor := 1 - 8*e.weights.JetlagDamping
	if floor < 0 {
		floor = 0
	}
	return math.Max(damp, floor)
}

func floorPax(v float64) int {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	return int(math.Floor(v))
}

// RouteResult pairs one route's estimate with the error that excluded it.
type RouteResult struct {
	RouteID  string
	Estimate model.DemandEstimate
	Err      error
}

// EstimateAll evaluates every route in the snapshot for every day of the
// horizon, fanning the per-route work out across goroutines. Results are
// merged and sorted by route then day; routes with missing indicators carry
// their error instead of a silent zero estimate.
func (e Estimator) EstimateAll(snap *refdata.Snapshot, horizon model.Horizon, set IndicatorSet) []RouteResult {
	routes := snap.RouteList()
	results := make([]RouteResult, 0, len(routes)*horizon.Days)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, r := range routes {
		wg.Add(1)
		go func(r model.Route) {
			defer wg.Done()
			local := e.estimateRoute(snap, r, horizon, set)
			mu.Lock()
			results = append(results, local...)
			mu.Unlock()
		}(r)
	}
	wg.Wait()

	sort.Slice(results, func(i, j int) bool {
		if results[i].RouteID != results[j].RouteID {
			return results[i].RouteID < results[j].RouteID
		}
		return results[i].Estimate.Day.Before(results[j].Estimate.Day)
	})
	return results
}

func (e Estimator) estimateRoute(snap *refdata.Snapshot, r model.Route, horizon model.Horizon, set IndicatorSet) []RouteResult {
	hub, dest, err := snap.RouteEndpoints(r)
	if err != nil {
		return []RouteResult{{RouteID: r.ID(), Err: err}}
	}
	origin, err := set.Lookup(hub.ICAO)
	if err != nil {
		return []RouteResult{{RouteID: r.ID(), Err: err}}
	}
	target, err := set.Lookup(dest.ICAO)
	if err != nil {
		return []RouteResult{{RouteID: r.ID(), Err: err}}
	}
	info := RouteInfo{
		RouteID:       r.ID(),
		DistanceKm:    r.DistanceKm,
		TimezoneDelta: model.TimezoneDelta(hub.Airport, dest.Airport),
	}
	out := make([]RouteResult, 0, horizon.Days)
	for i := 0; i < horizon.Days; i++ {
		est, err := e.Estimate(info, horizon.Day(i), origin, target)
		out = append(out, RouteResult{RouteID: r.ID(), Estimate: est, Err: err})
	}
	return out
}
