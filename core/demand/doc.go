// Package demand estimates per-class passenger demand for a route and
// planning day from socio-economic indicator snapshots. Estimation is a pure
// function of its inputs so runs are deterministic and testable offline.
package demand
