// Package scheduler turns demand estimates, fleet availability and
// capability scores into a conflict-free flight schedule.
//
// The allocator is a single greedy, priority-ordered pass: demand entries are
// ranked by class-value weighted demand over distance, and each entry is
// matched to the best-scoring unit that is operational, at the hub, feasible
// for the route and free of gate conflicts. Exact fleet assignment is an
// NP-hard generalized assignment problem; the greedy pass trades the global
// optimum for predictable, explainable, fast results. Unserved demand and
// per-unit utilization are first-class outputs alongside the schedule.
package scheduler
