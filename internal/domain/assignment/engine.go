package assignment

import (
	"errors"
	"sort"

	"petlodge/internal/domain/suites"
)

var (
	// ErrInsufficientCapacity is the business outcome for "no combination of
	// free suites can house this many pets". Distinct from an empty candidate
	// pool caused by everything being booked for the dates.
	ErrInsufficientCapacity = errors.New("assignment: not enough suite capacity for the pet count")

	ErrNoPets  = errors.New("assignment: at least one pet is required")
	ErrNoUnits = errors.New("assignment: candidate suite pool is empty")
)

// Unit is a candidate suite already known to be free for the requested
// dates. Only the fields the engine consumes are carried.
type Unit struct {
	ID           suites.SuiteID
	Capacity     int
	LocationCode string
}

// Options tune the placement strategy. The zero value distributes one pet
// per suite in suite-id order.
type Options struct {
	// PreferSameSuite co-locates all pets in the single free suite that
	// wastes the least capacity; falls back to distribution when none fits.
	PreferSameSuite bool
	// PreferNearby minimizes physical spread during distribution by chasing
	// the longest shared location-code prefix with already chosen suites.
	PreferNearby bool
}

// Result maps each chosen suite to the pets housed in it.
type Result struct {
	Assignments map[suites.SuiteID][]string
}

// Assign places pets into candidate suites. The same inputs always produce
// the same assignment: candidates are ordered by suite id before any
// strategy runs, and every tie breaks on id ascending. A request that cannot
// be fully satisfied returns ErrInsufficientCapacity, never a partial
// placement.
func Assign(petIDs []string, units []Unit, opts Options) (Result, error) {
	if len(petIDs) == 0 {
		return Result{}, ErrNoPets
	}
	if len(units) == 0 {
		return Result{}, ErrNoUnits
	}

	pool := make([]Unit, len(units))
	copy(pool, units)
	sort.Slice(pool, func(i, j int) bool { return pool[i].ID < pool[j].ID })

	if opts.PreferSameSuite {
		if unit, ok := tightestFit(pool, len(petIDs)); ok {
			return Result{Assignments: map[suites.SuiteID][]string{
				unit.ID: append([]string(nil), petIDs...),
			}}, nil
		}
		// No single suite fits the whole group; distribute instead.
	}

	return distribute(petIDs, pool, opts.PreferNearby)
}

// tightestFit selects the smallest-capacity unit that still holds all pets,
// minimizing wasted capacity. Ties resolve to the lowest suite id because
// the pool is pre-sorted.
func tightestFit(pool []Unit, petCount int) (Unit, bool) {
	var best Unit
	found := false
	for _, unit := range pool {
		if unit.Capacity < petCount {
			continue
		}
		if !found || unit.Capacity < best.Capacity {
			best = unit
			found = true
		}
	}
	return best, found
}

// distribute houses one pet per suite. Partial placement would leave a pet
// unhoused, so a short pool fails outright.
func distribute(petIDs []string, pool []Unit, preferNearby bool) (Result, error) {
	if len(petIDs) > len(pool) {
		return Result{}, ErrInsufficientCapacity
	}

	order := pool
	if preferNearby {
		order = nearbyOrder(pool, len(petIDs))
	}

	assignments := make(map[suites.SuiteID][]string, len(petIDs))
	for i, petID := range petIDs {
		unit := order[i]
		assignments[unit.ID] = append(assignments[unit.ID], petID)
	}
	return Result{Assignments: assignments}, nil
}

// nearbyOrder greedily picks suites that cluster by location code: the first
// pick is the lowest suite id, each next pick maximizes the longest common
// prefix against any suite already chosen.
func nearbyOrder(pool []Unit, needed int) []Unit {
	remaining := make([]Unit, len(pool))
	copy(remaining, pool)
	chosen := make([]Unit, 0, needed)

	for len(chosen) < needed {
		bestIdx := 0
		if len(chosen) > 0 {
			bestScore := -1
			for i, candidate := range remaining {
				score := 0
				for _, picked := range chosen {
					if p := commonPrefixLen(candidate.LocationCode, picked.LocationCode); p > score {
						score = p
					}
				}
				if score > bestScore {
					bestScore = score
					bestIdx = i
				}
			}
		}
		chosen = append(chosen, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}
	return chosen
}

func commonPrefixLen(a, b string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}
