package domain

import "sort"

// User is one member of the simulated population. Established users are
// identified by their row index; cold-start users carry a synthetic ID and
// an index of -1 so they never collide with an established row.
type User struct {
	Index int
	ID    string

	Budget        float64
	ActualUtility float64

	// OfferedThisTick holds goods recommended (consumed or rejected) during
	// the current tick. It is cleared at every tick boundary, so rejections
	// are forgotten across ticks.
	OfferedThisTick map[int]struct{}

	// Consumed holds every good the user ever consumed. Kept in lockstep
	// with the user's review row.
	Consumed map[int]struct{}
}

func NewUser(index int, budget float64) *User {
	return &User{
		Index:           index,
		Budget:          budget,
		OfferedThisTick: make(map[int]struct{}),
		Consumed:        make(map[int]struct{}),
	}
}

// ResetForTick restores the budget and clears per-tick state. Consumed goods,
// accumulated utility and reviews persist across ticks.
func (u *User) ResetForTick(budget float64) {
	u.Budget = budget
	u.OfferedThisTick = make(map[int]struct{})
}

func (u *User) Offered(good int) bool {
	_, ok := u.OfferedThisTick[good]
	return ok
}

func (u *User) HasConsumed(good int) bool {
	_, ok := u.Consumed[good]
	return ok
}

// OptimalUtility is the utility the user would have gained by consuming the
// k goods with the highest true utility, where k is the number of goods the
// user actually consumed. Derived on demand, never accumulated.
func (u *User) OptimalUtility(utilities []Utility) float64 {
	k := len(u.Consumed)
	if k == 0 {
		return 0
	}
	values := make([]float64, len(utilities))
	for i, c := range utilities {
		values[i] = c.True
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(values)))
	total := 0.0
	for i := 0; i < k && i < len(values); i++ {
		total += values[i]
	}
	return total
}
