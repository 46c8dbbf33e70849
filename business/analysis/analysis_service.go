package analysis

import (
	"sort"

	"recsim/business/matrices"
	"recsim/domain"
)

// Params configures the established-population pass.
type Params struct {
	// TopN is how many most-reviewed goods count as "popular".
	TopN int

	// WellServed is the fraction of a user's own optimal utility they must
	// reach to count as well served. The same cutoff defines the "optimal
	// users" subset for the restricted popularity metrics.
	WellServed float64
}

// Established computes the post-hoc metrics over the frozen matrices of a
// finished run. Every ratio carries an explicit undefined marker when its
// denominator is zero; undefined is never folded into an average.
func Established(users []*domain.User, store *matrices.Store, p Params) map[string]domain.Metric {
	out := make(map[string]domain.Metric)

	optimalTotal, actualTotal := 0.0, 0.0
	wellServed, zeroConsumption := 0, 0
	optimalUsers := make([]*domain.User, 0, len(users))

	for _, u := range users {
		optimal := u.OptimalUtility(store.UtilityMatrix().Row(u.Index))
		optimalTotal += optimal
		actualTotal += u.ActualUtility

		if len(u.Consumed) == 0 {
			zeroConsumption++
			continue
		}
		if u.ActualUtility >= p.WellServed*optimal {
			wellServed++
			optimalUsers = append(optimalUsers, u)
		}
	}

	out["established_optimal_utility_total"] = domain.MetricOf(optimalTotal)
	out["established_actual_utility_total"] = domain.MetricOf(actualTotal)
	out["established_utility_ratio"] = domain.Ratio(actualTotal, optimalTotal)
	out["established_zero_consumption_users"] = domain.MetricOf(float64(zeroConsumption))
	out["established_well_served_fraction"] = domain.Ratio(float64(wellServed), float64(len(users)))

	counts := store.Reviews().ReviewCounts()
	topN := TopGoods(counts, p.TopN)
	top1 := TopGoods(counts, 1)

	addPopularity(out, "established", users, store, topN, top1)
	addPopularity(out, "optimal_users", optimalUsers, store, topN, top1)

	return out
}

// addPopularity computes the popularity-concentration family for a user
// subset: touched any popular good, consumed all of them, and consumed all
// of them with every one positive in true utility for that user.
func addPopularity(
	out map[string]domain.Metric,
	prefix string,
	users []*domain.User,
	store *matrices.Store,
	topN []int,
	top1 []int,
) {
	total := float64(len(users))
	anyN, allN, allNPositive, allTop1 := 0, 0, 0, 0

	for _, u := range users {
		hits, positive := 0, true
		for _, good := range topN {
			if !u.HasConsumed(good) {
				continue
			}
			hits++
			if store.Utility(u.Index, good).True <= 0 {
				positive = false
			}
		}
		if hits > 0 {
			anyN++
		}
		if hits == len(topN) {
			allN++
			if positive {
				allNPositive++
			}
		}
		if len(top1) == 1 && u.HasConsumed(top1[0]) {
			allTop1++
		}
	}

	out[prefix+"_top_n_any_fraction"] = domain.Ratio(float64(anyN), total)
	out[prefix+"_top_n_all_fraction"] = domain.Ratio(float64(allN), total)
	out[prefix+"_top_n_all_positive_fraction"] = domain.Ratio(float64(allNPositive), total)
	out[prefix+"_top1_fraction"] = domain.Ratio(float64(allTop1), total)
}

// TopGoods returns the n most-reviewed goods, most first. Ties break on the
// lower good index so results are reproducible.
func TopGoods(counts []int, n int) []int {
	return rankGoods(counts, n, func(a, b int) bool { return counts[a] > counts[b] })
}

// BottomGoods returns the n least-reviewed goods, least first.
func BottomGoods(counts []int, n int) []int {
	return rankGoods(counts, n, func(a, b int) bool { return counts[a] < counts[b] })
}

func rankGoods(counts []int, n int, better func(a, b int) bool) []int {
	order := make([]int, len(counts))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if counts[a] != counts[b] {
			return better(a, b)
		}
		return a < b
	})
	if n > len(order) {
		n = len(order)
	}
	return order[:n]
}
