package analysis

import (
	"math/rand"
	"sort"

	"recsim/business/agent"
	"recsim/business/matrices"
	"recsim/domain"
)

// Reference builds the perfect-model population: every user consumes exactly
// the goods with the highest true utility for them, as many as the budget
// could have paid for across the whole run. The popularity-concentration
// metrics over this population show how concentrated consumption would be
// without the recommender in the loop.
func Reference(
	store *matrices.Store,
	ticks int,
	startingBudget, searchPrice, consumePrice float64,
	rate agent.RatingFunc,
	topN int,
	rng *rand.Rand,
) map[string]domain.Metric {
	perTick := int(startingBudget / (searchPrice + consumePrice))
	k := ticks * perTick

	n := store.N()
	refReviews := domain.NewReviewMatrix(n)
	refUsers := make([]*domain.User, n)

	for i := 0; i < n; i++ {
		u := domain.NewUser(i, startingBudget)
		refUsers[i] = u

		for _, good := range topUtilityGoods(store.UtilityMatrix().Row(i), k) {
			util := store.Utility(i, good)
			u.Consumed[good] = struct{}{}
			u.ActualUtility += util.True
			// Seeding a fresh matrix; a duplicate is impossible here.
			_ = refReviews.Record(i, good, rate(util.True, rng))
		}
	}

	counts := refReviews.ReviewCounts()
	out := make(map[string]domain.Metric)
	addPopularity(out, "reference", refUsers, store, TopGoods(counts, topN), TopGoods(counts, 1))
	return out
}

func topUtilityGoods(row []domain.Utility, k int) []int {
	if k > len(row) {
		k = len(row)
	}
	order := make([]int, len(row))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return row[order[i]].True > row[order[j]].True
	})
	return order[:k]
}
