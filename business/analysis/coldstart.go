package analysis

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"recsim/business/agent"
	"recsim/business/matrices"
	"recsim/business/recommend"
	"recsim/business/similarity"
	"recsim/domain"
)

// ColdStartParams configures the new-user evaluation pass.
type ColdStartParams struct {
	NewUsers       int
	Ticks          int
	TopN           int
	StartingBudget float64
	SearchPrice    float64
	ConsumePrice   float64

	Similar *similarity.Service
	Policy  *recommend.Service
	Decide  agent.ThresholdFunc
	Rate    agent.RatingFunc
}

// coldStartStore routes a synthetic user's reads to the frozen established
// matrix while keeping their own reviews and utilities in local state. The
// shared matrix is never mutated by this pass.
type coldStartStore struct {
	base    *matrices.Store
	row     map[int]float64
	utilRow []domain.Utility
}

func (c *coldStartStore) Reviews() *domain.ReviewMatrix { return c.base.Reviews() }

func (c *coldStartStore) ReviewRow(int) map[int]float64 { return c.row }

func (c *coldStartStore) Utility(_, good int) domain.Utility { return c.utilRow[good] }

func (c *coldStartStore) RecordReview(user, good int, score float64) error {
	if _, ok := c.row[good]; ok {
		return &domain.AlreadyReviewedError{User: user, Good: good}
	}
	c.row[good] = score
	return nil
}

// ColdStart drives synthetic new users through the recommender against the
// frozen review matrix and reports how strongly they are steered toward the
// already-popular goods. A control cohort consuming uniformly random goods
// provides the baseline.
func ColdStart(store *matrices.Store, p ColdStartParams, rng *rand.Rand) (map[string]domain.Metric, error) {
	counts := store.Reviews().ReviewCounts()
	topN := TopGoods(counts, p.TopN)
	bottomN := BottomGoods(counts, p.TopN)

	topSet := toSet(topN)
	bottomSet := toSet(bottomN)

	var (
		topConsumed           float64
		topOffers             float64
		bottomOffers          float64
		optimalUtilityTotal   float64
		topUtilityTotal       float64
		actualUtilityTotal    float64
		controlUtilityTotal   float64
		consumingUsers        int
		controlConsumingUsers int
	)

	for i := 0; i < p.NewUsers; i++ {
		u := domain.NewUser(-1, p.StartingBudget)
		u.ID = uuid.NewString()

		cs := &coldStartStore{
			base:    store,
			row:     make(map[int]float64),
			utilRow: store.NewUtilityRow(rng),
		}

		// A brand-new user has no overlap with anyone, so without the
		// popularity fallback the strict policy would never offer anything.
		agents := agent.NewService(
			cs, p.Similar, p.Policy, p.Decide, p.Rate,
			p.SearchPrice, p.ConsumePrice,
		).WithFallback(recommend.MostPopular)

		for tick := 0; tick < p.Ticks; tick++ {
			u.ResetForTick(p.StartingBudget)
			stats, err := agents.RunTick(u, rng)
			if err != nil {
				return nil, fmt.Errorf("cold-start user %s: %w", u.ID, err)
			}
			for _, good := range stats.Offers {
				if _, ok := topSet[good]; ok {
					topOffers++
				}
				if _, ok := bottomSet[good]; ok {
					bottomOffers++
				}
			}
		}

		for _, good := range topN {
			if u.HasConsumed(good) {
				topConsumed++
			}
			topUtilityTotal += cs.utilRow[good].True
		}
		optimalUtilityTotal += u.OptimalUtility(cs.utilRow)
		actualUtilityTotal += u.ActualUtility
		if len(u.Consumed) > 0 {
			consumingUsers++
		}

		// Control: same consumption count, goods drawn uniformly at random.
		controlUtility, consumed := randomControl(cs.utilRow, len(u.Consumed), rng)
		controlUtilityTotal += controlUtility
		if consumed > 0 {
			controlConsumingUsers++
		}
	}

	users := float64(p.NewUsers)
	out := map[string]domain.Metric{
		"cold_start_top_n_consumed_fraction":    domain.Ratio(topConsumed, users*float64(len(topN))),
		"cold_start_top_bottom_offer_ratio":     domain.Ratio(topOffers, bottomOffers),
		"cold_start_top_offers":                 domain.MetricOf(topOffers),
		"cold_start_bottom_offers":              domain.MetricOf(bottomOffers),
		"cold_start_avg_optimal_utility":        domain.Ratio(optimalUtilityTotal, users),
		"cold_start_avg_top_n_utility":          domain.Ratio(topUtilityTotal, users),
		"cold_start_avg_actual_utility":         domain.Ratio(actualUtilityTotal, users),
		"cold_start_control_avg_actual_utility": domain.Ratio(controlUtilityTotal, users),
		"cold_start_consuming_users":            domain.MetricOf(float64(consumingUsers)),
		"cold_start_control_consuming_users":    domain.MetricOf(float64(controlConsumingUsers)),
	}
	return out, nil
}

func randomControl(utilRow []domain.Utility, k int, rng *rand.Rand) (float64, int) {
	if k <= 0 {
		return 0, 0
	}
	if k > len(utilRow) {
		k = len(utilRow)
	}
	total := 0.0
	for _, good := range rng.Perm(len(utilRow))[:k] {
		total += utilRow[good].True
	}
	return total, k
}

func toSet(goods []int) map[int]struct{} {
	set := make(map[int]struct{}, len(goods))
	for _, g := range goods {
		set[g] = struct{}{}
	}
	return set
}
