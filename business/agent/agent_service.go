package agent

import (
	"math/rand"

	"recsim/business/recommend"
	"recsim/business/similarity"
	"recsim/domain"
)

// MatrixStore is the slice of the run's matrix state the agent needs. The
// established population uses matrices.Store directly; the cold-start
// evaluator substitutes a wrapper that keeps the new user's reviews in a
// local row and never mutates the shared matrix.
type MatrixStore interface {
	Reviews() *domain.ReviewMatrix
	ReviewRow(user int) map[int]float64
	Utility(user, good int) domain.Utility
	RecordReview(user, good int, score float64) error
}

// FallbackFunc supplies a candidate when the similarity engine finds no
// neighbors. Nil means the strict rule applies: no neighbors, no candidate.
type FallbackFunc func(reviews *domain.ReviewMatrix, offeredThisTick, consumed map[int]struct{}) (int, bool)

// TickStats reports what one user did during one tick.
type TickStats struct {
	Searches int
	Consumed int
	Rejected int

	// Offers lists goods presented while the user could still afford to
	// consume; the cold-start pass counts recommendation frequency on these.
	Offers []int
}

// Service runs one user's per-tick decision loop:
// Idle -> Searching -> {Consuming | Rejecting} -> Idle.
type Service struct {
	store    MatrixStore
	similar  *similarity.Service
	policy   *recommend.Service
	decide   ThresholdFunc
	rate     RatingFunc
	fallback FallbackFunc

	searchPrice  float64
	consumePrice float64
}

func NewService(
	store MatrixStore,
	similar *similarity.Service,
	policy *recommend.Service,
	decide ThresholdFunc,
	rate RatingFunc,
	searchPrice float64,
	consumePrice float64,
) *Service {
	return &Service{
		store:        store,
		similar:      similar,
		policy:       policy,
		decide:       decide,
		rate:         rate,
		searchPrice:  searchPrice,
		consumePrice: consumePrice,
	}
}

// WithFallback returns a copy of the service that consults fb when the
// neighbor list is empty.
func (s *Service) WithFallback(fb FallbackFunc) *Service {
	clone := *s
	clone.fallback = fb
	return &clone
}

// RunTick drives the user until the tick ends: either the budget can no
// longer cover a search, or no candidate exists. Insufficient budget and
// NoCandidate are normal outcomes, not errors. The only error path is a
// duplicate review write, which poisons the whole run.
func (s *Service) RunTick(u *domain.User, rng *rand.Rand) (TickStats, error) {
	var stats TickStats

	for {
		if u.Budget < s.searchPrice {
			return stats, nil
		}

		// The search price is committed before the outcome is known.
		u.Budget -= s.searchPrice
		stats.Searches++

		neighbors := s.similar.Neighbors(u.Index, s.store.ReviewRow(u.Index), s.store.Reviews())
		good, ok := s.policy.Recommend(neighbors, s.store.Reviews(), u.OfferedThisTick, u.Consumed)
		if !ok && s.fallback != nil {
			good, ok = s.fallback(s.store.Reviews(), u.OfferedThisTick, u.Consumed)
		}
		if !ok {
			return stats, nil
		}

		canAfford := u.Budget >= s.consumePrice
		if canAfford {
			stats.Offers = append(stats.Offers, good)
		}

		util := s.store.Utility(u.Index, good)
		if canAfford && s.decide(util.Expected) {
			u.Budget -= s.consumePrice
			u.OfferedThisTick[good] = struct{}{}
			u.Consumed[good] = struct{}{}

			score := s.rate(util.True, rng)
			if err := s.store.RecordReview(u.Index, good, score); err != nil {
				return stats, err
			}

			u.ActualUtility += util.True
			stats.Consumed++
			continue
		}

		// Rejected: remembered for this tick only, never reviewed.
		u.OfferedThisTick[good] = struct{}{}
		stats.Rejected++
	}
}
