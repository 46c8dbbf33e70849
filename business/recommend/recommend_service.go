package recommend

import (
	"recsim/business/similarity"
	"recsim/domain"
)

// Service selects a single good to present to a user from the reviews of
// similarity-ordered neighbors.
type Service struct {
	neutral float64
}

// NewService builds a policy. neutral is the rating scale's midpoint; only
// reviews strictly above it count as positive endorsements.
func NewService(neutral float64) *Service {
	return &Service{neutral: neutral}
}

// Recommend picks the candidate good with the highest aggregate positive
// review score across neighbors, weighted by 1/rank of the endorsing
// neighbor. Goods already offered this tick and goods the target already
// consumed are excluded; rejections from earlier ticks are deliberately
// forgotten. Ties break on the lowest good index. Selection contains no
// randomness: identical inputs always produce the identical good.
func (s *Service) Recommend(
	neighbors []similarity.Neighbor,
	reviews *domain.ReviewMatrix,
	offeredThisTick map[int]struct{},
	consumed map[int]struct{},
) (int, bool) {
	if len(neighbors) == 0 {
		return 0, false
	}

	scores := make(map[int]float64)
	for rank, nb := range neighbors {
		weight := 1.0 / float64(rank+1)
		for good, score := range reviews.Row(nb.User) {
			if score <= s.neutral {
				continue
			}
			if _, ok := offeredThisTick[good]; ok {
				continue
			}
			if _, ok := consumed[good]; ok {
				continue
			}
			scores[good] += weight * score
		}
	}

	best, found := 0, false
	for good, score := range scores {
		if !found || score > scores[best] || (score == scores[best] && good < best) {
			best, found = good, true
		}
	}
	return best, found
}

// MostPopular returns the good with the most review entries that is neither
// offered this tick nor already consumed. Used as the cold-start fallback
// when a user has no overlapping neighbors yet.
func MostPopular(
	reviews *domain.ReviewMatrix,
	offeredThisTick map[int]struct{},
	consumed map[int]struct{},
) (int, bool) {
	counts := reviews.ReviewCounts()
	best, bestCount, found := 0, -1, false
	for good, count := range counts {
		if _, ok := offeredThisTick[good]; ok {
			continue
		}
		if _, ok := consumed[good]; ok {
			continue
		}
		if count > bestCount {
			best, bestCount, found = good, count, true
		}
	}
	return best, found
}
