package matrices

import (
	"math/rand"

	"recsim/domain"
)

// DistParams describes the per-cell utility distribution. True utility is
// drawn from N(Mean, Std); the observed expected utility is the true value
// plus N(0, NoiseStd) obfuscation, both fixed at generation time.
type DistParams struct {
	Mean     float64
	Std      float64
	NoiseStd float64
}

// Store owns the two matrices of one run: the mutable, append-only review
// matrix and the immutable utility matrix. Each run gets its own Store;
// nothing here is shared across runs, so no locking is needed as long as
// users within a run are processed sequentially.
type Store struct {
	n       int
	dist    DistParams
	reviews *domain.ReviewMatrix
	utility *domain.UtilityMatrix
}

func NewStore(n int, dist DistParams, rng *rand.Rand) *Store {
	return &Store{
		n:       n,
		dist:    dist,
		reviews: domain.NewReviewMatrix(n),
		utility: generateUtilityMatrix(n, dist, rng),
	}
}

func generateUtilityMatrix(n int, dist DistParams, rng *rand.Rand) *domain.UtilityMatrix {
	cells := make([][]domain.Utility, n)
	for i := range cells {
		cells[i] = generateUtilityRow(n, dist, rng)
	}
	return domain.NewUtilityMatrix(cells)
}

func generateUtilityRow(n int, dist DistParams, rng *rand.Rand) []domain.Utility {
	row := make([]domain.Utility, n)
	for j := range row {
		trueUtil := dist.Mean + dist.Std*rng.NormFloat64()
		expected := trueUtil
		if dist.NoiseStd > 0 {
			expected += dist.NoiseStd * rng.NormFloat64()
		}
		row[j] = domain.Utility{True: trueUtil, Expected: expected}
	}
	return row
}

func (s *Store) N() int { return s.n }

func (s *Store) Reviews() *domain.ReviewMatrix { return s.reviews }

func (s *Store) UtilityMatrix() *domain.UtilityMatrix { return s.utility }

// NewUtilityRow draws a fresh utility row from the same distribution the
// store was built with. Used for cold-start users.
func (s *Store) NewUtilityRow(rng *rand.Rand) []domain.Utility {
	return generateUtilityRow(s.n, s.dist, rng)
}

// RecordReview writes a review score. Duplicate writes surface as
// domain.AlreadyReviewedError and are never silently ignored.
func (s *Store) RecordReview(user, good int, score float64) error {
	return s.reviews.Record(user, good, score)
}

// ReviewRow returns the user's review entries; read-only for callers.
func (s *Store) ReviewRow(user int) map[int]float64 {
	return s.reviews.Row(user)
}

// ReviewsForUser returns a copy of the user's existing review entries.
func (s *Store) ReviewsForUser(user int) map[int]float64 {
	row := s.reviews.Row(user)
	out := make(map[int]float64, len(row))
	for good, score := range row {
		out[good] = score
	}
	return out
}

func (s *Store) Utility(user, good int) domain.Utility {
	return s.utility.At(user, good)
}
