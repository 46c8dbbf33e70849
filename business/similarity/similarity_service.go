package similarity

import (
	"sort"

	"recsim/domain"
)

// Metric scores how alike two users' review rows are. Implementations must
// be symmetric, pure, and defined when the overlap is a single good. The
// engine only calls a metric for pairs with at least one shared review.
type Metric func(a, b map[int]float64) float64

// Neighbor is one similar user, scored against the target.
type Neighbor struct {
	User  int
	Score float64
}

type Service struct {
	metric Metric
}

func NewService(metric Metric) *Service {
	return &Service{metric: metric}
}

// Neighbors returns every user sharing at least one reviewed good with the
// target row, ordered by similarity descending. Users with no overlap are
// excluded rather than scored zero. Ties break on ascending user index so
// results are reproducible. The target row is passed explicitly so that
// users outside the matrix (cold-start) can be scored against it; target is
// the row index to skip, -1 for none.
func (s *Service) Neighbors(target int, row map[int]float64, reviews *domain.ReviewMatrix) []Neighbor {
	if len(row) == 0 {
		return nil
	}

	neighbors := make([]Neighbor, 0, reviews.N())
	for u := 0; u < reviews.N(); u++ {
		if u == target {
			continue
		}
		other := reviews.Row(u)
		if !overlaps(row, other) {
			continue
		}
		neighbors = append(neighbors, Neighbor{User: u, Score: s.metric(row, other)})
	}

	sort.SliceStable(neighbors, func(i, j int) bool {
		if neighbors[i].Score != neighbors[j].Score {
			return neighbors[i].Score > neighbors[j].Score
		}
		return neighbors[i].User < neighbors[j].User
	})

	return neighbors
}

func overlaps(a, b map[int]float64) bool {
	if len(b) < len(a) {
		a, b = b, a
	}
	for good := range a {
		if _, ok := b[good]; ok {
			return true
		}
	}
	return false
}
