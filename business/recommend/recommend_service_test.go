package recommend

import (
	"testing"

	"recsim/business/similarity"
	"recsim/domain"
)

func seedReviews(t *testing.T, m *domain.ReviewMatrix, rows map[int]map[int]float64) {
	t.Helper()
	for user, row := range rows {
		for good, score := range row {
			if err := m.Record(user, good, score); err != nil {
				t.Fatalf("seed (%d,%d): %v", user, good, err)
			}
		}
	}
}

func set(goods ...int) map[int]struct{} {
	out := make(map[int]struct{}, len(goods))
	for _, g := range goods {
		out[g] = struct{}{}
	}
	return out
}

func TestRecommendRankWeighting(t *testing.T) {
	reviews := domain.NewReviewMatrix(4)
	seedReviews(t, reviews, map[int]map[int]float64{
		1: {0: 1},
		2: {3: 1},
	})

	// good 0 endorsed by the closest neighbor (weight 1), good 3 by the
	// second (weight 1/2): rank decides
	svc := NewService(0)
	neighbors := []similarity.Neighbor{{User: 1, Score: 5}, {User: 2, Score: 1}}

	good, ok := svc.Recommend(neighbors, reviews, set(), set())
	if !ok || good != 0 {
		t.Fatalf("recommend = %d,%v, want good 0", good, ok)
	}
}

func TestRecommendIgnoresNonPositiveReviews(t *testing.T) {
	reviews := domain.NewReviewMatrix(3)
	seedReviews(t, reviews, map[int]map[int]float64{
		1: {0: -1, 1: 0, 2: 1},
	})

	svc := NewService(0)
	neighbors := []similarity.Neighbor{{User: 1, Score: 1}}

	good, ok := svc.Recommend(neighbors, reviews, set(), set())
	if !ok || good != 2 {
		t.Fatalf("recommend = %d,%v, want good 2 (only positive endorsement)", good, ok)
	}
}

func TestRecommendExcludesOfferedAndConsumed(t *testing.T) {
	reviews := domain.NewReviewMatrix(4)
	seedReviews(t, reviews, map[int]map[int]float64{
		1: {0: 1, 1: 1, 2: 1},
	})

	svc := NewService(0)
	neighbors := []similarity.Neighbor{{User: 1, Score: 1}}

	good, ok := svc.Recommend(neighbors, reviews, set(0), set(1))
	if !ok || good != 2 {
		t.Fatalf("recommend = %d,%v, want good 2", good, ok)
	}

	if _, ok := svc.Recommend(neighbors, reviews, set(0, 2), set(1)); ok {
		t.Fatal("all candidates excluded, want no recommendation")
	}
}

func TestRecommendDeterministicTieBreak(t *testing.T) {
	reviews := domain.NewReviewMatrix(4)
	seedReviews(t, reviews, map[int]map[int]float64{
		1: {3: 1, 2: 1},
	})

	svc := NewService(0)
	neighbors := []similarity.Neighbor{{User: 1, Score: 1}}

	for i := 0; i < 50; i++ {
		good, ok := svc.Recommend(neighbors, reviews, set(), set())
		if !ok || good != 2 {
			t.Fatalf("iteration %d: tie broke to %d,%v, want lowest good 2", i, good, ok)
		}
	}
}

func TestRecommendNoNeighbors(t *testing.T) {
	reviews := domain.NewReviewMatrix(2)
	svc := NewService(0)
	if _, ok := svc.Recommend(nil, reviews, set(), set()); ok {
		t.Fatal("no neighbors must mean no candidate")
	}
}

func TestMostPopular(t *testing.T) {
	reviews := domain.NewReviewMatrix(4)
	seedReviews(t, reviews, map[int]map[int]float64{
		0: {2: 1},
		1: {2: -1, 3: 1},
	})

	good, ok := MostPopular(reviews, set(), set())
	if !ok || good != 2 {
		t.Fatalf("most popular = %d,%v, want good 2", good, ok)
	}

	// popularity counts entries, not sentiment; excluded goods fall through
	good, ok = MostPopular(reviews, set(), set(2))
	if !ok || good != 3 {
		t.Fatalf("most popular after exclusion = %d,%v, want good 3", good, ok)
	}

	if _, ok := MostPopular(reviews, set(0, 1), set(2, 3)); ok {
		t.Fatal("everything excluded, want no candidate")
	}
}
