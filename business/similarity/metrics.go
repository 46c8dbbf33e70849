package similarity

import "math"

// SharedReactions counts goods both users liked plus goods both disliked,
// judged against the scale's neutral score. This is the default metric: it
// rewards agreement in direction and ignores goods only one side reviewed.
func SharedReactions(neutral float64) Metric {
	return func(a, b map[int]float64) float64 {
		shared := 0.0
		for good, sa := range a {
			sb, ok := b[good]
			if !ok {
				continue
			}
			if sa > neutral && sb > neutral {
				shared++
			}
			if sa < neutral && sb < neutral {
				shared++
			}
		}
		return shared
	}
}

// CenteredCosine computes cosine similarity over the shared-review subset,
// with both rows centered on the neutral score. Defined for a single shared
// good (returns ±1 or 0 depending on direction agreement).
func CenteredCosine(neutral float64) Metric {
	return func(a, b map[int]float64) float64 {
		dot, na, nb := 0.0, 0.0, 0.0
		for good, sa := range a {
			sb, ok := b[good]
			if !ok {
				continue
			}
			ca, cb := sa-neutral, sb-neutral
			dot += ca * cb
			na += ca * ca
			nb += cb * cb
		}
		if na == 0 || nb == 0 {
			return 0
		}
		return dot / (math.Sqrt(na) * math.Sqrt(nb))
	}
}
