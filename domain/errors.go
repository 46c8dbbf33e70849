package domain

import "fmt"

// AlreadyReviewedError reports a duplicate review write for a (user, good)
// pair. Reviews are write-once, so hitting this means the scheduler let a
// user consume the same good twice; the run is treated as failed.
type AlreadyReviewedError struct {
	User int
	Good int
}

func (e *AlreadyReviewedError) Error() string {
	return fmt.Sprintf("review already recorded for user %d good %d", e.User, e.Good)
}
