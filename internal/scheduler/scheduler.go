// Package scheduler implements FSRS-style spaced repetition scheduling.
// Review is a pure function over a review record so that callers control the
// clock and persistence.
package scheduler

import (
	"fmt"
	"math"
	"time"
)

// FSRS v4 default weights.
const (
	weight0  = 0.4072
	weight1  = 1.1829
	weight4  = 7.2102
	weight5  = 0.5316
	weight6  = 1.0651
	weight7  = 0.0234
	weight8  = 1.616
	weight9  = 0.1544
	weight10 = 1.0824
	weight11 = 1.9813
	weight12 = 0.0953

	// Target recall probability at the scheduled due date.
	requestRetention = 0.9
)

// State is the learning state of a card.
type State string

const (
	StateNew        State = "new"
	StateLearning   State = "learning"
	StateReview     State = "review"
	StateRelearning State = "relearning"
)

// Rating grades one review of a card.
type Rating int

const (
	// RatingAgain marks a failed review.
	RatingAgain Rating = 1
	// RatingHard marks a correct review that took real effort.
	RatingHard Rating = 2
	// RatingGood marks a normal correct review.
	RatingGood Rating = 3
	// RatingEasy marks an effortless correct review.
	RatingEasy Rating = 4
)

// Validate checks that the rating is one of the four defined grades.
func (r Rating) Validate() error {
	if r < RatingAgain || r > RatingEasy {
		return fmt.Errorf("rating %d out of range [1, 4]", r)
	}
	return nil
}

// Record is the scheduling state of a single card.
type Record struct {
	CardID     string    `json:"card_id" db:"card_id"`
	State      State     `json:"state" db:"state"`
	Due        time.Time `json:"due" db:"due"`
	Stability  float64   `json:"stability" db:"stability"`
	Difficulty float64   `json:"difficulty" db:"difficulty"`
	LastReview time.Time `json:"last_review" db:"last_review"`
	Reviews    int       `json:"reviews" db:"reviews"`
	Lapses     int       `json:"lapses" db:"lapses"`
}

// NewRecord creates the scheduling state of a card that has never been
// reviewed. The card is due immediately.
func NewRecord(cardID string, now time.Time) Record {
	return Record{
		CardID:     cardID,
		State:      StateNew,
		Due:        now,
		Stability:  1.0,
		Difficulty: 5.0,
	}
}

// IsDue reports whether the card should be reviewed at the given time.
func (r Record) IsDue(now time.Time) bool {
	return !now.Before(r.Due)
}

// Log is the immutable trace of one review, kept for history and forecasts.
type Log struct {
	CardID        string    `json:"card_id" db:"card_id"`
	Rating        Rating    `json:"rating" db:"rating"`
	State         State     `json:"state" db:"state"`
	ElapsedDays   int       `json:"elapsed_days" db:"elapsed_days"`
	ScheduledDays int       `json:"scheduled_days" db:"scheduled_days"`
	ReviewedAt    time.Time `json:"reviewed_at" db:"reviewed_at"`
}

// Review applies one graded review to a record at the given time and returns
// the updated record together with the log entry of the review. The input
// record is never mutated.
func Review(r Record, rating Rating, now time.Time) (Record, Log, error) {
	if err := rating.Validate(); err != nil {
		return Record{}, Log{}, err
	}

	elapsed := daysBetween(r.LastReview, now)
	scheduled := 0
	if !r.Due.IsZero() {
		scheduled = daysBetween(r.LastReview, r.Due)
	}

	log := Log{
		CardID:        r.CardID,
		Rating:        rating,
		State:         r.State,
		ElapsedDays:   elapsed,
		ScheduledDays: scheduled,
		ReviewedAt:    now,
	}

	var next Record
	switch r.State {
	case StateNew:
		next = reviewNew(r, rating, now)
	case StateLearning, StateRelearning:
		next = reviewLearning(r, rating, now)
	case StateReview:
		next = reviewSettled(r, rating, now)
	default:
		return Record{}, Log{}, fmt.Errorf("record for card %s has unsupported state %q", r.CardID, r.State)
	}

	next.LastReview = now
	next.Reviews = r.Reviews + 1
	return next, log, nil
}

func reviewNew(r Record, rating Rating, now time.Time) Record {
	next := r
	next.Difficulty = initialDifficulty(rating)

	switch rating {
	case RatingAgain:
		next.State = StateLearning
		next.Due = now.Add(1 * time.Minute)
	case RatingHard:
		next.State = StateLearning
		next.Due = now.Add(5 * time.Minute)
	case RatingGood:
		next.State = StateLearning
		next.Due = now.Add(10 * time.Minute)
	case RatingEasy:
		next.State = StateReview
		next.Stability = initialStability(rating)
		next.Due = now.AddDate(0, 0, interval(next.Stability))
	}
	return next
}

func reviewLearning(r Record, rating Rating, now time.Time) Record {
	next := r

	switch rating {
	case RatingAgain:
		next.State = StateLearning
		next.Due = now.Add(1 * time.Minute)
	case RatingHard:
		next.State = StateLearning
		next.Due = now.Add(5 * time.Minute)
	case RatingGood, RatingEasy:
		next.State = StateReview
		next.Stability = initialStability(rating)
		next.Due = now.AddDate(0, 0, interval(next.Stability))
	}
	return next
}

func reviewSettled(r Record, rating Rating, now time.Time) Record {
	next := r

	if rating == RatingAgain {
		next.Lapses++
		next.State = StateRelearning
		next.Due = now.Add(5 * time.Minute)
		return next
	}

	next.State = StateReview
	next.Stability = nextStability(r.Difficulty, r.Stability, rating)
	next.Difficulty = nextDifficulty(r.Difficulty, rating)
	next.Due = now.AddDate(0, 0, interval(next.Stability))
	return next
}

func initialDifficulty(rating Rating) float64 {
	return math.Max(weight4-weight5*float64(rating-3), 1.0)
}

func initialStability(rating Rating) float64 {
	return math.Max(weight0+weight1*float64(rating-1), 0.1)
}

func nextStability(difficulty, stability float64, rating Rating) float64 {
	hardPenalty := 1.0
	if rating == RatingHard {
		hardPenalty = weight6
	}
	easyBonus := 1.0
	if rating == RatingEasy {
		easyBonus = weight7
	}
	return stability * (1 + math.Exp(weight8)*
		(11-difficulty)*
		math.Pow(stability, weight9)*
		(math.Exp((1-requestRetention)*weight10)-1)*
		hardPenalty*
		easyBonus)
}

func nextDifficulty(difficulty float64, rating Rating) float64 {
	next := difficulty - weight11*(float64(rating)-3)
	// mean reversion towards the neutral difficulty
	next += weight12 * (5.0 - next)
	return math.Max(math.Min(next, 10.0), 1.0)
}

// interval converts a stability into whole days until the next review.
func interval(stability float64) int {
	days := stability * math.Log(requestRetention) / math.Log(0.9)
	return int(math.Max(math.Round(days), 1))
}

func daysBetween(from, to time.Time) int {
	if from.IsZero() {
		return 0
	}
	days := int(to.Sub(from).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
