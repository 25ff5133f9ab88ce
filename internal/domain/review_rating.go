package domain

// ReviewRating is the simplified four-button rating a client submits for a
// card review. Each rating maps onto the canonical 0-5 SM-2 quality scale;
// the intermediate quality values 1 and 4 are reachable only through direct
// canonical input.
type ReviewRating string

// Possible review rating values
const (
	ReviewRatingWrong ReviewRating = "wrong"
	ReviewRatingHard  ReviewRating = "hard"
	ReviewRatingGood  ReviewRating = "good"
	ReviewRatingEasy  ReviewRating = "easy"
)

// ratingQuality maps the simplified UI scale onto canonical SM-2 quality.
var ratingQuality = map[ReviewRating]int{
	ReviewRatingWrong: 0,
	ReviewRatingHard:  2,
	ReviewRatingGood:  3,
	ReviewRatingEasy:  5,
}

// Quality converts the rating to its canonical 0-5 quality value.
// Returns ErrInvalidRating for unrecognized ratings.
func (r ReviewRating) Quality() (int, error) {
	q, ok := ratingQuality[r]
	if !ok {
		return 0, ErrInvalidRating
	}
	return q, nil
}

// ValidQuality reports whether q is on the canonical 0-5 quality scale.
func ValidQuality(q int) bool {
	return q >= 0 && q <= 5
}
