// Package review folds new ratings into a specialist's running average.
package review

import (
	"errors"
	"math"
	"strings"
	"time"

	"tradelink/models"

	"github.com/google/uuid"
)

const (
	DefaultReviewer = "Anonymous Client"
	DefaultComment  = "No comment provided."

	MinRating = 1
	MaxRating = 5
)

var ErrInvalidRating = errors.New("rating must be between 1 and 5")

// Input is a single review submission.
type Input struct {
	Rating   int    `json:"rating" binding:"required"`
	Comment  string `json:"comment,omitempty"`
	Reviewer string `json:"reviewer,omitempty"`
}

// Apply returns a copy of rec with the rating folded into its average, the
// review count incremented and a new comment prepended.
func Apply(rec models.Specialist, in Input, now time.Time) (models.Specialist, error) {
	if in.Rating < MinRating || in.Rating > MaxRating {
		return rec, ErrInvalidRating
	}

	// A corrupt negative count would divide by zero; treat it as no reviews.
	prior := rec.Reviews
	if prior < 0 {
		prior = 0
	}
	out := rec.Clone()
	count := float64(prior)
	out.Rating = Round1((rec.Rating*count + float64(in.Rating)) / (count + 1))
	out.Reviews = prior + 1

	comment := models.ReviewComment{
		ID:      uuid.New().String(),
		User:    orDefault(in.Reviewer, DefaultReviewer),
		Rating:  in.Rating,
		Comment: orDefault(in.Comment, DefaultComment),
		Date:    now.Format("2006-01-02"),
	}
	out.Comments = append([]models.ReviewComment{comment}, out.Comments...)
	return out, nil
}

// Round1 rounds to one decimal place, halves away from zero.
func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}

func orDefault(v, def string) string {
	if s := strings.TrimSpace(v); s != "" {
		return s
	}
	return def
}
