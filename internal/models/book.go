package models

import "math"

// Book represents a catalogue entry that readers can review.
type Book struct {
	// ID is the unique identifier for the book (UUID format).
	ID string

	// Title is the book's title.
	Title string

	// Author is the book's author, free text.
	Author string

	// Genre is a coarse category (e.g. "Fantasy", "Science Fiction").
	Genre string

	// PublishedYear is the year of first publication.
	PublishedYear int

	// AvgRating is the mean of the book's review ratings, filled in by
	// storage on read. Zero when the book has no reviews.
	AvgRating float64

	// CreatedAt and UpdatedAt are Unix timestamps maintained by storage.
	CreatedAt int64
	UpdatedAt int64
}

// AverageRating returns the arithmetic mean of ratings rounded to one
// decimal place, or 0 when there are no ratings.
func AverageRating(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	mean := float64(sum) / float64(len(ratings))
	return math.Round(mean*10) / 10
}
