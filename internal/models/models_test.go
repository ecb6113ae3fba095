package models

import "testing"

func TestAverageRating(t *testing.T) {
	tests := []struct {
		name    string
		ratings []int
		want    float64
	}{
		{"no ratings", nil, 0},
		{"single rating", []int{4}, 4.0},
		{"exact mean", []int{2, 4}, 3.0},
		{"rounded to one decimal", []int{3, 4}, 3.5},
		{"rounding down", []int{1, 1, 2}, 1.3},
		{"rounding up", []int{5, 5, 4}, 4.7},
		{"all fives", []int{5, 5, 5, 5}, 5.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AverageRating(tt.ratings)
			if got != tt.want {
				t.Errorf("AverageRating(%v) = %v, want %v", tt.ratings, got, tt.want)
			}
		})
	}
}

func TestReviewAttribution(t *testing.T) {
	t.Run("registered user wins over legacy name", func(t *testing.T) {
		review := &Review{UserID: "u1", Username: "alice", LegacyName: "old-alice"}
		attr := review.Attribution()
		if attr.Kind != AttributionRegistered {
			t.Errorf("Kind = %v, want AttributionRegistered", attr.Kind)
		}
		if attr.DisplayName() != "alice" {
			t.Errorf("DisplayName = %q, want %q", attr.DisplayName(), "alice")
		}
	})

	t.Run("legacy name without user", func(t *testing.T) {
		review := &Review{LegacyName: "forum-user"}
		attr := review.Attribution()
		if attr.Kind != AttributionLegacy {
			t.Errorf("Kind = %v, want AttributionLegacy", attr.Kind)
		}
		if attr.DisplayName() != "forum-user" {
			t.Errorf("DisplayName = %q, want %q", attr.DisplayName(), "forum-user")
		}
	})

	t.Run("neither user nor name renders Anonymous", func(t *testing.T) {
		review := &Review{}
		attr := review.Attribution()
		if attr.Kind != AttributionAnonymous {
			t.Errorf("Kind = %v, want AttributionAnonymous", attr.Kind)
		}
		if attr.DisplayName() != AnonymousName {
			t.Errorf("DisplayName = %q, want %q", attr.DisplayName(), AnonymousName)
		}
	})
}
