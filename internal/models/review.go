package models

// AnonymousName is rendered for reviews that carry no attribution at all.
const AnonymousName = "Anonymous"

// Review represents a reader's rating and comment on one book.
type Review struct {
	// ID is the unique identifier for the review (UUID format).
	ID string

	// BookID is the reviewed book. Required; deleting the book deletes
	// the review.
	BookID string

	// UserID is the account that wrote the review. Empty for rows that
	// predate user accounts.
	UserID string

	// Username is the owning account's username, filled in by storage on
	// read. Empty when UserID is empty.
	Username string

	// LegacyName is the free-text display name stored before accounts
	// existed. Only consulted when UserID is empty.
	LegacyName string

	// Rating is the score out of 5. Validated to [1,5] on write, not
	// enforced by storage.
	Rating int

	// Comment is the review body, free text.
	Comment string

	// CreatedAt and UpdatedAt are Unix timestamps maintained by storage.
	CreatedAt int64
	UpdatedAt int64
}

// AttributionKind discriminates the three ways a review can be attributed.
type AttributionKind int

const (
	// AttributionAnonymous means the review has neither an owning user
	// nor a stored display name.
	AttributionAnonymous AttributionKind = iota

	// AttributionRegistered means the review is owned by a user account.
	AttributionRegistered

	// AttributionLegacy means the review predates accounts and carries
	// only a free-text display name.
	AttributionLegacy
)

// Attribution identifies who wrote a review. Exactly one of the three
// kinds applies; the dual-null ambiguity of the underlying columns never
// leaks past this type.
type Attribution struct {
	Kind   AttributionKind
	UserID string
	Name   string
}

// Attribution resolves the review's stored columns into a single
// canonical attribution. Precedence: owning user, then legacy name,
// then anonymous.
func (r *Review) Attribution() Attribution {
	if r.UserID != "" {
		return Attribution{Kind: AttributionRegistered, UserID: r.UserID, Name: r.Username}
	}
	if r.LegacyName != "" {
		return Attribution{Kind: AttributionLegacy, Name: r.LegacyName}
	}
	return Attribution{Kind: AttributionAnonymous, Name: AnonymousName}
}

// DisplayName returns the name to render for this attribution.
func (a Attribution) DisplayName() string {
	if a.Name == "" {
		return AnonymousName
	}
	return a.Name
}
