package models

// User represents a registered user account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Username is the unique login name, also used to attribute reviews.
	Username string

	// Email is the user's email address.
	Email string

	// FirstName and LastName are optional profile fields.
	FirstName string
	LastName  string

	// PasswordHash is the bcrypt hash of the user's password.
	// Never serialized to clients.
	PasswordHash string

	// Staff marks administrators who may modify the book catalogue.
	Staff bool

	// CreatedAt and UpdatedAt are Unix timestamps maintained by storage.
	CreatedAt int64
	UpdatedAt int64
}
