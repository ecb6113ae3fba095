// Package models defines the core domain models for Bookshelf.
//
// The domain is small: a catalogue of books, the reviews readers attach
// to them, and the user accounts that own those reviews.
//
// # Relationships
//
//   - Book 1..* Review: deleting a book deletes its reviews.
//   - User 0..* Review: deleting a user deletes the reviews they wrote.
//   - A Review may predate user accounts entirely; attribution for those
//     rows is a stored display name, or nothing at all. See Attribution.
//
// # Design Principles
//
//  1. Avoid circular references: relationships are ID strings, not pointers.
//  2. Timestamps are Unix seconds, assigned by the storage layer.
//  3. Derived values (average rating, attribution) are computed on read,
//     never stored.
package models
