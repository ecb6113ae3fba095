// Command seed populates the database with sample users, books and
// reviews for local development. It also links legacy reviews whose
// display name matches a seeded account, the same backfill a production
// migration would run.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/ppandey/bookshelf/internal/auth"
	"github.com/ppandey/bookshelf/internal/config"
	"github.com/ppandey/bookshelf/internal/models"
	"github.com/ppandey/bookshelf/internal/storage/sqlite"
	"github.com/ppandey/bookshelf/pkg/logging"
)

var books = []*models.Book{
	{Title: "To Kill a Mockingbird", Author: "Harper Lee", Genre: "Fiction", PublishedYear: 1960},
	{Title: "1984", Author: "George Orwell", Genre: "Science Fiction", PublishedYear: 1949},
	{Title: "The Great Gatsby", Author: "F. Scott Fitzgerald", Genre: "Fiction", PublishedYear: 1925},
	{Title: "Pride and Prejudice", Author: "Jane Austen", Genre: "Romance", PublishedYear: 1813},
	{Title: "The Hobbit", Author: "J.R.R. Tolkien", Genre: "Fantasy", PublishedYear: 1937},
	{Title: "Harry Potter and the Philosopher's Stone", Author: "J.K. Rowling", Genre: "Fantasy", PublishedYear: 1997},
}

func main() {
	_ = godotenv.Load()
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx := context.Background()
	authenticator := auth.NewPasswordAuthenticator(store)

	admin := &models.User{Username: "admin", Email: "admin@example.com", Staff: true}
	if _, err := authenticator.Register(ctx, admin, "admin-password"); err != nil {
		slog.Error("Failed to seed admin", "error", err)
		os.Exit(1)
	}

	reader := &models.User{Username: "marge", Email: "marge@example.com", FirstName: "Marge"}
	if _, err := authenticator.Register(ctx, reader, "reading-is-fun"); err != nil {
		slog.Error("Failed to seed reader", "error", err)
		os.Exit(1)
	}

	for _, book := range books {
		if err := store.CreateBook(ctx, book); err != nil {
			slog.Error("Failed to seed book", "title", book.Title, "error", err)
			os.Exit(1)
		}
	}

	reviews := []*models.Review{
		{BookID: books[0].ID, UserID: reader.ID, Rating: 5, Comment: "A classic for a reason."},
		{BookID: books[1].ID, UserID: reader.ID, Rating: 4, Comment: "Bleak but brilliant."},
		// Legacy rows: no owning user. The first matches a seeded
		// username and gets linked below; the second stays legacy; the
		// third renders as Anonymous.
		{BookID: books[4].ID, LegacyName: "marge", Rating: 5, Comment: "Read it every year."},
		{BookID: books[4].ID, LegacyName: "old-forum-user", Rating: 3, Comment: "Too many songs."},
		{BookID: books[2].ID, Rating: 4, Comment: "Gatsby believed in the green light."},
	}
	for _, review := range reviews {
		if err := store.CreateReview(ctx, review); err != nil {
			slog.Error("Failed to seed review", "error", err)
			os.Exit(1)
		}
	}

	linked, err := store.LinkLegacyReviews(ctx)
	if err != nil {
		slog.Error("Failed to link legacy reviews", "error", err)
		os.Exit(1)
	}

	slog.Info("Seed complete",
		"users", 2,
		"books", len(books),
		"reviews", len(reviews),
		"legacy_linked", linked,
	)
}
