package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppandey/bookshelf/internal/auth"
	"github.com/ppandey/bookshelf/internal/middleware"
	"github.com/ppandey/bookshelf/internal/models"
	"github.com/ppandey/bookshelf/internal/storage/sqlite"
)

type testEnv struct {
	t      *testing.T
	server *httptest.Server
	store  *sqlite.SQLiteStore
	jwt    *auth.JWTManager
}

// setupTestServer spins up the full HTTP stack over a temp database.
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	authenticator := auth.NewPasswordAuthenticator(store)
	jwtManager := auth.NewJWTManager("test-secret-please-rotate", time.Minute, time.Hour)
	metrics := middleware.NewMetrics(prometheus.NewRegistry())

	handler := NewRouter(store, authenticator, jwtManager, metrics)
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return &testEnv{t: t, server: server, store: store, jwt: jwtManager}
}

// createUser registers an account directly in storage and returns it
// with a valid access token.
func (e *testEnv) createUser(username string, staff bool) (*models.User, string) {
	e.t.Helper()

	authenticator := auth.NewPasswordAuthenticator(e.store)
	user := &models.User{Username: username, Email: username + "@example.com", Staff: staff}
	_, err := authenticator.Register(context.Background(), user, "password-for-"+username)
	require.NoError(e.t, err)

	token, err := e.jwt.GenerateAccess(user)
	require.NoError(e.t, err)

	return user, token
}

func (e *testEnv) createBook(title, author, genre string, year int) *models.Book {
	e.t.Helper()

	book := &models.Book{Title: title, Author: author, Genre: genre, PublishedYear: year}
	require.NoError(e.t, e.store.CreateBook(context.Background(), book))
	return book
}

// do issues a request with an optional bearer token and JSON body,
// returning the status code and decoded body.
func (e *testEnv) do(method, path, token string, body interface{}) (int, []byte) {
	e.t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(e.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(e.t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(e.t, err)

	return resp.StatusCode, raw
}

func decodeMap(t *testing.T, raw []byte) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &m))
	return m
}

func decodeList(t *testing.T, raw []byte) []map[string]interface{} {
	t.Helper()
	var l []map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &l))
	return l
}

func TestBookEndpoints(t *testing.T) {
	env := setupTestServer(t)
	_, staffToken := env.createUser("admin", true)
	_, readerToken := env.createUser("reader", false)

	t.Run("anonymous can list and get", func(t *testing.T) {
		book := env.createBook("The Hobbit", "J.R.R. Tolkien", "Fantasy", 1937)

		status, raw := env.do(http.MethodGet, "/books/", "", nil)
		require.Equal(t, http.StatusOK, status)
		assert.NotEmpty(t, decodeList(t, raw))

		status, raw = env.do(http.MethodGet, "/books/"+book.ID+"/", "", nil)
		require.Equal(t, http.StatusOK, status)
		got := decodeMap(t, raw)
		assert.Equal(t, "The Hobbit", got["title"])
		assert.Equal(t, float64(0), got["avg_rating"])
	})

	t.Run("create requires staff", func(t *testing.T) {
		body := map[string]interface{}{
			"title": "Dune", "author": "Frank Herbert", "genre": "Science Fiction", "published_year": 1965,
		}

		status, _ := env.do(http.MethodPost, "/books/", "", body)
		assert.Equal(t, http.StatusUnauthorized, status)

		status, _ = env.do(http.MethodPost, "/books/", readerToken, body)
		assert.Equal(t, http.StatusForbidden, status)

		status, raw := env.do(http.MethodPost, "/books/", staffToken, body)
		require.Equal(t, http.StatusCreated, status)
		assert.Equal(t, "Dune", decodeMap(t, raw)["title"])
	})

	t.Run("genre filter is exact and case-insensitive", func(t *testing.T) {
		env.createBook("A Wizard of Earthsea", "Ursula K. Le Guin", "Fantasy", 1968)

		status, raw := env.do(http.MethodGet, "/books/?genre=fantasy", "", nil)
		require.Equal(t, http.StatusOK, status)
		for _, book := range decodeList(t, raw) {
			assert.Equal(t, "Fantasy", book["genre"])
		}
	})

	t.Run("author filter is substring match", func(t *testing.T) {
		status, raw := env.do(http.MethodGet, "/books/?author=tolkien", "", nil)
		require.Equal(t, http.StatusOK, status)
		books := decodeList(t, raw)
		require.Len(t, books, 1)
		assert.Equal(t, "J.R.R. Tolkien", books[0]["author"])
	})

	t.Run("unknown ordering is a 400", func(t *testing.T) {
		status, _ := env.do(http.MethodGet, "/books/?ordering=price", "", nil)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("staff can patch and delete", func(t *testing.T) {
		book := env.createBook("Temp", "Nobody", "Test", 2001)

		status, raw := env.do(http.MethodPatch, "/books/"+book.ID+"/", staffToken,
			map[string]interface{}{"title": "Renamed"})
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Renamed", decodeMap(t, raw)["title"])

		status, _ = env.do(http.MethodDelete, "/books/"+book.ID+"/", staffToken, nil)
		assert.Equal(t, http.StatusNoContent, status)

		status, _ = env.do(http.MethodGet, "/books/"+book.ID+"/", "", nil)
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("unknown book is a 404", func(t *testing.T) {
		status, _ := env.do(http.MethodGet, "/books/no-such-id/", "", nil)
		assert.Equal(t, http.StatusNotFound, status)
	})
}

func TestReviewEndpoints(t *testing.T) {
	env := setupTestServer(t)
	alice, aliceToken := env.createUser("alice", false)
	_, malloryToken := env.createUser("mallory", false)
	book := env.createBook("Dune", "Frank Herbert", "Science Fiction", 1965)

	t.Run("anonymous cannot create", func(t *testing.T) {
		status, _ := env.do(http.MethodPost, "/reviews/", "",
			map[string]interface{}{"book": book.ID, "rating": 5})
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("rating outside bounds is a 400 with a field message", func(t *testing.T) {
		for _, rating := range []int{0, 6} {
			status, raw := env.do(http.MethodPost, "/reviews/", aliceToken,
				map[string]interface{}{"book": book.ID, "rating": rating})
			require.Equal(t, http.StatusBadRequest, status)
			assert.Contains(t, decodeMap(t, raw), "rating")
		}
	})

	var reviewID string
	t.Run("create sets owner from caller", func(t *testing.T) {
		status, raw := env.do(http.MethodPost, "/reviews/", aliceToken,
			map[string]interface{}{"book": book.ID, "rating": 4, "comment": "sandy"})
		require.Equal(t, http.StatusCreated, status)

		got := decodeMap(t, raw)
		reviewID = got["id"].(string)
		assert.Equal(t, alice.ID, got["user"])
		assert.Equal(t, "alice", got["username"])
		assert.Equal(t, true, got["is_owner"])
	})

	t.Run("anonymous read shows is_owner false", func(t *testing.T) {
		status, raw := env.do(http.MethodGet, "/reviews/"+reviewID+"/", "", nil)
		require.Equal(t, http.StatusOK, status)
		got := decodeMap(t, raw)
		assert.Equal(t, false, got["is_owner"])
		assert.Equal(t, "alice", got["username"])
	})

	t.Run("non-owner patch is a 403, owner succeeds", func(t *testing.T) {
		status, _ := env.do(http.MethodPatch, "/reviews/"+reviewID+"/", malloryToken,
			map[string]interface{}{"rating": 1})
		assert.Equal(t, http.StatusForbidden, status)

		status, raw := env.do(http.MethodPatch, "/reviews/"+reviewID+"/", aliceToken,
			map[string]interface{}{"rating": 5})
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, float64(5), decodeMap(t, raw)["rating"])
	})

	t.Run("average rating shows up on the book", func(t *testing.T) {
		status, raw := env.do(http.MethodGet, "/books/"+book.ID+"/", "", nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, float64(5), decodeMap(t, raw)["avg_rating"])
	})

	t.Run("review with no user and no name renders Anonymous", func(t *testing.T) {
		anon := &models.Review{BookID: book.ID, Rating: 2}
		require.NoError(t, env.store.CreateReview(context.Background(), anon))

		status, raw := env.do(http.MethodGet, "/reviews/"+anon.ID+"/", "", nil)
		require.Equal(t, http.StatusOK, status)
		got := decodeMap(t, raw)
		assert.Equal(t, "Anonymous", got["username"])
		assert.Nil(t, got["user"])
	})

	t.Run("list filters by book", func(t *testing.T) {
		other := env.createBook("Emma", "Jane Austen", "Romance", 1815)
		status, raw := env.do(http.MethodGet, "/reviews/?book="+other.ID, "", nil)
		require.Equal(t, http.StatusOK, status)
		assert.Empty(t, decodeList(t, raw))

		status, raw = env.do(http.MethodGet, "/reviews/?book="+book.ID, "", nil)
		require.Equal(t, http.StatusOK, status)
		assert.NotEmpty(t, decodeList(t, raw))
	})

	t.Run("owner can delete", func(t *testing.T) {
		status, _ := env.do(http.MethodDelete, "/reviews/"+reviewID+"/", malloryToken, nil)
		assert.Equal(t, http.StatusForbidden, status)

		status, _ = env.do(http.MethodDelete, "/reviews/"+reviewID+"/", aliceToken, nil)
		assert.Equal(t, http.StatusNoContent, status)
	})
}

func TestUserEndpoints(t *testing.T) {
	env := setupTestServer(t)
	_, staffToken := env.createUser("admin", true)
	alice, aliceToken := env.createUser("alice", false)

	t.Run("signup is open", func(t *testing.T) {
		status, raw := env.do(http.MethodPost, "/users/", "", map[string]interface{}{
			"username": "newbie", "email": "new@example.com", "password": "a decent password",
		})
		require.Equal(t, http.StatusCreated, status)

		got := decodeMap(t, raw)
		assert.Equal(t, "newbie", got["username"])
		assert.NotContains(t, got, "password")
		assert.NotContains(t, got, "password_hash")
	})

	t.Run("me requires authentication", func(t *testing.T) {
		status, _ := env.do(http.MethodGet, "/users/me/", "", nil)
		assert.Equal(t, http.StatusUnauthorized, status)

		status, raw := env.do(http.MethodGet, "/users/me/", aliceToken, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "alice", decodeMap(t, raw)["username"])
	})

	t.Run("staff sees everyone, non-staff only themselves", func(t *testing.T) {
		status, raw := env.do(http.MethodGet, "/users/", staffToken, nil)
		require.Equal(t, http.StatusOK, status)
		assert.GreaterOrEqual(t, len(decodeList(t, raw)), 3)

		status, raw = env.do(http.MethodGet, "/users/", aliceToken, nil)
		require.Equal(t, http.StatusOK, status)
		users := decodeList(t, raw)
		require.Len(t, users, 1)
		assert.Equal(t, "alice", users[0]["username"])
	})

	t.Run("non-staff get of another user is a 404", func(t *testing.T) {
		other := &models.User{Username: "carol", Email: "c@example.com", PasswordHash: "hash"}
		require.NoError(t, env.store.CreateUser(context.Background(), other))

		status, _ := env.do(http.MethodGet, "/users/"+other.ID+"/", aliceToken, nil)
		assert.Equal(t, http.StatusNotFound, status)

		status, _ = env.do(http.MethodGet, "/users/"+other.ID+"/", staffToken, nil)
		assert.Equal(t, http.StatusOK, status)
	})

	t.Run("self patch succeeds", func(t *testing.T) {
		status, raw := env.do(http.MethodPatch, "/users/"+alice.ID+"/", aliceToken,
			map[string]interface{}{"first_name": "Alice"})
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Alice", decodeMap(t, raw)["first_name"])
	})

	t.Run("invalid token is rejected even on public routes", func(t *testing.T) {
		status, _ := env.do(http.MethodGet, "/books/", "garbage-token", nil)
		assert.Equal(t, http.StatusUnauthorized, status)
	})
}

func TestTokenEndpoints(t *testing.T) {
	env := setupTestServer(t)
	env.createUser("alice", false)

	t.Run("obtain with valid credentials", func(t *testing.T) {
		status, raw := env.do(http.MethodPost, "/token/", "", map[string]interface{}{
			"username": "alice", "password": "password-for-alice",
		})
		require.Equal(t, http.StatusOK, status)

		got := decodeMap(t, raw)
		access, _ := got["access"].(string)
		refresh, _ := got["refresh"].(string)
		require.NotEmpty(t, access)
		require.NotEmpty(t, refresh)

		// Access token works against a protected endpoint
		status, me := env.do(http.MethodGet, "/users/me/", access, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "alice", decodeMap(t, me)["username"])

		// Refresh token yields a fresh access token
		status, raw = env.do(http.MethodPost, "/token/refresh/", "", map[string]interface{}{"refresh": refresh})
		require.Equal(t, http.StatusOK, status)
		newAccess, _ := decodeMap(t, raw)["access"].(string)
		require.NotEmpty(t, newAccess)

		status, _ = env.do(http.MethodGet, "/users/me/", newAccess, nil)
		assert.Equal(t, http.StatusOK, status)

		// Verify accepts both tokens
		status, _ = env.do(http.MethodPost, "/token/verify/", "", map[string]interface{}{"token": access})
		assert.Equal(t, http.StatusOK, status)
		status, _ = env.do(http.MethodPost, "/token/verify/", "", map[string]interface{}{"token": refresh})
		assert.Equal(t, http.StatusOK, status)
	})

	t.Run("wrong password is a 401", func(t *testing.T) {
		status, _ := env.do(http.MethodPost, "/token/", "", map[string]interface{}{
			"username": "alice", "password": "wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("refresh rejects access tokens", func(t *testing.T) {
		_, token := env.createUser("bob", false)
		status, _ := env.do(http.MethodPost, "/token/refresh/", "", map[string]interface{}{"refresh": token})
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("verify rejects garbage", func(t *testing.T) {
		status, _ := env.do(http.MethodPost, "/token/verify/", "", map[string]interface{}{"token": "garbage"})
		assert.Equal(t, http.StatusUnauthorized, status)
	})
}
