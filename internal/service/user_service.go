package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ppandey/bookshelf/internal/auth"
	"github.com/ppandey/bookshelf/internal/models"
	"github.com/ppandey/bookshelf/internal/storage"
)

// UserService implements account operations. Signup is open to everyone;
// everything else is scoped so non-staff callers only ever see
// themselves.
type UserService struct {
	store         storage.Store
	authenticator auth.Authenticator
}

// NewUserService creates a new UserService with the given storage
// backend and authenticator.
func NewUserService(store storage.Store, authenticator auth.Authenticator) *UserService {
	return &UserService{store: store, authenticator: authenticator}
}

// UserInput is the client-supplied representation of a new account.
type UserInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// UserPatch is a partial update; nil fields are left unchanged.
type UserPatch struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

// Create registers a new account. Open to unauthenticated callers.
func (s *UserService) Create(ctx context.Context, in UserInput) (*models.User, error) {
	var missing []string
	if in.Username == "" {
		missing = append(missing, "username")
	}
	if in.Email == "" {
		missing = append(missing, "email")
	}
	if in.Password == "" {
		missing = append(missing, "password")
	}
	if err := requireFields(missing); err != nil {
		return nil, err
	}

	user := &models.User{
		Username:  in.Username,
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	}

	user, err := s.authenticator.Register(ctx, user, in.Password)
	if err != nil {
		return nil, mapRegisterError(err)
	}

	slog.Info("User registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// List returns every account for staff callers, and only the caller's
// own account otherwise.
func (s *UserService) List(ctx context.Context, caller *models.User) ([]*models.User, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	if caller.Staff {
		return s.store.ListUsers(ctx)
	}
	return []*models.User{caller}, nil
}

// Get returns one account, subject to the same visibility rule as List.
// Accounts outside the caller's visible set read as not found.
func (s *UserService) Get(ctx context.Context, caller *models.User, id string) (*models.User, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	if !canSeeUser(caller, id) {
		return nil, storage.ErrNotFound
	}
	return s.store.GetUserByID(ctx, id)
}

// Me returns the caller's own profile.
func (s *UserService) Me(ctx context.Context, caller *models.User) (*models.User, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	return caller, nil
}

// Update modifies an account the caller can see. A supplied password is
// validated and re-hashed; the hash never round-trips through clients.
func (s *UserService) Update(ctx context.Context, caller *models.User, id string, patch UserPatch) (*models.User, error) {
	user, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	if patch.Username != nil && *patch.Username != user.Username {
		existing, err := s.store.GetUserByUsername(ctx, *patch.Username)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
		if existing != nil {
			return nil, invalid("username", "A user with that username already exists.")
		}
		user.Username = *patch.Username
	}
	if patch.Email != nil {
		user.Email = *patch.Email
	}
	if patch.FirstName != nil {
		user.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		user.LastName = *patch.LastName
	}
	if patch.Password != nil {
		hash, err := s.authenticator.HashPassword(*patch.Password)
		if err != nil {
			return nil, mapRegisterError(err)
		}
		user.PasswordHash = hash
	}

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	slog.Info("User updated", "user_id", user.ID, "caller_id", caller.ID)
	return user, nil
}

// Delete removes an account the caller can see, cascading to the
// account's reviews.
func (s *UserService) Delete(ctx context.Context, caller *models.User, id string) error {
	if caller == nil {
		return ErrUnauthenticated
	}
	if !canSeeUser(caller, id) {
		return storage.ErrNotFound
	}

	if err := s.store.DeleteUser(ctx, id); err != nil {
		return err
	}

	slog.Info("User deleted", "user_id", id, "caller_id", caller.ID)
	return nil
}

// mapRegisterError translates authenticator sentinels into field-level
// validation errors for the API.
func mapRegisterError(err error) error {
	switch {
	case errors.Is(err, auth.ErrUsernameTaken):
		return invalid("username", "A user with that username already exists.")
	case errors.Is(err, auth.ErrWeakPassword):
		return invalid("password", "Password must be at least 8 characters.")
	default:
		return err
	}
}
