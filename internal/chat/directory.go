package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/PaulBabatuyi/discussions-gRPC/internal/data"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Directory resolves user identities and owns registration and password checks.
type Directory struct {
	users  UserRepository
	hasher PasswordHasher
	options
}

// NewDirectory returns a Directory backed by users.
func NewDirectory(users UserRepository, hasher PasswordHasher, opts ...Option) *Directory {
	return &Directory{users: users, hasher: hasher, options: newOptions(opts)}
}

// FindByID returns the user with id.
func (d *Directory) FindByID(ctx context.Context, id bson.ObjectID) (*data.User, error) {
	u, err := d.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, userLookupErr(err)
	}
	return u, nil
}

// FindByUsername returns the user whose username matches name exactly.
func (d *Directory) FindByUsername(ctx context.Context, name string) (*data.User, error) {
	u, err := d.users.GetUserByUsername(ctx, name)
	if err != nil {
		return nil, userLookupErr(err)
	}
	return u, nil
}

// List returns every user, oldest first.
func (d *Directory) List(ctx context.Context) ([]*data.User, error) {
	users, err := d.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Register creates a user. The username check runs before the insert, and the
// store's unique key catches registrations racing past it.
func (d *Directory) Register(ctx context.Context, username, password string) (*data.User, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrValidation)
	}

	_, err := d.users.GetUserByUsername(ctx, username)
	switch {
	case err == nil:
		return nil, ErrDuplicateUsername
	case !errors.Is(err, data.ErrNotFound):
		return nil, fmt.Errorf("check username: %w", err)
	}

	hash, err := d.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u, err := d.users.CreateUser(ctx, username, hash, d.now())
	if err != nil {
		if errors.Is(err, data.ErrDuplicate) {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	d.log.Info("user registered", "user_id", u.ID.Hex())
	return u, nil
}

// Authenticate returns the user when password matches the stored hash.
func (d *Directory) Authenticate(ctx context.Context, username, password string) (*data.User, error) {
	u, err := d.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if !d.hasher.Verify(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// ChangePassword replaces the password of id after checking current. The hash
// is only written when next differs from the stored password; it reports
// whether a write happened.
func (d *Directory) ChangePassword(ctx context.Context, id bson.ObjectID, current, next string) (bool, error) {
	if id.IsZero() {
		return false, ErrUnauthenticated
	}
	if next == "" {
		return false, fmt.Errorf("%w: new password is required", ErrValidation)
	}

	u, err := d.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	if !d.hasher.Verify(u.Password, current) {
		return false, ErrInvalidCredentials
	}
	if d.hasher.Verify(u.Password, next) {
		return false, nil
	}

	hash, err := d.hasher.Hash(next)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}
	if err := d.users.UpdatePassword(ctx, id, hash, d.now()); err != nil {
		return false, userLookupErr(err)
	}
	return true, nil
}

func userLookupErr(err error) error {
	if errors.Is(err, data.ErrNotFound) {
		return ErrUserNotFound
	}
	return fmt.Errorf("load user: %w", err)
}
