package embedded

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"time"

	"github.com/PaulBabatuyi/discussions-gRPC/internal/data"
	"github.com/dgraph-io/badger/v4"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// UsersStore performs user operations on badger.
type UsersStore struct {
	db *DB
}

// CreateUser stores a new user; ErrDuplicate when username is taken.
func (s *UsersStore) CreateUser(ctx context.Context, username, hashedPassword string, now time.Time) (*data.User, error) {
	user := &data.User{
		ID:          bson.NewObjectID(),
		Username:    username,
		Password:    hashedPassword,
		Discussions: []bson.ObjectID{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	nameKey := key(prefixUsername, []byte(username))

	err := s.db.update(ctx, func(txn *badger.Txn) error {
		taken, err := exists(txn, nameKey)
		if err != nil {
			return err
		}
		if taken {
			return data.ErrDuplicate
		}
		if err := txn.Set(nameKey, user.ID[:]); err != nil {
			return err
		}
		return putDoc(txn, idKey(prefixUser, user.ID), user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByID finds a user by ObjectID.
func (s *UsersStore) GetUserByID(ctx context.Context, id bson.ObjectID) (*data.User, error) {
	var user data.User
	err := s.db.view(ctx, func(txn *badger.Txn) error {
		return getDoc(txn, idKey(prefixUser, id), &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername finds a user by exact username.
func (s *UsersStore) GetUserByUsername(ctx context.Context, username string) (*data.User, error) {
	var user data.User
	err := s.db.view(ctx, func(txn *badger.Txn) error {
		id, err := getID(txn, key(prefixUsername, []byte(username)))
		if err != nil {
			return err
		}
		return getDoc(txn, idKey(prefixUser, id), &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUsersByIDs loads the existing users among ids.
func (s *UsersStore) GetUsersByIDs(ctx context.Context, ids []bson.ObjectID) ([]*data.User, error) {
	var users []*data.User
	err := s.db.view(ctx, func(txn *badger.Txn) error {
		for _, id := range ids {
			var u data.User
			err := getDoc(txn, idKey(prefixUser, id), &u)
			if errors.Is(err, data.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			users = append(users, &u)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

// ListUsers returns every user, oldest first.
func (s *UsersStore) ListUsers(ctx context.Context) ([]*data.User, error) {
	var users []*data.User
	err := s.db.view(ctx, func(txn *badger.Txn) error {
		return scan(txn, prefixUser, true, func(_ []byte, item *badger.Item) error {
			var u data.User
			if err := item.Value(func(val []byte) error { return bson.Unmarshal(val, &u) }); err != nil {
				return err
			}
			users = append(users, &u)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(users, func(a, b *data.User) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.Hex(), b.ID.Hex())
	})
	return users, nil
}

// AddDiscussion appends discussionID to the user's list unless already present.
func (s *UsersStore) AddDiscussion(ctx context.Context, userID, discussionID bson.ObjectID, now time.Time) error {
	return s.modify(ctx, userID, func(u *data.User) {
		if !slices.Contains(u.Discussions, discussionID) {
			u.Discussions = append(u.Discussions, discussionID)
		}
		u.UpdatedAt = now
	})
}

// UpdatePassword replaces the stored password hash.
func (s *UsersStore) UpdatePassword(ctx context.Context, userID bson.ObjectID, hashedPassword string, now time.Time) error {
	return s.modify(ctx, userID, func(u *data.User) {
		u.Password = hashedPassword
		u.UpdatedAt = now
	})
}

func (s *UsersStore) modify(ctx context.Context, userID bson.ObjectID, fn func(*data.User)) error {
	k := idKey(prefixUser, userID)
	return s.db.update(ctx, func(txn *badger.Txn) error {
		var u data.User
		if err := getDoc(txn, k, &u); err != nil {
			return err
		}
		fn(&u)
		return putDoc(txn, k, &u)
	})
}
