// Package data provides DB models and the MongoDB stores.
package data

import (
	"context" // Used for cancellation and timeouts
	"errors"  // Error handling
	"fmt"
	"time" // Timestamps

	"go.mongodb.org/mongo-driver/v2/bson"  // MongoDB document queries
	"go.mongodb.org/mongo-driver/v2/mongo" // MongoDB driver
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// UsersStore performs user DB operations.
type UsersStore struct {
	// coll is reference to "users" collection in MongoDB
	// Set via NewUsersStore() and used in all methods below
	coll *mongo.Collection
}

// NewUsersStore returns a UsersStore using the provided collection.
func NewUsersStore(coll *mongo.Collection) *UsersStore {
	return &UsersStore{coll: coll} // Store reference to MongoDB collection
}

// CreateUser inserts a new user document with an already hashed password.
func (u *UsersStore) CreateUser(ctx context.Context, username, hashedPassword string, now time.Time) (*User, error) {
	user := &User{
		Username: username,
		Password: hashedPassword,
		// Start with an empty array so later $addToSet updates never hit a null field
		Discussions: []bson.ObjectID{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// InsertOne adds the document to MongoDB "users" collection
	result, err := u.coll.InsertOne(ctx, user)
	if err != nil {
		// The unique index on username turns concurrent registrations into a duplicate key error
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}

	// MongoDB auto-generates the _id field; extract it and set on User struct
	user.ID = result.InsertedID.(bson.ObjectID)
	return user, nil
}

// GetUserByUsername finds a user by exact (case-sensitive) username.
func (u *UsersStore) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	return u.findOne(ctx, bson.M{"username": username})
}

// GetUserByID finds a user by ObjectID.
func (u *UsersStore) GetUserByID(ctx context.Context, id bson.ObjectID) (*User, error) {
	return u.findOne(ctx, bson.M{"_id": id})
}

func (u *UsersStore) findOne(ctx context.Context, filter bson.M) (*User, error) {
	var user User
	err := u.coll.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetUsersByIDs loads every existing user among ids. Missing ids are skipped.
func (u *UsersStore) GetUsersByIDs(ctx context.Context, ids []bson.ObjectID) ([]*User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return u.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find())
}

// ListUsers returns every user, oldest first.
func (u *UsersStore) ListUsers(ctx context.Context) ([]*User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	return u.find(ctx, bson.M{}, opts)
}

func (u *UsersStore) find(ctx context.Context, filter bson.M, opts *options.FindOptionsBuilder) ([]*User, error) {
	cursor, err := u.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	// Ensure cursor is closed when done (cleanup)
	defer cursor.Close(ctx)

	var users []*User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// AddDiscussion appends discussionID to the user's discussion list. The list
// behaves as an ordered set: an id already present is not appended twice.
func (u *UsersStore) AddDiscussion(ctx context.Context, userID, discussionID bson.ObjectID, now time.Time) error {
	update := bson.M{
		"$addToSet": bson.M{"discussions": discussionID},
		"$set":      bson.M{"updated_at": now},
	}
	res, err := u.coll.UpdateOne(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		return fmt.Errorf("link discussion %s: %w", discussionID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePassword replaces the stored password hash.
func (u *UsersStore) UpdatePassword(ctx context.Context, userID bson.ObjectID, hashedPassword string, now time.Time) error {
	update := bson.M{"$set": bson.M{"password": hashedPassword, "updated_at": now}}
	res, err := u.coll.UpdateOne(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
