package data

import (
	"context"
	"errors"
	"time"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// DiscussionsStore provides discussion and membership database operations.
type DiscussionsStore struct {
	// coll is reference to "discussions" collection in MongoDB
	coll *mongo.Collection
}

// NewDiscussionsStore returns a DiscussionsStore using given collection.
func NewDiscussionsStore(coll *mongo.Collection) *DiscussionsStore {
	return &DiscussionsStore{coll: coll}
}

// CreateDiscussion inserts d and sets its generated ID.
func (s *DiscussionsStore) CreateDiscussion(ctx context.Context, d *Discussion) (*Discussion, error) {
	if d.Members == nil {
		d.Members = []Membership{}
	}
	result, err := s.coll.InsertOne(ctx, d)
	if err != nil {
		// unique index on name
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	d.ID = result.InsertedID.(bson.ObjectID)
	return d, nil
}

// GetDiscussionByID finds a discussion by ObjectID.
func (s *DiscussionsStore) GetDiscussionByID(ctx context.Context, id bson.ObjectID) (*Discussion, error) {
	var d Discussion
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// GetDiscussionsByIDs loads the discussions referenced by ids and returns them
// in the order of ids. Dangling references are dropped.
func (s *DiscussionsStore) GetDiscussionsByIDs(ctx context.Context, ids []bson.ObjectID) ([]*Discussion, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cursor, err := s.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var found []*Discussion
	if err = cursor.All(ctx, &found); err != nil {
		return nil, err
	}

	// $in does not preserve the order of the reference list
	byID := lo.KeyBy(found, func(d *Discussion) bson.ObjectID { return d.ID })
	ordered := make([]*Discussion, 0, len(found))
	for _, id := range ids {
		if d, ok := byID[id]; ok {
			ordered = append(ordered, d)
		}
	}
	return ordered, nil
}

// AddMember pushes m into the member list unless m.User is already a member.
// The guard and the push are a single update, so two concurrent calls for the
// same user cannot both succeed. Returns ErrConflict for an existing member and
// ErrNotFound when the discussion does not exist.
func (s *DiscussionsStore) AddMember(ctx context.Context, discussionID bson.ObjectID, m Membership) error {
	filter := bson.M{
		"_id":          discussionID,
		"members.user": bson.M{"$ne": m.User},
	}
	update := bson.M{
		"$push": bson.M{"members": m},
		"$set":  bson.M{"updated_at": m.LastSeenAt},
	}
	res, err := s.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}

	// Nothing matched: either the discussion is gone or the user is already in it
	n, err := s.coll.CountDocuments(ctx, bson.M{"_id": discussionID})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return ErrConflict
}

// MarkSeen sets lastSeenAt of userID's membership. Returns ErrNotFound when no
// such membership exists.
func (s *DiscussionsStore) MarkSeen(ctx context.Context, discussionID, userID bson.ObjectID, at time.Time) error {
	filter := bson.M{"_id": discussionID, "members.user": userID}
	// "$" targets the array element matched by the filter
	update := bson.M{"$set": bson.M{"members.$.last_seen_at": at}}
	res, err := s.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetLastMessageSentAt records the time of the latest message of the discussion.
func (s *DiscussionsStore) SetLastMessageSentAt(ctx context.Context, discussionID bson.ObjectID, at time.Time) error {
	update := bson.M{"$set": bson.M{"last_message_sent_at": at, "updated_at": at}}
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": discussionID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
