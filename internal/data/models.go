package data

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User maps to users collection (id, username, password hash, discussion refs, timestamps)
type User struct {
	ID          bson.ObjectID   `bson:"_id,omitempty"`
	Username    string          `bson:"username"`
	Password    string          `bson:"password"`
	Discussions []bson.ObjectID `bson:"discussions"`
	CreatedAt   time.Time       `bson:"created_at"`
	UpdatedAt   time.Time       `bson:"updated_at"`
}

// Membership is a user's participation record inside a discussion.
type Membership struct {
	User       bson.ObjectID `bson:"user"`
	LastSeenAt time.Time     `bson:"last_seen_at"`
}

// Discussion maps to discussions collection. Members are owned by the discussion.
type Discussion struct {
	ID                bson.ObjectID `bson:"_id,omitempty"`
	Name              string        `bson:"name"`
	Members           []Membership  `bson:"members"`
	LastMessageSentAt *time.Time    `bson:"last_message_sent_at,omitempty"`
	CreatedAt         time.Time     `bson:"created_at"`
	UpdatedAt         time.Time     `bson:"updated_at"`
}

// Member returns the membership of userID, if any.
func (d *Discussion) Member(userID bson.ObjectID) (*Membership, bool) {
	for i := range d.Members {
		if d.Members[i].User == userID {
			return &d.Members[i], true
		}
	}
	return nil, false
}

// UnseenBy reports whether the discussion has a message newer than userID's
// last visit. A discussion that never received a message is never unseen, and
// neither is one the user is not a member of.
func (d *Discussion) UnseenBy(userID bson.ObjectID) bool {
	if d.LastMessageSentAt == nil {
		return false
	}
	m, ok := d.Member(userID)
	if !ok {
		return false
	}
	return m.LastSeenAt.Before(*d.LastMessageSentAt)
}

// Message maps to messages collection. Hidden messages keep their content.
type Message struct {
	ID         bson.ObjectID `bson:"_id,omitempty"`
	Author     bson.ObjectID `bson:"author"`
	Discussion bson.ObjectID `bson:"discussion"`
	Content    string        `bson:"content"`
	IsShowed   bool          `bson:"is_showed"`
	CreatedAt  time.Time     `bson:"created_at"`
	UpdatedAt  time.Time     `bson:"updated_at"`
}
