package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PaulBabatuyi/discussions-gRPC/internal/data"
	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	// MinMembers is the smallest member list a discussion can be created with.
	MinMembers = 2
	// MaxNameLength is the longest discussion name, in characters.
	MaxNameLength = 100
)

// Ledger maintains discussion memberships.
type Ledger struct {
	users       UserRepository
	discussions DiscussionRepository
	options
}

// NewLedger returns a Ledger over the given repositories.
func NewLedger(users UserRepository, discussions DiscussionRepository, opts ...Option) *Ledger {
	return &Ledger{users: users, discussions: discussions, options: newOptions(opts)}
}

// CreateResult is the outcome of CreateDiscussion. Unlinked lists the members
// whose user document could not be updated with the new discussion; the
// discussion itself is persisted either way.
type CreateResult struct {
	Discussion *data.Discussion
	Unlinked   []bson.ObjectID
}

// CreateDiscussion persists a discussion named name with memberIDs as initial
// members, then links it from every member's discussion list.
func (l *Ledger) CreateDiscussion(ctx context.Context, name string, memberIDs []bson.ObjectID) (*CreateResult, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: discussion name is required", ErrValidation)
	}
	if n := utf8.RuneCountInString(name); n > MaxNameLength {
		return nil, fmt.Errorf("%w: discussion name is %d characters, at most %d allowed", ErrValidation, n, MaxNameLength)
	}
	members := lo.Uniq(memberIDs)
	if len(members) < MinMembers {
		return nil, fmt.Errorf("%w: at least %d distinct members needed", ErrValidation, MinMembers)
	}

	found, err := l.users.GetUsersByIDs(ctx, members)
	if err != nil {
		return nil, fmt.Errorf("load members: %w", err)
	}
	if len(found) != len(members) {
		known := lo.SliceToMap(found, func(u *data.User) (bson.ObjectID, struct{}) { return u.ID, struct{}{} })
		missing := lo.Filter(members, func(id bson.ObjectID, _ int) bool {
			_, ok := known[id]
			return !ok
		})
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, missing[0].Hex())
	}

	now := l.now()
	d, err := l.discussions.CreateDiscussion(ctx, &data.Discussion{
		Name: name,
		Members: lo.Map(members, func(id bson.ObjectID, _ int) data.Membership {
			return data.Membership{User: id, LastSeenAt: now}
		}),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		if errors.Is(err, data.ErrDuplicate) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("create discussion: %w", err)
	}

	// Linkage is best-effort: a failure leaves the discussion in place and is
	// reported to the caller instead of rolled back.
	res := &CreateResult{Discussion: d}
	for _, id := range members {
		if err := l.users.AddDiscussion(ctx, id, d.ID, now); err != nil {
			l.log.Warn("failed to link discussion to member",
				"discussion_id", d.ID.Hex(),
				"user_id", id.Hex(),
				"error", err)
			res.Unlinked = append(res.Unlinked, id)
		}
	}
	return res, nil
}

// AddMember admits userID into discussionID with lastSeenAt set to now. The
// membership insert and the user-side link are separate writes; if the
// second one fails the error wraps ErrPartialFailure.
func (l *Ledger) AddMember(ctx context.Context, discussionID, userID bson.ObjectID) (*data.Membership, error) {
	d, err := l.discussions.GetDiscussionByID(ctx, discussionID)
	if err != nil {
		return nil, discussionLookupErr(err)
	}
	if _, err := l.users.GetUserByID(ctx, userID); err != nil {
		return nil, userLookupErr(err)
	}
	if _, ok := d.Member(userID); ok {
		return nil, ErrAlreadyMember
	}

	m := data.Membership{User: userID, LastSeenAt: l.now()}
	if err := l.discussions.AddMember(ctx, discussionID, m); err != nil {
		switch {
		case errors.Is(err, data.ErrConflict):
			// another call admitted the same user since the read above
			return nil, ErrAlreadyMember
		case errors.Is(err, data.ErrNotFound):
			return nil, ErrDiscussionNotFound
		}
		return nil, fmt.Errorf("add member: %w", err)
	}

	if err := l.users.AddDiscussion(ctx, userID, discussionID, m.LastSeenAt); err != nil {
		l.log.Error("member added but discussion not linked to user",
			"discussion_id", discussionID.Hex(),
			"user_id", userID.Hex(),
			"error", err)
		return &m, fmt.Errorf("%w: link discussion to user: %w", ErrPartialFailure, err)
	}
	return &m, nil
}

// MarkSeen advances userID's lastSeenAt in discussionID to when.
func (l *Ledger) MarkSeen(ctx context.Context, discussionID, userID bson.ObjectID, when time.Time) error {
	if userID.IsZero() {
		return ErrUnauthenticated
	}
	d, err := l.discussions.GetDiscussionByID(ctx, discussionID)
	if err != nil {
		return discussionLookupErr(err)
	}
	if _, ok := d.Member(userID); !ok {
		return fmt.Errorf("%w: not a member of %s", ErrForbidden, discussionID.Hex())
	}

	when = when.UTC().Truncate(time.Millisecond)
	if err := l.discussions.MarkSeen(ctx, discussionID, userID, when); err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return ErrDiscussionNotFound
		}
		return fmt.Errorf("mark seen: %w", err)
	}
	return nil
}

// Now is the time the ledger stamps memberships with.
func (l *Ledger) Now() time.Time { return l.now() }

func discussionLookupErr(err error) error {
	if errors.Is(err, data.ErrNotFound) {
		return ErrDiscussionNotFound
	}
	return fmt.Errorf("load discussion: %w", err)
}
