package chat

import (
	"context"
	"fmt"

	"github.com/PaulBabatuyi/discussions-gRPC/internal/data"
	"github.com/PaulBabatuyi/discussions-gRPC/internal/paginate"
	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Member is a membership with its user resolved. User is nil when the
// referenced user no longer resolves.
type Member struct {
	data.Membership
	User *data.User
}

// DiscussionView is a discussion with populated members. Messages are not
// included; they are listed through Messages.
type DiscussionView struct {
	*data.Discussion
	Members []Member
}

// Feed assembles the discussions a user sees.
type Feed struct {
	users       UserRepository
	discussions DiscussionRepository
	options
}

// NewFeed returns a Feed over the given repositories.
func NewFeed(users UserRepository, discussions DiscussionRepository, opts ...Option) *Feed {
	return &Feed{users: users, discussions: discussions, options: newOptions(opts)}
}

// ListForUser returns one page of caller's discussions in the order they were
// linked to the user. The page is cut from the user's discussion references
// first; with unseenOnly the page is then narrowed to discussions whose last
// message is newer than caller's lastSeenAt. Total counts all references.
func (f *Feed) ListForUser(ctx context.Context, caller bson.ObjectID, req paginate.Request, unseenOnly bool) (paginate.Page[*DiscussionView], error) {
	var empty paginate.Page[*DiscussionView]
	if caller.IsZero() {
		return empty, ErrUnauthenticated
	}
	if err := req.Validate(); err != nil {
		return empty, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	user, err := f.users.GetUserByID(ctx, caller)
	if err != nil {
		return empty, userLookupErr(err)
	}

	refs := paginate.Slice(user.Discussions, req)
	discussions, err := f.discussions.GetDiscussionsByIDs(ctx, refs)
	if err != nil {
		return empty, fmt.Errorf("load discussions: %w", err)
	}

	if unseenOnly {
		discussions = lo.Filter(discussions, func(d *data.Discussion, _ int) bool {
			return d.UnseenBy(caller)
		})
	}

	views, err := f.populate(ctx, discussions)
	if err != nil {
		return empty, err
	}
	return paginate.New(views, req, int64(len(user.Discussions))), nil
}

// Get returns discussionID with populated members.
func (f *Feed) Get(ctx context.Context, discussionID bson.ObjectID) (*DiscussionView, error) {
	d, err := f.discussions.GetDiscussionByID(ctx, discussionID)
	if err != nil {
		return nil, discussionLookupErr(err)
	}
	views, err := f.populate(ctx, []*data.Discussion{d})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// populate resolves the member users of every discussion with one lookup.
func (f *Feed) populate(ctx context.Context, discussions []*data.Discussion) ([]*DiscussionView, error) {
	if len(discussions) == 0 {
		return nil, nil
	}

	ids := lo.Uniq(lo.FlatMap(discussions, func(d *data.Discussion, _ int) []bson.ObjectID {
		return lo.Map(d.Members, func(m data.Membership, _ int) bson.ObjectID { return m.User })
	}))
	users, err := f.users.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load members: %w", err)
	}
	byID := lo.KeyBy(users, func(u *data.User) bson.ObjectID { return u.ID })

	return lo.Map(discussions, func(d *data.Discussion, _ int) *DiscussionView {
		return &DiscussionView{
			Discussion: d,
			Members: lo.Map(d.Members, func(m data.Membership, _ int) Member {
				return Member{Membership: m, User: byID[m.User]}
			}),
		}
	}), nil
}
