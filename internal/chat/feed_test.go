package chat_test

import (
	"context"
	"testing"

	"github.com/PaulBabatuyi/discussions-gRPC/internal/chat"
	"github.com/PaulBabatuyi/discussions-gRPC/internal/paginate"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func viewNames(views []*chat.DiscussionView) []string {
	return lo.Map(views, func(v *chat.DiscussionView, _ int) string { return v.Name })
}

func TestFeed_UnseenScenario(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	e := newEnv(t)
	a, b := e.register(t, "alice"), e.register(t, "bob")
	all := paginate.Request{Page: 1, Size: 10}

	res, err := e.ledger.CreateDiscussion(ctx, "team", []bson.ObjectID{a.ID, b.ID})
	req.NoError(err)
	team := res.Discussion.ID

	// never messaged: never unseen
	page, err := e.feed.ListForUser(ctx, b.ID, all, true)
	req.NoError(err)
	req.True(page.Empty())

	_, err = e.messages.Post(ctx, a.ID, team, "hello")
	req.NoError(err)

	page, err = e.feed.ListForUser(ctx, b.ID, all, true)
	req.NoError(err)
	req.Equal([]string{"team"}, viewNames(page.Items))

	req.NoError(e.ledger.MarkSeen(ctx, team, b.ID, e.ledger.Now()))

	page, err = e.feed.ListForUser(ctx, b.ID, all, true)
	req.NoError(err)
	req.True(page.Empty())

	page, err = e.feed.ListForUser(ctx, b.ID, all, false)
	req.NoError(err)
	req.Equal([]string{"team"}, viewNames(page.Items))
}

func TestFeed_ListForUser(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	e := newEnv(t)
	a, b, c := e.register(t, "alice"), e.register(t, "bob"), e.register(t, "carol")

	for _, name := range []string{"one", "two", "three"} {
		_, err := e.ledger.CreateDiscussion(ctx, name, []bson.ObjectID{a.ID, b.ID})
		req.NoError(err)
	}
	_, err := e.ledger.CreateDiscussion(ctx, "elsewhere", []bson.ObjectID{b.ID, c.ID})
	req.NoError(err)

	page, err := e.feed.ListForUser(ctx, a.ID, paginate.Request{Page: 1, Size: 2}, false)
	req.NoError(err)
	req.Equal([]string{"one", "two"}, viewNames(page.Items))
	req.Equal(int64(3), page.Total)

	first := page.Items[0]
	req.Len(first.Members, 2)
	names := lo.Map(first.Members, func(m chat.Member, _ int) string { return m.User.Username })
	req.ElementsMatch([]string{"alice", "bob"}, names)

	page, err = e.feed.ListForUser(ctx, a.ID, paginate.Request{Page: 2, Size: 2}, false)
	req.NoError(err)
	req.Equal([]string{"three"}, viewNames(page.Items))

	page, err = e.feed.ListForUser(ctx, c.ID, paginate.Request{Page: 1, Size: 10}, false)
	req.NoError(err)
	req.Equal([]string{"elsewhere"}, viewNames(page.Items))

	_, err = e.feed.ListForUser(ctx, bson.ObjectID{}, paginate.Request{Page: 1, Size: 1}, false)
	req.ErrorIs(err, chat.ErrUnauthenticated)
	_, err = e.feed.ListForUser(ctx, a.ID, paginate.Request{Page: 1, Size: 0}, false)
	req.ErrorIs(err, chat.ErrValidation)
	_, err = e.feed.ListForUser(ctx, a.ID, paginate.Request{Page: 1 << 62, Size: 4}, false)
	req.ErrorIs(err, chat.ErrValidation)
	_, err = e.feed.ListForUser(ctx, bson.NewObjectID(), paginate.Request{Page: 1, Size: 1}, false)
	req.ErrorIs(err, chat.ErrUserNotFound)
}

func TestFeed_Get(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	_, err := e.feed.Get(ctx, bson.NewObjectID())
	require.ErrorIs(t, err, chat.ErrDiscussionNotFound)
}
