package chat_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/PaulBabatuyi/discussions-gRPC/internal/chat"
	"github.com/PaulBabatuyi/discussions-gRPC/internal/data"
	"github.com/PaulBabatuyi/discussions-gRPC/internal/mocks"
	"github.com/PaulBabatuyi/discussions-gRPC/internal/paginate"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/mock/gomock"
)

func messageIDs(msgs []*data.Message) []bson.ObjectID {
	return lo.Map(msgs, func(m *data.Message, _ int) bson.ObjectID { return m.ID })
}

func TestMessages_Post(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	e := newEnv(t)
	alice, bob := e.register(t, "alice"), e.register(t, "bob")
	res, err := e.ledger.CreateDiscussion(ctx, "team", []bson.ObjectID{alice.ID, bob.ID})
	req.NoError(err)

	msg, err := e.messages.Post(ctx, alice.ID, res.Discussion.ID, "hello")
	req.NoError(err)
	req.True(msg.IsShowed)
	req.Equal(alice.ID, msg.Author)

	d, err := e.feed.Get(ctx, res.Discussion.ID)
	req.NoError(err)
	req.NotNil(d.LastMessageSentAt)
	req.True(d.LastMessageSentAt.Equal(msg.CreatedAt))

	_, err = e.messages.Post(ctx, alice.ID, bson.NewObjectID(), "lost")
	req.ErrorIs(err, chat.ErrDiscussionNotFound)
	_, err = e.messages.Post(ctx, bson.NewObjectID(), res.Discussion.ID, "who")
	req.ErrorIs(err, chat.ErrAuthorNotFound)
	_, err = e.messages.Post(ctx, bson.ObjectID{}, res.Discussion.ID, "anon")
	req.ErrorIs(err, chat.ErrUnauthenticated)
}

func TestMessages_ContentLimits(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	alice, bob := e.register(t, "alice"), e.register(t, "bob")
	res, err := e.ledger.CreateDiscussion(ctx, "team", []bson.ObjectID{alice.ID, bob.ID})
	require.NoError(t, err)
	id := res.Discussion.ID

	t.Run("should reject blank content", func(t *testing.T) {
		req := require.New(t)
		for _, content := range []string{"", "   ", "\n\t"} {
			_, err := e.messages.Post(ctx, alice.ID, id, content)
			req.ErrorIs(err, chat.ErrValidation, "%q", content)
		}
		page, err := e.messages.List(ctx, id, paginate.Request{Page: 1, Size: 10})
		req.NoError(err)
		req.Zero(page.Total)
	})

	t.Run("should cap content at the character limit", func(t *testing.T) {
		req := require.New(t)
		_, err := e.messages.Post(ctx, alice.ID, id, strings.Repeat("x", chat.MaxContentLength+1))
		req.ErrorIs(err, chat.ErrValidation)

		msg, err := e.messages.Post(ctx, alice.ID, id, strings.Repeat("ü", chat.MaxContentLength))
		req.NoError(err)

		_, err = e.messages.Edit(ctx, alice.ID, msg.ID, "  ")
		req.ErrorIs(err, chat.ErrValidation)
		_, err = e.messages.Edit(ctx, alice.ID, msg.ID, strings.Repeat("y", chat.MaxContentLength+1))
		req.ErrorIs(err, chat.ErrValidation)

		stored, err := e.db.Messages().GetMessageByID(ctx, msg.ID)
		req.NoError(err)
		req.Equal(strings.Repeat("ü", chat.MaxContentLength), stored.Content)
	})
}

func TestMessages_ListPagination(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	e := newEnv(t)
	alice, bob := e.register(t, "alice"), e.register(t, "bob")
	res, err := e.ledger.CreateDiscussion(ctx, "team", []bson.ObjectID{alice.ID, bob.ID})
	req.NoError(err)
	id := res.Discussion.ID

	var posted []*data.Message
	for i := 0; i < 7; i++ {
		m, err := e.messages.Post(ctx, alice.ID, id, fmt.Sprintf("m%d", i))
		req.NoError(err)
		posted = append(posted, m)
	}

	page, err := e.messages.List(ctx, id, paginate.Request{Page: 2, Size: 3})
	req.NoError(err)
	req.Equal(int64(7), page.Total)
	req.Equal(messageIDs(posted[3:6]), messageIDs(page.Items))

	last, err := e.messages.List(ctx, id, paginate.Request{Page: 3, Size: 3})
	req.NoError(err)
	req.Equal(messageIDs(posted[6:]), messageIDs(last.Items))

	beyond, err := e.messages.List(ctx, id, paginate.Request{Page: 4, Size: 3})
	req.NoError(err)
	req.True(beyond.Empty())
	req.Equal(int64(7), beyond.Total)

	_, err = e.messages.List(ctx, id, paginate.Request{Page: 0, Size: 3})
	req.ErrorIs(err, chat.ErrValidation)
	huge, err := e.messages.List(ctx, id, paginate.Request{Page: 1 << 62, Size: 4})
	req.ErrorIs(err, chat.ErrValidation)
	req.True(huge.Empty())
	_, err = e.messages.List(ctx, bson.NewObjectID(), paginate.Request{Page: 1, Size: 3})
	req.ErrorIs(err, chat.ErrDiscussionNotFound)
}

func TestMessages_SoftDelete(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	e := newEnv(t)
	alice, bob := e.register(t, "alice"), e.register(t, "bob")
	res, err := e.ledger.CreateDiscussion(ctx, "team", []bson.ObjectID{alice.ID, bob.ID})
	req.NoError(err)
	id := res.Discussion.ID

	keep, err := e.messages.Post(ctx, alice.ID, id, "keep")
	req.NoError(err)
	gone, err := e.messages.Post(ctx, alice.ID, id, "gone")
	req.NoError(err)

	req.ErrorIs(e.messages.SoftDelete(ctx, bob.ID, gone.ID), chat.ErrForbidden)

	req.NoError(e.messages.SoftDelete(ctx, alice.ID, gone.ID))
	req.NoError(e.messages.SoftDelete(ctx, alice.ID, gone.ID))

	page, err := e.messages.List(ctx, id, paginate.Request{Page: 1, Size: 10})
	req.NoError(err)
	req.Equal([]bson.ObjectID{keep.ID}, messageIDs(page.Items))
	req.Equal(int64(1), page.Total)

	stored, err := e.db.Messages().GetMessageByID(ctx, gone.ID)
	req.NoError(err)
	req.False(stored.IsShowed)
	req.Equal("gone", stored.Content)

	_, err = e.messages.Edit(ctx, alice.ID, gone.ID, "back")
	req.ErrorIs(err, chat.ErrMessageNotFound)

	req.ErrorIs(e.messages.SoftDelete(ctx, alice.ID, bson.NewObjectID()), chat.ErrMessageNotFound)
}

func TestMessages_Edit(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	alice, bob := e.register(t, "alice"), e.register(t, "bob")
	res, err := e.ledger.CreateDiscussion(ctx, "team", []bson.ObjectID{alice.ID, bob.ID})
	require.NoError(t, err)
	msg, err := e.messages.Post(ctx, alice.ID, res.Discussion.ID, "original")
	require.NoError(t, err)

	t.Run("should forbid non-authors and keep the content", func(t *testing.T) {
		req := require.New(t)
		_, err := e.messages.Edit(ctx, bob.ID, msg.ID, "hijacked")
		req.ErrorIs(err, chat.ErrForbidden)

		stored, err := e.db.Messages().GetMessageByID(ctx, msg.ID)
		req.NoError(err)
		req.Equal("original", stored.Content)
	})

	t.Run("should let the author edit", func(t *testing.T) {
		req := require.New(t)
		edited, err := e.messages.Edit(ctx, alice.ID, msg.ID, "fixed")
		req.NoError(err)
		req.Equal("fixed", edited.Content)
		req.True(edited.UpdatedAt.After(msg.CreatedAt))

		stored, err := e.db.Messages().GetMessageByID(ctx, msg.ID)
		req.NoError(err)
		req.Equal("fixed", stored.Content)
	})

	t.Run("should report unknown messages", func(t *testing.T) {
		_, err := e.messages.Edit(ctx, alice.ID, bson.NewObjectID(), "x")
		require.ErrorIs(t, err, chat.ErrNotFound)
	})
}

func TestMessages_PostSurvivesTimestampFailure(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserRepository(ctrl)
	discussions := mocks.NewMockDiscussionRepository(ctrl)
	messages := mocks.NewMockMessageRepository(ctrl)
	svc := chat.NewMessages(users, discussions, messages)

	author := &data.User{ID: bson.NewObjectID(), Username: "alice"}
	d := &data.Discussion{ID: bson.NewObjectID()}

	users.EXPECT().GetUserByID(gomock.Any(), author.ID).Return(author, nil)
	discussions.EXPECT().GetDiscussionByID(gomock.Any(), d.ID).Return(d, nil)
	messages.EXPECT().
		CreateMessage(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, m *data.Message) (*data.Message, error) {
			m.ID = bson.NewObjectID()
			return m, nil
		})
	discussions.EXPECT().
		SetLastMessageSentAt(gomock.Any(), d.ID, gomock.Any()).
		Return(errors.New("write concern timeout"))

	msg, err := svc.Post(context.Background(), author.ID, d.ID, "hello")
	req.NoError(err)
	req.False(msg.ID.IsZero())
	req.Equal("hello", msg.Content)
}

func TestMessages_EditStoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserRepository(ctrl)
	messages := mocks.NewMockMessageRepository(ctrl)
	svc := chat.NewMessages(users, mocks.NewMockDiscussionRepository(ctrl), messages)

	author := &data.User{ID: bson.NewObjectID(), Username: "alice"}
	msg := &data.Message{ID: bson.NewObjectID(), Author: author.ID, IsShowed: true, Content: "x"}
	boom := errors.New("boom")

	users.EXPECT().GetUserByID(gomock.Any(), author.ID).Return(author, nil).Times(2)
	messages.EXPECT().GetMessageByID(gomock.Any(), msg.ID).Return(msg, nil)
	messages.EXPECT().UpdateContent(gomock.Any(), msg.ID, "y", gomock.Any()).Return(boom)

	_, err := svc.Edit(context.Background(), author.ID, msg.ID, "y")
	require.ErrorIs(t, err, boom)
	require.NotErrorIs(t, err, chat.ErrNotFound)
}
