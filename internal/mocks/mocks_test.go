package mocks_test

import (
	"context"
	"testing"
	"time"

	"github.com/PaulBabatuyi/discussions-gRPC/internal/chat"
	"github.com/PaulBabatuyi/discussions-gRPC/internal/data"
	"github.com/PaulBabatuyi/discussions-gRPC/internal/mocks"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/mock/gomock"
)

var (
	_ chat.UserRepository       = (*mocks.MockUserRepository)(nil)
	_ chat.DiscussionRepository = (*mocks.MockDiscussionRepository)(nil)
	_ chat.MessageRepository    = (*mocks.MockMessageRepository)(nil)
	_ chat.PasswordHasher       = (*mocks.MockPasswordHasher)(nil)
)

func TestMockDiscussionRepository_AddMemberPassesMembership(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockDiscussionRepository(ctrl)

	discussionID := bson.NewObjectID()
	membership := data.Membership{User: bson.NewObjectID(), LastSeenAt: time.Now().UTC()}
	repo.EXPECT().AddMember(gomock.Any(), discussionID, membership).Return(data.ErrConflict)

	require.ErrorIs(t, repo.AddMember(context.Background(), discussionID, membership), data.ErrConflict)
}

func TestMockMessageRepository_CreateMessageReturnsStub(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockMessageRepository(ctrl)

	msg := &data.Message{Content: "hello"}
	saved := &data.Message{ID: bson.NewObjectID(), Content: "hello"}
	repo.EXPECT().CreateMessage(gomock.Any(), msg).Return(saved, nil)

	got, err := repo.CreateMessage(context.Background(), msg)
	require.NoError(t, err)
	require.Equal(t, saved, got)
}
