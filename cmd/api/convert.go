package main

import (
	"time"

	v1 "github.com/PaulBabatuyi/discussions-gRPC/api/discussion/v1"
	"github.com/PaulBabatuyi/discussions-gRPC/internal/chat"
	"github.com/PaulBabatuyi/discussions-gRPC/internal/data"
	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/v2/bson"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// parseID decodes a hex ObjectID from a request field.
func parseID(field, hex string) (bson.ObjectID, error) {
	id, err := bson.ObjectIDFromHex(hex)
	if err != nil {
		return bson.ObjectID{}, status.Errorf(codes.InvalidArgument, "invalid %s", field)
	}
	return id, nil
}

func optionalTimestamp(t *time.Time) *timestamppb.Timestamp {
	if t == nil {
		return nil
	}
	return timestamppb.New(*t)
}

func hexIDs(ids []bson.ObjectID) []string {
	return lo.Map(ids, func(id bson.ObjectID, _ int) string { return id.Hex() })
}

func toUser(u *data.User) *v1.User {
	return &v1.User{
		Id:            u.ID.Hex(),
		Username:      u.Username,
		DiscussionIds: hexIDs(u.Discussions),
		CreatedAt:     timestamppb.New(u.CreatedAt),
	}
}

func toMember(m chat.Member) *v1.Member {
	out := &v1.Member{
		UserId:     m.Membership.User.Hex(),
		LastSeenAt: timestamppb.New(m.LastSeenAt),
	}
	if m.User != nil {
		out.Username = m.User.Username
	}
	return out
}

// toDiscussion renders d as seen by caller.
func toDiscussion(d *chat.DiscussionView, caller bson.ObjectID) *v1.Discussion {
	return &v1.Discussion{
		Id:                d.ID.Hex(),
		Name:              d.Name,
		Members:           lo.Map(d.Members, func(m chat.Member, _ int) *v1.Member { return toMember(m) }),
		LastMessageSentAt: optionalTimestamp(d.LastMessageSentAt),
		CreatedAt:         timestamppb.New(d.CreatedAt),
		Unseen:            d.UnseenBy(caller),
	}
}

func toMessage(m *data.Message) *v1.Message {
	return &v1.Message{
		Id:           m.ID.Hex(),
		AuthorId:     m.Author.Hex(),
		DiscussionId: m.Discussion.Hex(),
		Content:      m.Content,
		CreatedAt:    timestamppb.New(m.CreatedAt),
		UpdatedAt:    timestamppb.New(m.UpdatedAt),
	}
}
