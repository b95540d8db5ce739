package main

import (
	"context"

	v1 "github.com/PaulBabatuyi/discussions-gRPC/api/discussion/v1"
	"github.com/PaulBabatuyi/discussions-gRPC/internal/chat"
	"github.com/PaulBabatuyi/discussions-gRPC/internal/normalize"
	"github.com/PaulBabatuyi/discussions-gRPC/internal/paginate"
	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/v2/bson"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// CreateDiscussion creates a discussion and links it to every member.
// Members that could not be linked are reported, not rolled back.
func (s *Server) CreateDiscussion(ctx context.Context, req *v1.CreateDiscussionRequest) (*v1.CreateDiscussionResponse, error) {
	req.Name = normalize.Text(req.Name)
	if err := s.check(req); err != nil {
		return nil, err
	}
	caller, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	members := make([]bson.ObjectID, 0, len(req.MemberIds))
	for _, hex := range req.MemberIds {
		id, err := parseID("member_ids", hex)
		if err != nil {
			return nil, err
		}
		members = append(members, id)
	}

	res, err := s.ledger.CreateDiscussion(ctx, req.Name, members)
	if err != nil {
		return nil, toStatus(s.log, "create discussion", err)
	}
	s.metrics.RecordLinkageFailures(len(res.Unlinked))

	view, err := s.feed.Get(ctx, res.Discussion.ID)
	if err != nil {
		return nil, toStatus(s.log, "load discussion", err)
	}
	return &v1.CreateDiscussionResponse{
		Discussion:        toDiscussion(view, caller),
		UnlinkedMemberIds: hexIDs(res.Unlinked),
	}, nil
}

// GetDiscussion returns a discussion with its members.
func (s *Server) GetDiscussion(ctx context.Context, req *v1.GetDiscussionRequest) (*v1.DiscussionResponse, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	caller, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	id, err := parseID("discussion_id", req.DiscussionId)
	if err != nil {
		return nil, err
	}

	view, err := s.feed.Get(ctx, id)
	if err != nil {
		return nil, toStatus(s.log, "load discussion", err)
	}
	return &v1.DiscussionResponse{Discussion: toDiscussion(view, caller)}, nil
}

// ListDiscussions returns one page of the caller's discussions.
func (s *Server) ListDiscussions(ctx context.Context, req *v1.ListDiscussionsRequest) (*v1.ListDiscussionsResponse, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	caller, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	page, err := s.feed.ListForUser(ctx, caller, paginate.Request{Page: req.Page, Size: req.Size}, req.Unseen)
	if err != nil {
		return nil, toStatus(s.log, "list discussions", err)
	}

	resp := &v1.ListDiscussionsResponse{
		Discussions: lo.Map(page.Items, func(d *chat.DiscussionView, _ int) *v1.Discussion { return toDiscussion(d, caller) }),
		Page:        page.Page,
		Size:        page.Size,
		Total:       page.Total,
	}
	if page.Empty() {
		resp.Message = "discussions not found"
	}
	return resp, nil
}

// AddMember admits a user into a discussion.
func (s *Server) AddMember(ctx context.Context, req *v1.AddMemberRequest) (*v1.AddMemberResponse, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	discussionID, err := parseID("discussion_id", req.DiscussionId)
	if err != nil {
		return nil, err
	}
	userID, err := parseID("user_id", req.UserId)
	if err != nil {
		return nil, err
	}

	m, err := s.ledger.AddMember(ctx, discussionID, userID)
	if err != nil {
		return nil, toStatus(s.log, "add member", err)
	}
	user, err := s.directory.FindByID(ctx, userID)
	if err != nil {
		return nil, toStatus(s.log, "load user", err)
	}
	return &v1.AddMemberResponse{Member: toMember(chat.Member{Membership: *m, User: user})}, nil
}

// MarkSeen records that the caller has read a discussion up to now.
func (s *Server) MarkSeen(ctx context.Context, req *v1.MarkSeenRequest) (*v1.MarkSeenResponse, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	caller, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	id, err := parseID("discussion_id", req.DiscussionId)
	if err != nil {
		return nil, err
	}

	now := s.ledger.Now()
	if err := s.ledger.MarkSeen(ctx, id, caller, now); err != nil {
		return nil, toStatus(s.log, "mark discussion seen", err)
	}
	return &v1.MarkSeenResponse{LastSeenAt: timestamppb.New(now)}, nil
}
