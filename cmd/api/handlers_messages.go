package main

import (
	"context"
	"errors"

	v1 "github.com/PaulBabatuyi/discussions-gRPC/api/discussion/v1"
	"github.com/PaulBabatuyi/discussions-gRPC/internal/data"
	"github.com/PaulBabatuyi/discussions-gRPC/internal/normalize"
	"github.com/PaulBabatuyi/discussions-gRPC/internal/paginate"
	"github.com/samber/lo"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// PostMessage stores a message and pushes it to the discussion's members.
func (s *Server) PostMessage(ctx context.Context, req *v1.PostMessageRequest) (*v1.MessageResponse, error) {
	req.Content = normalize.Text(req.Content)
	if err := s.check(req); err != nil {
		return nil, err
	}
	caller, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	discussionID, err := parseID("discussion_id", req.DiscussionId)
	if err != nil {
		return nil, err
	}

	msg, err := s.messages.Post(ctx, caller, discussionID, req.Content)
	if err != nil {
		return nil, toStatus(s.log, "post message", err)
	}
	s.metrics.RecordMessagePosted()

	out := toMessage(msg)
	s.deliver(ctx, msg, out)
	return &v1.MessageResponse{Message: out}, nil
}

// deliver queues out for every connected member of the message's discussion.
// Delivery is best-effort: offline or lagging members read it through
// ListMessages. Queueing never blocks on a stream.
func (s *Server) deliver(ctx context.Context, msg *data.Message, out *v1.Message) {
	if s.hub == nil {
		return
	}
	view, err := s.feed.Get(ctx, msg.Discussion)
	if err != nil {
		s.log.Warn("live delivery skipped", "discussion_id", msg.Discussion.Hex(), "error", err)
		return
	}

	event := &v1.MessageEvent{Message: out}
	for _, m := range view.Discussion.Members {
		err := s.hub.SendToUser(m.User.Hex(), event)
		switch {
		case errors.Is(err, ErrSlowConsumer):
			s.log.Warn("dropped lagging watch stream", "user_id", m.User.Hex(), "error", err)
		case err != nil:
			s.log.Debug("user offline", "user_id", m.User.Hex(), "error", err)
		}
	}
}

// ListMessages returns one page of the visible messages of a discussion.
func (s *Server) ListMessages(ctx context.Context, req *v1.ListMessagesRequest) (*v1.ListMessagesResponse, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	id, err := parseID("discussion_id", req.DiscussionId)
	if err != nil {
		return nil, err
	}

	page, err := s.messages.List(ctx, id, paginate.Request{Page: req.Page, Size: req.Size})
	if err != nil {
		return nil, toStatus(s.log, "list messages", err)
	}

	resp := &v1.ListMessagesResponse{
		Messages: lo.Map(page.Items, func(m *data.Message, _ int) *v1.Message { return toMessage(m) }),
		Page:     page.Page,
		Size:     page.Size,
		Total:    page.Total,
	}
	if page.Empty() {
		resp.Message = "no messages in this discussion"
	}
	return resp, nil
}

// EditMessage replaces the content of one of the caller's messages.
func (s *Server) EditMessage(ctx context.Context, req *v1.EditMessageRequest) (*v1.MessageResponse, error) {
	req.Content = normalize.Text(req.Content)
	if err := s.check(req); err != nil {
		return nil, err
	}
	caller, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	id, err := parseID("message_id", req.MessageId)
	if err != nil {
		return nil, err
	}

	msg, err := s.messages.Edit(ctx, caller, id, req.Content)
	if err != nil {
		return nil, toStatus(s.log, "edit message", err)
	}
	return &v1.MessageResponse{Message: toMessage(msg)}, nil
}

// DeleteMessage hides one of the caller's messages.
func (s *Server) DeleteMessage(ctx context.Context, req *v1.DeleteMessageRequest) (*v1.DeleteMessageResponse, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	caller, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	id, err := parseID("message_id", req.MessageId)
	if err != nil {
		return nil, err
	}

	if err := s.messages.SoftDelete(ctx, caller, id); err != nil {
		return nil, toStatus(s.log, "delete message", err)
	}
	return &v1.DeleteMessageResponse{}, nil
}

// Watch streams messages posted to the caller's discussions until the
// client goes away.
func (s *Server) Watch(_ *v1.WatchRequest, stream grpc.ServerStreamingServer[v1.MessageEvent]) error {
	ctx := stream.Context()
	caller, err := callerID(ctx)
	if err != nil {
		return err
	}
	if s.hub == nil {
		return status.Error(codes.Unavailable, "live delivery disabled")
	}

	key := caller.Hex()
	connID, events := s.hub.Register(key)
	defer s.hub.Unregister(key, connID)

	s.metrics.WatchOpened()
	defer s.metrics.WatchClosed()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return status.Error(codes.ResourceExhausted, "watch stream fell behind, reconnect and list messages")
			}
			if err := stream.Send(ev); err != nil {
				return err
			}
		}
	}
}
