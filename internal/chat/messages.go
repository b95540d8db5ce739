package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PaulBabatuyi/discussions-gRPC/internal/data"
	"github.com/PaulBabatuyi/discussions-gRPC/internal/paginate"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// MaxContentLength is the longest message content, in characters.
const MaxContentLength = 280

// checkContent rejects blank content and content over MaxContentLength.
func checkContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("%w: message content is required", ErrValidation)
	}
	if n := utf8.RuneCountInString(content); n > MaxContentLength {
		return fmt.Errorf("%w: message content is %d characters, at most %d allowed", ErrValidation, n, MaxContentLength)
	}
	return nil
}

// Messages is the message store: posting, listing, editing and hiding.
// Reads check that the discussion exists but not that the caller is a member.
type Messages struct {
	users       UserRepository
	discussions DiscussionRepository
	messages    MessageRepository
	options
}

// NewMessages returns a Messages service over the given repositories.
func NewMessages(users UserRepository, discussions DiscussionRepository, messages MessageRepository, opts ...Option) *Messages {
	return &Messages{users: users, discussions: discussions, messages: messages, options: newOptions(opts)}
}

// Post appends a message by caller to discussionID and advances the
// discussion's lastMessageSentAt. The message is kept even if that update fails.
func (s *Messages) Post(ctx context.Context, caller, discussionID bson.ObjectID, content string) (*data.Message, error) {
	if caller.IsZero() {
		return nil, ErrUnauthenticated
	}
	if err := checkContent(content); err != nil {
		return nil, err
	}
	if _, err := s.users.GetUserByID(ctx, caller); err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return nil, ErrAuthorNotFound
		}
		return nil, fmt.Errorf("load author: %w", err)
	}
	if _, err := s.discussions.GetDiscussionByID(ctx, discussionID); err != nil {
		return nil, discussionLookupErr(err)
	}

	now := s.now()
	msg, err := s.messages.CreateMessage(ctx, &data.Message{
		Author:     caller,
		Discussion: discussionID,
		Content:    content,
		IsShowed:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return nil, fmt.Errorf("save message: %w", err)
	}

	if err := s.discussions.SetLastMessageSentAt(ctx, discussionID, msg.CreatedAt); err != nil {
		s.log.Warn("message saved but discussion not touched",
			"discussion_id", discussionID.Hex(),
			"message_id", msg.ID.Hex(),
			"error", err)
	}
	return msg, nil
}

// List returns one page of the visible messages of discussionID, oldest first.
// Total counts every visible message of the discussion.
func (s *Messages) List(ctx context.Context, discussionID bson.ObjectID, req paginate.Request) (paginate.Page[*data.Message], error) {
	var empty paginate.Page[*data.Message]
	if err := req.Validate(); err != nil {
		return empty, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if _, err := s.discussions.GetDiscussionByID(ctx, discussionID); err != nil {
		return empty, discussionLookupErr(err)
	}

	items, err := s.messages.ListVisibleMessages(ctx, discussionID, req.Skip(), req.Count())
	if err != nil {
		return empty, fmt.Errorf("list messages: %w", err)
	}
	total, err := s.messages.CountVisibleMessages(ctx, discussionID)
	if err != nil {
		return empty, fmt.Errorf("count messages: %w", err)
	}
	return paginate.New(items, req, total), nil
}

// Edit replaces the content of messageID. Only the author may edit, and a
// hidden message is reported as not found.
func (s *Messages) Edit(ctx context.Context, caller, messageID bson.ObjectID, content string) (*data.Message, error) {
	if err := checkContent(content); err != nil {
		return nil, err
	}
	msg, err := s.authorize(ctx, caller, messageID, false)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.messages.UpdateContent(ctx, messageID, content, now); err != nil {
		return nil, messageLookupErr(err)
	}
	msg.Content = content
	msg.UpdatedAt = now
	return msg, nil
}

// SoftDelete hides messageID from listings. Only the author may hide a
// message; hiding an already hidden one succeeds again.
func (s *Messages) SoftDelete(ctx context.Context, caller, messageID bson.ObjectID) error {
	if _, err := s.authorize(ctx, caller, messageID, true); err != nil {
		return err
	}
	if err := s.messages.HideMessage(ctx, messageID, s.now()); err != nil {
		return messageLookupErr(err)
	}
	return nil
}

// authorize loads messageID and checks caller authored it. Authorship is
// compared on usernames of the resolved users.
func (s *Messages) authorize(ctx context.Context, caller, messageID bson.ObjectID, allowHidden bool) (*data.Message, error) {
	if caller.IsZero() {
		return nil, ErrUnauthenticated
	}
	user, err := s.users.GetUserByID(ctx, caller)
	if err != nil {
		return nil, userLookupErr(err)
	}
	msg, err := s.messages.GetMessageByID(ctx, messageID)
	if err != nil {
		return nil, messageLookupErr(err)
	}
	if !msg.IsShowed && !allowHidden {
		return nil, ErrMessageNotFound
	}

	author, err := s.users.GetUserByID(ctx, msg.Author)
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return nil, ErrForbidden
		}
		return nil, fmt.Errorf("load author: %w", err)
	}
	if author.Username != user.Username {
		return nil, ErrForbidden
	}
	return msg, nil
}

func messageLookupErr(err error) error {
	if errors.Is(err, data.ErrNotFound) {
		return ErrMessageNotFound
	}
	return fmt.Errorf("load message: %w", err)
}
