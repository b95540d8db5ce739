package discussionv1

import "google.golang.org/protobuf/types/known/timestamppb"

// User is the public view of an account; the password hash never leaves the server.
type User struct {
	Id            string                 `json:"id"`
	Username      string                 `json:"username"`
	DiscussionIds []string               `json:"discussion_ids"`
	CreatedAt     *timestamppb.Timestamp `json:"created_at"`
}

// Member is a membership with its user resolved. Username is empty when the
// user no longer exists.
type Member struct {
	UserId     string                 `json:"user_id"`
	Username   string                 `json:"username,omitempty"`
	LastSeenAt *timestamppb.Timestamp `json:"last_seen_at"`
}

type Discussion struct {
	Id                string                 `json:"id"`
	Name              string                 `json:"name"`
	Members           []*Member              `json:"members"`
	LastMessageSentAt *timestamppb.Timestamp `json:"last_message_sent_at,omitempty"`
	CreatedAt         *timestamppb.Timestamp `json:"created_at"`
	// Unseen is computed for the caller.
	Unseen bool `json:"unseen"`
}

type Message struct {
	Id           string                 `json:"id"`
	AuthorId     string                 `json:"author_id"`
	DiscussionId string                 `json:"discussion_id"`
	Content      string                 `json:"content"`
	CreatedAt    *timestamppb.Timestamp `json:"created_at"`
	UpdatedAt    *timestamppb.Timestamp `json:"updated_at"`
}

// ===== AUTH =====

type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=30"`
}

func (r *RegisterRequest) GetUsername() string {
	if r == nil {
		return ""
	}
	return r.Username
}

type LoginRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=30"`
}

func (r *LoginRequest) GetUsername() string {
	if r == nil {
		return ""
	}
	return r.Username
}

// AuthResponse answers Register and Login.
type AuthResponse struct {
	User      *User                  `json:"user"`
	Token     string                 `json:"token"`
	ExpiresAt *timestamppb.Timestamp `json:"expires_at"`
}

// ===== USERS =====

type MeRequest struct{}

type GetUserRequest struct {
	UserId string `json:"user_id" validate:"required,mongodb"`
}

type UserResponse struct {
	User *User `json:"user"`
}

type ListUsersRequest struct{}

type ListUsersResponse struct {
	Users []*User `json:"users"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required,max=30"`
	NewPassword     string `json:"new_password" validate:"required,max=30"`
}

type ChangePasswordResponse struct {
	// Changed is false when the new password equals the current one.
	Changed bool `json:"changed"`
}

// ===== DISCUSSIONS =====

type CreateDiscussionRequest struct {
	Name      string   `json:"name" validate:"required,max=100"`
	MemberIds []string `json:"member_ids" validate:"required,min=2,dive,mongodb"`
}

type CreateDiscussionResponse struct {
	Discussion *Discussion `json:"discussion"`
	// UnlinkedMemberIds lists members whose discussion list could not be updated.
	UnlinkedMemberIds []string `json:"unlinked_member_ids,omitempty"`
}

type GetDiscussionRequest struct {
	DiscussionId string `json:"discussion_id" validate:"required,mongodb"`
}

type DiscussionResponse struct {
	Discussion *Discussion `json:"discussion"`
}

type ListDiscussionsRequest struct {
	Page   int64 `json:"page" validate:"min=1"`
	Size   int64 `json:"size" validate:"min=1"`
	Unseen bool  `json:"unseen"`
}

type ListDiscussionsResponse struct {
	Discussions []*Discussion `json:"discussions"`
	Page        int64         `json:"page"`
	Size        int64         `json:"size"`
	Total       int64         `json:"total"`
	// Message explains an empty page.
	Message string `json:"message,omitempty"`
}

type AddMemberRequest struct {
	DiscussionId string `json:"discussion_id" validate:"required,mongodb"`
	UserId       string `json:"user_id" validate:"required,mongodb"`
}

type AddMemberResponse struct {
	Member *Member `json:"member"`
}

type MarkSeenRequest struct {
	DiscussionId string `json:"discussion_id" validate:"required,mongodb"`
}

type MarkSeenResponse struct {
	LastSeenAt *timestamppb.Timestamp `json:"last_seen_at"`
}

// ===== MESSAGES =====

type PostMessageRequest struct {
	DiscussionId string `json:"discussion_id" validate:"required,mongodb"`
	Content      string `json:"content" validate:"required,max=280"`
}

type MessageResponse struct {
	Message *Message `json:"message"`
}

type ListMessagesRequest struct {
	DiscussionId string `json:"discussion_id" validate:"required,mongodb"`
	Page         int64  `json:"page" validate:"min=1"`
	Size         int64  `json:"size" validate:"min=1"`
}

type ListMessagesResponse struct {
	Messages []*Message `json:"messages"`
	Page     int64      `json:"page"`
	Size     int64      `json:"size"`
	Total    int64      `json:"total"`
	Message  string     `json:"message,omitempty"`
}

type EditMessageRequest struct {
	MessageId string `json:"message_id" validate:"required,mongodb"`
	Content   string `json:"content" validate:"required,max=280"`
}

type DeleteMessageRequest struct {
	MessageId string `json:"message_id" validate:"required,mongodb"`
}

type DeleteMessageResponse struct{}

// ===== WATCH =====

type WatchRequest struct{}

// MessageEvent is pushed to Watch streams of every member of the discussion
// a message was posted to.
type MessageEvent struct {
	Message *Message `json:"message"`
}
