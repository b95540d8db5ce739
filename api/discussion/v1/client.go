package discussionv1

import (
	"context"

	"google.golang.org/grpc"
)

// DiscussionServiceClient calls DiscussionService over cc. Every call is
// sent with the JSON content-subtype.
type DiscussionServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewDiscussionServiceClient returns a client on cc.
func NewDiscussionServiceClient(cc grpc.ClientConnInterface) *DiscussionServiceClient {
	return &DiscussionServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DiscussionServiceClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[AuthResponse](ctx, c.cc, DiscussionService_Register_FullMethodName, in, opts)
}

func (c *DiscussionServiceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[AuthResponse](ctx, c.cc, DiscussionService_Login_FullMethodName, in, opts)
}

func (c *DiscussionServiceClient) Me(ctx context.Context, in *MeRequest, opts ...grpc.CallOption) (*UserResponse, error) {
	return invoke[UserResponse](ctx, c.cc, DiscussionService_Me_FullMethodName, in, opts)
}

func (c *DiscussionServiceClient) GetUser(ctx context.Context, in *GetUserRequest, opts ...grpc.CallOption) (*UserResponse, error) {
	return invoke[UserResponse](ctx, c.cc, DiscussionService_GetUser_FullMethodName, in, opts)
}

func (c *DiscussionServiceClient) ListUsers(ctx context.Context, in *ListUsersRequest, opts ...grpc.CallOption) (*ListUsersResponse, error) {
	return invoke[ListUsersResponse](ctx, c.cc, DiscussionService_ListUsers_FullMethodName, in, opts)
}

func (c *DiscussionServiceClient) ChangePassword(ctx context.Context, in *ChangePasswordRequest, opts ...grpc.CallOption) (*ChangePasswordResponse, error) {
	return invoke[ChangePasswordResponse](ctx, c.cc, DiscussionService_ChangePassword_FullMethodName, in, opts)
}

func (c *DiscussionServiceClient) CreateDiscussion(ctx context.Context, in *CreateDiscussionRequest, opts ...grpc.CallOption) (*CreateDiscussionResponse, error) {
	return invoke[CreateDiscussionResponse](ctx, c.cc, DiscussionService_CreateDiscussion_FullMethodName, in, opts)
}

func (c *DiscussionServiceClient) GetDiscussion(ctx context.Context, in *GetDiscussionRequest, opts ...grpc.CallOption) (*DiscussionResponse, error) {
	return invoke[DiscussionResponse](ctx, c.cc, DiscussionService_GetDiscussion_FullMethodName, in, opts)
}

func (c *DiscussionServiceClient) ListDiscussions(ctx context.Context, in *ListDiscussionsRequest, opts ...grpc.CallOption) (*ListDiscussionsResponse, error) {
	return invoke[ListDiscussionsResponse](ctx, c.cc, DiscussionService_ListDiscussions_FullMethodName, in, opts)
}

func (c *DiscussionServiceClient) AddMember(ctx context.Context, in *AddMemberRequest, opts ...grpc.CallOption) (*AddMemberResponse, error) {
	return invoke[AddMemberResponse](ctx, c.cc, DiscussionService_AddMember_FullMethodName, in, opts)
}

func (c *DiscussionServiceClient) MarkSeen(ctx context.Context, in *MarkSeenRequest, opts ...grpc.CallOption) (*MarkSeenResponse, error) {
	return invoke[MarkSeenResponse](ctx, c.cc, DiscussionService_MarkSeen_FullMethodName, in, opts)
}

func (c *DiscussionServiceClient) PostMessage(ctx context.Context, in *PostMessageRequest, opts ...grpc.CallOption) (*MessageResponse, error) {
	return invoke[MessageResponse](ctx, c.cc, DiscussionService_PostMessage_FullMethodName, in, opts)
}

func (c *DiscussionServiceClient) ListMessages(ctx context.Context, in *ListMessagesRequest, opts ...grpc.CallOption) (*ListMessagesResponse, error) {
	return invoke[ListMessagesResponse](ctx, c.cc, DiscussionService_ListMessages_FullMethodName, in, opts)
}

func (c *DiscussionServiceClient) EditMessage(ctx context.Context, in *EditMessageRequest, opts ...grpc.CallOption) (*MessageResponse, error) {
	return invoke[MessageResponse](ctx, c.cc, DiscussionService_EditMessage_FullMethodName, in, opts)
}

func (c *DiscussionServiceClient) DeleteMessage(ctx context.Context, in *DeleteMessageRequest, opts ...grpc.CallOption) (*DeleteMessageResponse, error) {
	return invoke[DeleteMessageResponse](ctx, c.cc, DiscussionService_DeleteMessage_FullMethodName, in, opts)
}

// Watch opens a stream of MessageEvents for the caller's discussions.
func (c *DiscussionServiceClient) Watch(ctx context.Context, in *WatchRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[MessageEvent], error) {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	stream, err := c.cc.NewStream(ctx, &DiscussionService_ServiceDesc.Streams[0], DiscussionService_Watch_FullMethodName, opts...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[WatchRequest, MessageEvent]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}
