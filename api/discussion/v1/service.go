package discussionv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "discussion.v1.DiscussionService"

// Full method names, as seen by interceptors.
const (
	DiscussionService_Register_FullMethodName         = "/" + ServiceName + "/Register"
	DiscussionService_Login_FullMethodName            = "/" + ServiceName + "/Login"
	DiscussionService_Me_FullMethodName               = "/" + ServiceName + "/Me"
	DiscussionService_GetUser_FullMethodName          = "/" + ServiceName + "/GetUser"
	DiscussionService_ListUsers_FullMethodName        = "/" + ServiceName + "/ListUsers"
	DiscussionService_ChangePassword_FullMethodName   = "/" + ServiceName + "/ChangePassword"
	DiscussionService_CreateDiscussion_FullMethodName = "/" + ServiceName + "/CreateDiscussion"
	DiscussionService_GetDiscussion_FullMethodName    = "/" + ServiceName + "/GetDiscussion"
	DiscussionService_ListDiscussions_FullMethodName  = "/" + ServiceName + "/ListDiscussions"
	DiscussionService_AddMember_FullMethodName        = "/" + ServiceName + "/AddMember"
	DiscussionService_MarkSeen_FullMethodName         = "/" + ServiceName + "/MarkSeen"
	DiscussionService_PostMessage_FullMethodName      = "/" + ServiceName + "/PostMessage"
	DiscussionService_ListMessages_FullMethodName     = "/" + ServiceName + "/ListMessages"
	DiscussionService_EditMessage_FullMethodName      = "/" + ServiceName + "/EditMessage"
	DiscussionService_DeleteMessage_FullMethodName    = "/" + ServiceName + "/DeleteMessage"
	DiscussionService_Watch_FullMethodName            = "/" + ServiceName + "/Watch"
)

// DiscussionServiceServer is the server API for DiscussionService.
// Implementations must embed UnimplementedDiscussionServiceServer.
type DiscussionServiceServer interface {
	Register(context.Context, *RegisterRequest) (*AuthResponse, error)
	Login(context.Context, *LoginRequest) (*AuthResponse, error)
	Me(context.Context, *MeRequest) (*UserResponse, error)
	GetUser(context.Context, *GetUserRequest) (*UserResponse, error)
	ListUsers(context.Context, *ListUsersRequest) (*ListUsersResponse, error)
	ChangePassword(context.Context, *ChangePasswordRequest) (*ChangePasswordResponse, error)
	CreateDiscussion(context.Context, *CreateDiscussionRequest) (*CreateDiscussionResponse, error)
	GetDiscussion(context.Context, *GetDiscussionRequest) (*DiscussionResponse, error)
	ListDiscussions(context.Context, *ListDiscussionsRequest) (*ListDiscussionsResponse, error)
	AddMember(context.Context, *AddMemberRequest) (*AddMemberResponse, error)
	MarkSeen(context.Context, *MarkSeenRequest) (*MarkSeenResponse, error)
	PostMessage(context.Context, *PostMessageRequest) (*MessageResponse, error)
	ListMessages(context.Context, *ListMessagesRequest) (*ListMessagesResponse, error)
	EditMessage(context.Context, *EditMessageRequest) (*MessageResponse, error)
	DeleteMessage(context.Context, *DeleteMessageRequest) (*DeleteMessageResponse, error)
	Watch(*WatchRequest, grpc.ServerStreamingServer[MessageEvent]) error
	mustEmbedUnimplementedDiscussionServiceServer()
}

// UnimplementedDiscussionServiceServer must be embedded by value.
type UnimplementedDiscussionServiceServer struct{}

func unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

func (UnimplementedDiscussionServiceServer) Register(context.Context, *RegisterRequest) (*AuthResponse, error) {
	return nil, unimplemented("Register")
}
func (UnimplementedDiscussionServiceServer) Login(context.Context, *LoginRequest) (*AuthResponse, error) {
	return nil, unimplemented("Login")
}
func (UnimplementedDiscussionServiceServer) Me(context.Context, *MeRequest) (*UserResponse, error) {
	return nil, unimplemented("Me")
}
func (UnimplementedDiscussionServiceServer) GetUser(context.Context, *GetUserRequest) (*UserResponse, error) {
	return nil, unimplemented("GetUser")
}
func (UnimplementedDiscussionServiceServer) ListUsers(context.Context, *ListUsersRequest) (*ListUsersResponse, error) {
	return nil, unimplemented("ListUsers")
}
func (UnimplementedDiscussionServiceServer) ChangePassword(context.Context, *ChangePasswordRequest) (*ChangePasswordResponse, error) {
	return nil, unimplemented("ChangePassword")
}
func (UnimplementedDiscussionServiceServer) CreateDiscussion(context.Context, *CreateDiscussionRequest) (*CreateDiscussionResponse, error) {
	return nil, unimplemented("CreateDiscussion")
}
func (UnimplementedDiscussionServiceServer) GetDiscussion(context.Context, *GetDiscussionRequest) (*DiscussionResponse, error) {
	return nil, unimplemented("GetDiscussion")
}
func (UnimplementedDiscussionServiceServer) ListDiscussions(context.Context, *ListDiscussionsRequest) (*ListDiscussionsResponse, error) {
	return nil, unimplemented("ListDiscussions")
}
func (UnimplementedDiscussionServiceServer) AddMember(context.Context, *AddMemberRequest) (*AddMemberResponse, error) {
	return nil, unimplemented("AddMember")
}
func (UnimplementedDiscussionServiceServer) MarkSeen(context.Context, *MarkSeenRequest) (*MarkSeenResponse, error) {
	return nil, unimplemented("MarkSeen")
}
func (UnimplementedDiscussionServiceServer) PostMessage(context.Context, *PostMessageRequest) (*MessageResponse, error) {
	return nil, unimplemented("PostMessage")
}
func (UnimplementedDiscussionServiceServer) ListMessages(context.Context, *ListMessagesRequest) (*ListMessagesResponse, error) {
	return nil, unimplemented("ListMessages")
}
func (UnimplementedDiscussionServiceServer) EditMessage(context.Context, *EditMessageRequest) (*MessageResponse, error) {
	return nil, unimplemented("EditMessage")
}
func (UnimplementedDiscussionServiceServer) DeleteMessage(context.Context, *DeleteMessageRequest) (*DeleteMessageResponse, error) {
	return nil, unimplemented("DeleteMessage")
}
func (UnimplementedDiscussionServiceServer) Watch(*WatchRequest, grpc.ServerStreamingServer[MessageEvent]) error {
	return unimplemented("Watch")
}
func (UnimplementedDiscussionServiceServer) mustEmbedUnimplementedDiscussionServiceServer() {}

// RegisterDiscussionServiceServer registers srv on s.
func RegisterDiscussionServiceServer(s grpc.ServiceRegistrar, srv DiscussionServiceServer) {
	s.RegisterService(&DiscussionService_ServiceDesc, srv)
}

// unary builds the method descriptor for one request/response RPC.
func unary[Req, Resp any](name string, call func(DiscussionServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + ServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(DiscussionServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(DiscussionServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

func _DiscussionService_Watch_Handler(srv any, stream grpc.ServerStream) error {
	m := new(WatchRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(DiscussionServiceServer).Watch(m, &grpc.GenericServerStream[WatchRequest, MessageEvent]{ServerStream: stream})
}

// DiscussionService_ServiceDesc is the grpc.ServiceDesc for DiscussionService.
var DiscussionService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DiscussionServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Register", DiscussionServiceServer.Register),
		unary("Login", DiscussionServiceServer.Login),
		unary("Me", DiscussionServiceServer.Me),
		unary("GetUser", DiscussionServiceServer.GetUser),
		unary("ListUsers", DiscussionServiceServer.ListUsers),
		unary("ChangePassword", DiscussionServiceServer.ChangePassword),
		unary("CreateDiscussion", DiscussionServiceServer.CreateDiscussion),
		unary("GetDiscussion", DiscussionServiceServer.GetDiscussion),
		unary("ListDiscussions", DiscussionServiceServer.ListDiscussions),
		unary("AddMember", DiscussionServiceServer.AddMember),
		unary("MarkSeen", DiscussionServiceServer.MarkSeen),
		unary("PostMessage", DiscussionServiceServer.PostMessage),
		unary("ListMessages", DiscussionServiceServer.ListMessages),
		unary("EditMessage", DiscussionServiceServer.EditMessage),
		unary("DeleteMessage", DiscussionServiceServer.DeleteMessage),
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Watch",
			Handler:       _DiscussionService_Watch_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "discussion/v1/discussion.json",
}
