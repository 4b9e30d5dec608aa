package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "dailyjournal.JournalService"

const (
	JournalService_Register_FullMethodName            = "/" + ServiceName + "/Register"
	JournalService_Login_FullMethodName               = "/" + ServiceName + "/Login"
	JournalService_RefreshToken_FullMethodName        = "/" + ServiceName + "/RefreshToken"
	JournalService_Logout_FullMethodName              = "/" + ServiceName + "/Logout"
	JournalService_GetDashboard_FullMethodName        = "/" + ServiceName + "/GetDashboard"
	JournalService_GetEntry_FullMethodName            = "/" + ServiceName + "/GetEntry"
	JournalService_SaveEntry_FullMethodName           = "/" + ServiceName + "/SaveEntry"
	JournalService_RequestDoodleUpload_FullMethodName = "/" + ServiceName + "/RequestDoodleUpload"
	JournalService_GetDoodleURL_FullMethodName        = "/" + ServiceName + "/GetDoodleURL"
)

// JournalServiceServer is the server API for the journal service.
type JournalServiceServer interface {
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	RefreshToken(context.Context, *RefreshTokenRequest) (*RefreshTokenResponse, error)
	Logout(context.Context, *LogoutRequest) (*LogoutResponse, error)
	GetDashboard(context.Context, *GetDashboardRequest) (*GetDashboardResponse, error)
	GetEntry(context.Context, *GetEntryRequest) (*GetEntryResponse, error)
	SaveEntry(context.Context, *SaveEntryRequest) (*SaveEntryResponse, error)
	RequestDoodleUpload(context.Context, *RequestDoodleUploadRequest) (*RequestDoodleUploadResponse, error)
	GetDoodleURL(context.Context, *GetDoodleURLRequest) (*GetDoodleURLResponse, error)
}

// UnimplementedJournalServiceServer answers every method with
// codes.Unimplemented. Embed it to stay forward compatible.
type UnimplementedJournalServiceServer struct{}

func (UnimplementedJournalServiceServer) Register(context.Context, *RegisterRequest) (*RegisterResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Register not implemented")
}
func (UnimplementedJournalServiceServer) Login(context.Context, *LoginRequest) (*LoginResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Login not implemented")
}
func (UnimplementedJournalServiceServer) RefreshToken(context.Context, *RefreshTokenRequest) (*RefreshTokenResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RefreshToken not implemented")
}
func (UnimplementedJournalServiceServer) Logout(context.Context, *LogoutRequest) (*LogoutResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Logout not implemented")
}
func (UnimplementedJournalServiceServer) GetDashboard(context.Context, *GetDashboardRequest) (*GetDashboardResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetDashboard not implemented")
}
func (UnimplementedJournalServiceServer) GetEntry(context.Context, *GetEntryRequest) (*GetEntryResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetEntry not implemented")
}
func (UnimplementedJournalServiceServer) SaveEntry(context.Context, *SaveEntryRequest) (*SaveEntryResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SaveEntry not implemented")
}
func (UnimplementedJournalServiceServer) RequestDoodleUpload(context.Context, *RequestDoodleUploadRequest) (*RequestDoodleUploadResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RequestDoodleUpload not implemented")
}
func (UnimplementedJournalServiceServer) GetDoodleURL(context.Context, *GetDoodleURLRequest) (*GetDoodleURLResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetDoodleURL not implemented")
}

func RegisterJournalServiceServer(s grpc.ServiceRegistrar, srv JournalServiceServer) {
	s.RegisterService(&JournalService_ServiceDesc, srv)
}

// unaryHandler adapts a typed server method to grpc.MethodHandler.
func unaryHandler[Req, Resp any](fullMethod string, call func(JournalServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(JournalServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(JournalServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var JournalService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*JournalServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Register", Handler: unaryHandler(JournalService_Register_FullMethodName, JournalServiceServer.Register)},
		{MethodName: "Login", Handler: unaryHandler(JournalService_Login_FullMethodName, JournalServiceServer.Login)},
		{MethodName: "RefreshToken", Handler: unaryHandler(JournalService_RefreshToken_FullMethodName, JournalServiceServer.RefreshToken)},
		{MethodName: "Logout", Handler: unaryHandler(JournalService_Logout_FullMethodName, JournalServiceServer.Logout)},
		{MethodName: "GetDashboard", Handler: unaryHandler(JournalService_GetDashboard_FullMethodName, JournalServiceServer.GetDashboard)},
		{MethodName: "GetEntry", Handler: unaryHandler(JournalService_GetEntry_FullMethodName, JournalServiceServer.GetEntry)},
		{MethodName: "SaveEntry", Handler: unaryHandler(JournalService_SaveEntry_FullMethodName, JournalServiceServer.SaveEntry)},
		{MethodName: "RequestDoodleUpload", Handler: unaryHandler(JournalService_RequestDoodleUpload_FullMethodName, JournalServiceServer.RequestDoodleUpload)},
		{MethodName: "GetDoodleURL", Handler: unaryHandler(JournalService_GetDoodleURL_FullMethodName, JournalServiceServer.GetDoodleURL)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "dailyjournal/journal.proto",
}

// JournalServiceClient is the client API for the journal service. Calls
// are sent with the JSON content subtype.
type JournalServiceClient interface {
	Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error)
	RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*RefreshTokenResponse, error)
	Logout(ctx context.Context, in *LogoutRequest, opts ...grpc.CallOption) (*LogoutResponse, error)
	GetDashboard(ctx context.Context, in *GetDashboardRequest, opts ...grpc.CallOption) (*GetDashboardResponse, error)
	GetEntry(ctx context.Context, in *GetEntryRequest, opts ...grpc.CallOption) (*GetEntryResponse, error)
	SaveEntry(ctx context.Context, in *SaveEntryRequest, opts ...grpc.CallOption) (*SaveEntryResponse, error)
	RequestDoodleUpload(ctx context.Context, in *RequestDoodleUploadRequest, opts ...grpc.CallOption) (*RequestDoodleUploadResponse, error)
	GetDoodleURL(ctx context.Context, in *GetDoodleURLRequest, opts ...grpc.CallOption) (*GetDoodleURLResponse, error)
}

type journalServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewJournalServiceClient(cc grpc.ClientConnInterface) JournalServiceClient {
	return &journalServiceClient{cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *journalServiceClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	return invoke[RegisterResponse](ctx, c.cc, JournalService_Register_FullMethodName, in, opts)
}

func (c *journalServiceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, JournalService_Login_FullMethodName, in, opts)
}

func (c *journalServiceClient) RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*RefreshTokenResponse, error) {
	return invoke[RefreshTokenResponse](ctx, c.cc, JournalService_RefreshToken_FullMethodName, in, opts)
}

func (c *journalServiceClient) Logout(ctx context.Context, in *LogoutRequest, opts ...grpc.CallOption) (*LogoutResponse, error) {
	return invoke[LogoutResponse](ctx, c.cc, JournalService_Logout_FullMethodName, in, opts)
}

func (c *journalServiceClient) GetDashboard(ctx context.Context, in *GetDashboardRequest, opts ...grpc.CallOption) (*GetDashboardResponse, error) {
	return invoke[GetDashboardResponse](ctx, c.cc, JournalService_GetDashboard_FullMethodName, in, opts)
}

func (c *journalServiceClient) GetEntry(ctx context.Context, in *GetEntryRequest, opts ...grpc.CallOption) (*GetEntryResponse, error) {
	return invoke[GetEntryResponse](ctx, c.cc, JournalService_GetEntry_FullMethodName, in, opts)
}

func (c *journalServiceClient) SaveEntry(ctx context.Context, in *SaveEntryRequest, opts ...grpc.CallOption) (*SaveEntryResponse, error) {
	return invoke[SaveEntryResponse](ctx, c.cc, JournalService_SaveEntry_FullMethodName, in, opts)
}

func (c *journalServiceClient) RequestDoodleUpload(ctx context.Context, in *RequestDoodleUploadRequest, opts ...grpc.CallOption) (*RequestDoodleUploadResponse, error) {
	return invoke[RequestDoodleUploadResponse](ctx, c.cc, JournalService_RequestDoodleUpload_FullMethodName, in, opts)
}

func (c *journalServiceClient) GetDoodleURL(ctx context.Context, in *GetDoodleURLRequest, opts ...grpc.CallOption) (*GetDoodleURLResponse, error) {
	return invoke[GetDoodleURLResponse](ctx, c.cc, JournalService_GetDoodleURL_FullMethodName, in, opts)
}
