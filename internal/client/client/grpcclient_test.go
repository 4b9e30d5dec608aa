package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/dailyjournal/internal/common"
	"github.com/dmitrijs2005/dailyjournal/internal/journal"
	pb "github.com/dmitrijs2005/dailyjournal/internal/proto"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

/*************
 * Fake pb client
 *************/

type fakePB struct {
	// inputs captured
	lastRefreshTokenReq *pb.RefreshTokenRequest
	lastLoginReq        *pb.LoginRequest
	lastRegisterReq     *pb.RegisterRequest
	lastLogoutReq       *pb.LogoutRequest
	lastDashboardReq    *pb.GetDashboardRequest
	lastGetEntryReq     *pb.GetEntryRequest
	lastSaveReq         *pb.SaveEntryRequest
	lastUploadReq       *pb.RequestDoodleUploadRequest
	lastDoodleURLReq    *pb.GetDoodleURLRequest
	refreshCalls        int

	// outputs preset
	refreshTokenResp *pb.RefreshTokenResponse
	refreshTokenErr  error

	loginResp *pb.LoginResponse
	loginErr  error

	registerResp *pb.RegisterResponse
	registerErr  error

	logoutErr error

	dashboardResp *pb.GetDashboardResponse
	dashboardErr  error

	getEntryResp *pb.GetEntryResponse
	getEntryErr  error

	saveErr error

	uploadResp *pb.RequestDoodleUploadResponse
	uploadErr  error

	doodleURLResp *pb.GetDoodleURLResponse
	doodleURLErr  error
}

func (f *fakePB) Register(ctx context.Context, in *pb.RegisterRequest, opts ...grpc.CallOption) (*pb.RegisterResponse, error) {
	f.lastRegisterReq = in
	return f.registerResp, f.registerErr
}
func (f *fakePB) Login(ctx context.Context, in *pb.LoginRequest, opts ...grpc.CallOption) (*pb.LoginResponse, error) {
	f.lastLoginReq = in
	return f.loginResp, f.loginErr
}
func (f *fakePB) RefreshToken(ctx context.Context, in *pb.RefreshTokenRequest, opts ...grpc.CallOption) (*pb.RefreshTokenResponse, error) {
	f.refreshCalls++
	f.lastRefreshTokenReq = in
	return f.refreshTokenResp, f.refreshTokenErr
}
func (f *fakePB) Logout(ctx context.Context, in *pb.LogoutRequest, opts ...grpc.CallOption) (*pb.LogoutResponse, error) {
	f.lastLogoutReq = in
	return &pb.LogoutResponse{}, f.logoutErr
}
func (f *fakePB) GetDashboard(ctx context.Context, in *pb.GetDashboardRequest, opts ...grpc.CallOption) (*pb.GetDashboardResponse, error) {
	f.lastDashboardReq = in
	return f.dashboardResp, f.dashboardErr
}
func (f *fakePB) GetEntry(ctx context.Context, in *pb.GetEntryRequest, opts ...grpc.CallOption) (*pb.GetEntryResponse, error) {
	f.lastGetEntryReq = in
	return f.getEntryResp, f.getEntryErr
}
func (f *fakePB) SaveEntry(ctx context.Context, in *pb.SaveEntryRequest, opts ...grpc.CallOption) (*pb.SaveEntryResponse, error) {
	f.lastSaveReq = in
	return &pb.SaveEntryResponse{}, f.saveErr
}
func (f *fakePB) RequestDoodleUpload(ctx context.Context, in *pb.RequestDoodleUploadRequest, opts ...grpc.CallOption) (*pb.RequestDoodleUploadResponse, error) {
	f.lastUploadReq = in
	return f.uploadResp, f.uploadErr
}
func (f *fakePB) GetDoodleURL(ctx context.Context, in *pb.GetDoodleURLRequest, opts ...grpc.CallOption) (*pb.GetDoodleURLResponse, error) {
	f.lastDoodleURLReq = in
	return f.doodleURLResp, f.doodleURLErr
}

type fakeHealth struct {
	lastReq *healthpb.HealthCheckRequest
	resp    *healthpb.HealthCheckResponse
	err     error
}

func (f *fakeHealth) Check(ctx context.Context, in *healthpb.HealthCheckRequest, opts ...grpc.CallOption) (*healthpb.HealthCheckResponse, error) {
	f.lastReq = in
	return f.resp, f.err
}

var day = time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC)

/*************
 * accessTokenInterceptor tests
 *************/

func TestInterceptor_RefreshesTokenOnExpiredAndRetries(t *testing.T) {
	f := &fakePB{
		refreshTokenResp: &pb.RefreshTokenResponse{AccessToken: "A2", RefreshToken: "R2"},
	}
	c := &GRPCClient{
		client:       f,
		accessToken:  "A1",
		refreshToken: "R1",
	}

	callCount := 0
	invoker := func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		callCount++
		md, _ := metadata.FromOutgoingContext(ctx)
		toks := md.Get(common.AccessTokenHeaderName)
		require.Len(t, toks, 1)

		if callCount == 1 {
			require.Equal(t, "A1", toks[0])
			return status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
		}
		require.Equal(t, "A2", toks[0])
		return nil
	}

	err := c.accessTokenInterceptor(context.Background(), pb.JournalService_GetEntry_FullMethodName, nil, nil, nil, invoker)
	require.NoError(t, err)
	require.Equal(t, 2, callCount)
	require.Equal(t, "A2", c.accessToken)
	require.Equal(t, "R2", c.refreshToken)
	require.Equal(t, "R1", f.lastRefreshTokenReq.RefreshToken)
}

func TestInterceptor_NoRefreshIfNoRefreshToken(t *testing.T) {
	f := &fakePB{}
	c := &GRPCClient{
		client:      f,
		accessToken: "A1",
	}

	invoker := func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		return status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
	}

	err := c.accessTokenInterceptor(context.Background(), pb.JournalService_GetEntry_FullMethodName, nil, nil, nil, invoker)
	require.Error(t, err)
	require.Equal(t, codes.Unauthenticated, status.Code(err))
	require.Nil(t, f.lastRefreshTokenReq)
}

func TestInterceptor_RefreshFailureReturnsOriginalError(t *testing.T) {
	f := &fakePB{refreshTokenErr: status.Error(codes.Unauthenticated, "refresh token expired")}
	c := &GRPCClient{client: f, accessToken: "A1", refreshToken: "R1"}

	calls := 0
	invoker := func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		calls++
		return status.Error(codes.Unauthenticated, "token expired")
	}

	err := c.accessTokenInterceptor(context.Background(), pb.JournalService_SaveEntry_FullMethodName, nil, nil, nil, invoker)
	require.Error(t, err)
	require.Equal(t, "token expired", status.Convert(err).Message())
	require.Equal(t, 1, calls)
	require.Equal(t, "A1", c.accessToken)
}

func TestInterceptor_SkipsRefreshForRefreshMethod(t *testing.T) {
	f := &fakePB{}
	c := &GRPCClient{client: f, accessToken: "A1", refreshToken: "R1"}
	invoker := func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		return status.Error(codes.Unauthenticated, "token expired")
	}

	err := c.accessTokenInterceptor(context.Background(), pb.JournalService_RefreshToken_FullMethodName, nil, nil, nil, invoker)
	require.Error(t, err)
	require.Zero(t, f.refreshCalls)
}

func TestInterceptor_NoTokenNoHeader(t *testing.T) {
	c := &GRPCClient{}
	invoker := func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		md, _ := metadata.FromOutgoingContext(ctx)
		require.Empty(t, md.Get(common.AccessTokenHeaderName))
		return nil
	}
	require.NoError(t, c.accessTokenInterceptor(context.Background(), pb.JournalService_Login_FullMethodName, nil, nil, nil, invoker))
}

func TestInterceptor_IgnoresOtherErrors(t *testing.T) {
	c := &GRPCClient{accessToken: "X"}
	invoker := func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		return status.Error(codes.Internal, "boom")
	}
	err := c.accessTokenInterceptor(context.Background(), "/svc/Method", nil, nil, nil, invoker)
	require.Error(t, err)
}

func TestInterceptor_UnauthenticatedButDifferentMessage_NoRefresh(t *testing.T) {
	f := &fakePB{}
	c := &GRPCClient{client: f, accessToken: "X", refreshToken: "R"}
	invoker := func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		return status.Error(codes.Unauthenticated, "some other reason")
	}
	err := c.accessTokenInterceptor(context.Background(), "/svc/Method", nil, nil, nil, invoker)
	require.Error(t, err)
	require.Zero(t, f.refreshCalls)
}

func TestRefresh_SkipsWhenTokenAlreadyRotated(t *testing.T) {
	f := &fakePB{}
	c := &GRPCClient{client: f, accessToken: "A2", refreshToken: "R2"}

	access, err := c.refresh(context.Background(), "A1")
	require.NoError(t, err)
	require.Equal(t, "A2", access)
	require.Zero(t, f.refreshCalls)
}

func TestWithAccessToken_ReplacesExisting(t *testing.T) {
	ctx := metadata.AppendToOutgoingContext(context.Background(), common.AccessTokenHeaderName, "old", "x-other", "1")
	ctx = withAccessToken(ctx, "new")

	md, _ := metadata.FromOutgoingContext(ctx)
	require.Equal(t, []string{"new"}, md.Get(common.AccessTokenHeaderName))
	require.Equal(t, []string{"1"}, md.Get("x-other"))
}

/*************
 * mapError tests
 *************/

func TestMapError(t *testing.T) {
	c := &GRPCClient{}

	require.Equal(t, ErrUnauthorized, c.mapError(status.Error(codes.Unauthenticated, "x")))
	require.Equal(t, ErrUnauthorized, c.mapError(status.Error(codes.PermissionDenied, "x")))
	require.Equal(t, ErrUnavailable, c.mapError(status.Error(codes.Unavailable, "x")))
	require.Equal(t, ErrUnavailable, c.mapError(status.Error(codes.DeadlineExceeded, "x")))
	require.Equal(t, ErrNotFound, c.mapError(status.Error(codes.NotFound, "x")))
	require.Equal(t, ErrAlreadyExists, c.mapError(status.Error(codes.AlreadyExists, "x")))
	require.Equal(t, ErrRateLimited, c.mapError(status.Error(codes.ResourceExhausted, "x")))

	inv := c.mapError(status.Error(codes.InvalidArgument, "notes is too long"))
	require.ErrorIs(t, inv, ErrInvalidArgument)
	require.ErrorContains(t, inv, "notes is too long")

	e := errors.New("plain")
	require.ErrorContains(t, c.mapError(e), "rpc error:")
	require.NoError(t, c.mapError(nil))
}

/*************
 * Ping tests
 *************/

func TestPing_OK(t *testing.T) {
	h := &fakeHealth{resp: &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_SERVING}}
	c := &GRPCClient{health: h}
	require.NoError(t, c.Ping(context.Background()))
	require.Equal(t, pb.ServiceName, h.lastReq.Service)
}

func TestPing_NotServing_ReturnsUnavailable(t *testing.T) {
	h := &fakeHealth{resp: &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_NOT_SERVING}}
	c := &GRPCClient{health: h}
	require.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)
}

func TestPing_MapsRPCError(t *testing.T) {
	h := &fakeHealth{err: status.Error(codes.Unavailable, "down")}
	c := &GRPCClient{health: h}
	require.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)
}

/*************
 * Register / Login / Logout tests
 *************/

func TestRegister_Success(t *testing.T) {
	f := &fakePB{registerResp: &pb.RegisterResponse{UserID: "u1", Email: "a@b.io"}}
	c := &GRPCClient{client: f}
	acc, err := c.Register(context.Background(), "a@b.io", "secret123")
	require.NoError(t, err)
	require.Equal(t, &Account{ID: "u1", Email: "a@b.io"}, acc)
	require.Equal(t, "secret123", f.lastRegisterReq.Password)
}

func TestRegister_MapsError(t *testing.T) {
	f := &fakePB{registerErr: status.Error(codes.AlreadyExists, "already exists")}
	c := &GRPCClient{client: f}
	_, err := c.Register(context.Background(), "a@b.io", "secret123")
	require.ErrorIs(t, err, ErrAlreadyExists)
}

func TestLogin_SetsTokens(t *testing.T) {
	f := &fakePB{loginResp: &pb.LoginResponse{AccessToken: "A", RefreshToken: "R", UserID: "u1", Email: "a@b.io"}}
	c := &GRPCClient{client: f, requestTimeout: time.Second}
	acc, err := c.Login(context.Background(), "a@b.io", "pw")
	require.NoError(t, err)
	require.Equal(t, "u1", acc.ID)
	require.Equal(t, "A", c.accessToken)
	require.Equal(t, "R", c.refreshToken)
	require.Equal(t, "a@b.io", f.lastLoginReq.Email)
	require.Equal(t, "pw", f.lastLoginReq.Password)
}

func TestLogin_MapsError(t *testing.T) {
	f := &fakePB{loginErr: status.Error(codes.Unauthenticated, "unauthorized")}
	c := &GRPCClient{client: f}
	_, err := c.Login(context.Background(), "a@b.io", "pw")
	require.ErrorIs(t, err, ErrUnauthorized)
	require.Empty(t, c.accessToken)
}

func TestLogout_ClearsTokens(t *testing.T) {
	f := &fakePB{}
	c := &GRPCClient{client: f, accessToken: "A", refreshToken: "R"}
	require.NoError(t, c.Logout(context.Background()))
	require.Equal(t, "R", f.lastLogoutReq.RefreshToken)
	require.Empty(t, c.accessToken)
	require.Empty(t, c.refreshToken)
}

func TestLogout_FailureKeepsTokens(t *testing.T) {
	f := &fakePB{logoutErr: status.Error(codes.Unavailable, "down")}
	c := &GRPCClient{client: f, accessToken: "A", refreshToken: "R"}
	require.ErrorIs(t, c.Logout(context.Background()), ErrUnavailable)
	require.Equal(t, "A", c.accessToken)
	require.Equal(t, "R", c.refreshToken)
}

/*************
 * Dashboard / entries tests
 *************/

func TestDashboard_MapsResponse(t *testing.T) {
	f := &fakePB{dashboardResp: &pb.GetDashboardResponse{
		TotalEntries:   12,
		Streak:         3,
		TodayCompleted: true,
		TodayEntry:     &pb.Entry{ID: "e1", Date: "2024-03-07", Content: journal.Content{Notes: "n"}, HasDoodle: true},
	}}
	c := &GRPCClient{client: f}

	d, err := c.Dashboard(context.Background(), day)
	require.NoError(t, err)
	require.Equal(t, "2024-03-07", f.lastDashboardReq.Date)
	require.EqualValues(t, 12, d.TotalEntries)
	require.Equal(t, 3, d.Streak)
	require.True(t, d.TodayCompleted)
	require.Equal(t, &Entry{Date: day, Content: journal.Content{Notes: "n"}, HasDoodle: true}, d.TodayEntry)
}

func TestDashboard_NoTodayEntry(t *testing.T) {
	f := &fakePB{dashboardResp: &pb.GetDashboardResponse{TotalEntries: 1}}
	c := &GRPCClient{client: f}

	d, err := c.Dashboard(context.Background(), day)
	require.NoError(t, err)
	require.Nil(t, d.TodayEntry)
	require.False(t, d.TodayCompleted)
}

func TestDashboard_BadDateFromServer(t *testing.T) {
	f := &fakePB{dashboardResp: &pb.GetDashboardResponse{TodayEntry: &pb.Entry{Date: "07/03/2024"}}}
	c := &GRPCClient{client: f}

	_, err := c.Dashboard(context.Background(), day)
	require.ErrorIs(t, err, common.ErrorValidation)
}

func TestGetEntry(t *testing.T) {
	f := &fakePB{getEntryResp: &pb.GetEntryResponse{Entry: &pb.Entry{Date: "2024-03-07", Content: journal.Content{RatingWork: 4}}}}
	c := &GRPCClient{client: f}

	e, err := c.GetEntry(context.Background(), day)
	require.NoError(t, err)
	require.Equal(t, "2024-03-07", f.lastGetEntryReq.Date)
	require.Equal(t, 4, e.Content.RatingWork)
	require.Equal(t, day, e.Date)
}

func TestGetEntry_NotFound(t *testing.T) {
	f := &fakePB{getEntryErr: status.Error(codes.NotFound, "not found")}
	c := &GRPCClient{client: f}

	_, err := c.GetEntry(context.Background(), day)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSaveEntry(t *testing.T) {
	f := &fakePB{}
	c := &GRPCClient{client: f}
	content := journal.Content{Affirmation: "I can", RatingFamily: 5}

	require.NoError(t, c.SaveEntry(context.Background(), day, content))
	require.Equal(t, "2024-03-07", f.lastSaveReq.Date)
	require.Equal(t, content, f.lastSaveReq.Content)
}

func TestSaveEntry_MapsValidation(t *testing.T) {
	f := &fakePB{saveErr: status.Error(codes.InvalidArgument, "rating out of range")}
	c := &GRPCClient{client: f}

	err := c.SaveEntry(context.Background(), day, journal.Content{})
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestUploadDoodle(t *testing.T) {
	var gotURL string
	var gotData []byte
	var hasDeadline bool
	orig := uploadToPresignedURL
	uploadToPresignedURL = func(ctx context.Context, url string, file []byte) error {
		gotURL, gotData = url, file
		_, hasDeadline = ctx.Deadline()
		return nil
	}
	t.Cleanup(func() { uploadToPresignedURL = orig })

	f := &fakePB{uploadResp: &pb.RequestDoodleUploadResponse{Key: "k", URL: "https://put"}}
	c := &GRPCClient{client: f, requestTimeout: 5 * time.Second}

	require.NoError(t, c.UploadDoodle(context.Background(), day, []byte("png")))
	require.Equal(t, "2024-03-07", f.lastUploadReq.Date)
	require.Equal(t, "https://put", gotURL)
	require.Equal(t, []byte("png"), gotData)
	require.True(t, hasDeadline, "upload must run under the request timeout")
}

func TestUploadDoodle_Errors(t *testing.T) {
	orig := uploadToPresignedURL
	t.Cleanup(func() { uploadToPresignedURL = orig })

	t.Run("presign rpc fails", func(t *testing.T) {
		uploadToPresignedURL = func(context.Context, string, []byte) error {
			t.Fatal("upload must not run")
			return nil
		}
		f := &fakePB{uploadErr: status.Error(codes.NotFound, "not found")}
		c := &GRPCClient{client: f}
		require.ErrorIs(t, c.UploadDoodle(context.Background(), day, []byte("x")), ErrNotFound)
	})

	t.Run("put fails", func(t *testing.T) {
		uploadToPresignedURL = func(context.Context, string, []byte) error { return errors.New("upload failed: 403") }
		f := &fakePB{uploadResp: &pb.RequestDoodleUploadResponse{URL: "https://put"}}
		c := &GRPCClient{client: f}
		err := c.UploadDoodle(context.Background(), day, []byte("x"))
		require.ErrorContains(t, err, "doodle upload")
	})
}

func TestDoodleURL(t *testing.T) {
	f := &fakePB{doodleURLResp: &pb.GetDoodleURLResponse{URL: "https://get"}}
	c := &GRPCClient{client: f}

	url, err := c.DoodleURL(context.Background(), day)
	require.NoError(t, err)
	require.Equal(t, "https://get", url)
	require.Equal(t, "2024-03-07", f.lastDoodleURLReq.Date)
}

func TestDoodleURL_MapsError(t *testing.T) {
	f := &fakePB{doodleURLErr: status.Error(codes.NotFound, "x")}
	c := &GRPCClient{client: f}
	_, err := c.DoodleURL(context.Background(), day)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestNewJournalClient(t *testing.T) {
	c, err := NewJournalClient("127.0.0.1:1", time.Second)
	require.NoError(t, err)
	require.NotNil(t, c.client)
	require.NotNil(t, c.health)
	require.NoError(t, c.Close())
}
