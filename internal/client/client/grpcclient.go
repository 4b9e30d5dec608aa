package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/dailyjournal/internal/common"
	"github.com/dmitrijs2005/dailyjournal/internal/journal"
	"github.com/dmitrijs2005/dailyjournal/internal/netx"
	pb "github.com/dmitrijs2005/dailyjournal/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// tokenExpiredMessage is the status message the server uses for an expired
// access token.
const tokenExpiredMessage = "token expired"

var uploadToPresignedURL = netx.PutPresigned

type healthChecker interface {
	Check(ctx context.Context, in *healthpb.HealthCheckRequest, opts ...grpc.CallOption) (*healthpb.HealthCheckResponse, error)
}

type GRPCClient struct {
	endpointURL    string
	requestTimeout time.Duration
	conn           *grpc.ClientConn
	client         pb.JournalServiceClient
	health         healthChecker

	mu           sync.Mutex
	accessToken  string
	refreshToken string

	// refreshMu serialises refreshes so a rotated token is used only once.
	refreshMu sync.Mutex
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	if token != "" {
		md.Set(common.AccessTokenHeaderName, token)
	}

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) tokens() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken, s.refreshToken
}

func (s *GRPCClient) setTokens(access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken, s.refreshToken = access, refresh
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	used, _ := s.tokens()
	err := invoker(withAccessToken(ctx, used), method, req, reply, cc, opts...)

	if err == nil || method == pb.JournalService_RefreshToken_FullMethodName {
		return err
	}

	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	if st.Code() != codes.Unauthenticated || st.Message() != tokenExpiredMessage {
		return err
	}

	access, rerr := s.refresh(ctx, used)
	if rerr != nil {
		return err
	}

	// TOKENS REFRESHED, replaying with the new access token
	return invoker(withAccessToken(ctx, access), method, req, reply, cc, opts...)
}

// refresh exchanges the refresh token unless another call already did so
// after stale was issued.
func (s *GRPCClient) refresh(ctx context.Context, stale string) (string, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	access, refresh := s.tokens()
	if access != stale {
		return access, nil
	}
	if refresh == "" {
		return "", ErrUnauthorized
	}

	resp, err := s.client.RefreshToken(ctx, &pb.RefreshTokenRequest{RefreshToken: refresh})
	if err != nil {
		return "", err
	}

	s.setTokens(resp.AccessToken, resp.RefreshToken)
	return resp.AccessToken, nil
}

func NewJournalClient(endpointURL string, requestTimeout time.Duration) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, requestTimeout: requestTimeout}
	err := c.InitGRPCClient()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {

	conn, err := grpc.NewClient(s.endpointURL, grpc.WithTransportCredentials(insecure.NewCredentials()), grpc.WithUnaryInterceptor(s.accessTokenInterceptor))
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = pb.NewJournalServiceClient(conn)
	s.health = healthpb.NewHealthClient(conn)
	return nil
}

func (s *GRPCClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.requestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.requestTimeout)
}

func (s *GRPCClient) Register(ctx context.Context, email, password string) (*Account, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.Register(ctx, &pb.RegisterRequest{Email: email, Password: password})
	if err != nil {
		return nil, s.mapError(err)
	}

	return &Account{ID: resp.UserID, Email: resp.Email}, nil
}

// Login authenticates and keeps the returned tokens for later calls.
func (s *GRPCClient) Login(ctx context.Context, email, password string) (*Account, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.Login(ctx, &pb.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, s.mapError(err)
	}

	s.setTokens(resp.AccessToken, resp.RefreshToken)

	return &Account{ID: resp.UserID, Email: resp.Email}, nil
}

// Logout revokes the refresh token on the server. Tokens are dropped only
// when the server confirms.
func (s *GRPCClient) Logout(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, refresh := s.tokens()
	if _, err := s.client.Logout(ctx, &pb.LogoutRequest{RefreshToken: refresh}); err != nil {
		return s.mapError(err)
	}

	s.setTokens("", "")
	return nil
}

// Ping asks the standard health service whether the journal service serves.
func (s *GRPCClient) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.health.Check(ctx, &healthpb.HealthCheckRequest{Service: pb.ServiceName})
	if err != nil {
		return s.mapError(err)
	}

	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return ErrUnavailable
	}

	return nil
}

func (s *GRPCClient) Dashboard(ctx context.Context, today time.Time) (*Dashboard, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.GetDashboard(ctx, &pb.GetDashboardRequest{Date: common.FormatDate(today)})
	if err != nil {
		return nil, s.mapError(err)
	}

	d := &Dashboard{
		TotalEntries:   resp.TotalEntries,
		Streak:         resp.Streak,
		TodayCompleted: resp.TodayCompleted,
	}
	if resp.TodayEntry != nil {
		e, err := entryFromPB(resp.TodayEntry)
		if err != nil {
			return nil, err
		}
		d.TodayEntry = e
	}
	return d, nil
}

func (s *GRPCClient) GetEntry(ctx context.Context, date time.Time) (*Entry, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.GetEntry(ctx, &pb.GetEntryRequest{Date: common.FormatDate(date)})
	if err != nil {
		return nil, s.mapError(err)
	}
	return entryFromPB(resp.Entry)
}

func (s *GRPCClient) SaveEntry(ctx context.Context, date time.Time, content journal.Content) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.client.SaveEntry(ctx, &pb.SaveEntryRequest{Date: common.FormatDate(date), Content: content})
	if err != nil {
		return s.mapError(err)
	}
	return nil
}

// UploadDoodle obtains a presigned URL for the entry's doodle and PUTs the
// image bytes to it. Both steps share one request timeout.
func (s *GRPCClient) UploadDoodle(ctx context.Context, date time.Time, image []byte) error {
	rctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.RequestDoodleUpload(rctx, &pb.RequestDoodleUploadRequest{Date: common.FormatDate(date)})
	if err != nil {
		return s.mapError(err)
	}

	if err := uploadToPresignedURL(rctx, resp.URL, image); err != nil {
		return fmt.Errorf("doodle upload: %w", err)
	}
	return nil
}

func (s *GRPCClient) DoodleURL(ctx context.Context, date time.Time) (string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.GetDoodleURL(ctx, &pb.GetDoodleURLRequest{Date: common.FormatDate(date)})
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.URL, nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func entryFromPB(e *pb.Entry) (*Entry, error) {
	if e == nil {
		return nil, ErrNotFound
	}
	date, err := common.ParseDate(e.Date)
	if err != nil {
		return nil, fmt.Errorf("server sent %w", err)
	}
	return &Entry{Date: date, Content: e.Content, HasDoodle: e.HasDoodle}, nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.NotFound:
		return ErrNotFound
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidArgument, st.Message())
	case codes.AlreadyExists:
		return ErrAlreadyExists
	case codes.ResourceExhausted:
		return ErrRateLimited
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
