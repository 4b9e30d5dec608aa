package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/dailyjournal/internal/common"
	pb "github.com/dmitrijs2005/dailyjournal/internal/proto"
	"github.com/dmitrijs2005/dailyjournal/internal/server/models"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps service errors onto gRPC status codes. Unknown errors are
// logged and reported as Internal without details.
func (s *GRPCServer) toStatus(ctx context.Context, method string, err error) error {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, common.ErrorAlreadyExists):
		return status.Error(codes.AlreadyExists, "already exists")
	case errors.Is(err, common.ErrTokenExpired):
		return status.Error(codes.Unauthenticated, "token expired")
	case errors.Is(err, common.ErrRefreshTokenExpired):
		return status.Error(codes.Unauthenticated, "refresh token expired")
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidToken):
		return status.Error(codes.Unauthenticated, "unauthorized")
	}
	s.logger.Error(ctx, "request failed", "method", method, "error", err)
	return status.Error(codes.Internal, "internal error")
}

func entryToPB(e *models.Entry) *pb.Entry {
	if e == nil {
		return nil
	}
	out := &pb.Entry{
		ID:        e.ID,
		Date:      common.FormatDate(e.Date),
		Content:   e.Content,
		HasDoodle: e.DoodleKey != "",
	}
	if !e.UpdatedAt.IsZero() {
		out.UpdatedAt = e.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return out
}

// today resolves the calendar day of a dashboard request: the client's date
// when given, else the server clock in the configured zone.
func (s *GRPCServer) today(date string) (time.Time, error) {
	if date != "" {
		return common.ParseDate(date)
	}
	return common.DateOf(s.now().In(s.location)), nil
}

func (s *GRPCServer) Register(ctx context.Context, req *pb.RegisterRequest) (*pb.RegisterResponse, error) {

	s.logger.Info(ctx, "Registration request")

	user, err := s.users.Register(ctx, req.Email, []byte(req.Password))
	if err != nil {
		return nil, s.toStatus(ctx, "Register", err)
	}

	s.logger.Info(ctx, "Registered", "user_id", user.ID)
	return &pb.RegisterResponse{UserID: user.ID, Email: user.Email}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *pb.LoginRequest) (*pb.LoginResponse, error) {

	user, tokens, err := s.users.Login(ctx, req.Email, []byte(req.Password))
	if err != nil {
		return nil, s.toStatus(ctx, "Login", err)
	}

	return &pb.LoginResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		UserID:       user.ID,
		Email:        user.Email,
	}, nil
}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *pb.RefreshTokenRequest) (*pb.RefreshTokenResponse, error) {

	tokens, err := s.users.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, s.toStatus(ctx, "RefreshToken", err)
	}

	return &pb.RefreshTokenResponse{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}, nil
}

func (s *GRPCServer) Logout(ctx context.Context, req *pb.LogoutRequest) (*pb.LogoutResponse, error) {

	if err := s.users.Logout(ctx, req.RefreshToken); err != nil {
		return nil, s.toStatus(ctx, "Logout", err)
	}

	return &pb.LogoutResponse{}, nil
}

func (s *GRPCServer) GetDashboard(ctx context.Context, req *pb.GetDashboardRequest) (*pb.GetDashboardResponse, error) {

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	today, err := s.today(req.Date)
	if err != nil {
		return nil, s.toStatus(ctx, "GetDashboard", err)
	}

	stats := s.dashboard.Stats(ctx, userID, today)

	return &pb.GetDashboardResponse{
		TotalEntries:   stats.TotalEntries,
		Streak:         stats.Streak,
		TodayCompleted: stats.TodayCompleted,
		TodayEntry:     entryToPB(stats.TodayEntry),
	}, nil
}

func (s *GRPCServer) GetEntry(ctx context.Context, req *pb.GetEntryRequest) (*pb.GetEntryResponse, error) {

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	date, err := common.ParseDate(req.Date)
	if err != nil {
		return nil, s.toStatus(ctx, "GetEntry", err)
	}

	e, err := s.entries.Get(ctx, userID, date)
	if err != nil {
		return nil, s.toStatus(ctx, "GetEntry", err)
	}

	return &pb.GetEntryResponse{Entry: entryToPB(e)}, nil
}

func (s *GRPCServer) SaveEntry(ctx context.Context, req *pb.SaveEntryRequest) (*pb.SaveEntryResponse, error) {

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	date, err := common.ParseDate(req.Date)
	if err != nil {
		return nil, s.toStatus(ctx, "SaveEntry", err)
	}

	e, err := s.entries.Save(ctx, userID, date, req.Content)
	if err != nil {
		return nil, s.toStatus(ctx, "SaveEntry", err)
	}

	s.logger.Info(ctx, "Entry saved", "user_id", userID, "date", req.Date)
	return &pb.SaveEntryResponse{Entry: entryToPB(e)}, nil
}

func (s *GRPCServer) RequestDoodleUpload(ctx context.Context, req *pb.RequestDoodleUploadRequest) (*pb.RequestDoodleUploadResponse, error) {

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	date, err := common.ParseDate(req.Date)
	if err != nil {
		return nil, s.toStatus(ctx, "RequestDoodleUpload", err)
	}

	key, url, err := s.entries.RequestDoodleUpload(ctx, userID, date)
	if err != nil {
		return nil, s.toStatus(ctx, "RequestDoodleUpload", err)
	}

	return &pb.RequestDoodleUploadResponse{Key: key, URL: url}, nil
}

func (s *GRPCServer) GetDoodleURL(ctx context.Context, req *pb.GetDoodleURLRequest) (*pb.GetDoodleURLResponse, error) {

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	date, err := common.ParseDate(req.Date)
	if err != nil {
		return nil, s.toStatus(ctx, "GetDoodleURL", err)
	}

	url, err := s.entries.DoodleURL(ctx, userID, date)
	if err != nil {
		return nil, s.toStatus(ctx, "GetDoodleURL", err)
	}

	return &pb.GetDoodleURLResponse{URL: url}, nil
}
