package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/dailyjournal/internal/common"
	"github.com/dmitrijs2005/dailyjournal/internal/journal"
	sc "github.com/dmitrijs2005/dailyjournal/internal/server/config"
	"github.com/dmitrijs2005/dailyjournal/internal/server/models"
	"github.com/dmitrijs2005/dailyjournal/internal/server/repositories/repomanager"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PresignValidity is how long a doodle upload or download URL stays valid.
const PresignValidity = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}

	newStorageID = uuid.NewString
)

// EntryService reads and writes journal entries and issues presigned
// URLs for their doodles.
type EntryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
}

func NewEntryService(db *sql.DB, repomanager repomanager.RepositoryManager, config *sc.Config) *EntryService {
	return &EntryService{
		db:          db,
		repomanager: repomanager,
		config:      config,
	}
}

// DoodleStorageKey builds users/<userID>/<yyyy>/<mm>/<dd>/<id>.
func DoodleStorageKey(userID string, date time.Time) string {
	return fmt.Sprintf("users/%s/%04d/%02d/%02d/%s", userID, date.Year(), int(date.Month()), date.Day(), newStorageID())
}

func (s *EntryService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// Get returns the user's entry for date or common.ErrorNotFound.
func (s *EntryService) Get(ctx context.Context, userID string, date time.Time) (*models.Entry, error) {
	e, err := s.repomanager.Entries(s.db).GetByUserAndDate(ctx, userID, common.DateOf(date))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error getting entry: %w", err)
	}
	return e, nil
}

// Save validates content and upserts the entry keyed on (userID, date).
func (s *EntryService) Save(ctx context.Context, userID string, date time.Time, content journal.Content) (*models.Entry, error) {
	if err := content.Validate(); err != nil {
		return nil, err
	}

	entry := &models.Entry{
		UserID:  userID,
		Date:    common.DateOf(date),
		Content: content,
	}
	saved, err := s.repomanager.Entries(s.db).Upsert(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("error saving entry: %w", err)
	}
	return saved, nil
}

// RequestDoodleUpload attaches a fresh storage key to an existing entry and
// returns it together with a presigned PUT URL.
func (s *EntryService) RequestDoodleUpload(ctx context.Context, userID string, date time.Time) (string, string, error) {
	date = common.DateOf(date)
	repo := s.repomanager.Entries(s.db)

	if _, err := repo.GetByUserAndDate(ctx, userID, date); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", "", err
		}
		return "", "", fmt.Errorf("error getting entry: %w", err)
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", "", err
	}

	bucket := s.config.S3Bucket
	key := DoodleStorageKey(userID, date)

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(PresignValidity))
	if err != nil {
		return "", "", err
	}

	if err := repo.SetDoodleKey(ctx, userID, date, key); err != nil {
		return "", "", fmt.Errorf("error saving doodle key: %w", err)
	}

	return key, req.URL, nil
}

// DoodleURL presigns a GET for the entry's doodle. Entries without one
// yield common.ErrorNotFound.
func (s *EntryService) DoodleURL(ctx context.Context, userID string, date time.Time) (string, error) {
	e, err := s.Get(ctx, userID, date)
	if err != nil {
		return "", err
	}
	if e.DoodleKey == "" {
		return "", fmt.Errorf("%w: entry has no doodle", common.ErrorNotFound)
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket
	key := e.DoodleKey

	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(PresignValidity))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
