package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/ivanuser/car-project-manager-sub002/internal/common"
	"github.com/ivanuser/car-project-manager-sub002/internal/logging"
	sc "github.com/ivanuser/car-project-manager-sub002/internal/server/config"
	"github.com/ivanuser/car-project-manager-sub002/internal/server/models"
	"github.com/ivanuser/car-project-manager-sub002/internal/server/repositories/repomanager"
)

// Seams for the AWS SDK so presign flows are testable without a live
// endpoint.
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

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
)

// presignValidity bounds how long a handed-out URL works.
const presignValidity = 15 * time.Minute

// AttachmentService manages receipt/photo attachments. Blob bytes never
// pass through the server: uploads and downloads go straight to object
// storage via presigned URLs, and the database only tracks metadata.
type AttachmentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
	logger      logging.Logger
}

func NewAttachmentService(db *sql.DB, m repomanager.RepositoryManager, config *sc.Config, logger logging.Logger) *AttachmentService {
	return &AttachmentService{db: db, repomanager: m, config: config, logger: logger.With("module", "attachments")}
}

// GetRandomStorageKey produces a collision-free object key partitioned by
// date.
func GetRandomStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("attachments/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *AttachmentService) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,     // MINIO_ROOT_USER
			s.config.S3RootPassword, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	})

	return newS3PresignClient(client), nil
}

func (s *AttachmentService) presignedPutURL(ctx context.Context, key string) (string, error) {
	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}
	bucket := s.config.S3Bucket
	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignValidity))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

func (s *AttachmentService) presignedGetURL(ctx context.Context, key string) (string, error) {
	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}
	bucket := s.config.S3Bucket
	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignValidity))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// Begin records a pending attachment on the user's project and returns
// the record together with a presigned PUT URL the client uploads the
// blob to. The record stays pending until Confirm.
func (s *AttachmentService) Begin(ctx context.Context, userID, projectID, fileName, contentType string) (*models.Attachment, string, error) {
	if fileName == "" {
		return nil, "", fmt.Errorf("%w: file name is required", common.ErrorInvalidArgument)
	}
	if _, err := ownedProject(ctx, s.repomanager.Projects(s.db), userID, projectID); err != nil {
		return nil, "", mapStoreErr(ctx, s.logger, "project fetch failed", err)
	}

	key := GetRandomStorageKey()
	url, err := s.presignedPutURL(ctx, key)
	if err != nil {
		s.logger.Error(ctx, "presigning upload failed", "error", err)
		return nil, "", common.ErrorInternal
	}

	a, err := s.repomanager.Attachments(s.db).Create(ctx, &models.Attachment{
		ProjectID:   projectID,
		FileName:    fileName,
		ContentType: contentType,
		StorageKey:  key,
	})
	if err != nil {
		s.logger.Error(ctx, "attachment create failed", "error", err)
		return nil, "", common.ErrorInternal
	}
	return a, url, nil
}

// Confirm marks a pending attachment as uploaded once the client has
// finished its PUT.
func (s *AttachmentService) Confirm(ctx context.Context, userID, id string) (*models.Attachment, error) {
	a, err := s.get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.repomanager.Attachments(s.db).MarkUploaded(ctx, id); err != nil {
		s.logger.Error(ctx, "attachment confirm failed", "error", err)
		return nil, common.ErrorInternal
	}
	a.UploadStatus = models.AttachmentStatusUploaded
	return a, nil
}

// DownloadURL returns a presigned GET URL for an uploaded attachment.
func (s *AttachmentService) DownloadURL(ctx context.Context, userID, id string) (string, error) {
	a, err := s.get(ctx, userID, id)
	if err != nil {
		return "", err
	}
	if a.UploadStatus != models.AttachmentStatusUploaded {
		return "", common.ErrorNotFound
	}
	url, err := s.presignedGetURL(ctx, a.StorageKey)
	if err != nil {
		s.logger.Error(ctx, "presigning download failed", "error", err)
		return "", common.ErrorInternal
	}
	return url, nil
}

// List returns the attachment records of the user's project.
func (s *AttachmentService) List(ctx context.Context, userID, projectID string) ([]*models.Attachment, error) {
	if _, err := ownedProject(ctx, s.repomanager.Projects(s.db), userID, projectID); err != nil {
		return nil, mapStoreErr(ctx, s.logger, "project fetch failed", err)
	}
	list, err := s.repomanager.Attachments(s.db).ListByProject(ctx, projectID)
	if err != nil {
		s.logger.Error(ctx, "attachment list failed", "error", err)
		return nil, common.ErrorInternal
	}
	return list, nil
}

// Delete removes the attachment record. The blob itself is left to a
// bucket lifecycle rule.
func (s *AttachmentService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.get(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repomanager.Attachments(s.db).Delete(ctx, id); err != nil {
		s.logger.Error(ctx, "attachment delete failed", "error", err)
		return common.ErrorInternal
	}
	return nil
}

func (s *AttachmentService) get(ctx context.Context, userID, id string) (*models.Attachment, error) {
	a, err := s.repomanager.Attachments(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreErr(ctx, s.logger, "attachment fetch failed", err)
	}
	if _, err := ownedProject(ctx, s.repomanager.Projects(s.db), userID, a.ProjectID); err != nil {
		return nil, mapStoreErr(ctx, s.logger, "project fetch failed", err)
	}
	return a, nil
}
