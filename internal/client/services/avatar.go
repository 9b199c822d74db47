package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/expressdata/internal/client/client"
	"github.com/dmitrijs2005/expressdata/internal/client/config"
	"github.com/dmitrijs2005/expressdata/internal/logging"
	"github.com/dmitrijs2005/expressdata/internal/netx"
)

const maxAvatarBytes = 2 << 20

var (
	ErrStorageDisabled = errors.New("avatar storage is not configured")
	ErrNotAnImage      = errors.New("file is not a supported image")
	ErrAvatarTooLarge  = errors.New("image is larger than 2 MiB")
)

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

	uploadObject = netx.UploadToPresignedURL
)

// AvatarService stores a profile picture and points the user's avatar_url
// at it.
type AvatarService interface {
	Upload(ctx context.Context, path string) (string, error)
}

type avatarService struct {
	cfg  config.StorageConfig
	auth AuthService
	hc   *http.Client
	log  logging.Logger
}

func NewAvatarService(cfg config.StorageConfig, auth AuthService, hc *http.Client, log logging.Logger) AvatarService {
	return &avatarService{cfg: cfg, auth: auth, hc: hc, log: log.With("component", "avatar")}
}

func (a *avatarService) presignClient(ctx context.Context) (*s3.PresignClient, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(a.cfg.Region)}
	if a.cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(a.cfg.AccessKey, a.cfg.SecretKey, "")))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	c := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if a.cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(a.cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newS3PresignClient(c), nil
}

// objectURL is where the uploaded object can be fetched from.
func (a *avatarService) objectURL(key string) string {
	if a.cfg.PublicBaseURL != "" {
		return strings.TrimRight(a.cfg.PublicBaseURL, "/") + "/" + key
	}
	if a.cfg.Endpoint != "" {
		return strings.TrimRight(a.cfg.Endpoint, "/") + "/" + a.cfg.Bucket + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", a.cfg.Bucket, a.cfg.Region, key)
}

func detectImageType(path string, data []byte) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		return "image/svg+xml", nil
	}
	ct := http.DetectContentType(data)
	if !strings.HasPrefix(ct, "image/") {
		return "", ErrNotAnImage
	}
	return ct, nil
}

func (a *avatarService) Upload(ctx context.Context, path string) (string, error) {
	if !a.cfg.Enabled() {
		return "", ErrStorageDisabled
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if len(data) > maxAvatarBytes {
		return "", ErrAvatarTooLarge
	}
	contentType, err := detectImageType(path, data)
	if err != nil {
		return "", err
	}

	s, err := a.auth.CurrentSession(ctx)
	if err != nil {
		return "", err
	}
	if !s.HasUser() {
		return "", client.ErrNoSession
	}

	pc, err := a.presignClient(ctx)
	if err != nil {
		return "", fmt.Errorf("storage client: %w", err)
	}

	bucket := a.cfg.Bucket
	key := fmt.Sprintf("avatars/%s/%s%s", s.User.ID, uuid.NewString(), strings.ToLower(filepath.Ext(path)))

	req, err := presignPutObject(pc, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", fmt.Errorf("presign upload: %w", err)
	}

	if err := uploadObject(ctx, a.hc, req.URL, contentType, data); err != nil {
		a.log.Warn(ctx, "avatar upload failed", "key", key, "error", err)
		return "", err
	}

	avatarURL := a.objectURL(key)
	if _, err := a.auth.UpdateMetadata(ctx, map[string]any{"avatar_url": avatarURL}); err != nil {
		return "", err
	}

	a.log.Info(ctx, "avatar updated", "key", key)
	return avatarURL, nil
}
