// Package archive writes every saved profile revision to S3-compatible
// storage and hands out short-lived presigned links to read them back.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/expertprofile/internal/models"
)

// PresignExpiry bounds how long a revision link stays valid.
const PresignExpiry = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

type Config struct {
	User     string
	Password string
	Bucket   string
	Region   string
	Endpoint string
}

type S3Archive struct {
	bucket  string
	client  *s3.Client
	presign *s3.PresignClient
}

// NewS3Archive builds a path-style client for the configured endpoint
// (MinIO in development).
func NewS3Archive(ctx context.Context, c Config) (*S3Archive, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(c.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(c.User, c.Password, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(c.Endpoint)
		o.UsePathStyle = true
	})

	return &S3Archive{bucket: c.Bucket, client: client, presign: s3.NewPresignClient(client)}, nil
}

// Key is the object key of one revision.
func Key(userID string, version int64) string {
	return fmt.Sprintf("profiles/%s/v%d.json", userID, version)
}

// Put stores u under its current version.
func (a *S3Archive) Put(ctx context.Context, u *models.UserInfo) error {
	body, err := json.MarshalIndent(u, "", "  ")
	if err != nil {
		return err
	}
	key := Key(u.ID, u.Version)
	_, err = putObject(a.client, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// PresignGet returns a GET link for a stored revision.
func (a *S3Archive) PresignGet(ctx context.Context, userID string, version int64) (string, error) {
	key := Key(userID, version)
	req, err := presignGetObject(a.presign, ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(PresignExpiry))
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return req.URL, nil
}

// ErrDisabled is returned by Nop.PresignGet.
var ErrDisabled = errors.New("revision archive is disabled")

// Nop is used when no S3 endpoint is configured.
type Nop struct{}

func (Nop) Put(context.Context, *models.UserInfo) error { return nil }

func (Nop) PresignGet(context.Context, string, int64) (string, error) {
	return "", ErrDisabled
}
