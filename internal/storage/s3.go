package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type S3 struct {
	Client        *s3.Client
	Bucket        string
	Prefix        string
	PublicBaseURL string
}

func NewS3(ctx context.Context, cfg Config) (*S3, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.S3Region))
	if err != nil {
		return nil, err
	}
	return &S3{
		Client:        s3.NewFromConfig(awsCfg),
		Bucket:        cfg.S3Bucket,
		Prefix:        strings.Trim(cfg.S3Prefix, "/"),
		PublicBaseURL: strings.TrimRight(cfg.S3PublicBaseURL, "/"),
	}, nil
}

func (s *S3) key(obj Object) string {
	k := ObjectKey(obj)
	if s.Prefix != "" {
		k = s.Prefix + "/" + k
	}
	return k
}

func (s *S3) Put(ctx context.Context, r io.Reader, obj Object) (Stored, error) {
	key := s.key(obj)
	ct := obj.ContentType
	if ct == "" {
		ct = ContentTypeFor(obj.Name)
	}
	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.Bucket),
		Key:          aws.String(key),
		Body:         r,
		ContentType:  aws.String(ct),
		CacheControl: aws.String("public, max-age=31536000"),
	})
	if err != nil {
		return Stored{}, fmt.Errorf("s3 put %s: %w", key, err)
	}
	return Stored{Key: key, URL: s.URL(key)}, nil
}

func (s *S3) Delete(ctx context.Context, key string) error {
	_, err := s.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	})
	return err
}

func (s *S3) URL(key string) string {
	return s.PublicBaseURL + "/" + strings.TrimLeft(key, "/")
}

func (s *S3) String() string { return fmt.Sprintf("s3(%s/%s)", s.Bucket, s.Prefix) }
