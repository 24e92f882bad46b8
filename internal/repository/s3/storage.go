package s3

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/cmxu/whereami/internal/entity"
	"github.com/cmxu/whereami/internal/repository"
)

type Storage struct {
	s      *session.Session
	bucket string
}

type StorageConfig struct {
	Endpoint     string
	AccessKey    string
	AccessSecret string
	Region       string
	Bucket       string
}

func New(c StorageConfig) (*Storage, error) {
	s, err := session.NewSession(
		aws.NewConfig().
			WithEndpoint(c.Endpoint).
			WithCredentials(credentials.NewStaticCredentials(c.AccessKey, c.AccessSecret, "")).
			WithRegion(c.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("s3 session: %w", err)
	}

	return &Storage{
		s:      s,
		bucket: c.Bucket,
	}, nil
}

func (s *Storage) Download(ctx context.Context, key string) (*repository.Object, error) {
	output, err := s3.New(s.s).GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	if err != nil {
		var aerr awserr.Error
		if errors.As(err, &aerr) && aerr.Code() == s3.ErrCodeNoSuchKey {
			return nil, fmt.Errorf("get object: %w: %w", entity.ErrNotFound, err)
		}

		return nil, fmt.Errorf("get object: %w", err)
	}

	return &repository.Object{
		ContentType:   output.ContentType,
		ContentLength: output.ContentLength,
		Content:       output.Body,
	}, nil
}
