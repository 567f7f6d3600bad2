package export

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// ObjectStore is where the monthly csv archive lands.
type ObjectStore interface {
	Put(ctx context.Context, key string, body []byte) error
}

type S3Store struct {
	client *s3.Client
	bucket string
}

func NewS3Store(client *s3.Client, bucket string) S3Store {
	return S3Store{client: client, bucket: bucket}
}

func (s S3Store) Put(ctx context.Context, key string, body []byte) error {
	ctx, span := tracer.Start(ctx, "S3Store.Put")
	defer span.End()
	span.SetAttributes(
		attribute.String("bucket", s.bucket),
		attribute.String("key", key),
	)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// DirStore writes the archive into a local directory tree, mirroring
// the object keys as relative paths.
type DirStore struct {
	Root string
}

func (d DirStore) Put(ctx context.Context, key string, body []byte) error {
	_, span := tracer.Start(ctx, "DirStore.Put")
	defer span.End()
	span.SetAttributes(attribute.String("key", key))

	path := filepath.Join(d.Root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if err := os.WriteFile(path, body, 0644); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func (d DirStore) Get(key string) ([]byte, error) {
	return os.ReadFile(filepath.Join(d.Root, filepath.FromSlash(key)))
}
