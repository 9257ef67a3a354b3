package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/ianfmc/livewell-nadex/internal/ports"
)

const defaultS3Endpoint = "s3.amazonaws.com"

var _ ports.BlobStore = (*S3Store)(nil)

// S3Config configura el acceso a un bucket S3 (o compatible: MinIO, R2...).
// Si AccessKey está vacío se usan las variables AWS_* del entorno.
type S3Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// S3Store implementa ports.BlobStore sobre un bucket S3.
type S3Store struct {
	client *minio.Client
	bucket string
}

// NewS3Store crea el cliente. No hace ninguna llamada de red.
func NewS3Store(cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("blob.NewS3Store: bucket is required")
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultS3Endpoint
	}

	creds := credentials.NewEnvAWS()
	if cfg.AccessKey != "" {
		creds = credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, "")
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  creds,
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("blob.NewS3Store: %w", err)
	}
	return &S3Store{client: client, bucket: cfg.Bucket}, nil
}

// Bucket devuelve el bucket configurado.
func (s *S3Store) Bucket() string {
	return s.bucket
}

// List implementa ports.BlobStore.
func (s *S3Store) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("blob.S3Store.List s3://%s/%s: %w", s.bucket, prefix, obj.Err)
		}
		keys = append(keys, obj.Key)
	}
	return keys, nil
}

// Get implementa ports.BlobStore. GetObject es perezoso: el 404 aparece al leer.
func (s *S3Store) Get(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, s.wrapErr("Get", key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, s.wrapErr("Get", key, err)
	}
	return data, nil
}

// Put implementa ports.BlobStore.
func (s *S3Store) Put(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(body), int64(len(body)),
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		return s.wrapErr("Put", key, err)
	}
	return nil
}

// wrapErr traduce NoSuchKey a ports.ErrObjectNotFound.
func (s *S3Store) wrapErr(op, key string, err error) error {
	if isNotFound(err) {
		return fmt.Errorf("blob.S3Store.%s s3://%s/%s: %w", op, s.bucket, key, ports.ErrObjectNotFound)
	}
	return fmt.Errorf("blob.S3Store.%s s3://%s/%s: %w", op, s.bucket, key, err)
}

func isNotFound(err error) bool {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NotFound":
		return true
	}
	return false
}
