package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Sentinel errors.
var (
	// ErrUnsupportedScheme is returned for URIs no loader handles.
	ErrUnsupportedScheme = errors.New("source: unsupported scheme")

	// ErrInvalidURI is returned for malformed s3:// URIs.
	ErrInvalidURI = errors.New("source: invalid uri")

	// ErrTooLarge is returned when a template exceeds the size limit.
	ErrTooLarge = errors.New("source: template too large")
)

// DefaultMaxSize bounds how much a loader reads.
const DefaultMaxSize = 4 << 20

// Loader reads template markup.
type Loader interface {
	Load(ctx context.Context, uri string) ([]byte, error)
}

// FileLoader reads templates from the local filesystem.
type FileLoader struct {
	// MaxSize bounds the file size. Zero means DefaultMaxSize.
	MaxSize int64
}

// Load reads a path or file:// URI.
func (l FileLoader) Load(ctx context.Context, uri string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := strings.TrimPrefix(uri, "file://")

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("source: open %s: %w", path, err)
	}
	defer f.Close()

	return readLimited(f, l.MaxSize)
}

// GetObjectAPI is the part of the S3 client S3Loader uses.
type GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Loader reads templates from S3.
type S3Loader struct {
	client  GetObjectAPI
	maxSize int64
}

// NewS3Loader creates a loader backed by client.
func NewS3Loader(client GetObjectAPI) *S3Loader {
	return &S3Loader{client: client, maxSize: DefaultMaxSize}
}

// NewDefaultS3Loader creates a loader from the default AWS configuration
// chain (environment, shared config, instance role).
func NewDefaultS3Loader(ctx context.Context) (*S3Loader, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("source: load aws config: %w", err)
	}
	return NewS3Loader(s3.NewFromConfig(cfg)), nil
}

// WithMaxSize sets the size limit.
func (l *S3Loader) WithMaxSize(n int64) *S3Loader {
	l.maxSize = n
	return l
}

// Load fetches an s3://bucket/key URI.
func (l *S3Loader) Load(ctx context.Context, uri string) ([]byte, error) {
	bucket, key, err := ParseS3URI(uri)
	if err != nil {
		return nil, err
	}

	out, err := l.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("source: s3 get %s: %w", uri, err)
	}
	defer out.Body.Close()

	if out.ContentLength != nil && l.maxSize > 0 && *out.ContentLength > l.maxSize {
		return nil, ErrTooLarge
	}
	return readLimited(out.Body, l.maxSize)
}

// ParseS3URI splits s3://bucket/key into its parts.
func ParseS3URI(uri string) (bucket, key string, err error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidURI, err)
	}
	if u.Scheme != "s3" {
		return "", "", fmt.Errorf("%w: %q is not an s3 uri", ErrInvalidURI, uri)
	}
	key = strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return "", "", fmt.Errorf("%w: %q needs a bucket and a key", ErrInvalidURI, uri)
	}
	return u.Host, key, nil
}

// Mux dispatches on the URI scheme.
type Mux struct {
	file Loader
	s3   Loader
}

// NewMux creates a dispatching loader. A nil s3 loader makes s3:// URIs
// fail with ErrUnsupportedScheme.
func NewMux(file, s3 Loader) *Mux {
	return &Mux{file: file, s3: s3}
}

// Load picks the loader for uri.
func (m *Mux) Load(ctx context.Context, uri string) ([]byte, error) {
	switch {
	case strings.HasPrefix(uri, "s3://"):
		if m.s3 == nil {
			return nil, fmt.Errorf("%w: s3 (no client configured)", ErrUnsupportedScheme)
		}
		return m.s3.Load(ctx, uri)
	case strings.HasPrefix(uri, "file://"), !strings.Contains(uri, "://"):
		if m.file == nil {
			return nil, fmt.Errorf("%w: file", ErrUnsupportedScheme)
		}
		return m.file.Load(ctx, uri)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, uri)
	}
}

// IsS3 reports whether uri names an S3 object.
func IsS3(uri string) bool {
	return strings.HasPrefix(uri, "s3://")
}

func readLimited(r io.Reader, max int64) ([]byte, error) {
	if max <= 0 {
		max = DefaultMaxSize
	}
	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, fmt.Errorf("source: read: %w", err)
	}
	if int64(len(data)) > max {
		return nil, ErrTooLarge
	}
	return data, nil
}
