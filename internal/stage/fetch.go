// Where: internal/stage/fetch.go
// What: Addon source fetchers (local, http, s3).
// Why: One narrow interface per transport keeps staging testable offline.
package stage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/matforge/matforge/internal/envutil"
)

// Host env suffixes for optional static S3 credentials.
const (
	HostSuffixS3AccessKey = "S3_ACCESS_KEY"
	HostSuffixS3SecretKey = "S3_SECRET_KEY"
)

// Fetcher copies a source archive to a local destination path.
type Fetcher interface {
	Fetch(ctx context.Context, source, dest string) error
}

// LocalFetcher copies an archive from the local filesystem.
type LocalFetcher struct{}

func (LocalFetcher) Fetch(_ context.Context, source, dest string) error {
	in, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()
	return writeStream(dest, in)
}

// HTTPFetcher downloads an archive over http(s).
type HTTPFetcher struct {
	Client *http.Client
}

func (f HTTPFetcher) Fetch(ctx context.Context, source, dest string) error {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("download %s: %w", source, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: unexpected status %s", source, resp.Status)
	}
	return writeStream(dest, resp.Body)
}

// S3API is the subset of the S3 client used for fetching objects.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Fetcher downloads archives from s3://bucket/key sources.
type S3Fetcher struct {
	Client S3API
}

// NewS3Fetcher constructs an S3 fetcher from the ambient AWS configuration.
// MATFORGE_S3_ACCESS_KEY / MATFORGE_S3_SECRET_KEY override the default
// credential chain when both are set.
func NewS3Fetcher(ctx context.Context) (S3Fetcher, error) {
	var opts []func(*awsconfig.LoadOptions) error
	accessKey := envutil.GetHostEnv(HostSuffixS3AccessKey)
	secretKey := envutil.GetHostEnv(HostSuffixS3SecretKey)
	if accessKey != "" && secretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return S3Fetcher{}, fmt.Errorf("load aws config: %w", err)
	}
	return S3Fetcher{Client: s3.NewFromConfig(cfg)}, nil
}

func (f S3Fetcher) Fetch(ctx context.Context, source, dest string) error {
	bucket, key, err := splitS3URI(source)
	if err != nil {
		return err
	}
	output, err := f.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return fmt.Errorf("get s3 object %s: %w", source, err)
	}
	defer output.Body.Close()
	return writeStream(dest, output.Body)
}

func splitS3URI(source string) (bucket, key string, err error) {
	rest, found := strings.CutPrefix(source, "s3://")
	if !found {
		return "", "", fmt.Errorf("not an s3 uri: %q", source)
	}
	bucket, key, found = strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", fmt.Errorf("s3 uri %q: expected s3://bucket/key", source)
	}
	return bucket, key, nil
}

func writeStream(dest string, reader io.Reader) error {
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	if _, err := io.Copy(out, reader); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", dest, err)
	}
	return out.Close()
}
