package snapshot

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/golang/snappy"

	"github.com/dd0wney/chronograph/pkg/graph"
)

// S3Backend stores and retrieves snapshots in an S3-compatible object
// store, for deployments where the local filesystem isn't durable across
// process restarts.
type S3Backend struct {
	client *s3.Client
	bucket string
}

// S3Options configures an S3Backend. AccessKeyID/SecretAccessKey/Endpoint
// are optional; leaving them empty falls back to the SDK's standard
// credential chain and AWS's default endpoint resolution, which covers
// the common case of running on an EC2/ECS instance with an attached
// role.
type S3Options struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// NewS3Backend builds an S3Backend from opts.
func NewS3Backend(ctx context.Context, opts S3Options) (*S3Backend, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("snapshot: S3 bucket is required")
	}

	var loadOpts []func(*config.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, "")))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
	})

	return &S3Backend{client: client, bucket: opts.Bucket}, nil
}

// Put uploads g's snapshot to key, compressed the same way Save does.
func (b *S3Backend) Put(ctx context.Context, key string, g *graph.Graph) (Stats, error) {
	raw, err := encode(g)
	if err != nil {
		return Stats{}, fmt.Errorf("encode snapshot: %w", err)
	}
	compressed := snappy.Encode(nil, raw)

	var framed bytes.Buffer
	if err := writeFrame(&framed, compressed); err != nil {
		return Stats{}, fmt.Errorf("frame snapshot: %w", err)
	}

	_, err = b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(framed.Bytes()),
	})
	if err != nil {
		return Stats{}, fmt.Errorf("put snapshot object: %w", err)
	}

	ratio := 0.0
	if len(raw) > 0 {
		ratio = 1.0 - float64(len(compressed))/float64(len(raw))
	}
	return Stats{
		BytesUncompressed: len(raw),
		BytesCompressed:   len(compressed),
		CompressionRatio:  ratio,
	}, nil
}

// Get downloads the snapshot stored at key and replays it into a new
// Graph.
func (b *S3Backend) Get(ctx context.Context, key string) (*graph.Graph, error) {
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get snapshot object: %w", err)
	}
	defer out.Body.Close()

	compressed, err := readFrame(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read snapshot frame: %w", err)
	}
	raw, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, fmt.Errorf("decompress snapshot: %w", err)
	}
	return decode(raw)
}
