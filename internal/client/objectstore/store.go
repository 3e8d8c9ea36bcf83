// Package objectstore talks to the S3-compatible storage endpoint that holds
// bucket "images": personal item uploads under {userId}/items/ and scraped
// board images under {username}/{boardName}/.
package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/fashionfinder/internal/client/models"
	"github.com/dmitrijs2005/fashionfinder/internal/common"
	"github.com/dmitrijs2005/fashionfinder/internal/filex"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	presignGetObject = func(c *s3.Client, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return s3.NewPresignClient(c).PresignGetObject(ctx, in, optFns...)
	}
)

// api is the part of *s3.Client the store uses.
type api interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

type Options struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	// PublicBase is the storage host public urls are built from.
	PublicBase string
}

type Store struct {
	client     *s3.Client
	api        api
	bucket     string
	publicBase string
}

func New(ctx context.Context, o Options) (*Store, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(o.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(o.AccessKey, o.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load s3 config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(so *s3.Options) {
		so.BaseEndpoint = aws.String(o.Endpoint)
		so.UsePathStyle = true
	})

	return &Store{client: client, api: client, bucket: o.Bucket, publicBase: o.PublicBase}, nil
}

func (s *Store) Bucket() string { return s.bucket }

// PublicURL resolves path in the store's bucket.
func (s *Store) PublicURL(p string) string {
	return PublicURL(s.publicBase, s.bucket, p)
}

// Upload writes data at key and returns its public url.
func (s *Store) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if contentType == "" {
		contentType = filex.ContentType(key, data)
	}
	_, err := s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("%w: upload %s: %w", common.ErrRemoteFailure, key, err)
	}
	return s.PublicURL(key), nil
}

func (s *Store) Download(ctx context.Context, key string) ([]byte, error) {
	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: download %s: %w", common.ErrRemoteFailure, key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", common.ErrRemoteFailure, key, err)
	}
	return data, nil
}

// List returns the image object names directly under prefix, skipping
// generated match composites.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	prefix = strings.TrimSuffix(prefix, "/") + "/"

	var (
		names []string
		token *string
	)
	for {
		out, err := s.api.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(prefix),
			Delimiter:         aws.String("/"),
			ContinuationToken: token,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: list %s: %w", common.ErrRemoteFailure, prefix, err)
		}
		for _, obj := range out.Contents {
			name := path.Base(aws.ToString(obj.Key))
			if !filex.IsImageName(name) || strings.Contains(strings.ToLower(name), "match") {
				continue
			}
			names = append(names, name)
		}
		if !aws.ToBool(out.IsTruncated) || out.NextContinuationToken == nil {
			break
		}
		token = out.NextContinuationToken
	}
	return names, nil
}

// ListBoardImages returns public urls of the scraped images of a board.
func (s *Store) ListBoardImages(ctx context.Context, boardURL string) ([]string, error) {
	info, err := ExtractBoardInfo(boardURL)
	if err != nil {
		return nil, err
	}
	prefix := info.Prefix()
	names, err := s.List(ctx, prefix)
	if err != nil {
		return nil, err
	}
	urls := make([]string, 0, len(names))
	for _, n := range names {
		urls = append(urls, s.PublicURL(prefix+"/"+n))
	}
	return urls, nil
}

func (s *Store) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	req, err := presignGetObject(s.client, ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("%w: presign %s: %w", common.ErrRemoteFailure, key, err)
	}
	return req.URL, nil
}

// PublicURL builds {base}/storage/v1/object/public/{bucket}/{path}.
func PublicURL(base, bucket, p string) string {
	return strings.TrimSuffix(base, "/") + "/storage/v1/object/public/" + bucket + "/" + strings.TrimPrefix(p, "/")
}

// PersonalItemKey is where a user's upload named filename is stored.
func PersonalItemKey(userID, filename string) string {
	return userID + "/items/" + filename
}

// DefaultItemFilename names an upload by its creation time.
func DefaultItemFilename(now time.Time) string {
	return fmt.Sprintf("item-%d.jpg", now.UnixMilli())
}

type BoardInfo struct {
	Username  string
	BoardName string
}

// Prefix is the storage folder of the board's scraped images.
func (b BoardInfo) Prefix() string {
	return b.Username + "/" + b.BoardName
}

// ExtractBoardInfo takes the last two non-empty path segments of a board url.
func ExtractBoardInfo(raw string) (BoardInfo, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return BoardInfo{}, common.NewValidationError(fmt.Sprintf("invalid board url %q", raw))
	}
	segs := models.PathSegments(u.Path)
	if len(segs) < 2 {
		return BoardInfo{}, common.NewValidationError(fmt.Sprintf("invalid board url %q", raw))
	}
	return BoardInfo{Username: segs[len(segs)-2], BoardName: segs[len(segs)-1]}, nil
}
