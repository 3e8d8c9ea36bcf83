package objectstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/dmitrijs2005/fashionfinder/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- helpers ----

type fakeAPI struct {
	LastPut  *s3.PutObjectInput
	LastGet  *s3.GetObjectInput
	Lists    []*s3.ListObjectsV2Input
	Pages    []*s3.ListObjectsV2Output
	Body     []byte
	Err      error
	putBytes []byte
}

func (f *fakeAPI) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.LastPut = in
	if f.Err != nil {
		return nil, f.Err
	}
	f.putBytes, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeAPI) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.LastGet = in
	if f.Err != nil {
		return nil, f.Err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(f.Body))}, nil
}

func (f *fakeAPI) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.Lists = append(f.Lists, in)
	if f.Err != nil {
		return nil, f.Err
	}
	page := f.Pages[0]
	f.Pages = f.Pages[1:]
	return page, nil
}

func newStore(f *fakeAPI) *Store {
	return &Store{api: f, bucket: "images", publicBase: "https://proj.supabase.co"}
}

func objects(keys ...string) []types.Object {
	out := make([]types.Object, 0, len(keys))
	for _, k := range keys {
		out = append(out, types.Object{Key: aws.String(k)})
	}
	return out
}

// ---- tests ----

func TestNew_AppliesOptions(t *testing.T) {
	origLoad, origNew := loadDefaultAWSConfig, newS3ClientFromConfig
	t.Cleanup(func() { loadDefaultAWSConfig, newS3ClientFromConfig = origLoad, origNew })

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "local", lo.Region)
		require.NotNil(t, lo.Credentials)
		creds, err := lo.Credentials.Retrieve(ctx)
		require.NoError(t, err)
		assert.Equal(t, "ak", creds.AccessKeyID)
		return aws.Config{}, nil
	}

	var opts s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&opts)
		}
		return &s3.Client{}
	}

	st, err := New(context.Background(), Options{
		Endpoint: "http://127.0.0.1:54321/storage/v1/s3", Region: "local",
		AccessKey: "ak", SecretKey: "sk", Bucket: "images",
	})
	require.NoError(t, err)
	assert.Equal(t, "images", st.Bucket())
	require.NotNil(t, opts.BaseEndpoint)
	assert.Equal(t, "http://127.0.0.1:54321/storage/v1/s3", *opts.BaseEndpoint)
	assert.True(t, opts.UsePathStyle)
}

func TestNew_ConfigError(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no config")
	}

	_, err := New(context.Background(), Options{})
	require.ErrorContains(t, err, "load s3 config: no config")
}

func TestUpload(t *testing.T) {
	f := &fakeAPI{}
	st := newStore(f)

	u, err := st.Upload(context.Background(), "u-1/items/item-1.jpg", []byte("jpegdata"), "")
	require.NoError(t, err)
	assert.Equal(t, "https://proj.supabase.co/storage/v1/object/public/images/u-1/items/item-1.jpg", u)
	assert.Equal(t, "images", aws.ToString(f.LastPut.Bucket))
	assert.Equal(t, "image/jpeg", aws.ToString(f.LastPut.ContentType))
	assert.Equal(t, []byte("jpegdata"), f.putBytes)
}

func TestUpload_Error(t *testing.T) {
	st := newStore(&fakeAPI{Err: errors.New("denied")})

	_, err := st.Upload(context.Background(), "k.png", nil, "image/png")
	require.ErrorIs(t, err, common.ErrRemoteFailure)
	require.ErrorContains(t, err, "denied")
}

func TestDownload(t *testing.T) {
	f := &fakeAPI{Body: []byte("img")}
	data, err := newStore(f).Download(context.Background(), "alex/denim/p1.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("img"), data)
	assert.Equal(t, "alex/denim/p1.jpg", aws.ToString(f.LastGet.Key))
}

func TestList_FiltersAndPaginates(t *testing.T) {
	f := &fakeAPI{Pages: []*s3.ListObjectsV2Output{
		{
			Contents:              objects("alex/denim/p1.jpg", "alex/denim/notes.txt", "alex/denim/match_1.png"),
			IsTruncated:           aws.Bool(true),
			NextContinuationToken: aws.String("t2"),
		},
		{
			Contents:    objects("alex/denim/p2.WEBP", "alex/denim/p3.avif"),
			IsTruncated: aws.Bool(false),
		},
	}}

	names, err := newStore(f).List(context.Background(), "alex/denim")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1.jpg", "p2.WEBP", "p3.avif"}, names)
	require.Len(t, f.Lists, 2)
	assert.Equal(t, "alex/denim/", aws.ToString(f.Lists[0].Prefix))
	assert.Nil(t, f.Lists[0].ContinuationToken)
	assert.Equal(t, "t2", aws.ToString(f.Lists[1].ContinuationToken))
}

func TestListBoardImages(t *testing.T) {
	f := &fakeAPI{Pages: []*s3.ListObjectsV2Output{
		{Contents: objects("alex/denim/p1.jpg")},
	}}

	urls, err := newStore(f).ListBoardImages(context.Background(), "https://pinterest.com/alex/denim/")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://proj.supabase.co/storage/v1/object/public/images/alex/denim/p1.jpg"}, urls)
}

func TestListBoardImages_BadURL(t *testing.T) {
	f := &fakeAPI{}
	_, err := newStore(f).ListBoardImages(context.Background(), "https://pinterest.com/alex")
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Empty(t, f.Lists)
}

func TestPresignGet(t *testing.T) {
	orig := presignGetObject
	t.Cleanup(func() { presignGetObject = orig })

	presignGetObject = func(c *s3.Client, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		var po s3.PresignOptions
		for _, fn := range optFns {
			fn(&po)
		}
		assert.Equal(t, 15*time.Minute, po.Expires)
		return &v4.PresignedHTTPRequest{URL: "https://signed/" + aws.ToString(in.Key)}, nil
	}

	u, err := newStore(&fakeAPI{}).PresignGet(context.Background(), "a/b.jpg", 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "https://signed/a/b.jpg", u)
}

func TestExtractBoardInfo(t *testing.T) {
	tests := []struct {
		raw     string
		want    BoardInfo
		wantErr bool
	}{
		{raw: "https://pinterest.com/alex/denim/", want: BoardInfo{Username: "alex", BoardName: "denim"}},
		{raw: "https://www.pinterest.com/alex/denim-looks", want: BoardInfo{Username: "alex", BoardName: "denim-looks"}},
		{raw: "https://pinterest.com/denim", wantErr: true},
		{raw: "://bad", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ExtractBoardInfo(tt.raw)
			if tt.wantErr {
				require.ErrorIs(t, err, common.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Username+"/"+tt.want.BoardName, got.Prefix())
		})
	}
}

func TestKeysAndURLs(t *testing.T) {
	assert.Equal(t, "u-1/items/a.png", PersonalItemKey("u-1", "a.png"))
	assert.Equal(t, "item-1700000000123.jpg", DefaultItemFilename(time.UnixMilli(1700000000123)))
	assert.Equal(t, "http://h/storage/v1/object/public/images/x/y.jpg", PublicURL("http://h/", "images", "/x/y.jpg"))
}
