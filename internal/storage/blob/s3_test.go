package blob

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"job-board-api/config"
	"job-board-api/internal/storage"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string][]byte
	types   map[string]string
	failDel error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = data
	f.types[aws.ToString(in.Key)] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(f.types[aws.ToString(in.Key)]),
	}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(data)),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(f.types[aws.ToString(in.Key)]),
	}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.failDel != nil {
		return nil, f.failDel
	}
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) HeadBucket(context.Context, *s3.HeadBucketInput, ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	return &s3.HeadBucketOutput{}, nil
}

func (f *fakeS3) CreateBucket(context.Context, *s3.CreateBucketInput, ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	return &s3.CreateBucketOutput{}, nil
}

type fakePresigner struct {
	lastIn  *s3.GetObjectInput
	expires time.Duration
}

func (p *fakePresigner) PresignGetObject(_ context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	opts := s3.PresignOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	p.lastIn = in
	p.expires = opts.Expires
	return &v4.PresignedHTTPRequest{URL: "https://blob.test/" + aws.ToString(in.Key)}, nil
}

func newTestStore() (*S3Store, *fakeS3, *fakePresigner) {
	client := newFakeS3()
	p := &fakePresigner{}
	store := newS3Store(client, p, config.StorageConfig{Bucket: "uploads", KeyPrefix: "files/", PresignExpiry: 5 * time.Minute})
	return store, client, p
}

func TestS3Store_PutStatOpen(t *testing.T) {
	ctx := context.Background()
	store, client, _ := newTestStore()

	body := []byte("%PDF-1.7 resume")
	require.NoError(t, store.Put(ctx, "abc", bytes.NewReader(body), int64(len(body)), "application/pdf"))
	assert.Contains(t, client.objects, "files/abc")

	info, err := store.Stat(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, int64(len(body)), info.Size)
	assert.Equal(t, "application/pdf", info.ContentType)

	rc, _, err := store.Open(ctx, "abc")
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, body, got)
}

func TestS3Store_MissingObjectIsNotFound(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newTestStore()

	_, err := store.Stat(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, _, err = store.Open(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestS3Store_PresignGet(t *testing.T) {
	store, _, p := newTestStore()

	url, err := store.PresignGet(context.Background(), "abc", "cv.pdf")

	require.NoError(t, err)
	assert.Equal(t, "https://blob.test/files/abc", url)
	assert.Equal(t, 5*time.Minute, p.expires)
	assert.Equal(t, `attachment; filename=cv.pdf`, aws.ToString(p.lastIn.ResponseContentDisposition))
}

func TestS3Store_DeleteError(t *testing.T) {
	store, client, _ := newTestStore()
	client.failDel = errors.New("throttled")

	err := store.Delete(context.Background(), "abc")

	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "throttled"))
}

func TestSanitizeFileName(t *testing.T) {
	assert.Equal(t, "cv.pdf", SanitizeFileName(`C:\Users\ada\cv.pdf`))
	assert.Equal(t, "id.png", SanitizeFileName("../../id.png"))
	assert.Equal(t, "ab.txt", SanitizeFileName("a\"b.txt"))
}
