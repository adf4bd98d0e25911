package objectstore

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	zerrors "github.com/zzenonn/zhost/internal/errors"
)

type mockS3Client struct {
	getObjectFunc func(ctx context.Context, params *s3.GetObjectInput) (*s3.GetObjectOutput, error)
}

func (m *mockS3Client) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	return m.getObjectFunc(ctx, params)
}

func TestS3ObjectRepository_GetObject(t *testing.T) {
	var gotBucket, gotKey string
	repo := NewS3ObjectRepository(&mockS3Client{
		getObjectFunc: func(ctx context.Context, params *s3.GetObjectInput) (*s3.GetObjectOutput, error) {
			gotBucket, gotKey = aws.ToString(params.Bucket), aws.ToString(params.Key)
			return &s3.GetObjectOutput{
				Body:        io.NopCloser(strings.NewReader("<h1>hi</h1>")),
				ContentType: aws.String("text/html"),
			}, nil
		},
	})

	content, err := repo.GetObject(context.Background(), "bkt1", "index.html")
	require.NoError(t, err)

	assert.Equal(t, "bkt1", gotBucket)
	assert.Equal(t, "index.html", gotKey)
	assert.Equal(t, []byte("<h1>hi</h1>"), content.Body)
	assert.Equal(t, "text/html", content.ContentType)
	assert.True(t, content.HasContentType)
	assert.Equal(t, "bkt1", content.Bucket)
	assert.Equal(t, "index.html", content.Key)
}

func TestS3ObjectRepository_MissingContentType(t *testing.T) {
	repo := NewS3ObjectRepository(&mockS3Client{
		getObjectFunc: func(ctx context.Context, params *s3.GetObjectInput) (*s3.GetObjectOutput, error) {
			return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader("raw"))}, nil
		},
	})

	content, err := repo.GetObject(context.Background(), "bkt1", "blob")
	require.NoError(t, err)
	assert.False(t, content.HasContentType)
	assert.Empty(t, content.ContentType)
}

func TestClassifyS3Error(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantCode     string
		wantNotFound bool
	}{
		{"no such key", &types.NoSuchKey{Message: aws.String("gone")}, "NoSuchKey", true},
		{"no such bucket", &types.NoSuchBucket{}, "NoSuchBucket", true},
		{"head style not found", &smithy.GenericAPIError{Code: "NotFound"}, "NotFound", true},
		{"access denied", &smithy.GenericAPIError{Code: "AccessDenied", Message: "denied"}, "AccessDenied", false},
		{"transport failure", errors.New("connection reset"), "Unknown", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyS3Error(tt.err)

			var backendErr *BackendError
			require.ErrorAs(t, err, &backendErr)
			assert.Equal(t, "s3", backendErr.Backend)
			assert.Equal(t, tt.wantCode, backendErr.Code)
			assert.Equal(t, tt.wantNotFound, errors.Is(err, zerrors.ErrObjectNotFound))
		})
	}
}
