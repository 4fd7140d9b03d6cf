package storage

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, publicBase string) *Client {
	t.Helper()
	c, err := NewClient(context.Background(), S3Config{
		Region:     "us-east-1",
		Bucket:     "teamchat",
		AccessKey:  "test",
		SecretKey:  "secret",
		Endpoint:   "http://localhost:9000",
		PublicBase: publicBase,
		PresignTTL: 5 * time.Minute,
	})
	require.NoError(t, err)
	return c
}

func TestNewClientRequiresBucket(t *testing.T) {
	_, err := NewClient(context.Background(), S3Config{Region: "us-east-1"})
	assert.Error(t, err)
}

func TestPresignPut(t *testing.T) {
	c := newTestClient(t, "")
	raw, headers, err := c.PresignPut(context.Background(), "uploads/abc", "image/png", 1024)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", u.Host)
	assert.Equal(t, "/teamchat/uploads/abc", u.Path)
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
	assert.Equal(t, "300", u.Query().Get("X-Amz-Expires"))
	assert.Equal(t, "image/png", headers["Content-Type"])
	assert.Equal(t, "1024", headers["Content-Length"])
}

func TestResolveURLPrefersPublicBase(t *testing.T) {
	c := newTestClient(t, "https://cdn.example/")
	got, err := c.ResolveURL(context.Background(), "uploads/abc")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/uploads/abc", got)
}

func TestResolveURLPresignsWithoutPublicBase(t *testing.T) {
	c := newTestClient(t, "")
	got, err := c.ResolveURL(context.Background(), "uploads/abc")
	require.NoError(t, err)
	u, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "/teamchat/uploads/abc", u.Path)
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
}
