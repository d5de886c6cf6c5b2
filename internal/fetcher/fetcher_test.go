package fetcher

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	calls []string
}

func (s *stubFetcher) Download(_ context.Context, rawURL string) (io.ReadCloser, error) {
	s.calls = append(s.calls, rawURL)
	return io.NopCloser(strings.NewReader(rawURL)), nil
}

func TestRouter_DispatchesByScheme(t *testing.T) {
	httpStub, ftpStub := &stubFetcher{}, &stubFetcher{}
	r := &Router{http: httpStub, ftp: ftpStub}

	for _, u := range []string{"http://a/x.csv", "HTTPS://b/y.csv", "ftp://c/z.csv"} {
		body, err := r.Download(context.Background(), u)
		require.NoError(t, err)
		body.Close() //nolint:errcheck
	}

	assert.Equal(t, []string{"http://a/x.csv", "HTTPS://b/y.csv"}, httpStub.calls)
	assert.Equal(t, []string{"ftp://c/z.csv"}, ftpStub.calls)
}

func TestRouter_UnsupportedScheme(t *testing.T) {
	r := &Router{http: &stubFetcher{}, ftp: &stubFetcher{}}
	_, err := r.Download(context.Background(), "s3://bucket/key.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported scheme")
}

func TestNew_HTTPRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "costshare-test", r.Header.Get("User-Agent"))
		w.Write([]byte("ok")) //nolint:errcheck
	}))
	defer srv.Close()

	r := New(Options{UserAgent: "costshare-test", Timeout: 5 * time.Second, MaxRetries: 1, RequestsPerSecond: 10})
	body, err := r.Download(context.Background(), srv.URL)
	require.NoError(t, err)
	defer body.Close() //nolint:errcheck

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(data))
}

func TestIsRemote(t *testing.T) {
	tests := []struct {
		loc  string
		want bool
	}{
		{"https://data.example.gov/contracts.csv", true},
		{"HTTP://data.example.gov/contracts.csv", true},
		{"ftp://ftp.example.gov/funding.xlsx", true},
		{"data.csv", false},
		{"/var/lib/costshare/data.csv", false},
		{"sqlite:costshare.db", false},
		{"postgres://localhost/costshare", false},
	}
	for _, tt := range tests {
		t.Run(tt.loc, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRemote(tt.loc))
		})
	}
}
