package handshake

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListener_CapturesRedirect(t *testing.T) {
	l, err := Listen("127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	resp, err := http.Get(l.RedirectURI() + "?code=abc123&state=xyz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	cb, err := l.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, Callback{Outcome: OutcomeCode, Code: "abc123", State: "xyz"}, cb)
}

func TestListener_DeliversExactlyOnce(t *testing.T) {
	l, err := Listen("127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	for i := 0; i < 3; i++ {
		resp, err := http.Get(l.RedirectURI() + "?code=first")
		require.NoError(t, err)
		resp.Body.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	cb, err := l.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, "first", cb.Code)

	// No second delivery buffered
	ctx2, cancel2 := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel2()
	_, err = l.Wait(ctx2)
	assert.Error(t, err)
}

func TestListener_WaitHonorsContext(t *testing.T) {
	l, err := Listen("127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = l.Wait(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestListener_DeniedRedirect(t *testing.T) {
	l, err := Listen("127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	resp, err := http.Get(l.RedirectURI() + "?error=access_denied&code=abc")
	require.NoError(t, err)
	resp.Body.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	cb, err := l.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, OutcomeDenied, cb.Outcome)
	assert.Equal(t, "access_denied", cb.ProviderError)
}
