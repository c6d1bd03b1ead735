package places

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSetsFlagOnce(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "k", r.URL.Query().Get("key"))
		assert.Equal(t, "places", r.URL.Query().Get("libraries"))
		assert.Equal(t, "en", r.URL.Query().Get("language"))
	}))
	defer srv.Close()

	l := NewBootstrapLoader("k", WithBootstrapURL(srv.URL))
	assert.False(t, l.Loaded())

	require.NoError(t, l.Load(context.Background()))
	assert.True(t, l.Loaded())

	// Flag is set, second load must short-circuit without a request.
	require.NoError(t, l.Load(context.Background()))
	assert.Equal(t, int32(1), hits.Load())
}

func TestLoadFailureLeavesFlagUnset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	l := NewBootstrapLoader("bad-key", WithBootstrapURL(srv.URL))
	err := l.Load(context.Background())

	assert.True(t, errors.Is(err, ErrLoadFailed))
	assert.False(t, l.Loaded())
}

func TestLoadJoinsLibraries(t *testing.T) {
	var libs string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		libs = r.URL.Query().Get("libraries")
	}))
	defer srv.Close()

	l := NewBootstrapLoader("k",
		WithBootstrapURL(srv.URL),
		WithLibraries([]string{"places", "geometry"}),
		WithLoaderLanguage("fr"),
	)
	require.NoError(t, l.Load(context.Background()))
	assert.Equal(t, "places,geometry", libs)
}
