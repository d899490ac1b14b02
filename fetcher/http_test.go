package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svf2gltf/svf2gltf/svf"
)

func TestHTTPFetchAttachesBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte("payload"))
	}))
	defer server.Close()

	f, err := New(server.URL+"/", func(context.Context) (string, error) { return "tok123", nil })
	require.NoError(t, err)

	data, err := f.Fetch(context.Background(), "manifest.json")
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
	assert.Equal(t, "Bearer tok123", gotAuth)
}

func TestHTTPFetchNotFoundMapsToErrAssetNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	f, err := New(server.URL+"/", nil)
	require.NoError(t, err)

	_, err = f.Fetch(context.Background(), "missing.png")
	assert.True(t, errors.Is(err, svf.ErrAssetNotFound))
}
