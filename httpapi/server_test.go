package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svf2gltf/svf2gltf/gltfwriter"
	"github.com/svf2gltf/svf2gltf/svf"
)

type stubFetcher struct{}

func (stubFetcher) Fetch(ctx context.Context, uri string) ([]byte, error) {
	return nil, svf.ErrAssetNotFound
}

func TestServerSubmitReportsFailedJob(t *testing.T) {
	srv := NewServer(stubFetcher{}, t.TempDir(), gltfwriter.DefaultConfig())
	ts := httptest.NewServer(srv)
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/jobs", "application/json", strings.NewReader(`{"manifestUri":"manifest.json"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	var submitted Job
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&submitted))
	require.NotEmpty(t, submitted.ID)

	var final Job
	for i := 0; i < 50; i++ {
		statusResp, err := http.Get(ts.URL + "/jobs/" + submitted.ID)
		require.NoError(t, err)
		json.NewDecoder(statusResp.Body).Decode(&final)
		statusResp.Body.Close()
		if final.Status == JobDone || final.Status == JobFailed {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	assert.Equal(t, JobFailed, final.Status)
	assert.NotEmpty(t, final.Error)
}

func TestServerStatusUnknownJobIs404(t *testing.T) {
	srv := NewServer(stubFetcher{}, t.TempDir(), gltfwriter.DefaultConfig())
	ts := httptest.NewServer(srv)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/jobs/does-not-exist")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServerSubmitRejectsMissingManifestURI(t *testing.T) {
	srv := NewServer(stubFetcher{}, t.TempDir(), gltfwriter.DefaultConfig())
	ts := httptest.NewServer(srv)
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/jobs", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
