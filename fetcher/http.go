// Package fetcher provides a concrete svf.AssetFetcher backed by an
// HTTP client, the transport SVF derivative bundles are served over
// in practice.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/svf2gltf/svf2gltf/internal/obslog"
	"github.com/svf2gltf/svf2gltf/internal/svferr"
	"github.com/svf2gltf/svf2gltf/svf"
)

var log = obslog.For("fetcher")

// TokenSource returns the bearer token to attach to every request,
// e.g. the access token from a 2-legged OAuth client-credentials
// exchange. Implementations are responsible for their own caching and
// refresh.
type TokenSource func(ctx context.Context) (string, error)

// HTTP is an svf.AssetFetcher that resolves asset URIs against a base
// URL and fetches them with net/http, attaching a bearer token from
// Tokens when set.
type HTTP struct {
	Client  *http.Client
	BaseURL *url.URL
	Tokens  TokenSource
}

var _ svf.AssetFetcher = (*HTTP)(nil)

// New returns an HTTP fetcher resolving relative URIs against baseURL.
// A nil Tokens means requests carry no Authorization header.
func New(baseURL string, tokens TokenSource) (*HTTP, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	return &HTTP{Client: http.DefaultClient, BaseURL: u, Tokens: tokens}, nil
}

// Fetch implements svf.AssetFetcher.
func (h *HTTP) Fetch(ctx context.Context, uri string) ([]byte, error) {
	resolved, err := h.resolve(uri)
	if err != nil {
		return nil, svferr.New(svferr.KindTransportError, uri, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, resolved.String(), nil)
	if err != nil {
		return nil, svferr.New(svferr.KindTransportError, uri, err)
	}
	if h.Tokens != nil {
		token, err := h.Tokens(ctx)
		if err != nil {
			return nil, svferr.New(svferr.KindTransportError, uri, fmt.Errorf("acquire token: %w", err))
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := h.Client.Do(req)
	if err != nil {
		return nil, svferr.New(svferr.KindTransportError, uri, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, svf.ErrAssetNotFound
	}
	if resp.StatusCode >= 300 {
		return nil, svferr.New(svferr.KindTransportError, uri, fmt.Errorf("unexpected status %s", resp.Status))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, svferr.New(svferr.KindTransportError, uri, err)
	}

	log.WithField("uri", uri).WithField("bytes", len(data)).Debug("fetched asset")
	return data, nil
}

func (h *HTTP) resolve(uri string) (*url.URL, error) {
	ref, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("parse uri %q: %w", uri, err)
	}
	return h.BaseURL.ResolveReference(ref), nil
}
