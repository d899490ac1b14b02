package svf

import (
	"context"
	"errors"
)

// fetchImage fetches uri and falls back to a placeholder on a 404
// (ErrAssetNotFound); a missing texture is never fatal.
func fetchImage(ctx context.Context, fetcher AssetFetcher, uri string) []byte {
	data, err := fetcher.Fetch(ctx, uri)
	if err == nil {
		return data
	}
	if errors.Is(err, ErrAssetNotFound) {
		log.WithField("uri", uri).Warn("image not found, substituting placeholder")
		return placeholderImageFor(uri)
	}
	log.WithField("uri", uri).WithError(err).Warn("image fetch failed, substituting placeholder")
	return placeholderImageFor(uri)
}
