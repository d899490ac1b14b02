package svf

import (
	"context"
	"errors"
)

// ErrAssetNotFound is the sentinel an AssetFetcher returns for a 404
// or equivalent "does not exist" response. It is non-fatal for images
// and fatal for everything else.
var ErrAssetNotFound = errors.New("svf: asset not found")

// AssetFetcher abstracts an async byte fetch by URI for one
// derivative's asset bundle. All HTTP semantics — auth,
// retry, chunking — are the concrete implementation's concern; this
// package only calls Fetch.
type AssetFetcher interface {
	Fetch(ctx context.Context, uri string) ([]byte, error)
}
