package svf

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/svf2gltf/svf2gltf/internal/svferr"
)

// Read decodes the manifest at manifestURI and every asset it
// references into an in-memory SVF. The asset set referenced
// directly by the manifest is known statically, so those
// fetches launch as one unordered errgroup: all must complete before
// assembly, and the first fatal error cancels the rest via ctx. Image
// fetches (including texture URIs only discovered while decoding
// materials) run as a second wave, since MissingImage degrades
// locally rather than aborting the read.
func Read(ctx context.Context, fetcher AssetFetcher, manifestURI string) (*SVF, error) {
	manifestRaw, err := fetcher.Fetch(ctx, manifestURI)
	if err != nil {
		return nil, svferr.New(svferr.KindTransportError, manifestURI, err)
	}
	manifest, err := ParseManifest(manifestRaw)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)

	var metadata Metadata
	var fragments []Fragment
	var geometryMetadata []GeometryMetadata
	meshPacks := make([]MeshPack, len(manifest.MeshPacks))

	if manifest.Metadata != "" {
		g.Go(func() error {
			raw, err := fetchRequired(gctx, fetcher, manifest.Metadata)
			if err != nil {
				return err
			}
			metadata, err = parseMetadata(raw)
			return err
		})
	}

	g.Go(func() error {
		raw, err := fetchRequired(gctx, fetcher, manifest.Fragments)
		if err != nil {
			return err
		}
		fragments, err = parseFragments(raw)
		return err
	})

	if manifest.GeometryMetadata != "" {
		g.Go(func() error {
			raw, err := fetchRequired(gctx, fetcher, manifest.GeometryMetadata)
			if err != nil {
				return err
			}
			geometryMetadata, err = parseGeometryMetadata(raw)
			return err
		})
	}

	for i, uri := range manifest.MeshPacks {
		i, uri := i, uri
		g.Go(func() error {
			raw, err := fetchRequired(gctx, fetcher, uri)
			if err != nil {
				return err
			}
			pack, err := parseMeshPack(raw)
			if err != nil {
				return err
			}
			meshPacks[i] = pack
			return nil
		})
	}

	var materials []Material
	var textureURIs []string
	if manifest.Materials != "" {
		g.Go(func() error {
			raw, err := fetchRequired(gctx, fetcher, manifest.Materials)
			if err != nil {
				return err
			}
			materials, textureURIs, err = parseMaterials(raw)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	images := fetchImages(ctx, fetcher, append(append([]string{}, manifest.Images...), textureURIs...))

	return &SVF{
		Metadata:         metadata,
		Fragments:        fragments,
		GeometryMetadata: geometryMetadata,
		MeshPacks:        meshPacks,
		Materials:        materials,
		Images:           images,
	}, nil
}

func fetchRequired(ctx context.Context, fetcher AssetFetcher, uri string) ([]byte, error) {
	data, err := fetcher.Fetch(ctx, uri)
	if err != nil {
		return nil, svferr.New(svferr.KindTransportError, uri, fmt.Errorf("fetch %s: %w", uri, err))
	}
	return data, nil
}

// fetchImages fetches every URI in parallel, filling gaps with
// placeholders. Each URI is fetched at
// most once even if queued by both the manifest and a material.
func fetchImages(ctx context.Context, fetcher AssetFetcher, uris []string) ImageSet {
	unique := make([]string, 0, len(uris))
	seen := map[string]bool{}
	for _, u := range uris {
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		unique = append(unique, u)
	}

	images := make(ImageSet, len(unique))
	if len(unique) == 0 {
		return images
	}

	var g errgroup.Group
	results := make([][]byte, len(unique))
	for i, uri := range unique {
		i, uri := i, uri
		g.Go(func() error {
			results[i] = fetchImage(ctx, fetcher, uri)
			return nil
		})
	}
	_ = g.Wait() // fetchImage never returns an error; failures already degrade to placeholders

	for i, uri := range unique {
		images[uri] = results[i]
	}
	return images
}
