// Package translate wires the SVF reader, IMF adapter and glTF writer
// into the single end-to-end pipeline the CLI and HTTP façade both
// drive.
package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/qmuntal/gltf"

	"github.com/svf2gltf/svf2gltf/gltfwriter"
	"github.com/svf2gltf/svf2gltf/imf"
	"github.com/svf2gltf/svf2gltf/internal/obslog"
	"github.com/svf2gltf/svf2gltf/internal/svferr"
	"github.com/svf2gltf/svf2gltf/svf"
)

var log = obslog.For("translate")

// Options configures one end-to-end translation.
type Options struct {
	ManifestURI string
	OutputDir   string
	Binary      bool // write output.glb instead of output.gltf
	Config      gltfwriter.Config
}

// Summary is written to output.metadata.json alongside the glTF asset.
type Summary struct {
	NodeCount       int     `json:"nodeCount"`
	MeshCount       int     `json:"meshCount"`
	MaterialCount   int     `json:"materialCount"`
	BufferCount     int     `json:"bufferCount"`
	SkippedByFilter int     `json:"skippedByFilter"`
	SkippedMissing  int     `json:"skippedMissing"`
	UpAxis          string  `json:"upAxis"`
	DistanceScale   float32 `json:"distanceUnitScaleToMeters"`
}

// Run reads the SVF bundle at opts.ManifestURI via fetch, translates
// it to glTF and writes output.gltf (or output.glb) plus
// output.metadata.json under opts.OutputDir.
func Run(ctx context.Context, fetch svf.AssetFetcher, opts Options) (*Summary, error) {
	scene, err := svf.Read(ctx, fetch, opts.ManifestURI)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, svferr.New(svferr.KindWriterIO, opts.OutputDir, err)
	}

	adapter := imf.NewSvfToImfAdapter(scene)
	w := gltfwriter.New(adapter, opts.Config, opts.OutputDir)
	result, err := w.Write(ctx)
	if err != nil {
		return nil, err
	}

	assetName := "output.gltf"
	if opts.Binary {
		assetName = "output.glb"
	}
	if err := writeDocument(w.Document(), filepath.Join(opts.OutputDir, assetName), opts.Binary); err != nil {
		return nil, err
	}

	summary := &Summary{
		NodeCount:       result.NodeCount,
		MeshCount:       result.MeshCount,
		MaterialCount:   result.MaterialCount,
		BufferCount:     result.BufferCount,
		SkippedByFilter: result.SkippedByFilter,
		SkippedMissing:  result.SkippedMissing,
		UpAxis:          scene.Metadata.UpAxis,
		DistanceScale:   scene.Metadata.DistanceUnitScale,
	}
	if err := writeSummary(summary, filepath.Join(opts.OutputDir, "output.metadata.json")); err != nil {
		return nil, err
	}

	log.WithField("nodes", summary.NodeCount).WithField("meshes", summary.MeshCount).Info("translation complete")
	return summary, nil
}

func writeDocument(doc *gltf.Document, path string, binary bool) error {
	f, err := os.Create(path)
	if err != nil {
		return svferr.New(svferr.KindWriterIO, path, err)
	}
	defer f.Close()

	enc := gltf.NewEncoder(f)
	enc.AsBinary = binary
	if err := enc.Encode(doc); err != nil {
		return svferr.New(svferr.KindWriterIO, path, fmt.Errorf("encode: %w", err))
	}
	return nil
}

func writeSummary(summary *Summary, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return svferr.New(svferr.KindWriterIO, path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		return svferr.New(svferr.KindWriterIO, path, fmt.Errorf("encode: %w", err))
	}
	return nil
}
