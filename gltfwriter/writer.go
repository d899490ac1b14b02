// Package gltfwriter streams an imf.Scene into a glTF 2.0 document:
// scene construction, material mapping, accessor/bufferView packing
// with content deduplication and buffer rotation, and the
// missing-mesh/missing-material recovery policies.
package gltfwriter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/qmuntal/gltf"

	"github.com/svf2gltf/svf2gltf/imf"
	"github.com/svf2gltf/svf2gltf/internal/math32"
	"github.com/svf2gltf/svf2gltf/internal/svferr"
)

// Result summarizes a completed write, enough to populate
// output.metadata.json alongside the glTF asset itself.
type Result struct {
	NodeCount       int
	MeshCount       int
	MaterialCount   int
	BufferCount     int
	SkippedByFilter int
	SkippedMissing  int
}

// bufferFile is one open output.N.bin handle the writer streams
// accessor bytes into as they're produced.
type bufferFile struct {
	file *os.File
	uri  string
	len  int
}

// GltfWriter translates one imf.Scene into a *gltf.Document. A
// GltfWriter is single-use: call Write once and discard it.
type GltfWriter struct {
	cfg       Config
	scene     imf.Scene
	doc       *gltf.Document
	dedup     *Deduplicator
	outputDir string

	buffers               []*bufferFile
	meshIndexByKey        map[meshKey]uint32
	materialIndexBySource map[int]uint32
	textureIndexByURI     map[string]uint32

	skippedByFilter int
	skippedMissing  int
}

// New returns a GltfWriter over scene, configured by cfg. Buffer
// bytes are streamed to output.N.bin files under outputDir as the
// write proceeds, so outputDir must already exist.
func New(scene imf.Scene, cfg Config, outputDir string) *GltfWriter {
	doc := &gltf.Document{}
	doc.Asset.Version = "2.0"
	doc.Asset.Generator = "svf2gltf"
	sceneIdx := uint32(0)
	doc.Scene = &sceneIdx
	doc.Scenes = []*gltf.Scene{{}}

	return &GltfWriter{
		cfg:                   cfg,
		scene:                 scene,
		doc:                   doc,
		dedup:                 NewDeduplicator(cfg.Deduplicate),
		outputDir:             outputDir,
		meshIndexByKey:        make(map[meshKey]uint32),
		materialIndexBySource: make(map[int]uint32),
		textureIndexByURI:     make(map[string]uint32),
	}
}

// Write walks every node in the scene, translating it into the
// document's node/mesh/material/accessor tables under a root node
// chain that applies the configured axis reorientation and centering.
// It returns ctx.Err() if ctx is cancelled mid-walk; the writer's
// internal state is left in whatever partial shape it reached and
// must not be reused. Every output.N.bin file opened during the walk
// is closed before Write returns, on every exit path.
func (w *GltfWriter) Write(ctx context.Context) (result *Result, err error) {
	defer func() {
		if cerr := w.closeBuffers(); cerr != nil && err == nil {
			result, err = nil, cerr
		}
	}()

	leafParent := w.buildRootChain()

	for i := 0; i < w.scene.NodeCount(); i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		node := w.scene.GetNode(i)
		if node.Kind != imf.NodeObject {
			continue // cameras/lights: no adapter populates these yet
		}
		if w.cfg.FilterDbIDs != nil && !w.cfg.FilterDbIDs[node.DbID] {
			w.skippedByFilter++
			continue
		}

		childIdx, ok, err := w.writeObjectNode(node)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		leafParent.Children = append(leafParent.Children, childIdx)
	}

	return &Result{
		NodeCount:       len(w.doc.Nodes),
		MeshCount:       len(w.doc.Meshes),
		MaterialCount:   len(w.doc.Materials),
		BufferCount:     len(w.buffers),
		SkippedByFilter: w.skippedByFilter,
		SkippedMissing:  w.skippedMissing,
	}, nil
}

// Document returns the glTF document built so far. Valid to call
// after Write returns successfully.
func (w *GltfWriter) Document() *gltf.Document {
	return w.doc
}

// buildRootChain appends the reorientation root and, if enabled, a
// centering child beneath it, returning whichever node leaf object
// nodes should be attached to.
func (w *GltfWriter) buildRootChain() *gltf.Node {
	root := &gltf.Node{Name: "root"}
	if w.cfg.Reorient {
		m := reorientMatrix(w.scene.GetMetadata())
		if m != math32.Identity4() {
			root.Matrix = [16]float32(m)
		}
	}
	w.doc.Nodes = append(w.doc.Nodes, root)
	rootIdx := uint32(len(w.doc.Nodes) - 1)
	w.doc.Scenes[0].Nodes = append(w.doc.Scenes[0].Nodes, rootIdx)

	if !w.cfg.Center {
		return root
	}

	min, max := w.sceneBounds()
	center := min.Add(max).MultiplyScalar(0.5)
	centerNode := &gltf.Node{
		Name:        "center",
		Translation: [3]float32{-center.X, -center.Y, -center.Z},
		Rotation:    [4]float32{0, 0, 0, 1},
		Scale:       [3]float32{1, 1, 1},
	}
	w.doc.Nodes = append(w.doc.Nodes, centerNode)
	centerIdx := uint32(len(w.doc.Nodes) - 1)
	root.Children = append(root.Children, centerIdx)
	return centerNode
}

func (w *GltfWriter) sceneBounds() (math32.Vector3, math32.Vector3) {
	var min, max math32.Vector3
	first := true
	for i := 0; i < w.scene.NodeCount(); i++ {
		n := w.scene.GetNode(i)
		if n.Kind != imf.NodeObject {
			continue
		}
		if first {
			min, max = n.WorldBBoxMin, n.WorldBBoxMax
			first = false
			continue
		}
		min = math32.Min(min, n.WorldBBoxMin)
		max = math32.Max(max, n.WorldBBoxMax)
	}
	return min, max
}

// writeObjectNode translates one NodeObject into a glTF node, honoring
// the configured primitive-kind ignore flags and the missing-mesh
// recovery policy.
func (w *GltfWriter) writeObjectNode(node imf.Node) (uint32, bool, error) {
	geom := w.scene.GetGeometry(node.GeometryID)

	switch geom.Kind() {
	case imf.GeometryMesh:
		if w.cfg.IgnoreMeshes {
			return 0, false, nil
		}
	case imf.GeometryLines:
		if w.cfg.IgnoreLines {
			return 0, false, nil
		}
	case imf.GeometryPoints:
		if w.cfg.IgnorePoints {
			return 0, false, nil
		}
	case imf.GeometryEmpty:
		w.skippedMissing++
		log.WithField("dbId", node.DbID).Warn("missing mesh, emitting empty node")
		return w.appendNode(node, nil), true, nil
	}

	meshIdx, err := w.meshIndex(node.GeometryID, geom, node.MaterialID)
	if err != nil {
		if svferr.Is(err, svferr.KindMissingMesh) {
			w.skippedMissing++
			log.WithField("dbId", node.DbID).WithError(err).Warn("missing mesh, emitting empty node")
			return w.appendNode(node, nil), true, nil
		}
		return 0, false, err
	}
	return w.appendNode(node, &meshIdx), true, nil
}

func (w *GltfWriter) appendNode(node imf.Node, meshIdx *uint32) uint32 {
	gn := &gltf.Node{
		Mesh:   meshIdx,
		Extras: map[string]interface{}{"dbId": node.DbID},
	}
	applyTransform(gn, node.Transform)
	w.doc.Nodes = append(w.doc.Nodes, gn)
	return uint32(len(w.doc.Nodes) - 1)
}

// applyTransform sets gn's matrix or TRS fields from t. glTF forbids
// a node carrying both a matrix and any TRS component, so the
// identity-quaternion/unit-scale defaults are only
// written on the decomposed path.
func applyTransform(gn *gltf.Node, t *imf.Transform) {
	if t == nil {
		gn.Rotation = [4]float32{0, 0, 0, 1}
		gn.Scale = [3]float32{1, 1, 1}
		return
	}
	switch t.Kind {
	case imf.TransformMatrix:
		gn.Matrix = [16]float32(t.Matrix)
	case imf.TransformDecomposed:
		gn.Rotation = [4]float32{0, 0, 0, 1}
		gn.Scale = [3]float32{1, 1, 1}
		if t.Translation != nil {
			gn.Translation = [3]float32{t.Translation.X, t.Translation.Y, t.Translation.Z}
		}
		if t.Rotation != nil {
			gn.Rotation = t.Rotation.Array()
		}
		if t.Scale != nil {
			gn.Scale = [3]float32{t.Scale.X, t.Scale.Y, t.Scale.Z}
		}
	}
}

// writeAccessor writes data into the current buffer file (rotating to
// a new one first if it would overflow MaxBufferSize), registers a
// bufferView and accessor for it, and returns the accessor index.
// Identical (kind, data) pairs reuse the first accessor written for
// them when deduplication is enabled.
func (w *GltfWriter) writeAccessor(kind string, data []byte, componentType gltf.ComponentType, accessorType gltf.AccessorType, count int, min, max []float32) (uint32, error) {
	if idx, ok := w.dedup.Lookup(kind, data); ok {
		return idx, nil
	}

	bufIdx, offset, err := w.appendBytes(data)
	if err != nil {
		return 0, err
	}

	bv := &gltf.BufferView{Buffer: bufIdx, ByteOffset: offset, ByteLength: uint32(len(data))}
	w.doc.BufferViews = append(w.doc.BufferViews, bv)
	bvIdx := uint32(len(w.doc.BufferViews) - 1)

	acc := &gltf.Accessor{
		BufferView:    &bvIdx,
		ComponentType: componentType,
		Type:          accessorType,
		Count:         uint32(count),
		Min:           min,
		Max:           max,
	}
	w.doc.Accessors = append(w.doc.Accessors, acc)
	accIdx := uint32(len(w.doc.Accessors) - 1)

	w.dedup.Remember(kind, data, accIdx)
	return accIdx, nil
}

// openBuffer opens the next output.N.bin file under outputDir and
// registers a matching gltf.Buffer carrying its relative URI.
func (w *GltfWriter) openBuffer() error {
	idx := len(w.buffers)
	uri := fmt.Sprintf("output.%d.bin", idx)
	path := filepath.Join(w.outputDir, uri)

	f, err := os.Create(path)
	if err != nil {
		return svferr.New(svferr.KindWriterIO, path, err)
	}

	w.buffers = append(w.buffers, &bufferFile{file: f, uri: uri})
	w.doc.Buffers = append(w.doc.Buffers, &gltf.Buffer{URI: uri})
	return nil
}

// appendBytes streams data to the current buffer file, rotating to a
// fresh one first if appending would cross MaxBufferSize and the
// current buffer already holds something. An accessor's bytes are
// always contiguous within a single buffer.
func (w *GltfWriter) appendBytes(data []byte) (bufferIdx uint32, byteOffset uint32, err error) {
	if len(w.buffers) == 0 {
		if err := w.openBuffer(); err != nil {
			return 0, 0, err
		}
	}

	cur := w.buffers[len(w.buffers)-1]
	if w.cfg.MaxBufferSize > 0 && cur.len > 0 && cur.len+len(data) > w.cfg.MaxBufferSize {
		if err := w.openBuffer(); err != nil {
			return 0, 0, err
		}
		cur = w.buffers[len(w.buffers)-1]
	}

	offset := uint32(cur.len)
	if _, err := cur.file.Write(data); err != nil {
		return 0, 0, svferr.New(svferr.KindWriterIO, cur.uri, err)
	}
	cur.len += len(data)

	if pad := (4 - cur.len%4) % 4; pad > 0 {
		if _, err := cur.file.Write(make([]byte, pad)); err != nil {
			return 0, 0, svferr.New(svferr.KindWriterIO, cur.uri, err)
		}
		cur.len += pad
	}
	return uint32(len(w.buffers) - 1), offset, nil
}

// closeBuffers finalizes every open buffer's declared ByteLength and
// closes its file handle. It runs via defer in Write so every open
// *os.File is closed on success, context cancellation, or error; the
// first close error encountered is returned.
func (w *GltfWriter) closeBuffers() error {
	var firstErr error
	for i, buf := range w.buffers {
		w.doc.Buffers[i].ByteLength = uint32(buf.len)
		if cerr := buf.file.Close(); cerr != nil && firstErr == nil {
			firstErr = svferr.New(svferr.KindWriterIO, buf.uri, cerr)
		}
	}
	return firstErr
}
