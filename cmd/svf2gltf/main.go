// Command svf2gltf translates one SVF derivative bundle into a glTF
// 2.0 asset.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/svf2gltf/svf2gltf/fetcher"
	"github.com/svf2gltf/svf2gltf/gltfwriter"
	"github.com/svf2gltf/svf2gltf/translate"
)

var (
	baseURL       = flag.String("base-url", "", "base URL manifest/asset URIs are resolved against (required)")
	outputDir     = flag.String("out", ".", "directory to write output.gltf/output.glb and output.metadata.json into")
	binary        = flag.Bool("glb", false, "write binary glTF (.glb) instead of JSON glTF (.gltf); buffers are external output.N.bin files either way")
	dedup         = flag.Bool("dedup", false, "deduplicate identical geometry buffer content")
	center        = flag.Bool("center", false, "center the scene on the origin")
	reorient      = flag.Bool("reorient", true, "reorient the scene to glTF's Y-up convention")
	maxBufferSize = flag.Int("max-buffer-size", 5<<20, "soft per-buffer byte ceiling before rotating to a new glTF buffer")
	dbIDFilter    = flag.String("dbids", "", "comma-separated dbIds to include; empty means include everything")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "svf2gltf - translate an SVF derivative bundle to glTF 2.0\n\n")
		fmt.Fprintf(os.Stderr, "Usage: svf2gltf -base-url <url> <manifest-path-or-uri>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 || *baseURL == "" {
		flag.Usage()
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := run(ctx, flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "svf2gltf: %v\n", err)
		os.Exit(2)
	}
}

func run(ctx context.Context, manifestURI string) error {
	fetch, err := fetcher.New(*baseURL, nil)
	if err != nil {
		return fmt.Errorf("build fetcher: %w", err)
	}

	cfg := gltfwriter.DefaultConfig()
	cfg.Deduplicate = *dedup
	cfg.Center = *center
	cfg.Reorient = *reorient
	cfg.MaxBufferSize = *maxBufferSize
	if *dbIDFilter != "" {
		cfg.FilterDbIDs = parseDbIDFilter(*dbIDFilter)
	}

	summary, err := translate.Run(ctx, fetch, translate.Options{
		ManifestURI: manifestURI,
		OutputDir:   *outputDir,
		Binary:      *binary,
		Config:      cfg,
	})
	if err != nil {
		return err
	}

	fmt.Printf("wrote %d nodes, %d meshes, %d materials (%d buffers) to %s\n",
		summary.NodeCount, summary.MeshCount, summary.MaterialCount, summary.BufferCount, *outputDir)
	return nil
}

func parseDbIDFilter(raw string) map[uint32]bool {
	filter := map[uint32]bool{}
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		id, err := strconv.ParseUint(field, 10, 32)
		if err != nil {
			fmt.Fprintf(os.Stderr, "svf2gltf: ignoring invalid dbid %q: %v\n", field, err)
			continue
		}
		filter[uint32(id)] = true
	}
	return filter
}
