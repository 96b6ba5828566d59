// Package pkg provides the libraries behind the combine_atlases tool.
//
// # Overview
//
// combine_atlases composites a tile-based sprite atlas and a fixed-grid
// bitmap font atlas into a single PNG the game engine loads as its one
// combined tileset. The pkg directory is organized into five areas:
//
//  1. [atlas] - Domain logic (cell geometry, compositing, PNG I/O, the
//     manifest sidecar, nearest-neighbor scaling)
//  2. [cache] - Response caching for asset downloads (file, Redis, null)
//  3. [fetch] - HTTP asset downloader with retry and caching
//  4. [errors] - Structured error codes shared by all layers
//  5. [observability] - Hook interfaces for pipeline instrumentation
//
// # Architecture
//
// The data flow of one combine run:
//
//	tileset.png + font.png
//	         ↓
//	    [atlas] DecodeFile (both inputs)
//	         ↓
//	    [atlas] Combine (geometry arithmetic + block copies)
//	         ↓
//	    [atlas] WritePNG (+ optional manifest sidecar)
//
// # Quick Start
//
// Combine two atlases programmatically:
//
//	import "github.com/robinei/atlastool/pkg/atlas"
//
//	tileset, _ := atlas.DecodeFile("urizen_onebit_tileset__v2d0.png")
//	font, _ := atlas.DecodeFile("cp437_12x12.png")
//
//	combined, stats, _ := atlas.Combine(tileset, font, atlas.DefaultGeometry())
//	_ = atlas.WritePNG("combined_tileset.png", combined)
//	fmt.Printf("%dx%d, %d glyphs\n", stats.Width, stats.Height, stats.GlyphsCopied)
//
// # Main Packages
//
// [atlas] - The compositing core. A Geometry value holds the cell layout
// (12px tiles, 1px spacing, 16x16 font grid, 2 appended rows by default);
// Combine pastes the tileset at the origin, fills the appended rows with
// glyphs in row-major order until the supply runs out, and forces the
// bottom-right cell to opaque white.
//
// [cache] - Response cache consulted by the fetch path only; the combine
// operation always recomputes its output. Backends: file (sha256-sharded
// JSON entries under the XDG cache dir), Redis (shared CI runners), null.
//
// [fetch] - Downloads the two source images from configured URLs with
// exponential-backoff retry for transient failures.
//
// [errors] - Error codes (INVALID_USAGE, DECODE_FAILED, WRITE_FAILED, ...)
// with wrapping and user-facing messages.
//
// [observability] - Hook interfaces with no-op defaults; the CLI registers
// logging hooks in verbose mode.
//
// [buildinfo] - ldflags-injected version information.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/atlas/...    # Specific package
//
// [atlas]: https://pkg.go.dev/github.com/robinei/atlastool/pkg/atlas
// [cache]: https://pkg.go.dev/github.com/robinei/atlastool/pkg/cache
// [fetch]: https://pkg.go.dev/github.com/robinei/atlastool/pkg/fetch
// [errors]: https://pkg.go.dev/github.com/robinei/atlastool/pkg/errors
// [observability]: https://pkg.go.dev/github.com/robinei/atlastool/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/robinei/atlastool/pkg/buildinfo
package pkg
