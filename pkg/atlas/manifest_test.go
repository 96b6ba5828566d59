package atlas

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuildManifest(t *testing.T) {
	geo := DefaultGeometry()
	tileset := SourceInfo{Path: "tiles.png", SHA256: "aa", Width: 200, Height: 100}
	font := SourceInfo{Path: "font.png", SHA256: "bb", Width: 192, Height: 192}
	stats := Stats{Width: 200, Height: 127, TilesPerRow: 15, GlyphsCopied: 30, RowsAdded: 2}

	m := BuildManifest("out.png", tileset, font, geo, stats)

	if m.RunID == "" {
		t.Error("RunID is empty")
	}
	if m.CreatedAt.IsZero() {
		t.Error("CreatedAt is zero")
	}
	if m.Width != 200 || m.Height != 127 {
		t.Errorf("size = %dx%d, want 200x127", m.Width, m.Height)
	}
	if m.GlyphCount != 30 || len(m.Glyphs) != 30 {
		t.Fatalf("glyph count = %d (records %d), want 30", m.GlyphCount, len(m.Glyphs))
	}

	wantRegion := Region{X: 0, Y: 0, W: 200, H: 100}
	if diff := cmp.Diff(wantRegion, m.TilesetRegion); diff != "" {
		t.Errorf("TilesetRegion mismatch (-want +got):\n%s", diff)
	}

	// Glyph 17 sits at destination column 2, row 1 and comes from font
	// cell (1, 1).
	wantGlyph := GlyphCell{
		Index:   17,
		FontCol: 1,
		FontRow: 1,
		Dest:    Region{X: 27, Y: 114, W: 12, H: 12},
	}
	if diff := cmp.Diff(wantGlyph, m.Glyphs[17]); diff != "" {
		t.Errorf("glyph 17 mismatch (-want +got):\n%s", diff)
	}

	if m.WhiteCell == nil {
		t.Fatal("WhiteCell is nil")
	}
	wantWhite := Region{X: 183, Y: 114, W: 12, H: 12}
	if diff := cmp.Diff(wantWhite, *m.WhiteCell); diff != "" {
		t.Errorf("WhiteCell mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildManifestZeroColumns(t *testing.T) {
	// A tileset narrower than one cell yields appended rows with no
	// columns; the combine clips the white fill off the canvas, so the
	// manifest must not record a cell for it either.
	geo := DefaultGeometry()
	tileset := SourceInfo{Path: "tiles.png", SHA256: "aa", Width: 8, Height: 26}
	font := SourceInfo{Path: "font.png", SHA256: "bb", Width: 192, Height: 192}
	stats := Stats{Width: 8, Height: 53, TilesPerRow: 0, GlyphsCopied: 0, RowsAdded: 2}

	m := BuildManifest("out.png", tileset, font, geo, stats)

	if m.WhiteCell != nil {
		t.Errorf("WhiteCell = %+v, want nil", *m.WhiteCell)
	}
	if len(m.Glyphs) != 0 {
		t.Errorf("len(Glyphs) = %d, want 0", len(m.Glyphs))
	}
}

func TestManifestJSONRoundTrip(t *testing.T) {
	geo := DefaultGeometry()
	tileset := SourceInfo{Path: "tiles.png", SHA256: "aa", Width: 66, Height: 26}
	font := SourceInfo{Path: "font.png", SHA256: "bb", Width: 24, Height: 24}
	stats := Stats{Width: 66, Height: 53, TilesPerRow: 5, GlyphsCopied: 4, RowsAdded: 2}
	m := BuildManifest("out.png", tileset, font, geo, stats)

	dir := t.TempDir()
	path := filepath.Join(dir, "out.manifest.json")
	if err := WriteManifest(path, m); err != nil {
		t.Fatalf("WriteManifest() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got Manifest
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal manifest: %v", err)
	}

	if diff := cmp.Diff(m, got); diff != "" {
		t.Errorf("manifest round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestNewSourceInfo(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tiles.png")
	img := testTileset(20, 10)
	if err := WritePNG(path, img); err != nil {
		t.Fatal(err)
	}

	info, err := NewSourceInfo(path, img)
	if err != nil {
		t.Fatalf("NewSourceInfo() error = %v", err)
	}
	if info.Path != path {
		t.Errorf("Path = %q, want %q", info.Path, path)
	}
	if len(info.SHA256) != 64 {
		t.Errorf("SHA256 length = %d, want 64", len(info.SHA256))
	}
	if info.Width != 20 || info.Height != 10 {
		t.Errorf("size = %dx%d, want 20x10", info.Width, info.Height)
	}
}

func TestManifestPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"out.png", "out.manifest.json"},
		{"dir/combined_tileset.png", "dir/combined_tileset.manifest.json"},
		{"noext", "noext.manifest.json"},
	}

	for _, tt := range tests {
		if got := ManifestPath(tt.in); got != tt.want {
			t.Errorf("ManifestPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
