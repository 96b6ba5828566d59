package atlas

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/robinei/atlastool/pkg/errors"
)

// Region is an axis-aligned pixel rectangle in the combined atlas.
type Region struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// SourceInfo identifies one input image by path, content hash and size.
type SourceInfo struct {
	Path   string `json:"path"`
	SHA256 string `json:"sha256"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// GlyphCell records where one font glyph landed in the combined atlas.
type GlyphCell struct {
	Index   int    `json:"index"`    // running glyph index, 0-based
	FontCol int    `json:"font_col"` // column in the font atlas grid
	FontRow int    `json:"font_row"` // row in the font atlas grid
	Dest    Region `json:"dest"`     // destination rectangle in the output
}

// Manifest is the machine-readable sidecar describing a combine run. It is
// written next to the output atlas so engine tooling can address cells
// without re-deriving the geometry.
type Manifest struct {
	RunID         string      `json:"run_id"`
	CreatedAt     time.Time   `json:"created_at"`
	Output        string      `json:"output"`
	Width         int         `json:"width"`
	Height        int         `json:"height"`
	Geometry      Geometry    `json:"geometry"`
	Tileset       SourceInfo  `json:"tileset"`
	Font          SourceInfo  `json:"font"`
	TilesetRegion Region      `json:"tileset_region"`
	Glyphs        []GlyphCell `json:"glyphs"`
	WhiteCell     *Region     `json:"white_cell,omitempty"`
	GlyphCount    int         `json:"glyph_count"`
	RowsAdded     int         `json:"rows_added"`
}

// NewSourceInfo hashes and measures one input file. The image is the
// already-decoded content of the file at path.
func NewSourceInfo(path string, img image.Image) (SourceInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SourceInfo{}, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "read %s", path)
	}
	sum := sha256.Sum256(data)
	b := img.Bounds()
	return SourceInfo{
		Path:   path,
		SHA256: hex.EncodeToString(sum[:]),
		Width:  b.Dx(),
		Height: b.Dy(),
	}, nil
}

// BuildManifest replays the placement arithmetic of a finished combine run
// and returns the sidecar document for it.
func BuildManifest(output string, tileset, font SourceInfo, geo Geometry, stats Stats) Manifest {
	glyphs := make([]GlyphCell, 0, stats.GlyphsCopied)
	for i := 0; i < stats.GlyphsCopied; i++ {
		col := i % stats.TilesPerRow
		row := i / stats.TilesPerRow
		dst := geo.DestCell(tileset.Height, col, row)
		glyphs = append(glyphs, GlyphCell{
			Index:   i,
			FontCol: i % geo.FontGrid,
			FontRow: i / geo.FontGrid,
			Dest:    Region{X: dst.X, Y: dst.Y, W: geo.TileSize, H: geo.TileSize},
		})
	}

	// A white cell exists only when an appended row has at least one
	// column; a zero-column layout clips the fill off the canvas.
	var whiteCell *Region
	if geo.RowsToAdd > 0 && stats.TilesPerRow > 0 {
		wc := geo.DestCell(tileset.Height, stats.TilesPerRow-1, geo.RowsToAdd-1)
		whiteCell = &Region{X: wc.X, Y: wc.Y, W: geo.TileSize, H: geo.TileSize}
	}

	return Manifest{
		RunID:         uuid.NewString(),
		CreatedAt:     time.Now().UTC(),
		Output:        output,
		Width:         stats.Width,
		Height:        stats.Height,
		Geometry:      geo,
		Tileset:       tileset,
		Font:          font,
		TilesetRegion: Region{X: 0, Y: 0, W: tileset.Width, H: tileset.Height},
		Glyphs:        glyphs,
		WhiteCell:     whiteCell,
		GlyphCount:    stats.GlyphsCopied,
		RowsAdded:     stats.RowsAdded,
	}
}

// ManifestPath derives the sidecar path for an output atlas, replacing the
// image extension: out.png becomes out.manifest.json.
func ManifestPath(outputPath string) string {
	ext := filepath.Ext(outputPath)
	return strings.TrimSuffix(outputPath, ext) + ".manifest.json"
}

// WriteManifest writes m as indented JSON at path.
func WriteManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, err, "marshal manifest")
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeWriteFailed, err, "write manifest %s", path)
	}
	return nil
}
