package atlas

import (
	"image"

	"github.com/robinei/atlastool/pkg/errors"
)

// Geometry describes the cell layout shared by the tileset, the font atlas
// and the combined output. The zero value is not usable; start from
// DefaultGeometry and override fields from configuration if needed.
type Geometry struct {
	// TileSize is the edge length of one square cell in pixels.
	TileSize int `json:"tile_size"`
	// Spacing is the transparent gap between adjacent cells in the
	// tileset grid. The font atlas packs its glyphs without spacing.
	Spacing int `json:"spacing"`
	// FontGrid is the number of glyph columns (and rows) in the font
	// atlas.
	FontGrid int `json:"font_grid"`
	// RowsToAdd is the number of glyph rows appended below the tileset.
	RowsToAdd int `json:"rows_to_add"`
}

// DefaultGeometry returns the layout of the stock assets: 12px tiles with a
// 1px gap, a 16x16 CP437 font sheet, two appended rows.
func DefaultGeometry() Geometry {
	return Geometry{
		TileSize:  12,
		Spacing:   1,
		FontGrid:  16,
		RowsToAdd: 2,
	}
}

// Validate checks the geometry for usable values.
func (g Geometry) Validate() error {
	return errors.ValidateGeometry(g.TileSize, g.Spacing, g.FontGrid, g.RowsToAdd)
}

// Pitch is the stride from one cell origin to the next: tile size plus gap.
func (g Geometry) Pitch() int {
	return g.TileSize + g.Spacing
}

// TilesPerRow reports how many cell columns fit in a tileset of the given
// pixel width. The trailing cell needs no gap after it, hence the +Spacing.
func (g Geometry) TilesPerRow(width int) int {
	return (width + g.Spacing) / g.Pitch()
}

// OutputHeight is the combined canvas height for a tileset of the given
// pixel height: the original content, the appended rows, and a final gap.
func (g Geometry) OutputHeight(tilesetHeight int) int {
	return tilesetHeight + g.RowsToAdd*g.Pitch() + g.Spacing
}

// GlyphSupply is the total number of glyphs the font atlas provides.
func (g Geometry) GlyphSupply() int {
	return g.FontGrid * g.FontGrid
}

// FontCell returns the top-left corner of the glyph with the given index.
// Glyphs are packed row-major in a FontGrid x FontGrid grid with no
// spacing.
func (g Geometry) FontCell(index int) image.Point {
	return image.Point{
		X: (index % g.FontGrid) * g.TileSize,
		Y: (index / g.FontGrid) * g.TileSize,
	}
}

// DestCell returns the top-left corner of appended cell (col, row) in the
// combined canvas. Appended rows start one gap below the tileset content.
func (g Geometry) DestCell(tilesetHeight, col, row int) image.Point {
	return image.Point{
		X: g.Spacing + col*g.Pitch(),
		Y: tilesetHeight + g.Spacing + row*g.Pitch(),
	}
}

// CellRect returns the pixel rectangle of grid cell (col, row) in a
// combined atlas, addressed the way the consuming engine addresses it: a
// uniform grid offset by one leading gap.
func (g Geometry) CellRect(col, row int) image.Rectangle {
	x := g.Spacing + col*g.Pitch()
	y := g.Spacing + row*g.Pitch()
	return image.Rect(x, y, x+g.TileSize, y+g.TileSize)
}

// GridSize reports how many whole cells fit in an atlas of the given pixel
// dimensions, using the same addressing as CellRect.
func (g Geometry) GridSize(width, height int) (cols, rows int) {
	return (width - g.Spacing) / g.Pitch(), (height - g.Spacing) / g.Pitch()
}
