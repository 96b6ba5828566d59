// Package atlas implements the tileset and font atlas compositing core.
//
// The combined output keeps the source tileset untouched at the origin and
// appends rows of font glyphs below it, one glyph per grid cell, ending
// with a solid white cell the consuming engine uses for untextured fills.
// Everything is integer cell arithmetic over a Geometry value plus
// image/draw block copies; the whole transform is sequential and
// deterministic.
package atlas

import (
	"image"
	"image/color"
	"image/draw"
)

// Stats reports what a combine run produced.
type Stats struct {
	Width        int // output canvas width, equal to the tileset width
	Height       int // output canvas height
	TilesPerRow  int // destination columns per appended row
	GlyphsCopied int // glyph cells actually placed
	RowsAdded    int // rows appended below the tileset
}

// Combine composites the font atlas below the tileset on a fresh
// transparent canvas and returns the canvas together with placement stats.
//
// The tileset region of the output is pixel-identical to the source.
// Glyphs fill the appended rows in row-major order until either the
// destination grid or the font supply (FontGrid squared) runs out; cells
// past the supply stay transparent. The bottom-right appended cell is
// always overwritten with opaque white.
func Combine(tileset, font image.Image, geo Geometry) (*image.NRGBA, Stats, error) {
	if err := geo.Validate(); err != nil {
		return nil, Stats{}, err
	}

	tb := tileset.Bounds()
	width, height := tb.Dx(), tb.Dy()

	tilesPerRow := geo.TilesPerRow(width)
	outHeight := geo.OutputHeight(height)

	combined := image.NewNRGBA(image.Rect(0, 0, width, outHeight))

	// The tileset lands at the origin; draw.Src keeps its pixels and
	// alpha exact.
	draw.Draw(combined, image.Rect(0, 0, width, height), tileset, tb.Min, draw.Src)

	fb := font.Bounds()
	supply := geo.GlyphSupply()

	glyphIndex := 0
	for row := 0; row < geo.RowsToAdd; row++ {
		for col := 0; col < tilesPerRow; col++ {
			// Supply exhaustion only ends the current row;
			// trailing rows stay empty.
			if glyphIndex >= supply {
				break
			}
			src := fb.Min.Add(geo.FontCell(glyphIndex))
			dst := geo.DestCell(height, col, row)
			r := image.Rect(dst.X, dst.Y, dst.X+geo.TileSize, dst.Y+geo.TileSize)
			draw.Draw(combined, r, font, src, draw.Src)
			glyphIndex++
		}
	}

	// The engine samples the last appended cell for untextured fills,
	// so it must be solid white even when a glyph was placed there.
	if geo.RowsToAdd > 0 {
		white := image.NewUniform(color.NRGBA{R: 255, G: 255, B: 255, A: 255})
		wc := geo.DestCell(height, tilesPerRow-1, geo.RowsToAdd-1)
		wr := image.Rect(wc.X, wc.Y, wc.X+geo.TileSize, wc.Y+geo.TileSize)
		draw.Draw(combined, wr, white, image.Point{}, draw.Src)
	}

	return combined, Stats{
		Width:        width,
		Height:       outHeight,
		TilesPerRow:  tilesPerRow,
		GlyphsCopied: glyphIndex,
		RowsAdded:    geo.RowsToAdd,
	}, nil
}
