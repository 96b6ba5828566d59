package cli

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/robinei/atlastool/pkg/atlas"
)

// List styles
var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// Movement step for shift+arrow navigation, in cells.
const fastMoveStep = 4

// Checker background squares for transparent pixels, in pixels.
const checkerSize = 4

// Checker and highlight colors. The selection rectangle is yellow, like
// the highlight the game's own atlas viewer draws.
var (
	checkerDark   = color.NRGBA{R: 28, G: 28, B: 32, A: 255}
	checkerLight  = color.NRGBA{R: 42, G: 42, B: 48, A: 255}
	selectionEdge = color.NRGBA{R: 255, G: 220, B: 0, A: 255}
)

// =============================================================================
// AtlasViewModel - Interactive atlas inspection
// =============================================================================

// AtlasViewModel is the bubbletea model for browsing a combined atlas.
// It tracks a selected grid cell and renders a pixel viewport around it
// using half-block characters, two image rows per terminal row.
type AtlasViewModel struct {
	Img  image.Image
	Geo  atlas.Geometry
	Name string

	Cols int // grid columns in the atlas
	Rows int // grid rows in the atlas

	SelCol int
	SelRow int

	// Viewport size in terminal cells; each cell is 1x2 pixels.
	ViewCols int
	ViewRows int

	// Camera origin in atlas pixels.
	CamX int
	CamY int
}

// NewAtlasViewModel creates a viewer for img with the given cell geometry.
func NewAtlasViewModel(name string, img image.Image, geo atlas.Geometry) AtlasViewModel {
	b := img.Bounds()
	cols, rows := geo.GridSize(b.Dx(), b.Dy())
	return AtlasViewModel{
		Img:      img,
		Geo:      geo,
		Name:     name,
		Cols:     cols,
		Rows:     rows,
		ViewCols: 80,
		ViewRows: 22,
	}
}

func (m AtlasViewModel) Init() tea.Cmd {
	return nil
}

func (m AtlasViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			m.SelCol--
		case "shift+left", "H":
			m.SelCol -= fastMoveStep
		case "right", "l":
			m.SelCol++
		case "shift+right", "L":
			m.SelCol += fastMoveStep
		case "up", "k":
			m.SelRow--
		case "shift+up", "K":
			m.SelRow -= fastMoveStep
		case "down", "j":
			m.SelRow++
		case "shift+down", "J":
			m.SelRow += fastMoveStep
		case "home", "g":
			m.SelCol, m.SelRow = 0, 0
		case "end", "G":
			m.SelCol, m.SelRow = m.Cols-1, m.Rows-1
		}
		m.clampSelection()
		m.followSelection()
	case tea.WindowSizeMsg:
		m.ViewCols = msg.Width
		if m.ViewCols < 16 {
			m.ViewCols = 16
		}
		m.ViewRows = msg.Height - 4
		if m.ViewRows < 6 {
			m.ViewRows = 6
		}
		m.followSelection()
	}
	return m, nil
}

// clampSelection keeps the selected cell inside the grid.
func (m *AtlasViewModel) clampSelection() {
	if m.SelCol < 0 {
		m.SelCol = 0
	}
	if m.SelCol > m.Cols-1 {
		m.SelCol = m.Cols - 1
	}
	if m.SelRow < 0 {
		m.SelRow = 0
	}
	if m.SelRow > m.Rows-1 {
		m.SelRow = m.Rows - 1
	}
}

// followSelection scrolls the camera the minimal amount needed to keep
// the selected cell fully visible, then clamps to the image bounds.
func (m *AtlasViewModel) followSelection() {
	viewW := m.ViewCols
	viewH := m.ViewRows * 2 // two pixel rows per terminal row

	sel := m.Geo.CellRect(m.SelCol, m.SelRow).Inset(-m.Geo.Spacing)
	if sel.Min.X < m.CamX {
		m.CamX = sel.Min.X
	}
	if sel.Max.X > m.CamX+viewW {
		m.CamX = sel.Max.X - viewW
	}
	if sel.Min.Y < m.CamY {
		m.CamY = sel.Min.Y
	}
	if sel.Max.Y > m.CamY+viewH {
		m.CamY = sel.Max.Y - viewH
	}

	b := m.Img.Bounds()
	if m.CamX > b.Dx()-viewW {
		m.CamX = b.Dx() - viewW
	}
	if m.CamY > b.Dy()-viewH {
		m.CamY = b.Dy() - viewH
	}
	if m.CamX < 0 {
		m.CamX = 0
	}
	if m.CamY < 0 {
		m.CamY = 0
	}
}

// SelectedIndex is the row-major index of the selected cell.
func (m AtlasViewModel) SelectedIndex() int {
	return m.SelRow*m.Cols + m.SelCol
}

func (m AtlasViewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Name))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render("arrows move  shift+arrows fast  q quit"))
	b.WriteString("\n")

	b.WriteString(m.renderViewport())

	b.WriteString(StyleHighlight.Render(fmt.Sprintf("Selected tile: %d", m.SelectedIndex())))
	b.WriteString(listDimStyle.Render(fmt.Sprintf(" (x=%d, y=%d)", m.SelCol, m.SelRow)))
	b.WriteString("\n")
	return b.String()
}

// renderViewport rasterizes the camera window as truecolor half blocks.
// Each terminal cell shows two vertically stacked pixels: the upper one
// as the foreground of U+2580, the lower one as the background.
func (m AtlasViewModel) renderViewport() string {
	var b strings.Builder
	sel := m.Geo.CellRect(m.SelCol, m.SelRow)

	for row := 0; row < m.ViewRows; row++ {
		y := m.CamY + row*2
		for col := 0; col < m.ViewCols; col++ {
			x := m.CamX + col
			upper := m.pixelAt(x, y, sel)
			lower := m.pixelAt(x, y+1, sel)
			fmt.Fprintf(&b, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀",
				upper.R, upper.G, upper.B,
				lower.R, lower.G, lower.B)
		}
		b.WriteString("\x1b[0m\n")
	}
	return b.String()
}

// pixelAt samples one atlas pixel, compositing alpha over the checker
// background and overlaying the selection rectangle.
func (m AtlasViewModel) pixelAt(x, y int, sel image.Rectangle) color.NRGBA {
	if onRectEdge(x, y, sel.Inset(-1)) {
		return selectionEdge
	}

	bg := checkerDark
	if (x/checkerSize+y/checkerSize)%2 == 0 {
		bg = checkerLight
	}

	bounds := m.Img.Bounds()
	if x < 0 || y < 0 || x >= bounds.Dx() || y >= bounds.Dy() {
		return bg
	}

	r, g, bl, a := m.Img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
	if a == 0 {
		return bg
	}

	// Un-premultiply and blend over the checker, keeping the full
	// 16-bit alpha as the divisor so deep-color sources with a faint
	// alpha (anything below 1/256) stay finite.
	alpha := a
	blend := func(fg uint32, bg uint8) uint8 {
		fg8 := fg * 0xffff / alpha >> 8
		return uint8((fg8*alpha + uint32(bg)*(0xffff-alpha)) / 0xffff)
	}
	return color.NRGBA{
		R: blend(r, bg.R),
		G: blend(g, bg.G),
		B: blend(bl, bg.B),
		A: 255,
	}
}

// onRectEdge reports whether (x, y) lies on the one-pixel border of r.
func onRectEdge(x, y int, r image.Rectangle) bool {
	if x < r.Min.X || x >= r.Max.X || y < r.Min.Y || y >= r.Max.Y {
		return false
	}
	return x == r.Min.X || x == r.Max.X-1 || y == r.Min.Y || y == r.Max.Y-1
}
