package cli

import (
	"image"
	"image/color"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/robinei/atlastool/pkg/atlas"
)

// testViewModel builds a viewer over a small synthetic atlas.
func testViewModel(t *testing.T, width, height int) AtlasViewModel {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return NewAtlasViewModel("test.png", img, atlas.DefaultGeometry())
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "shift+right":
		return tea.KeyMsg{Type: tea.KeyShiftRight}
	case "shift+down":
		return tea.KeyMsg{Type: tea.KeyShiftDown}
	case "shift+left":
		return tea.KeyMsg{Type: tea.KeyShiftLeft}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func step(t *testing.T, m AtlasViewModel, keys ...string) AtlasViewModel {
	t.Helper()
	for _, k := range keys {
		updated, _ := m.Update(keyMsg(k))
		var ok bool
		m, ok = updated.(AtlasViewModel)
		if !ok {
			t.Fatalf("Update returned %T, want AtlasViewModel", updated)
		}
	}
	return m
}

func TestAtlasViewGridSize(t *testing.T) {
	// 200x127: the combined output of a 200x100 tileset.
	m := testViewModel(t, 200, 127)
	if m.Cols != 15 {
		t.Errorf("Cols = %d, want 15", m.Cols)
	}
	if m.Rows != 9 {
		t.Errorf("Rows = %d, want 9", m.Rows)
	}
}

func TestAtlasViewNavigation(t *testing.T) {
	m := testViewModel(t, 200, 127)

	m = step(t, m, "right", "right", "down")
	if m.SelCol != 2 || m.SelRow != 1 {
		t.Errorf("selection = (%d, %d), want (2, 1)", m.SelCol, m.SelRow)
	}

	m = step(t, m, "shift+right", "shift+down")
	if m.SelCol != 6 || m.SelRow != 5 {
		t.Errorf("after fast move, selection = (%d, %d), want (6, 5)", m.SelCol, m.SelRow)
	}
}

func TestAtlasViewClampsAtEdges(t *testing.T) {
	m := testViewModel(t, 200, 127)

	m = step(t, m, "left", "up", "shift+left")
	if m.SelCol != 0 || m.SelRow != 0 {
		t.Errorf("selection = (%d, %d), want clamped to (0, 0)", m.SelCol, m.SelRow)
	}

	for i := 0; i < 50; i++ {
		m = step(t, m, "shift+right", "shift+down")
	}
	if m.SelCol != m.Cols-1 || m.SelRow != m.Rows-1 {
		t.Errorf("selection = (%d, %d), want clamped to (%d, %d)",
			m.SelCol, m.SelRow, m.Cols-1, m.Rows-1)
	}
}

func TestAtlasViewSelectedIndex(t *testing.T) {
	m := testViewModel(t, 200, 127)
	m.SelCol, m.SelRow = 3, 2
	if got := m.SelectedIndex(); got != 2*15+3 {
		t.Errorf("SelectedIndex() = %d, want %d", got, 2*15+3)
	}
}

func TestAtlasViewStatusLine(t *testing.T) {
	m := testViewModel(t, 200, 127)
	m = step(t, m, "right", "down")

	view := m.View()
	if !strings.Contains(view, "Selected tile: 16") {
		t.Errorf("View() should contain the selected tile readout, got tail %q", view[max(0, len(view)-80):])
	}
	if !strings.Contains(view, "(x=1, y=1)") {
		t.Error("View() should contain the cell coordinates")
	}
}

func TestAtlasViewDeepColorAlpha(t *testing.T) {
	// 16-bit sources can carry alpha values below 1/256 that are nonzero
	// but round to zero in 8 bits; compositing must treat them as almost
	// fully transparent instead of dividing by a truncated alpha.
	img := image.NewNRGBA64(image.Rect(0, 0, 4, 4))
	img.SetNRGBA64(0, 0, color.NRGBA64{R: 0xffff, A: 100})
	img.SetNRGBA64(1, 0, color.NRGBA64{R: 0xffff, A: 0xffff})
	m := NewAtlasViewModel("deep.png", img, atlas.DefaultGeometry())

	// Selection rectangle far outside the sampled pixels.
	away := image.Rect(100, 100, 112, 112)

	got := m.pixelAt(0, 0, away)
	bg := checkerLight
	for _, ch := range []struct {
		name      string
		got, want uint8
	}{
		{"R", got.R, bg.R},
		{"G", got.G, bg.G},
		{"B", got.B, bg.B},
	} {
		diff := int(ch.got) - int(ch.want)
		if diff < -1 || diff > 1 {
			t.Errorf("faint pixel %s = %d, want within 1 of checker %d", ch.name, ch.got, ch.want)
		}
	}
	if got.A != 255 {
		t.Errorf("faint pixel A = %d, want 255", got.A)
	}

	if got := m.pixelAt(1, 0, away); got.R != 255 {
		t.Errorf("opaque pixel R = %d, want 255", got.R)
	}
}

func TestAtlasViewViewportFollowsSelection(t *testing.T) {
	m := testViewModel(t, 400, 254)
	m.ViewCols = 40
	m.ViewRows = 8

	for i := 0; i < 10; i++ {
		m = step(t, m, "shift+right")
	}

	sel := m.Geo.CellRect(m.SelCol, m.SelRow)
	if sel.Min.X < m.CamX || sel.Max.X > m.CamX+m.ViewCols {
		t.Errorf("camera x=%d does not cover selection %v with width %d", m.CamX, sel, m.ViewCols)
	}
}
