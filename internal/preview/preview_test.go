package preview

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/robinei/atlastool/pkg/atlas"
)

func writeTestAtlas(t *testing.T) (string, *image.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 27, 27))
	for y := 0; y < 27; y++ {
		for x := 0; x < 27; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 9), G: uint8(y * 9), B: 77, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "combined.png")
	if err := atlas.WritePNG(path, img); err != nil {
		t.Fatal(err)
	}
	return path, img
}

func newTestServer(t *testing.T) (*httptest.Server, string, *image.NRGBA) {
	t.Helper()
	path, img := writeTestAtlas(t)
	s, err := New(path, atlas.DefaultGeometry(), nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	srv := httptest.NewServer(s.Router())
	t.Cleanup(srv.Close)
	return srv, path, img
}

func TestHealthz(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if strings.TrimSpace(string(body)) != "ok" {
		t.Errorf("body = %q, want ok", body)
	}
}

func TestIndexPage(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	page := string(body)

	// 27x27 with 12px cells and 1px gaps holds a 2x2 grid.
	for _, want := range []string{"combined.png", "27x27 px", "grid 2x2 cells"} {
		if !strings.Contains(page, want) {
			t.Errorf("index page missing %q", want)
		}
	}
}

func TestServeRawImage(t *testing.T) {
	srv, path, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/atlas.png")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q, want image/png", ct)
	}

	body, _ := io.ReadAll(resp.Body)
	disk, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(body, disk) {
		t.Error("served bytes differ from the file on disk")
	}
}

func TestServeScaledImage(t *testing.T) {
	srv, _, src := newTestServer(t)

	resp, err := http.Get(srv.URL + "/atlas.png?scale=3")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	img, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatalf("decode scaled image: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 81 || b.Dy() != 81 {
		t.Fatalf("scaled size = %dx%d, want 81x81", b.Dx(), b.Dy())
	}

	// Spot-check pixel replication.
	for _, p := range []image.Point{{0, 0}, {40, 40}, {80, 80}} {
		got := color.NRGBAModel.Convert(img.At(p.X, p.Y)).(color.NRGBA)
		want := src.NRGBAAt(p.X/3, p.Y/3)
		if got != want {
			t.Errorf("scaled pixel (%d,%d) = %v, want %v", p.X, p.Y, got, want)
		}
	}
}

func TestScaleValidation(t *testing.T) {
	srv, _, _ := newTestServer(t)

	for _, q := range []string{"scale=0", "scale=9", "scale=abc"} {
		resp, err := http.Get(srv.URL + "/atlas.png?" + q)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status for %q = %d, want 400", q, resp.StatusCode)
		}
	}
}

func TestManifestEndpoint(t *testing.T) {
	srv, path, _ := newTestServer(t)

	// Absent sidecar means 404.
	resp, err := http.Get(srv.URL + "/manifest.json")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status without sidecar = %d, want 404", resp.StatusCode)
	}

	sidecar := atlas.ManifestPath(path)
	if err := os.WriteFile(sidecar, []byte(`{"run_id":"test"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	resp, err = http.Get(srv.URL + "/manifest.json")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status with sidecar = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "test") {
		t.Errorf("manifest body = %q", body)
	}
}

func TestNewRejectsMissingAtlas(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope.png"), atlas.DefaultGeometry(), nil)
	if err == nil {
		t.Fatal("New() on missing atlas = nil error, want error")
	}
}
