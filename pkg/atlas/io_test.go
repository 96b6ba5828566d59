package atlas

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/robinei/atlastool/pkg/errors"
)

func TestWriteThenDecodeRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "atlas.png")

	src := testTileset(37, 23)
	if err := WritePNG(path, src); err != nil {
		t.Fatalf("WritePNG() error = %v", err)
	}

	img, err := DecodeFile(path)
	if err != nil {
		t.Fatalf("DecodeFile() error = %v", err)
	}

	b := img.Bounds()
	if b.Dx() != 37 || b.Dy() != 23 {
		t.Fatalf("decoded size = %dx%d, want 37x23", b.Dx(), b.Dy())
	}

	for y := 0; y < 23; y++ {
		for x := 0; x < 37; x++ {
			got := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if want := src.NRGBAAt(x, y); got != want {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestDecodeFileMissing(t *testing.T) {
	_, err := DecodeFile(filepath.Join(t.TempDir(), "nope.png"))
	if err == nil {
		t.Fatal("DecodeFile() on missing file = nil error, want error")
	}
	if !apperrors.Is(err, apperrors.ErrCodeFileNotFound) {
		t.Errorf("error code = %q, want %q", apperrors.GetCode(err), apperrors.ErrCodeFileNotFound)
	}
}

func TestDecodeFileCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.png")
	if err := os.WriteFile(path, []byte("this is not a png"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := DecodeFile(path)
	if err == nil {
		t.Fatal("DecodeFile() on corrupt file = nil error, want error")
	}
	if !apperrors.Is(err, apperrors.ErrCodeDecodeFailed) {
		t.Errorf("error code = %q, want %q", apperrors.GetCode(err), apperrors.ErrCodeDecodeFailed)
	}
}

func TestWritePNGUnwritablePath(t *testing.T) {
	err := WritePNG(filepath.Join(t.TempDir(), "missing", "dir", "out.png"), testTileset(4, 4))
	if err == nil {
		t.Fatal("WritePNG() into missing directory = nil error, want error")
	}
	if !apperrors.Is(err, apperrors.ErrCodeWriteFailed) {
		t.Errorf("error code = %q, want %q", apperrors.GetCode(err), apperrors.ErrCodeWriteFailed)
	}
}
