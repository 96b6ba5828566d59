// Package preview serves a combined atlas over HTTP for browser
// inspection, with integer nearest-neighbor zoom matching how the game
// engine displays the atlas.
package preview

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"image"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/robinei/atlastool/pkg/atlas"
	apperrors "github.com/robinei/atlastool/pkg/errors"
)

// Server serves one combined atlas file.
type Server struct {
	atlasPath string
	img       image.Image
	geo       atlas.Geometry
	logger    *log.Logger
}

// New decodes the atlas at path and prepares a server for it. A nil
// logger discards log output.
func New(path string, geo atlas.Geometry, logger *log.Logger) (*Server, error) {
	img, err := atlas.DecodeFile(path)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{
		atlasPath: path,
		img:       img,
		geo:       geo,
		logger:    logger,
	}, nil
}

// Router builds the HTTP handler tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/", s.handleIndex)
	r.Get("/atlas.png", s.handleImage)
	r.Get("/manifest.json", s.handleManifest)
	r.Get("/healthz", s.handleHealth)

	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Router()}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return apperrors.Wrap(apperrors.ErrCodeNetwork, err, "serve on %s", addr)
		}
		return nil
	}
}

// requestLogger logs each request with its status and duration.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<title>{{.Name}}</title>
<style>
body { background: #1d1f21; color: #c5c8c6; font-family: monospace; margin: 2em; }
a { color: #81a2be; }
img { image-rendering: pixelated; border: 1px solid #373b41; margin-top: 1em; }
.stats { margin-bottom: 1em; }
.stats span { margin-right: 2em; }
</style>
</head>
<body>
<h1>{{.Name}}</h1>
<div class="stats">
<span>{{.Width}}x{{.Height}} px</span>
<span>grid {{.Cols}}x{{.Rows}} cells</span>
<span>zoom:
{{- range .Scales}}
<a href="/?scale={{.}}">{{.}}x</a>
{{- end}}
</span>
{{- if .HasManifest}}
<span><a href="/manifest.json">manifest</a></span>
{{- end}}
</div>
<img src="/atlas.png?scale={{.Scale}}" alt="{{.Name}}">
</body>
</html>
`))

type indexData struct {
	Name        string
	Width       int
	Height      int
	Cols        int
	Rows        int
	Scale       int
	Scales      []int
	HasManifest bool
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	scale := 2
	if v := r.URL.Query().Get("scale"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || apperrors.ValidateScale(parsed) != nil {
			http.Error(w, "scale must be an integer between 1 and 8", http.StatusBadRequest)
			return
		}
		scale = parsed
	}

	b := s.img.Bounds()
	cols, rows := s.geo.GridSize(b.Dx(), b.Dy())
	_, manifestErr := os.Stat(atlas.ManifestPath(s.atlasPath))

	data := indexData{
		Name:        filepath.Base(s.atlasPath),
		Width:       b.Dx(),
		Height:      b.Dy(),
		Cols:        cols,
		Rows:        rows,
		Scale:       scale,
		Scales:      []int{1, 2, 3, 4, 5, 6, 7, 8},
		HasManifest: manifestErr == nil,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		s.logger.Error("render index", "err", err)
	}
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	v := r.URL.Query().Get("scale")
	if v == "" || v == "1" {
		http.ServeFile(w, r, s.atlasPath)
		return
	}

	factor, err := strconv.Atoi(v)
	if err != nil {
		http.Error(w, "scale must be an integer", http.StatusBadRequest)
		return
	}
	scaled, err := atlas.Scale(s.img, factor)
	if err != nil {
		http.Error(w, apperrors.UserMessage(err), http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	if err := atlas.EncodePNG(&buf, scaled); err != nil {
		http.Error(w, "encode failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	path := atlas.ManifestPath(s.atlasPath)
	if _, err := os.Stat(path); err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	http.ServeFile(w, r, path)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintln(w, "ok")
}
