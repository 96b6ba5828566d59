package cli

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/spf13/cobra"

	"github.com/robinei/atlastool/internal/config"
	"github.com/robinei/atlastool/pkg/atlas"
	apperrors "github.com/robinei/atlastool/pkg/errors"
	"github.com/robinei/atlastool/pkg/observability"
)

// usageLine is printed to stdout on a wrong argument count, before any
// file is touched.
const usageLine = "Usage: " + appName + " <output.png>"

// combineOpts holds the command-line flags for the combine operation.
type combineOpts struct {
	configPath    string // --config: explicit atlas.toml path
	writeManifest bool   // --manifest: write the JSON sidecar next to the output
}

// newCombineCmd creates the root command carrying the combine operation.
//
// The argument contract is checked by hand rather than with cobra.ExactArgs
// so a wrong count prints the usage line to stdout and nothing else; the
// input paths come from configuration, never from the command line.
func newCombineCmd() *cobra.Command {
	opts := combineOpts{}

	cmd := &cobra.Command{
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				fmt.Println(usageLine)
				return apperrors.New(apperrors.ErrCodeInvalidUsage, "expected exactly one output path, got %d arguments", len(args))
			}
			return runCombine(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file (default atlas.toml in the working directory)")
	cmd.Flags().BoolVar(&opts.writeManifest, "manifest", false, "write a JSON manifest sidecar next to the output")

	return cmd
}

// runCombine performs one full combine run: load config, decode both
// sources, compose, write the output, and print the result summary.
func runCombine(ctx context.Context, outputPath string, opts *combineOpts) error {
	logger := loggerFromContext(ctx)

	if err := apperrors.ValidateOutputPath(outputPath); err != nil {
		fmt.Println(usageLine)
		return err
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	geo := cfg.Geometry.Geometry()
	logger.Debug("configuration resolved",
		"tileset", cfg.Inputs.Tileset,
		"font", cfg.Inputs.Font,
		"tile_size", geo.TileSize,
		"rows_to_add", geo.RowsToAdd,
	)

	prog := newProgress(logger)

	tileset, err := decodeInput(ctx, cfg.Inputs.Tileset)
	if err != nil {
		return err
	}
	font, err := decodeInput(ctx, cfg.Inputs.Font)
	if err != nil {
		return err
	}

	tb := tileset.Bounds()
	observability.Pipeline().OnComposeStart(ctx, tb.Dx(), geo.OutputHeight(tb.Dy()))
	composeStart := time.Now()
	combined, stats, err := atlas.Combine(tileset, font, geo)
	observability.Pipeline().OnComposeComplete(ctx, stats.GlyphsCopied, time.Since(composeStart), err)
	if err != nil {
		return err
	}

	observability.Pipeline().OnEncodeStart(ctx, outputPath)
	encodeStart := time.Now()
	err = atlas.WritePNG(outputPath, combined)
	observability.Pipeline().OnEncodeComplete(ctx, outputPath, time.Since(encodeStart), err)
	if err != nil {
		return err
	}

	if opts.writeManifest {
		if err := writeManifest(outputPath, cfg, geo, tileset, font, stats); err != nil {
			return err
		}
	}

	prog.done(fmt.Sprintf("Combined %d glyphs into %dx%d atlas", stats.GlyphsCopied, stats.Width, stats.Height))

	// The result contract: exactly these two lines on stdout.
	fmt.Printf("Created %s (%dx%d)\n", outputPath, stats.Width, stats.Height)
	fmt.Printf("Added %d glyphs from font atlas in %d new rows\n", stats.GlyphsCopied, stats.RowsAdded)
	return nil
}

// decodeInput decodes one source image with pipeline instrumentation.
func decodeInput(ctx context.Context, path string) (img image.Image, err error) {
	observability.Pipeline().OnDecodeStart(ctx, path)
	start := time.Now()
	defer func() {
		w, h := 0, 0
		if img != nil {
			b := img.Bounds()
			w, h = b.Dx(), b.Dy()
		}
		observability.Pipeline().OnDecodeComplete(ctx, path, w, h, time.Since(start), err)
	}()
	return atlas.DecodeFile(path)
}

// writeManifest hashes the inputs and writes the sidecar document.
func writeManifest(outputPath string, cfg config.Config, geo atlas.Geometry, tileset, font image.Image, stats atlas.Stats) error {
	tilesetInfo, err := atlas.NewSourceInfo(cfg.Inputs.Tileset, tileset)
	if err != nil {
		return err
	}
	fontInfo, err := atlas.NewSourceInfo(cfg.Inputs.Font, font)
	if err != nil {
		return err
	}
	m := atlas.BuildManifest(outputPath, tilesetInfo, fontInfo, geo, stats)
	return atlas.WriteManifest(atlas.ManifestPath(outputPath), m)
}
