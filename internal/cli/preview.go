package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/robinei/atlastool/internal/config"
	"github.com/robinei/atlastool/internal/preview"
)

// previewOpts holds the command-line flags for the preview command.
type previewOpts struct {
	configPath string // --config: explicit atlas.toml path
	listen     string // --listen: override the configured address
}

// newPreviewCmd creates the preview command serving a combined atlas over
// HTTP for browser inspection.
func newPreviewCmd() *cobra.Command {
	opts := previewOpts{}

	cmd := &cobra.Command{
		Use:   "preview <atlas.png>",
		Short: "Serve a combined atlas over HTTP with pixel zoom",
		Long: `Serve a combined atlas for browser inspection. The page renders the
image with nearest-neighbor zoom, the same filtering the game engine
applies, and links the manifest sidecar when one exists next to the
file. The server runs until interrupted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file (default atlas.toml in the working directory)")
	cmd.Flags().StringVar(&opts.listen, "listen", "", "listen address (default from config, localhost:8173)")

	return cmd
}

// runPreview serves the atlas until the context is cancelled.
func runPreview(ctx context.Context, atlasPath string, opts *previewOpts) error {
	logger := loggerFromContext(ctx)

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	addr := cfg.Preview.Listen
	if opts.listen != "" {
		addr = opts.listen
	}

	srv, err := preview.New(atlasPath, cfg.Geometry.Geometry(), logger)
	if err != nil {
		return err
	}

	printInfo("Serving combined atlas preview")
	printKeyValue("Atlas", atlasPath)
	printKeyValue("Address", "http://"+addr)
	printDetail("Press Ctrl+C to stop")

	return srv.ListenAndServe(ctx, addr)
}
