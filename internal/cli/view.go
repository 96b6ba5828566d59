package cli

import (
	"context"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/robinei/atlastool/internal/config"
	"github.com/robinei/atlastool/pkg/atlas"
	apperrors "github.com/robinei/atlastool/pkg/errors"
)

// viewOpts holds the command-line flags for the view command.
type viewOpts struct {
	configPath string // --config: explicit atlas.toml path
}

// newViewCmd creates the view command, an interactive terminal browser
// for a combined atlas.
func newViewCmd() *cobra.Command {
	opts := viewOpts{}

	cmd := &cobra.Command{
		Use:   "view <atlas.png>",
		Short: "Browse a combined atlas interactively in the terminal",
		Long: `Browse a combined atlas cell by cell. Arrow keys move the selection by
one cell, shift+arrows by four; the viewport follows the selection and
renders the pixels as truecolor half blocks with the selected cell
outlined in yellow. Press q or esc to quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file (default atlas.toml in the working directory)")

	return cmd
}

// runView loads the atlas and runs the bubbletea loop.
func runView(ctx context.Context, atlasPath string, opts *viewOpts) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	geo := cfg.Geometry.Geometry()

	img, err := atlas.DecodeFile(atlasPath)
	if err != nil {
		return err
	}

	m := NewAtlasViewModel(filepath.Base(atlasPath), img, geo)
	if m.Cols < 1 || m.Rows < 1 {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "%s is smaller than one %dpx cell", atlasPath, geo.TileSize)
	}

	p := tea.NewProgram(m, tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, err, "run viewer")
	}
	return nil
}
