package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/robinei/atlastool/pkg/buildinfo"
)

// appName is the binary name, used for the cache directory and usage text.
const appName = "combine_atlases"

// Execute runs the combine_atlases CLI and returns an error if any command
// fails. This is the main entry point for the CLI application.
//
// The root command carries the combine operation itself; subcommands cover
// asset fetching, atlas inspection and cache management. Logging goes to
// stderr at info level, or debug level with --verbose (-v); the logger is
// attached to the context and accessible to all commands via
// loggerFromContext. Stdout is reserved for command output.
func Execute(ctx context.Context) error {
	var verbose bool

	root := newCombineCmd()

	root.Use = appName + " <output.png>"
	root.Short = "Combine a tileset and a font atlas into one PNG"
	root.Long = `combine_atlases composites two pixel-grid images into a single atlas:
the tileset is kept untouched at the top and rows of font glyphs are
appended below it, ending with a solid white cell. The result is written
to the given output path together with a result summary on stdout.`
	root.Version = buildinfo.Version
	root.SilenceUsage = true
	root.SilenceErrors = true
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		level := charmlog.InfoLevel
		if verbose {
			level = charmlog.DebugLevel
		}
		logger := newLogger(os.Stderr, level)
		if verbose {
			registerLoggingHooks(logger)
		}
		cmd.SetContext(withLogger(cmd.Context(), logger))
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newFetchCmd())
	root.AddCommand(newViewCmd())
	root.AddCommand(newPreviewCmd())
	root.AddCommand(newCacheCmd())
	root.AddCommand(newCompletionCmd())

	return root.ExecuteContext(ctx)
}
