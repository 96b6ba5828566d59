package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/robinei/atlastool/internal/config"
	"github.com/robinei/atlastool/pkg/cache"
	apperrors "github.com/robinei/atlastool/pkg/errors"
	"github.com/robinei/atlastool/pkg/fetch"
)

// fetchOpts holds the command-line flags for the fetch command.
type fetchOpts struct {
	configPath string // --config: explicit atlas.toml path
	force      bool   // --force: re-download even when the file exists
	noCache    bool   // --no-cache: bypass the response cache
}

// newFetchCmd creates the fetch command for downloading the source atlas
// images into their fixed input paths.
func newFetchCmd() *cobra.Command {
	opts := fetchOpts{}

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download the source atlas images",
		Long: `Download the tileset and font atlas from the URLs configured in
atlas.toml into the input paths the combine operation reads. Existing
files are left alone unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file (default atlas.toml in the working directory)")
	cmd.Flags().BoolVar(&opts.force, "force", false, "re-download even when the target file exists")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the response cache")

	return cmd
}

// runFetch downloads both source images through the response cache.
func runFetch(ctx context.Context, opts *fetchOpts) error {
	logger := loggerFromContext(ctx)

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if cfg.Fetch.TilesetURL == "" || cfg.Fetch.FontURL == "" {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "fetch requires fetch.tileset_url and fetch.font_url in %s", config.DefaultFile)
	}

	c, err := buildCache(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer c.Close()

	fetcher := fetch.New(c, cfg.Cache.TTL.Std(), logger)

	targets := []struct {
		url  string
		dest string
	}{
		{cfg.Fetch.TilesetURL, cfg.Inputs.Tileset},
		{cfg.Fetch.FontURL, cfg.Inputs.Font},
	}

	for _, t := range targets {
		sp := newSpinnerWithContext(ctx, "Fetching "+t.dest)
		sp.Start()
		downloaded, err := fetcher.FetchFile(ctx, t.url, t.dest, opts.force)
		if err != nil {
			sp.StopWithError("Failed to fetch " + t.dest)
			return err
		}
		switch {
		case downloaded:
			sp.StopWithSuccess("Fetched " + t.dest)
			printFile(t.dest)
		default:
			sp.Stop()
			printInfo("%s already exists, skipping (use --force to re-download)", t.dest)
		}
	}

	printNextStep("Combine the atlases", appName+" combined_tileset.png")
	return nil
}

// buildCache selects the response cache backend from configuration.
// A file cache that cannot be created degrades to no caching; a Redis
// backend that cannot be reached is an error, since it was asked for
// explicitly.
func buildCache(ctx context.Context, cfg config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Backend {
	case config.CacheBackendNone:
		return cache.NewNullCache(), nil
	case config.CacheBackendRedis:
		return cache.NewRedisCache(ctx, cfg.Cache.RedisAddr)
	default:
		dir, err := cacheDir()
		if err != nil {
			printWarning("Response cache unavailable, continuing without: %v", err)
			return cache.NewNullCache(), nil
		}
		c, err := cache.NewFileCache(dir)
		if err != nil {
			printWarning("Response cache unavailable, continuing without: %v", err)
			return cache.NewNullCache(), nil
		}
		return c, nil
	}
}
