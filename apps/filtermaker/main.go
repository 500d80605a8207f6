// Command filtermaker applies a chain of named filters to a JPEG image and
// writes the result next to it, named after the filters:
//
//	filtermaker photo.jpg invert grayscale   # writes photo_invert_grayscale.jpg
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/SteeveDroz/filters/pkg/filter"
	"github.com/SteeveDroz/filters/pkg/raster"
	"github.com/SteeveDroz/filters/pkg/storage"
)

const synopsis = "filtermaker <image> [<filter1> [<filter2> [...]]]"

type options struct {
	workers int
	quality int
	verbose bool
	fetch   bool
	storage storage.Config
}

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	var opts options
	flags := []cli.Flag{
		&cli.IntFlag{
			Name:        "workers",
			Aliases:     []string{"w"},
			Usage:       "row bands filtered concurrently (0 = one per CPU, 1 = sequential)",
			EnvVars:     []string{"FILTERMAKER_WORKERS"},
			Destination: &opts.workers,
		},
		&cli.IntFlag{
			Name:        "quality",
			Usage:       "JPEG quality of the result (1-100)",
			Value:       raster.DefaultQuality,
			EnvVars:     []string{"FILTERMAKER_JPEG_QUALITY"},
			Destination: &opts.quality,
		},
		&cli.BoolFlag{
			Name:        "verbose",
			Aliases:     []string{"v"},
			Usage:       "log every applied filter",
			EnvVars:     []string{"FILTERMAKER_VERBOSE"},
			Destination: &opts.verbose,
		},
		&cli.BoolFlag{
			Name:        "fetch",
			Usage:       "treat <image> as a key in --bucket and download it first",
			Category:    "storage",
			Destination: &opts.fetch,
		},
	}

	return &cli.App{
		Name:      "filtermaker",
		Usage:     "apply a chain of filters to an image",
		UsageText: synopsis,
		Description: "Filters are applied in the given order and may be repeated. Valid filters: " +
			fmt.Sprint(filter.Names()),
		Writer:    stdout,
		ErrWriter: stderr,
		Flags:     append(flags, storage.Flags(&opts.storage)...),
		Before: func(c *cli.Context) error {
			setupLogging(stderr, opts.verbose)
			return nil
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return cli.Exit("Syntax error, the correct syntax is: "+synopsis, 2)
			}
			var api storage.API
			if opts.storage.Enabled() {
				client, err := storage.NewClient(c.Context, opts.storage)
				if err != nil {
					return cli.Exit(err, 1)
				}
				api = client
			}
			_, err := process(c.Context, opts, api, c.Args().First(), c.Args().Tail(), stdout)
			return err
		},
	}
}

func setupLogging(w io.Writer, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	filter.SetLogger(logger)
}

// process runs one source through the filter chain and returns the path of
// the written result. A nil api disables fetching and publishing.
func process(ctx context.Context, opts options, api storage.API, source string, names []string, stdout io.Writer) (string, error) {
	stem := raster.BaseName(source)
	if opts.fetch {
		if api == nil {
			return "", cli.Exit("--fetch requires --bucket", 2)
		}
		// Fetched sources go to a scratch dir so local files are never
		// replaced; the result still lands in the working directory.
		tmp, err := os.MkdirTemp("", "filtermaker-fetch")
		if err != nil {
			return "", cli.Exit(err, 1)
		}
		defer os.RemoveAll(tmp)

		local := filepath.Join(tmp, filepath.Base(source))
		if err := storage.Download(ctx, api, opts.storage, source, local); err != nil {
			return "", cli.Exit(fmt.Sprintf("The image can't be found: %v", err), 1)
		}
		stem = raster.BaseName(filepath.Base(source))
		source = local
	}

	grid, err := raster.Decode(source)
	if err != nil {
		if errors.Is(err, raster.ErrSourceNotFound) {
			return "", cli.Exit(fmt.Sprintf("The image can't be found: %v", err), 1)
		}
		return "", cli.Exit(err, 1)
	}

	chain, warnings := filter.ResolveAll(names)
	for _, w := range warnings {
		fmt.Fprintln(stdout, w)
		slog.Warn("unknown filter replaced by nothing", "detail", w)
	}

	out := filter.Pipeline{Workers: opts.workers}.Run(grid, chain)

	dest := raster.DestinationPath(filter.ComposeName(stem, chain))
	if err := raster.Encode(out, dest, opts.quality); err != nil {
		return "", cli.Exit(err, 1)
	}
	slog.Info("wrote image", "path", dest, "filters", len(chain))

	if api != nil {
		if _, err := storage.Upload(ctx, api, opts.storage, dest); err != nil {
			return dest, cli.Exit(err, 1)
		}
	}
	return dest, nil
}
