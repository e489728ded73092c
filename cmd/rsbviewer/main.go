// rsbviewer displays an RSB texture in a window. A second texture can be
// given and is shown while the F key is held, which makes it easy to flip
// between a face texture and its blink variant. Escape closes the window.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/sherman/internal/config"
	"github.com/Faultbox/sherman/internal/logger"
	"github.com/Faultbox/sherman/internal/raster"
	"github.com/Faultbox/sherman/internal/viewer"
	"github.com/Faultbox/sherman/pkg/formats"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: rsbviewer <file.rsb> [alternate.rsb]")
		os.Exit(1)
	}

	if err := run(cfg, args); err != nil {
		logger.Fatal("viewer failed", zap.Error(err))
	}
}

func run(cfg *config.Config, args []string) error {
	primary, err := loadImage(args[0])
	if err != nil {
		return err
	}

	alternate := primary
	if len(args) > 1 {
		if alternate, err = loadImage(args[1]); err != nil {
			return err
		}
		if alternate.Width != primary.Width || alternate.Height != primary.Height {
			return fmt.Errorf("alternate texture is %dx%d, primary is %dx%d",
				alternate.Width, alternate.Height, primary.Width, primary.Height)
		}
	}

	win, err := viewer.New(viewer.Config{
		Title:  "RSB Viewer",
		Width:  primary.Width,
		Height: primary.Height,
		Scale:  cfg.Viewer.Scale,
	})
	if err != nil {
		return err
	}
	defer win.Close()

	for {
		in := win.Poll()
		if in.Quit {
			return nil
		}

		img := primary
		if in.Toggle {
			img = alternate
		}
		if err := win.Present(img.Pixels); err != nil {
			return err
		}

		time.Sleep(40 * time.Millisecond)
	}
}

func loadImage(path string) (*raster.Image, error) {
	rsb, err := formats.ParseRSBFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	logger.Sugar.Infow("loaded texture",
		"path", path,
		"version", rsb.Version,
		"size", fmt.Sprintf("%dx%d", rsb.Width, rsb.Height),
		"layout", rsb.Layout.String(),
		"bits", rsb.BitMask.Bits(),
	)

	img, err := raster.Convert(rsb)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}
