// Command fourierfilter splits an image into low- and high-frequency parts
// with a circular mask in the 2D Fourier domain.
//
// Usage:
//
//	fourierfilter [flags] [image]
//
// Without an image it filters a built-in reference chart. It writes six PNG
// panels (original, log-magnitude spectrum, both masks and both filtered
// images) and prints a statistics report.
//
// Examples:
//
//	fourierfilter photo.jpg
//	fourierfilter -radius 10 -out panels photo.png
//	fourierfilter -config fourierfilter.yaml
//	fourierfilter -serve :8080
//	fourierfilter -explain
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"text/tabwriter"

	"github.com/cwbudde/algo-spectral2d/dsp/filter/spectral"
	"github.com/cwbudde/algo-spectral2d/dsp/grid"
	"github.com/cwbudde/algo-spectral2d/dsp/spectrum"
	"github.com/cwbudde/algo-spectral2d/internal/config"
	"github.com/cwbudde/algo-spectral2d/internal/imageio"
	"github.com/cwbudde/algo-spectral2d/internal/logger"
	"github.com/cwbudde/algo-spectral2d/internal/server"
	"github.com/cwbudde/algo-spectral2d/internal/webdemo"
	frequencystats "github.com/cwbudde/algo-spectral2d/stats/frequency"
	spatialstats "github.com/cwbudde/algo-spectral2d/stats/spatial"
)

const component = "cli"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	radius     int
	out        string
	prefix     string
	maxSize    int
	configPath string
	logLevel   string
	jsonLog    bool
	serve      string
	explain    bool
	noClip     bool
	window     string
	reference  int
}

func parseFlags(args []string, stderr io.Writer) (*options, *flag.FlagSet, error) {
	var o options
	fs := flag.NewFlagSet("fourierfilter", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.IntVar(&o.radius, "radius", config.DefaultRadius, fmt.Sprintf("mask radius in frequency cells (%d..%d)", config.MinRadius, config.MaxRadius))
	fs.StringVar(&o.out, "out", ".", "directory for the PNG panels")
	fs.StringVar(&o.prefix, "prefix", "", "file name prefix for the PNG panels")
	fs.IntVar(&o.maxSize, "max-size", 0, "downscale inputs whose longer side exceeds this many pixels (0 = off)")
	fs.StringVar(&o.configPath, "config", "", "YAML configuration file")
	fs.StringVar(&o.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	fs.BoolVar(&o.jsonLog, "json", false, "log JSON lines instead of console output")
	fs.StringVar(&o.serve, "serve", "", "run the live explorer on this address instead of writing files")
	fs.BoolVar(&o.explain, "explain", false, "print the low-pass/high-pass explanation and exit")
	fs.BoolVar(&o.noClip, "no-clip", false, "keep filtered values outside [0,1]")
	fs.StringVar(&o.window, "window", "none", "apodization window for the spectrum panel (none, hann, hamming, blackman, tukey, kaiser)")
	fs.IntVar(&o.reference, "reference", 256, "edge length of the built-in reference chart")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: fourierfilter [flags] [image]\n\n")
		fmt.Fprintf(stderr, "Splits an image into low- and high-frequency parts with a circular\n")
		fmt.Fprintf(stderr, "mask in the 2D Fourier domain. Without an image the built-in\n")
		fmt.Fprintf(stderr, "reference chart is used.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  fourierfilter photo.jpg\n")
		fmt.Fprintf(stderr, "  fourierfilter -radius 10 -out panels photo.png\n")
		fmt.Fprintf(stderr, "  fourierfilter -serve :8080\n")
		fmt.Fprintf(stderr, "  fourierfilter -explain\n")
	}
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	if fs.NArg() > 1 {
		return nil, nil, fmt.Errorf("expected at most one image, got %d", fs.NArg())
	}
	return &o, fs, nil
}

// loadConfig merges defaults, the optional YAML file and explicitly set
// flags, in that order.
func loadConfig(o *options, fs *flag.FlagSet) (*config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return nil, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "radius":
			cfg.Filter.Radius = o.radius
		case "out":
			cfg.Output.Dir = o.out
		case "prefix":
			cfg.Output.Prefix = o.prefix
		case "max-size":
			cfg.Image.MaxSize = o.maxSize
		case "log-level":
			cfg.Logging.Level = o.logLevel
		case "json":
			cfg.Logging.JSON = o.jsonLog
		case "serve":
			cfg.Server.Listen = o.serve
		case "no-clip":
			clip := !o.noClip
			cfg.Filter.Clip = &clip
		case "window":
			cfg.Filter.DisplayWindow = o.window
		case "reference":
			cfg.Image.ReferenceSize = o.reference
		}
	})
	if fs.NArg() == 1 {
		cfg.Image.Input = fs.Arg(0)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, stderr io.Writer) (logger.Logger, error) {
	level, err := logger.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	if cfg.Logging.JSON {
		return logger.NewZerolog(stderr, level), nil
	}
	return logger.NewConsoleLogger(stderr, level), nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	o, fs, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if o.explain {
		_, err := fmt.Fprintln(stdout, webdemo.Explanation)
		return err
	}

	cfg, err := loadConfig(o, fs)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg, stderr)
	if err != nil {
		return err
	}

	img, source, err := loadImage(cfg)
	if err != nil {
		return err
	}
	log.Info(component, "image loaded", logger.Fields{"source": source, "rows": img.Rows, "cols": img.Cols})

	serving := false
	fs.Visit(func(f *flag.Flag) { serving = serving || f.Name == "serve" })
	if serving {
		return server.New(cfg, log, img).Run(ctx, cfg.Server.Listen)
	}

	res, err := spectral.Filter(img, cfg.Filter.Radius, cfg.FilterOptions()...)
	if err != nil {
		return err
	}

	files, err := writePanels(cfg.Output, img, res)
	if err != nil {
		return err
	}
	for _, f := range files {
		log.Debug(component, "panel written", logger.Fields{"path": f})
	}
	log.Info(component, "panels written", logger.Fields{"dir": cfg.Output.Dir, "count": len(files)})

	return printReport(stdout, img, res, files)
}

func loadImage(cfg *config.Config) (grid.Grid, string, error) {
	if cfg.Image.Input == "" {
		return imageio.Reference(cfg.Image.ReferenceSize), "reference", nil
	}
	img, err := imageio.DecodeFile(cfg.Image.Input, imageio.WithMaxSize(cfg.Image.MaxSize))
	if err != nil {
		return grid.Grid{}, "", err
	}
	return img, cfg.Image.Input, nil
}

func writePanels(out config.OutputConfig, img grid.Grid, res spectral.Result) ([]string, error) {
	if err := os.MkdirAll(out.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	files := make([]string, 0, len(webdemo.PanelNames))
	for _, name := range webdemo.PanelNames {
		g, scale, err := webdemo.PanelGrid(name, img, res)
		if err != nil {
			return nil, err
		}
		path := filepath.Join(out.Dir, out.Prefix+name+".png")
		if err := imageio.WritePNG(path, g, scale); err != nil {
			return nil, err
		}
		files = append(files, path)
	}
	return files, nil
}

func printReport(w io.Writer, img grid.Grid, res spectral.Result, files []string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Panel\tFile\tMean\tStdDev\tMin\tMax\tContrast\n")
	fmt.Fprintf(tw, "-----\t----\t----\t------\t---\t---\t--------\n")
	for i, name := range webdemo.PanelNames {
		g, _, err := webdemo.PanelGrid(name, img, res)
		if err != nil {
			return err
		}
		s := spatialstats.Calculate(g)
		fmt.Fprintf(tw, "%s\t%s\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\n",
			webdemo.PanelTitles[name], filepath.Base(files[i]),
			s.Mean, s.StdDev, s.Min, s.Max, s.Contrast)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	power := spectrum.PowerGrid(res.Spectrum)
	fs := frequencystats.Calculate(power)
	lowEnergy, err := frequencystats.EnergyFraction(power, res.LowMask)
	if err != nil {
		return err
	}
	psnr, err := spatialstats.PSNR(img, res.LowPass, 1)
	if err != nil {
		return err
	}

	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "\nImage\t%dx%d\n", img.Cols, img.Rows)
	fmt.Fprintf(tw, "Radius\t%d\n", res.Radius)
	fmt.Fprintf(tw, "Low-pass energy\t%.2f %%\n", 100*lowEnergy)
	fmt.Fprintf(tw, "DC energy\t%.2f %%\n", 100*fs.DCFraction)
	fmt.Fprintf(tw, "Spectral centroid\t%.2f cells\n", fs.Centroid)
	fmt.Fprintf(tw, "Spectral flatness\t%.4f\n", fs.Flatness)
	fmt.Fprintf(tw, "Low-pass PSNR\t%.2f dB\n", psnr)
	fmt.Fprintf(tw, "Clipped samples\tlow %d, high %d\n", res.LowClipped, res.HighClipped)
	fmt.Fprintf(tw, "Suggested radius\t%d (%.0f %% energy)\n",
		webdemo.ClampRadius(fs.Rolloff), 100*frequencystats.DefaultRolloffPercent)
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
