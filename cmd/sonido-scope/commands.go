package main

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"time"

	"github.com/RyanBlaney/sonido-scope/algorithms/spectral"
	"github.com/RyanBlaney/sonido-scope/audio"
	"github.com/RyanBlaney/sonido-scope/config"
	"github.com/RyanBlaney/sonido-scope/logging"
	"github.com/RyanBlaney/sonido-scope/render"
	"github.com/RyanBlaney/sonido-scope/transcode"
	"github.com/RyanBlaney/sonido-scope/viewer"
)

// samples analysed by info for the dominant frequency
const infoAnalysisSamples = 1 << 18

func renderCmd(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("render", stderr)
	in := fs.String("in", "", "input audio file")
	out := fs.String("out", "out.png", "output PNG file")
	mode := fs.String("mode", "spectrogram", "spectrogram or waveform")
	width := fs.Int("width", 1024, "image width in pixels")
	height := fs.Int("height", 512, "image height in pixels")
	t0 := fs.Float64("t0", 0, "start time in seconds")
	t1 := fs.Float64("t1", -1, "end time in seconds, negative for the end of the file")
	pmin := fs.Float64("pmin", -1, "lowest pitch shown, negative for the configured value")
	pmax := fs.Float64("pmax", -1, "highest pitch shown, negative for the configured value")
	cfgPath := fs.String("config", "", "JSON config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		fmt.Fprintln(stderr, "render: -in is required")
		fs.Usage()
		return errUsage
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}
	buf, err := transcode.NewDecoder(cfg.Decoder).DecodeFile(ctx, *in)
	if err != nil {
		return err
	}

	v := render.DefaultViewport(buf.Seconds(), *width, *height)
	v.PitchMin, v.PitchMax = cfg.PitchMin, cfg.PitchMax
	v.TimeStart = *t0
	if *t1 >= 0 {
		v.TimeEnd = *t1
	}
	if *pmin >= 0 {
		v.PitchMin = *pmin
	}
	if *pmax >= 0 {
		v.PitchMax = *pmax
	}
	if err := v.Validate(); err != nil {
		return err
	}

	logger := logging.WithFields(logging.Fields{
		"component": "render_cmd",
		"mode":      *mode,
		"input":     *in,
	})
	start := time.Now()

	var img image.Image
	switch *mode {
	case "spectrogram":
		img, err = renderSpectrogram(ctx, buf, cfg, v)
	case "waveform":
		w := render.NewWaveform(buf)
		style, styleErr := cfg.WaveformStyle()
		if styleErr != nil {
			return styleErr
		}
		w.SetStyle(style)
		img = w.Render(v.TimeStart, v.TimeEnd, v.Width, v.Height)
	default:
		return fmt.Errorf("%w: unknown mode %q", errUsage, *mode)
	}
	if err != nil {
		return err
	}

	if err := render.SavePNG(*out, img); err != nil {
		return err
	}
	logger.Info("Rendered image", logging.Fields{
		"output":   *out,
		"width":    v.Width,
		"height":   v.Height,
		"duration": time.Since(start).String(),
	})
	fmt.Fprintln(stdout, *out)
	return nil
}

func renderSpectrogram(ctx context.Context, buf *audio.Buffer, cfg *config.RenderConfig, v render.Viewport) (image.Image, error) {
	gradient, err := cfg.Gradient()
	if err != nil {
		return nil, err
	}

	var tile *render.Tile
	if cfg.MultiResolution {
		p, err := audio.Preprocess(buf)
		if err != nil {
			return nil, err
		}
		multi, err := render.NewMultiResolution(p, cfg.FFTSize(), cfg.GaussianSigma)
		if err != nil {
			return nil, err
		}
		tile = multi.Render(v.Width, v.Height, v.PitchMin, v.PitchMax, v.TimeStart, v.TimeEnd)
		logging.Debug("Selected resolution", logging.Fields{
			"component":  "render_cmd",
			"resolution": multi.LastResolution().String(),
		})
	} else {
		parallel, err := render.NewParallel(buf, cfg.FFTSize(), cfg.GaussianSigma, cfg.Workers)
		if err != nil {
			return nil, err
		}
		if tile, err = parallel.Render(ctx, v.Width, v.Height, v.PitchMin, v.PitchMax, v.TimeStart, v.TimeEnd); err != nil {
			return nil, err
		}
	}

	dbMin, dbMax := cfg.DBMin, cfg.DBMax
	if cfg.AutoLevels {
		if lo, hi, ok := tile.Levels(cfg.LevelQuantiles[0], cfg.LevelQuantiles[1]); ok {
			dbMin, dbMax = lo, hi
		}
	}
	return tile.RenderWith(gradient, dbMin, dbMax), nil
}

func viewCmd(ctx context.Context, args []string, stderr io.Writer) error {
	fs := newFlagSet("view", stderr)
	in := fs.String("in", "", "input audio file")
	cfgPath := fs.String("config", "", "JSON config file")
	logPath := fs.String("log", "", "append log output to this file while the viewer runs")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" && fs.NArg() > 0 {
		*in = fs.Arg(0)
	}
	if *in == "" {
		fmt.Fprintln(stderr, "view: -in is required")
		fs.Usage()
		return errUsage
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}

	// the viewer owns the terminal, so logs go to a file or nowhere
	previous := logging.GetGlobalLogger()
	defer logging.SetGlobalLogger(previous)
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		logger := logging.NewWriterLogger(f, false)
		logger.SetLevel(cfg.Level())
		logging.SetGlobalLogger(logger)
	} else {
		logging.SetGlobalLogger(nil)
	}

	return viewer.RunFile(ctx, *in, transcode.NewDecoder(cfg.Decoder), cfg)
}

func infoCmd(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("info", stderr)
	cfgPath := fs.String("config", "", "JSON config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(stderr, "info: expected one or more files")
		return errUsage
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}
	dec := transcode.NewDecoder(cfg.Decoder)
	fft := spectral.NewFFT()

	for _, path := range fs.Args() {
		buf, err := dec.DecodeFile(ctx, path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		samples := buf.Samples()
		if len(samples) > infoAnalysisSamples {
			samples = samples[:infoAnalysisSamples]
		}
		freq := fft.DominantFrequency(samples, buf.SampleRate())

		fmt.Fprintf(stdout, "%s\n", path)
		fmt.Fprintf(stdout, "  duration     %s\n", buf.Duration().Round(time.Millisecond))
		fmt.Fprintf(stdout, "  sample rate  %.0f Hz\n", buf.SampleRate())
		fmt.Fprintf(stdout, "  samples      %d\n", buf.Len())
		if freq > 0 {
			fmt.Fprintf(stdout, "  dominant     %.1f Hz (pitch %.1f)\n", freq, spectral.FreqToPitch(freq))
		} else {
			fmt.Fprintf(stdout, "  dominant     none\n")
		}
	}
	return nil
}
