// Package config holds the user-tunable render settings shared by the CLI and
// the terminal viewer.
package config

import (
	"encoding/json"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/RyanBlaney/sonido-scope/colormap"
	"github.com/RyanBlaney/sonido-scope/logging"
	"github.com/RyanBlaney/sonido-scope/render"
	"github.com/RyanBlaney/sonido-scope/transcode"
)

// EnvPrefix prefixes every environment variable ApplyEnv reads
const EnvPrefix = "SONIDO_"

// RenderConfig holds spectrogram and waveform settings
type RenderConfig struct {
	FFTLgWindowSize int     `json:"fft_lg_window_size"` // FFT size is 2^this
	GaussianSigma   float64 `json:"gaussian_sigma"`     // window width relative to half the FFT size

	DBMin float32 `json:"db_min"`
	DBMax float32 `json:"db_max"`

	// initial view; both within [0, render.PitchCeiling]
	PitchMin float64 `json:"pitch_min"`
	PitchMax float64 `json:"pitch_max"`

	Colormap        string     `json:"colormap"`
	MultiResolution bool       `json:"multi_resolution"`
	Workers         int        `json:"workers"` // 0 = one per CPU
	AutoLevels      bool       `json:"auto_levels"`
	LevelQuantiles  [2]float64 `json:"level_quantiles"`
	WaveformColor   string     `json:"waveform_color"`
	LogLevel        string     `json:"log_level"`

	Decoder *transcode.DecoderConfig `json:"decoder"`
}

// DefaultRenderConfig returns default render configuration
func DefaultRenderConfig() *RenderConfig {
	return &RenderConfig{
		FFTLgWindowSize: 14,
		GaussianSigma:   0.2,
		DBMin:           -80,
		DBMax:           -20,
		PitchMin:        render.DefaultPitchMin,
		PitchMax:        render.DefaultPitchMax,
		Colormap:        colormap.Default().Name(),
		MultiResolution: true,
		Workers:         0,
		AutoLevels:      false,
		LevelQuantiles:  [2]float64{0.05, 0.995},
		WaveformColor:   "#d0d0d0",
		LogLevel:        "info",
		Decoder:         transcode.DefaultDecoderConfig(),
	}
}

// Load reads a JSON file over the defaults. Keys missing from the file keep
// their default values.
func Load(path string) (*RenderConfig, error) {
	cfg := DefaultRenderConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.Decoder == nil {
		cfg.Decoder = transcode.DefaultDecoderConfig()
	}
	return cfg, nil
}

// ApplyEnv overrides settings from SONIDO_* environment variables
func (c *RenderConfig) ApplyEnv() error {
	return c.applyEnv(os.LookupEnv)
}

func (c *RenderConfig) applyEnv(lookup func(string) (string, bool)) error {
	var errs []string
	get := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		return strings.TrimSpace(v), ok && strings.TrimSpace(v) != ""
	}
	parseInt := func(name string, dst *int) {
		if v, ok := get(name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s%s: %v", EnvPrefix, name, err))
				return
			}
			*dst = n
		}
	}
	parseFloat := func(name string, dst *float64) {
		if v, ok := get(name); ok {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s%s: %v", EnvPrefix, name, err))
				return
			}
			*dst = f
		}
	}
	parseBool := func(name string, dst *bool) {
		if v, ok := get(name); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s%s: %v", EnvPrefix, name, err))
				return
			}
			*dst = b
		}
	}

	dbMin, dbMax := float64(c.DBMin), float64(c.DBMax)

	parseInt("FFT_LG", &c.FFTLgWindowSize)
	parseFloat("SIGMA", &c.GaussianSigma)
	parseFloat("DB_MIN", &dbMin)
	parseFloat("DB_MAX", &dbMax)
	parseFloat("PITCH_MIN", &c.PitchMin)
	parseFloat("PITCH_MAX", &c.PitchMax)
	parseBool("MULTI_RESOLUTION", &c.MultiResolution)
	parseInt("WORKERS", &c.Workers)
	parseBool("AUTO_LEVELS", &c.AutoLevels)
	if v, ok := get("COLORMAP"); ok {
		c.Colormap = v
	}
	if v, ok := get("WAVEFORM_COLOR"); ok {
		c.WaveformColor = v
	}
	if v, ok := get("LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if c.Decoder != nil {
		if v, ok := get("FFMPEG_PATH"); ok {
			c.Decoder.FFmpegPath = v
		}
		parseInt("TARGET_SAMPLE_RATE", &c.Decoder.TargetSampleRate)
	}

	c.DBMin, c.DBMax = float32(dbMin), float32(dbMax)

	if len(errs) > 0 {
		return fmt.Errorf("invalid environment: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Validate checks that every setting is usable
func (c *RenderConfig) Validate() error {
	if c.FFTLgWindowSize < 1 || c.FFTLgWindowSize > 24 {
		return fmt.Errorf("fft_lg_window_size must be between 1 and 24: %d", c.FFTLgWindowSize)
	}
	if !(c.GaussianSigma > 0) {
		return fmt.Errorf("gaussian_sigma must be positive: %v", c.GaussianSigma)
	}
	if !(c.DBMax > c.DBMin) {
		return fmt.Errorf("db_max (%v) must be above db_min (%v)", c.DBMax, c.DBMin)
	}
	if c.PitchMin < 0 || c.PitchMax > render.PitchCeiling || !(c.PitchMax > c.PitchMin) {
		return fmt.Errorf("pitch range [%v, %v] must be increasing within [0, %v]", c.PitchMin, c.PitchMax, render.PitchCeiling)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative: %d", c.Workers)
	}
	if q := c.LevelQuantiles; q[0] < 0 || q[1] > 1 || !(q[1] > q[0]) {
		return fmt.Errorf("level_quantiles must be increasing within [0, 1]: %v", q)
	}
	if _, err := c.Gradient(); err != nil {
		return err
	}
	if _, err := c.WaveformStyle(); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Decoder != nil {
		if err := c.Decoder.Validate(); err != nil {
			return fmt.Errorf("decoder: %w", err)
		}
	}
	return nil
}

// FFTSize returns the spectrogram window length
func (c *RenderConfig) FFTSize() int {
	return 1 << c.FFTLgWindowSize
}

// Gradient resolves the configured colormap
func (c *RenderConfig) Gradient() (*colormap.Gradient, error) {
	return colormap.ByName(c.Colormap)
}

// WaveformStyle resolves the configured waveform color
func (c *RenderConfig) WaveformStyle() (render.WaveformStyle, error) {
	fg, err := colorful.Hex(c.WaveformColor)
	if err != nil {
		return render.WaveformStyle{}, fmt.Errorf("waveform_color: %w", err)
	}
	r, g, b := fg.RGB255()
	return render.WaveformStyle{Foreground: color.RGBA{R: r, G: g, B: b, A: 0xff}}, nil
}

// Level resolves the configured log level, falling back to info
func (c *RenderConfig) Level() logging.Level {
	level, _ := logging.ParseLevel(c.LogLevel)
	return level
}
