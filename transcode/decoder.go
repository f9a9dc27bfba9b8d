// Package transcode loads audio files into mono sample buffers, with native
// decoders for the common formats and ffmpeg for everything else.
package transcode

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/RyanBlaney/sonido-scope/audio"
	"github.com/RyanBlaney/sonido-scope/logging"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrNoAudio           = errors.New("no audio samples decoded")
)

// Format names a container the decoder recognizes
type Format string

const (
	FormatWAV    Format = "wav"
	FormatMP3    Format = "mp3"
	FormatOgg    Format = "ogg"
	FormatFLAC   Format = "flac"
	FormatFFmpeg Format = "ffmpeg"
)

// FormatFromPath picks a decoder by file extension. Anything without a
// native decoder is handed to ffmpeg.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".wave":
		return FormatWAV
	case ".mp3":
		return FormatMP3
	case ".ogg", ".oga":
		return FormatOgg
	case ".flac":
		return FormatFLAC
	default:
		return FormatFFmpeg
	}
}

// DecoderConfig holds decoder configuration
type DecoderConfig struct {
	TargetSampleRate int           `json:"target_sample_rate"` // ffmpeg output rate
	FFmpegPath       string        `json:"ffmpeg_path"`        // Path to ffmpeg binary
	Timeout          time.Duration `json:"timeout"`            // Timeout for ffmpeg operations
	MaxDuration      time.Duration `json:"max_duration"`       // 0 keeps everything
	PreferFFmpeg     bool          `json:"prefer_ffmpeg"`      // skip the native decoders
}

// DefaultDecoderConfig returns default decoder configuration
func DefaultDecoderConfig() *DecoderConfig {
	return &DecoderConfig{
		TargetSampleRate: 44100,
		FFmpegPath:       "ffmpeg", // Assume in PATH
		Timeout:          60 * time.Second,
		MaxDuration:      0,
		PreferFFmpeg:     false,
	}
}

// Validate checks the configuration
func (c *DecoderConfig) Validate() error {
	if c.TargetSampleRate <= 0 {
		return fmt.Errorf("target sample rate must be positive: %d", c.TargetSampleRate)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative: %v", c.Timeout)
	}
	if c.MaxDuration < 0 {
		return fmt.Errorf("max duration must not be negative: %v", c.MaxDuration)
	}
	return nil
}

// Decoder loads audio files into mono buffers
type Decoder struct {
	config *DecoderConfig
}

// NewDecoder creates a new audio decoder
func NewDecoder(config *DecoderConfig) *Decoder {
	if config == nil {
		config = DefaultDecoderConfig()
	}
	return &Decoder{config: config}
}

// GetConfig returns decoder configuration information
func (d *Decoder) GetConfig() map[string]any {
	return map[string]any{
		"target_sample_rate": d.config.TargetSampleRate,
		"ffmpeg_path":        d.config.FFmpegPath,
		"timeout":            d.config.Timeout,
		"max_duration":       d.config.MaxDuration,
		"prefer_ffmpeg":      d.config.PreferFFmpeg,
	}
}

// DecodeFile decodes an audio file to a mono buffer. WAV, MP3, Ogg Vorbis and
// FLAC are decoded natively at their own sample rate; other formats, and WAV
// encodings the native reader does not handle, go through ffmpeg.
func (d *Decoder) DecodeFile(ctx context.Context, path string) (*audio.Buffer, error) {
	logger := logging.WithFields(logging.Fields{
		"component": "audio_decoder",
		"function":  "DecodeFile",
		"filename":  path,
	})

	format := FormatFromPath(path)
	if d.config.PreferFFmpeg {
		format = FormatFFmpeg
	}
	logger.Debug("Starting audio file decode", logging.Fields{"format": string(format)})

	if format != FormatFFmpeg {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		buf, err := d.Decode(f, format)
		f.Close()
		if err == nil || !errors.Is(err, ErrUnsupportedFormat) {
			return buf, err
		}
		logger.Warn("Native decoder cannot read file, falling back to ffmpeg", logging.Fields{
			"error": err.Error(),
		})
	}

	return d.decodeFileWithFFmpeg(ctx, path)
}

// Decode reads one of the natively supported formats from r
func (d *Decoder) Decode(r io.Reader, format Format) (*audio.Buffer, error) {
	var (
		p   *pcm
		err error
	)
	switch format {
	case FormatWAV:
		p, err = decodeWAV(asReadSeeker(r))
	case FormatMP3:
		p, err = decodeMP3(r)
	case FormatOgg:
		p, err = decodeOgg(r)
	case FormatFLAC:
		p, err = decodeFLAC(r)
	default:
		return nil, fmt.Errorf("%w: %q has no native decoder", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}

	logging.Debug("Decoded audio", logging.Fields{
		"component":   "audio_decoder",
		"format":      string(format),
		"sample_rate": p.sampleRate,
		"channels":    p.channels,
		"frames":      p.frames(),
	})

	return d.toBuffer(MixToMono(p.samples, p.channels), float64(p.sampleRate))
}

func (d *Decoder) toBuffer(mono []float32, sampleRate float64) (*audio.Buffer, error) {
	if len(mono) == 0 {
		return nil, ErrNoAudio
	}
	if d.config.MaxDuration > 0 {
		limit := int(math.Round(d.config.MaxDuration.Seconds() * sampleRate))
		if limit > 0 && limit < len(mono) {
			mono = mono[:limit]
		}
	}
	return audio.NewBuffer(mono, sampleRate)
}

// decodeFileWithFFmpeg has ffmpeg convert any input to mono float32 PCM
func (d *Decoder) decodeFileWithFFmpeg(ctx context.Context, path string) (*audio.Buffer, error) {
	logger := logging.WithFields(logging.Fields{
		"component": "audio_decoder",
		"function":  "decodeFileWithFFmpeg",
		"filename":  path,
	})

	if d.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.config.Timeout)
		defer cancel()
	}

	args := []string{
		"-v", "error", // Suppress verbose output
		"-i", path,
	}
	if d.config.MaxDuration > 0 {
		args = append(args, "-t", fmt.Sprintf("%.3f", d.config.MaxDuration.Seconds()))
	}
	args = append(args,
		"-map", "0:a:0",
		"-vn",         // No video
		"-f", "f32le", // Output raw float32 little-endian
		"-ac", "1",
		"-ar", strconv.Itoa(d.config.TargetSampleRate),
		"pipe:1",
	)

	cmd := exec.CommandContext(ctx, d.config.FFmpegPath, args...)

	logger.Debug("Running FFmpeg command", logging.Fields{
		"command": fmt.Sprintf("%s %s", d.config.FFmpegPath, strings.Join(args, " ")),
	})

	startTime := time.Now()
	output, err := cmd.Output()
	if err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			logger.Error(err, "FFmpeg decode failed", logging.Fields{
				"stderr": string(exitError.Stderr),
			})
			return nil, fmt.Errorf("ffmpeg decode failed: %w, stderr: %s", err, string(exitError.Stderr))
		}
		return nil, fmt.Errorf("ffmpeg decode failed: %w", err)
	}

	logger.Debug("FFmpeg decode completed", logging.Fields{
		"output_bytes": len(output),
		"decode_time":  time.Since(startTime).Seconds(),
	})

	return d.toBuffer(bytesToFloat32(output), float64(d.config.TargetSampleRate))
}

// bytesToFloat32 converts raw float32 little-endian bytes, dropping any
// trailing partial sample
func bytesToFloat32(data []byte) []float32 {
	data = data[:len(data)-len(data)%4]
	samples := make([]float32, len(data)/4)
	for i := range samples {
		samples[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return samples
}
