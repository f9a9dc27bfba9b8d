package transcode

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
)

// pcm is interleaved float samples in [-1, 1]
type pcm struct {
	samples    []float32
	channels   int
	sampleRate int
}

func (p *pcm) frames() int {
	return len(p.samples) / p.channels
}

// asReadSeeker buffers r in memory unless it can already seek
func asReadSeeker(r io.Reader) io.ReadSeeker {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return &errReadSeeker{err: err}
	}
	return bytes.NewReader(data)
}

type errReadSeeker struct{ err error }

func (e *errReadSeeker) Read([]byte) (int, error)         { return 0, e.err }
func (e *errReadSeeker) Seek(int64, int) (int64, error) { return 0, e.err }

// integer PCM scale for a given bit depth
func fullScale(bitDepth int) float32 {
	return float32(int64(1) << (bitDepth - 1))
}

func decodeWAV(rs io.ReadSeeker) (*pcm, error) {
	dec := wav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file")
	}
	// 1 is integer PCM; float and compressed WAV go to ffmpeg
	if dec.WavAudioFormat != 1 {
		return nil, fmt.Errorf("%w: WAV audio format %d", ErrUnsupportedFormat, dec.WavAudioFormat)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("reading WAV PCM data: %w", err)
	}

	bitDepth := int(dec.BitDepth)
	channels := int(dec.NumChans)
	if channels < 1 || bitDepth < 8 || bitDepth > 32 {
		return nil, fmt.Errorf("%w: WAV with %d channels at %d bits", ErrUnsupportedFormat, channels, bitDepth)
	}

	scale := fullScale(bitDepth)
	samples := make([]float32, len(buf.Data))
	for i, v := range buf.Data {
		if bitDepth == 8 {
			// 8-bit WAV is unsigned
			v -= 128
		}
		samples[i] = float32(v) / scale
	}
	return &pcm{samples: samples, channels: channels, sampleRate: int(dec.SampleRate)}, nil
}

func decodeMP3(r io.Reader) (*pcm, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("decoding MP3: %w", err)
	}

	// go-mp3 always emits 16-bit little-endian stereo
	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("decoding MP3: %w", err)
	}
	samples := make([]float32, len(raw)/2)
	for i := range samples {
		samples[i] = float32(int16(binary.LittleEndian.Uint16(raw[i*2:]))) / 32768
	}
	samples = samples[:len(samples)-len(samples)%2]
	return &pcm{samples: samples, channels: 2, sampleRate: dec.SampleRate()}, nil
}

func decodeOgg(r io.Reader) (*pcm, error) {
	samples, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decoding OGG: %w", err)
	}
	if format.Channels < 1 {
		return nil, fmt.Errorf("decoding OGG: %d channels", format.Channels)
	}
	return &pcm{samples: samples, channels: format.Channels, sampleRate: format.SampleRate}, nil
}

func decodeFLAC(r io.Reader) (*pcm, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("decoding FLAC: %w", err)
	}
	defer stream.Close()

	info := stream.Info
	channels := int(info.NChannels)
	scale := fullScale(int(info.BitsPerSample))
	samples := make([]float32, 0, int(info.NSamples)*channels)

	for {
		frame, err := stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding FLAC frame: %w", err)
		}

		n := int(frame.Subframes[0].NSamples)
		for i := 0; i < n; i++ {
			for ch := 0; ch < channels; ch++ {
				samples = append(samples, float32(frame.Subframes[ch].Samples[i])/scale)
			}
		}
	}
	return &pcm{samples: samples, channels: channels, sampleRate: int(info.SampleRate)}, nil
}
