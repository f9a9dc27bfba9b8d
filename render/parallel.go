package render

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/RyanBlaney/sonido-scope/audio"
	"github.com/RyanBlaney/sonido-scope/logging"
)

// columnsPerBlock is the unit of work handed to one worker between
// cancellation checks
const columnsPerBlock = 16

// Parallel renders spectrogram tiles with one engine per worker. Each worker
// takes contiguous blocks of columns; the output matches Spectrogram.Render.
type Parallel struct {
	engines []*Spectrogram
	logger  logging.Logger
}

// NewParallel creates workers engines over buf. workers <= 0 uses NumCPU.
func NewParallel(buf *audio.Buffer, fftSize int, sigma float64, workers int) (*Parallel, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	engines := make([]*Spectrogram, workers)
	for i := range engines {
		engine, err := NewSpectrogram(buf, fftSize, sigma)
		if err != nil {
			return nil, fmt.Errorf("worker %d: %w", i, err)
		}
		engines[i] = engine
	}

	return &Parallel{
		engines: engines,
		logger: logging.WithFields(logging.Fields{
			"component": "parallel_spectrogram",
			"workers":   workers,
		}),
	}, nil
}

// Workers returns the number of engines
func (p *Parallel) Workers() int {
	return len(p.engines)
}

// Render is Spectrogram.Render spread across the workers. It returns ctx's
// error if ctx is done before every block has been rendered.
func (p *Parallel) Render(ctx context.Context, width, height int, pitchMin, pitchMax, timeStart, timeEnd float64) (*Tile, error) {
	f := p.engines[0].newFrame(width, height, pitchMin, pitchMax, timeStart, timeEnd)
	tile := NewTile(width, height)

	blocks := make(chan int)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(blocks)
		for x0 := 0; x0 < width; x0 += columnsPerBlock {
			select {
			case blocks <- x0:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	// workers write disjoint columns of the same tile
	for _, engine := range p.engines {
		g.Go(func() error {
			for x0 := range blocks {
				if err := ctx.Err(); err != nil {
					return err
				}
				engine.renderColumns(&f, tile, x0, min(x0+columnsPerBlock, width))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		p.logger.Debug("Render cancelled", logging.Fields{"error": err.Error()})
		return nil, err
	}
	return tile, nil
}
