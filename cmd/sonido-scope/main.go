// Command sonido-scope renders spectrograms and waveforms of audio files to
// PNG, prints basic file information, and browses files interactively in the
// terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/mdobak/go-xerrors"

	"github.com/RyanBlaney/sonido-scope/config"
	"github.com/RyanBlaney/sonido-scope/logging"
	"github.com/RyanBlaney/sonido-scope/transcode"
)

const usage = `usage: sonido-scope <command> [flags]

commands:
  render   draw a spectrogram or waveform of a file to PNG
  view     browse a file in the terminal
  info     print duration, sample rate and dominant frequency

run "sonido-scope <command> -h" for the flags of a command
`

var errUsage = errors.New("invalid usage")

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) && !errors.Is(err, flag.ErrHelp) {
			logging.Error(xerrors.New(err), "sonido-scope failed")
		}
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) < 1 {
		fmt.Fprint(stderr, usage)
		return errUsage
	}

	switch args[0] {
	case "render":
		return renderCmd(ctx, args[1:], stdout, stderr)
	case "view":
		return viewCmd(ctx, args[1:], stderr)
	case "info":
		return infoCmd(ctx, args[1:], stdout, stderr)
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return nil
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", args[0], usage)
		return errUsage
	}
}

// loadConfig layers the JSON file at path (if any) and SONIDO_* variables
// over the defaults and applies the log level
func loadConfig(path string) (*config.RenderConfig, error) {
	cfg := config.DefaultRenderConfig()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if cfg.Decoder == nil {
		cfg.Decoder = transcode.DefaultDecoderConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	logging.SetLevel(cfg.Level())
	return cfg, nil
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}
