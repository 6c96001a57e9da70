package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/thornwyck/focusfm/internal/repositories"
	"github.com/thornwyck/focusfm/internal/services"
	"github.com/thornwyck/focusfm/internal/shared"
	"github.com/thornwyck/focusfm/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	spotify    services.Service
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Spotify    services.Service
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		spotify:    opts.Spotify,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// SetLogger swaps the runner's logger, used by the TUI to redirect output to a file.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, serveCommand, authCommand, moodsCommand, playlistsCommand, generateCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// loadConfig resolves the effective configuration for a command invocation.
// A config file at the given path wins over the runner's startup config.
func (r *Runner) loadConfig(path string) *shared.Config {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if config, err := shared.LoadConfig(path); err == nil {
				return config
			} else {
				r.logger.Warn("failed to load config, using startup config", "path", path, "error", err)
			}
		}
	}
	if r.config != nil {
		return r.config
	}
	return shared.DefaultConfig()
}

// connect opens the configured database and wires the playlist engine on top
// of it. Callers own the returned handle and must close it when done.
func (r *Runner) connect(configPath string) (*sql.DB, tasks.Engine, *shared.Config, error) {
	config := r.loadConfig(configPath)

	if r.spotify == nil {
		return nil, nil, nil, fmt.Errorf("%w: Spotify credentials are not configured, set them in config.toml", shared.ErrServiceUnavailable)
	}

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	engine := tasks.NewPlaylistEngine(
		r.spotify,
		repositories.NewUserRepository(db),
		repositories.NewMoodRepository(db),
		repositories.NewTrackRepository(db),
		repositories.NewSpotifyPlaylistRepository(db),
	)

	return db, engine, config, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
