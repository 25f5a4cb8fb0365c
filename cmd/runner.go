package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/setlistr/internal/repositories"
	"github.com/desertthunder/setlistr/internal/services"
	"github.com/desertthunder/setlistr/internal/shared"
	"github.com/desertthunder/setlistr/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Services are built from the loaded config on first use unless they were injected through [RunnerOpts].
type Runner struct {
	config      *shared.Config
	logger      *log.Logger
	output      io.Writer
	status      io.Writer
	httpClient  *http.Client
	provider    services.Provider
	source      services.SetlistSource
	auth        tasks.Authenticator
	db          *sql.DB
	openBrowser shared.BrowserOpener
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config        *shared.Config // skips config.toml and .env when set
	Logger        *log.Logger
	Output        io.Writer // command results
	Status        io.Writer // progress lines
	HTTPClient    *http.Client
	Provider      services.Provider
	Source        services.SetlistSource
	Auth          tasks.Authenticator
	DB            *sql.DB // left open when injected
	BrowserOpener shared.BrowserOpener
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Status == nil {
		opts.Status = os.Stderr
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:      opts.Config,
		logger:      opts.Logger,
		output:      opts.Output,
		status:      opts.Status,
		httpClient:  opts.HTTPClient,
		provider:    opts.Provider,
		source:      opts.Source,
		auth:        opts.Auth,
		db:          opts.DB,
		openBrowser: opts.BrowserOpener,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, setlistCommand, playlistCommand, historyCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// configure loads config.toml and .env once, then applies the log level.
//
// The default path may be missing, in which case the embedded defaults apply. A path given with --config must exist.
func (r *Runner) configure(cmd *cli.Command) error {
	if r.config == nil {
		path := cmd.String("config")
		config, err := loadConfig(path)
		if err != nil {
			return err
		}
		if err := config.LoadEnv(); err != nil {
			return err
		}
		r.config = config
	}

	level := r.config.Log.Level
	if cmd.Bool("verbose") {
		level = "debug"
	}
	if err := shared.SetLogLevel(r.logger, level); err != nil {
		r.logger.Warn("unknown log level, keeping default", "level", level)
	}
	return nil
}

func loadConfig(path string) (*shared.Config, error) {
	if path == "" {
		path = defaultConfigPath
	}
	if _, err := os.Stat(path); err != nil {
		if path != defaultConfigPath {
			return nil, fmt.Errorf("%w: %s", shared.ErrMissingConfig, path)
		}
		return shared.DefaultConfig(), nil
	}
	return shared.LoadConfig(path)
}

// spotify returns the provider client. Credentials are validated before any network activity.
func (r *Runner) spotify() (services.Provider, error) {
	if r.provider != nil {
		return r.provider, nil
	}
	if err := r.config.Validate(); err != nil {
		return nil, err
	}

	svc, err := services.NewSpotifyService(r.config.Credentials.Spotify, r.config.Spotify, r.httpClient, r.logger)
	if err != nil {
		return nil, err
	}
	r.provider = svc
	return svc, nil
}

func (r *Runner) setlists() (services.SetlistSource, error) {
	if r.source != nil {
		return r.source, nil
	}

	svc, err := services.NewSetlistService(r.config.Scraper, r.httpClient, r.logger)
	if err != nil {
		return nil, err
	}
	r.source = svc
	return svc, nil
}

func (r *Runner) authenticator(provider services.Provider) (tasks.Authenticator, error) {
	if r.auth != nil {
		return r.auth, nil
	}

	auth, err := tasks.NewAuthorizer(provider, tasks.AuthorizerConfig{
		ListenAddr:  r.config.Server.Addr(),
		RedirectURI: r.config.Credentials.Spotify.RedirectURI,
		Timeout:     r.config.Auth.Timeout.Duration,
	}, r.logger)
	if err != nil {
		return nil, err
	}
	if r.openBrowser != nil {
		auth.SetBrowserOpener(r.openBrowser)
	}
	r.auth = auth
	return auth, nil
}

// database opens the history store. The returned func closes it unless it was injected.
func (r *Runner) database() (*sql.DB, func(), error) {
	if r.db != nil {
		return r.db, func() {}, nil
	}

	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, nil, err
	}
	return db, func() { db.Close() }, nil
}

// recorder returns a history recorder, or nil when the database cannot be opened.
func (r *Runner) recorder() (tasks.Recorder, func()) {
	db, closeDB, err := r.database()
	if err != nil {
		r.logger.Warn("history disabled", "error", err)
		return nil, func() {}
	}
	return repositories.NewHistoryRecorder(repositories.NewSynthesisRepository(db), r.logger), closeDB
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

func (r *Runner) write(data []byte) error {
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	return r.write([]byte(fmt.Sprintf(format, args...)))
}
