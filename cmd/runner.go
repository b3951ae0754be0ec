package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/waxlog/internal/catalog"
	"github.com/desertthunder/waxlog/internal/collection"
	"github.com/desertthunder/waxlog/internal/docstore"
	"github.com/desertthunder/waxlog/internal/identity"
	"github.com/desertthunder/waxlog/internal/match"
	"github.com/desertthunder/waxlog/internal/session"
	"github.com/desertthunder/waxlog/internal/shared"
	"github.com/desertthunder/waxlog/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config       *shared.Config
	identity     *identity.Client
	catalog      *catalog.Client
	docs         docstore.Store
	store        *collection.Store
	session      *session.Manager
	orchestrator *tasks.Orchestrator
	httpClient   *http.Client
	logger       *log.Logger
	output       io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Identity   *identity.Client
	Catalog    *catalog.Client
	Docs       docstore.Store
	HTTPClient *http.Client
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
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Identity == nil {
		opts.Identity = identity.NewClient(opts.Config.Identity.Endpoint, opts.Config.Identity.Project, opts.HTTPClient, opts.Logger)
	}
	if opts.Catalog == nil {
		opts.Catalog = catalog.NewClient(opts.Config.Catalog.BaseURL, opts.Config.Catalog.APIKey, opts.Config.Catalog.RatePerSec, opts.HTTPClient, opts.Logger)
	}
	if opts.Docs == nil && opts.Config.Docstore.Local {
		if db, err := shared.NewDatabase(opts.Config.Database.Path); err != nil {
			opts.Logger.Warnf("failed to open local document store, falling back to the hosted endpoint: %v", err)
		} else {
			shared.ConfigureDatabase(db, opts.Config.Database.MaxOpenConns, opts.Config.Database.MaxIdleConns)
			opts.Docs = docstore.NewLocalStore(db)
		}
	}
	if opts.Docs == nil {
		opts.Docs = docstore.NewHTTPStore(opts.Config.Docstore.Endpoint, opts.Config.Docstore.Project, opts.Config.Docstore.DatabaseID, opts.HTTPClient)
	}

	matchOpts := match.Options{
		StripIndexSuffix: opts.Config.Matching.StripIndexSuffix,
		MinScore:         opts.Config.Matching.MinScore,
	}
	store := collection.NewStore(opts.Docs, opts.Config.Docstore.CollectionID, collection.NewCache(), matchOpts, opts.Config.Docstore.PageSize, opts.Logger)

	return &Runner{
		config:       opts.Config,
		identity:     opts.Identity,
		catalog:      opts.Catalog,
		docs:         opts.Docs,
		store:        store,
		session:      session.NewManager(opts.Identity, store, opts.Logger),
		orchestrator: tasks.NewOrchestrator(store, opts.Logger),
		httpClient:   opts.HTTPClient,
		logger:       opts.Logger,
		output:       opts.Output,
	}
}

// SetLogger swaps the runner's logger, used when the TUI owns the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, accountCommand, searchCommand, albumCommand, artistCommand, tagCommand, listCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// sessionFilePath resolves the path the session secret is persisted to.
func (r *Runner) sessionFilePath() string {
	if r.config.Identity.SessionFile != "" {
		return r.config.Identity.SessionFile
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".waxlog_session"
	}
	return filepath.Join(home, ".waxlog", "session")
}

// restoreSession attaches a previously saved session secret, when one exists.
func (r *Runner) restoreSession() {
	data, err := os.ReadFile(r.sessionFilePath())
	if err != nil {
		return
	}
	if secret := strings.TrimSpace(string(data)); secret != "" {
		r.identity.SetSession(secret)
	}
}

// saveSession persists the current session secret for later invocations.
func (r *Runner) saveSession() error {
	path := r.sessionFilePath()
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create session directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(r.identity.SessionSecret()), 0600); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *Runner) clearSession() {
	if err := os.Remove(r.sessionFilePath()); err != nil && !os.IsNotExist(err) {
		r.logger.Warnf("failed to remove session file: %v", err)
	}
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
