package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/spentra/internal/buildinfo"
	"github.com/dmitrijs2005/spentra/internal/client/client"
	"github.com/dmitrijs2005/spentra/internal/client/config"
	"github.com/dmitrijs2005/spentra/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/spentra/internal/client/services"
	"github.com/dmitrijs2005/spentra/internal/client/session"
	"github.com/dmitrijs2005/spentra/internal/logging"
)

// App owns everything the CLI needs for one run. The session state is
// created here once and handed to the backend client (as its token
// source) and to the auth service; nothing else mutates it.
type App struct {
	config      *config.Config
	log         logging.Logger
	db          *sql.DB
	state       *session.State
	authService services.AuthService
	reader      *bufio.Reader
	out         io.Writer
}

// NewApp opens the credential store, restores the previous session and
// connects the services. Logs go to stderr so they do not mix with prompts.
func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()
	logger := logging.New(c.LogLevel, c.LogFormat, os.Stderr)

	db, err := client.InitDatabase(ctx, c.StorePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", c.StorePath, "error", err)
		return nil, err
	}

	state := session.New(credentials.NewStore(db), logger)
	if err := state.Restore(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	apiClient, err := client.NewHTTPClient(c.ServerBaseURL, state,
		client.WithTimeout(c.RequestTimeout),
		client.WithUserAgent("spentra-cli/"+buildinfo.Version),
		client.WithLogger(logger),
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &App{
		config:      c,
		log:         logger,
		db:          db,
		state:       state,
		authService: services.NewAuthService(apiClient, state, logger),
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
	}, nil
}

// Run starts the REPL and releases resources when it returns.
func (a *App) Run(ctx context.Context) {
	defer a.Close(ctx)
	a.Root(ctx)
}

// Close releases the backend client and the database.
func (a *App) Close(ctx context.Context) {
	if err := a.authService.Close(ctx); err != nil {
		a.log.Warn(ctx, "failed to close backend client", "error", err)
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Warn(ctx, "failed to close database", "error", err)
		}
	}
}

func (a *App) isLoggedIn() bool {
	return a.authService.Session().Authenticated()
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
