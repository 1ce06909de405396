package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/critiq-dev/critiq-cli/internal/api"
	"github.com/critiq-dev/critiq-cli/internal/config"
	"github.com/critiq-dev/critiq-cli/internal/credentials"
	"github.com/critiq-dev/critiq-cli/internal/logger"
	"github.com/critiq-dev/critiq-cli/internal/session"
	"github.com/critiq-dev/critiq-cli/internal/workflow"
)

// app wires the components of one command invocation together. The session
// manager is the only writer of the credential store; everything else gets
// a handle, never a global.
type app struct {
	cfg     config.Config
	store   *credentials.Store
	client  *api.Client
	session *session.Manager
	flow    *workflow.Orchestrator
}

func newApp() (*app, error) {
	cfg, err := config.Load(buildOverrides())
	if err != nil {
		return nil, err
	}
	logger.SetupDefault(cfg.Verbose)

	store, err := credentials.NewStore("")
	if err != nil {
		return nil, err
	}
	client := api.NewClient(cfg.BaseURL, store, time.Duration(cfg.TimeoutSeconds)*time.Second)

	return &app{
		cfg:     cfg,
		store:   store,
		client:  client,
		session: session.NewManager(client, store),
		flow:    workflow.NewOrchestrator(client),
	}, nil
}

// establish rehydrates the session. The manager starts in the unknown state;
// after this call it is either authenticated or unauthenticated.
func (a *app) establish(ctx context.Context) {
	a.session.Load(ctx)
}

// requireSession rehydrates and gates on an authenticated session. On
// failure it prints the hint and sets the auth exit code.
func (a *app) requireSession(ctx context.Context) (session.Session, bool) {
	a.establish(ctx)
	sess, ok := a.session.Current()
	if !ok {
		fmt.Fprintln(os.Stderr, "Not logged in. Run: critiq login")
		exitCode = ExitAuthError
		return session.Session{}, false
	}
	return sess, true
}

// fail prints the user-facing message for err and sets the exit code.
func fail(err error) {
	if api.IsUnauthorized(err) {
		fmt.Fprintf(os.Stderr, "Error: %s\n", api.UserMessage(err))
		exitCode = ExitAuthError
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %s\n", api.UserMessage(err))
	exitCode = ExitRuntimeError
}
